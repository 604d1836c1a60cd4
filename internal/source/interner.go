package source

import (
	"slices"
	"sync"
)

// StringID is an interned string handle. NoStringID maps to "".
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier names. It is safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, inserting a private copy if it is new.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	cpy := string([]byte(s))
	id = StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Find returns the ID of s without inserting it.
func (i *Interner) Find(s string) (StringID, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	id, ok := i.index[s]
	return id, ok
}

func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

func (i *Interner) Has(id StringID) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(id) < len(i.byID)
}

// Len counts NoStringID as well, so it is never below 1.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
