package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(limit int) *Bag {
	capped, err := safecast.Conv[uint16](limit)
	if err != nil || limit <= 0 {
		capped = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(capped), 64)),
		max:   capped,
	}
}

// Add appends d unless the limit has been reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice; do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		if v, err := safecast.Conv[uint16](newTotal); err == nil {
			b.max = v
		} else {
			b.max = ^uint16(0)
		}
	}
	b.items = append(b.items, other.items...)
	if len(b.items) > int(b.max) {
		b.items = b.items[:b.max]
	}
}

// Sort orders by file, start, end, severity (desc) and code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops repeats of the same code at the same primary span.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}

// Count returns the number of diagnostics at severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}
