package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"jssema/internal/diag"
	"jssema/internal/semantic"
	"jssema/internal/source"
)

// Bump when Payload changes shape.
const cacheSchemaVersion uint16 = 2

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache stores per-file results keyed by content and configuration.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNote is a diag.Note with the file implied.
type CachedNote struct {
	Start, End uint32
	Msg        string
}

// CachedEdit is a diag.FixEdit with the file implied.
type CachedEdit struct {
	Start, End uint32
	NewText    string
	OldText    string
}

// CachedFix is a diag.Fix with the file implied.
type CachedFix struct {
	Title string
	Edits []CachedEdit
}

// CachedDiagnostic is a diag.Diagnostic with the file implied.
type CachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Notes      []CachedNote
	Fixes      []CachedFix
}

// Payload is the cached outcome of analysing one file.
type Payload struct {
	Schema      uint16
	Path        string
	Module      bool
	Diagnostics []CachedDiagnostic
	Output      string
	Stats       semantic.Stats
}

// OpenDiskCache creates dir when needed.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put writes payload atomically through a temp file and rename.
func (c *DiskCache) Put(key Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload stored under key. A missing entry or one written
// by another schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}

// combineDigest is H(parts[0] || parts[1] ...).
func combineDigest(parts ...[]byte) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// fingerprint hashes v with sorted map keys so equal settings always give
// equal digests.
func fingerprint(v any) (Digest, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return Digest{}, err
	}
	return combineDigest(buf.Bytes()), nil
}

func toCached(items []diag.Diagnostic) []CachedDiagnostic {
	out := make([]CachedDiagnostic, len(items))
	for i, d := range items {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			cf := CachedFix{Title: f.Title}
			for _, e := range f.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText, OldText: e.OldText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		out[i] = cd
	}
	return out
}

// fromCached rebuilds diagnostics for file, whose id may differ from the
// run that filled the cache.
func fromCached(items []CachedDiagnostic, file source.FileID, limit int) *diag.Bag {
	bag := diag.NewBag(limit)
	for _, cd := range items {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		for _, f := range cd.Fixes {
			edits := make([]diag.FixEdit, len(f.Edits))
			for j, e := range f.Edits {
				edits[j] = diag.FixEdit{Span: source.Span{File: file, Start: e.Start, End: e.End}, NewText: e.NewText, OldText: e.OldText}
			}
			d = d.WithFix(f.Title, edits...)
		}
		bag.Add(d)
	}
	return bag
}
