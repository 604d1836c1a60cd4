// Package fix applies the edits attached to diagnostics to the files on
// disk.
package fix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"jssema/internal/diag"
	"jssema/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes the new contents without writing them.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to
// opts, and applies them.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(fs, diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// FixID is the identifier --id selects: code, file, position of the
// diagnostic and the index of the fix on it.
func FixID(fs *source.FileSet, d *diag.Diagnostic, idx int) string {
	f := fs.Get(d.Primary.File)
	if f == nil {
		return fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.Start, idx)
	}
	start, _ := fs.Resolve(d.Primary)
	return fmt.Sprintf("%s-%s-%d-%d-%d", d.Code.ID(), filepath.Base(f.Path), start.Line, start.Col, idx)
}

func gatherCandidates(fs *source.FileSet, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var cands []candidate
	var skips []SkippedFix
	seen := make(map[string]bool)
	order := 0
	for i := range diagnostics {
		d := &diagnostics[i]
		for idx, f := range d.Fixes {
			id := FixID(fs, d, idx)
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if seen[id] {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[id] = true
			cands = append(cands, candidate{diag: *d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, primary span, then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.FixEdit)
	fileEditCount := make(map[source.FileID]int)

	var applied []AppliedFix
	var skipped []SkippedFix

	for _, cand := range selected {
		buckets := groupEditsByFile(cand.fix.Edits)
		stagedBuffers := make(map[source.FileID][]byte)
		stagedApplied := make(map[source.FileID][]diag.FixEdit)
		totalEdits := 0
		var skipReason string

		for fileID, edits := range buckets {
			file := fs.Get(fileID)
			if file == nil {
				skipReason = "target file is unknown"
				break
			}
			if file.Flags&source.FileVirtual != 0 && !dryRun {
				skipReason = "target file is virtual"
				break
			}
			if file.Flags&(source.FileHadBOM|source.FileNormalizedCRLF) != 0 && !dryRun {
				skipReason = "target file was normalized on load (BOM or CRLF)"
				break
			}
			if conflictsWithExisting(appliedEdits[fileID], edits) {
				skipReason = "conflicts with previously applied edits in " + file.Path
				break
			}

			base := buffers[fileID]
			if base == nil {
				base = file.Content
			}
			working := append([]byte(nil), base...)

			// back to front so earlier offsets stay valid
			sort.SliceStable(edits, func(i, j int) bool {
				if edits[i].Span.Start == edits[j].Span.Start {
					return edits[i].Span.End > edits[j].Span.End
				}
				return edits[i].Span.Start > edits[j].Span.Start
			})

			existing := append([]diag.FixEdit(nil), appliedEdits[fileID]...)
			for _, edit := range edits {
				start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
				end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
				if start < 0 || end < start || end > len(working) {
					skipReason = "edit span out of range"
					break
				}
				if edit.OldText != "" && string(working[start:end]) != edit.OldText {
					skipReason = "existing text does not match expected content"
					break
				}
				suffix := append([]byte(nil), working[end:]...)
				working = append(append(working[:start], edit.NewText...), suffix...)
			}
			if skipReason != "" {
				break
			}
			for _, edit := range edits {
				existing = insertEditSorted(existing, edit)
			}
			stagedBuffers[fileID] = working
			stagedApplied[fileID] = existing
			totalEdits += len(edits)
		}

		if skipReason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: skipReason})
			continue
		}
		for fileID, buf := range stagedBuffers {
			buffers[fileID] = buf
			appliedEdits[fileID] = stagedApplied[fileID]
			fileEditCount[fileID] += len(buckets[fileID])
		}
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   totalEdits,
		})
	}

	if len(applied) == 0 {
		return applied, skipped, nil, nil
	}

	changes := make([]FileChange, 0, len(buffers))
	for fileID, buf := range buffers {
		file := fs.Get(fileID)
		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return applied, skipped, changes, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		changes = append(changes, FileChange{
			Path:      formatFilePath(fs, fileID),
			EditCount: fileEditCount[fileID],
			Content:   buf,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return applied, skipped, changes, nil
}

func conflictsWithExisting(existing, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits overlap as half-open intervals.
// Two insertions never conflict; an insertion conflicts with a span that
// strictly contains its position or starts at it.
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.FixEdit) map[source.FileID][]diag.FixEdit {
	buckets := make(map[source.FileID][]diag.FixEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta is how far applied edits ending at or before pos have
// shifted it. Edits are in original offsets, sorted by start.
func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.FixEdit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = edit
	return edits
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("relative", fs.BaseDir())
}
