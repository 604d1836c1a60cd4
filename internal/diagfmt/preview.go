package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"jssema/internal/diag"
	"jssema/internal/source"
)

// editPreview holds the lines touched by one edit, before and after it.
type editPreview struct {
	before []string
	after  []string
}

func buildEditPreview(fs *source.FileSet, edit diag.FixEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	lenContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return editPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > lenContent {
		return editPreview{}, fmt.Errorf("edit span %v out of range", edit.Span)
	}

	startPos, endPos := fs.Resolve(edit.Span)
	blockStart := lineStart(file, startPos.Line, lenContent)
	blockEnd := min(max(lineEnd(file, max(endPos.Line, startPos.Line), lenContent), blockStart), lenContent)

	original := file.Content[blockStart:blockEnd]
	relStart := int(edit.Span.Start - blockStart)
	relEnd := int(edit.Span.End - blockStart)

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return editPreview{
		before: splitLines(original),
		after:  splitLines(after),
	}, nil
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

// lineStart is the offset of the first byte of line (1-based).
func lineStart(f *source.File, line, lenContent uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if idx := int(line - 2); idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return lenContent
}

// lineEnd is the offset just past the newline ending line.
func lineEnd(f *source.File, line, lenContent uint32) uint32 {
	if line == 0 {
		return 0
	}
	if idx := int(line - 1); idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return lenContent
}
