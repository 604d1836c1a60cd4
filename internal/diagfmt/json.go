package diagfmt

import (
	"encoding/json"
	"io"

	"jssema/internal/diag"
	"jssema/internal/source"
)

// LocationJSON is a span in JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is an attached note.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one edit of a fix.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is a suggested fix.
type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	f := fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = displayPath(f, fs, opts.PathMode)
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
func BuildDiagnosticsOutput(items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for i := range n {
		d := &items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: note.Msg, Location: makeLocation(note.Span, fs, opts)})
			}
		}
		if opts.IncludeFixes {
			for _, fix := range d.Fixes {
				fj := FixJSON{Title: fix.Title}
				for _, e := range fix.Edits {
					ej := FixEditJSON{
						Location: makeLocation(e.Span, fs, opts),
						NewText:  e.NewText,
						OldText:  fs.Text(e.Span),
					}
					if opts.IncludePreviews {
						if pv, err := buildEditPreview(fs, e); err == nil {
							ej.BeforeLines, ej.AfterLines = pv.before, pv.after
						}
					}
					fj.Edits = append(fj.Edits, ej)
				}
				dj.Fixes = append(dj.Fixes, fj)
			}
		}
		out = append(out, dj)
	}
	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON writes items as an indented JSON document.
func JSON(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(items, fs, opts))
}
