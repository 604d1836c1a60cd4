package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jssema/internal/diag"
	"jssema/internal/source"
)

// Pretty writes items for a terminal, in the order given. Each diagnostic reads
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a caret underline, then the notes
// and fixes the options ask for.
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := printer{w: w, fs: fs, opts: opts}
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		p.diagnostic(&items[i])
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *printer) paint(s string, attrs ...color.Attribute) string {
	if !p.opts.Color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (p *printer) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.paint(sev.String(), color.FgRed, color.Bold)
	case diag.SevWarning:
		return p.paint(sev.String(), color.FgYellow, color.Bold)
	default:
		return p.paint(sev.String(), color.FgCyan, color.Bold)
	}
}

// location renders path:line:col, or just the path when the span has no
// position in a known file.
func (p *printer) location(sp source.Span) (string, *source.File) {
	f := p.fs.Get(sp.File)
	if f == nil {
		return "<unknown>", nil
	}
	path := displayPath(f, p.fs, p.opts.PathMode)
	start, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col), f
}

func (p *printer) diagnostic(d *diag.Diagnostic) {
	loc, f := p.location(d.Primary)
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.paint(loc, color.Bold), p.severity(d.Severity), d.Code.ID(), d.Message)
	if f != nil && d.Primary.End > d.Primary.Start {
		p.snippet(f, d.Primary)
	}

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			nloc, _ := p.location(n.Span)
			fmt.Fprintf(p.w, "  %s: %s: %s\n", p.paint("note", color.FgBlue, color.Bold), nloc, n.Msg)
		}
	}
	if p.opts.ShowFixes {
		for i, fix := range d.Fixes {
			p.fix(i+1, &fix)
		}
	}
}

func (p *printer) fix(n int, fix *diag.Fix) {
	fmt.Fprintf(p.w, "  %s: %s\n", p.paint("fix #"+strconv.Itoa(n), color.FgGreen, color.Bold), fix.Title)
	for _, e := range fix.Edits {
		loc, _ := p.location(e.Span)
		fmt.Fprintf(p.w, "    %s replace=%q apply=%q\n", loc, p.fs.Text(e.Span), e.NewText)
		if !p.opts.ShowPreview {
			continue
		}
		pv, err := buildEditPreview(p.fs, e)
		if err != nil {
			continue
		}
		fmt.Fprintln(p.w, "    preview:")
		for _, l := range pv.before {
			fmt.Fprintf(p.w, "      %s\n", p.paint("- "+l, color.FgRed))
		}
		for _, l := range pv.after {
			fmt.Fprintf(p.w, "      %s\n", p.paint("+ "+l, color.FgGreen))
		}
	}
}

// snippet prints the context lines and the first line of sp underlined.
func (p *printer) snippet(f *source.File, sp source.Span) {
	start, end := p.fs.Resolve(sp)
	first := start.Line
	if c := uint32(max(p.opts.Context, 0)); first > c {
		first -= c
	} else {
		first = 1
	}
	gutter := len(strconv.FormatUint(uint64(start.Line), 10))
	bar := p.paint("|", color.FgBlue)

	for line := first; line <= start.Line; line++ {
		text := p.clip(expandTabs(f.GetLine(line)))
		fmt.Fprintf(p.w, "%*d %s %s\n", gutter, line, bar, text)
	}

	raw := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(raw))
	pad := runewidth.StringWidth(expandTabs(raw[:col]))
	stop := len(raw)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(raw))
	}
	width := max(runewidth.StringWidth(expandTabs(raw[col:max(stop, col)])), 1)
	if p.opts.Width > 0 {
		width = min(width, max(int(p.opts.Width)-pad, 1))
	}
	marks := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(p.w, "%*s %s %s%s\n", gutter, "", bar, strings.Repeat(" ", pad), p.paint(marks, color.FgRed, color.Bold))
}

func (p *printer) clip(s string) string {
	if p.opts.Width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(p.opts.Width), "…")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
