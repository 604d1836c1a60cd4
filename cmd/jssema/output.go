package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"jssema/internal/diag"
	"jssema/internal/diagfmt"
	"jssema/internal/driver"
)

// reportOptions selects how diagnostics are rendered.
type reportOptions struct {
	format    string // pretty|json|short
	color     bool
	pathMode  diagfmt.PathMode
	withNotes bool
	fixes     bool
	preview   bool
}

// printDiagnostics writes every diagnostic of res to w, and file-level
// failures to errw.
func printDiagnostics(w, errw io.Writer, res *driver.Result, opts reportOptions) error {
	items := res.Diagnostics()
	switch opts.format {
	case "pretty", "":
		diagfmt.Pretty(w, items, res.FileSet, diagfmt.PrettyOpts{
			Color:       opts.color,
			Context:     1,
			PathMode:    opts.pathMode,
			ShowNotes:   opts.withNotes,
			ShowFixes:   opts.fixes || opts.preview,
			ShowPreview: opts.preview,
		})
		if len(items) > 0 {
			fmt.Fprintln(w)
		}
	case "short":
		if out := diag.FormatShortDiagnostics(items, res.FileSet, opts.withNotes); out != "" {
			fmt.Fprintln(w, out)
		}
	case "json":
		if err := diagfmt.JSON(w, items, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     opts.fixes || opts.preview,
			IncludePreviews:  opts.preview,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json|short)", opts.format)
	}
	for i := range res.Files {
		if err := res.Files[i].Err; err != nil {
			fmt.Fprintf(errw, "%s: %v\n", res.Files[i].Path, err)
		}
	}
	return nil
}

// summary renders "N errors, M warnings in K files (C cached)".
func summary(res *driver.Result, useColor bool) string {
	var errs, warns, cached int
	for i := range res.Files {
		f := &res.Files[i]
		if f.Cached {
			cached++
		}
		if f.Err != nil && (f.Bag == nil || !f.Bag.HasErrors()) {
			errs++
		}
		if f.Bag != nil {
			errs += f.Bag.Count(diag.SevError)
			warns += f.Bag.Count(diag.SevWarning)
		}
	}
	paint := func(n int, noun string, attr color.Attribute) string {
		s := plural(n, noun)
		if !useColor || n == 0 {
			return s
		}
		c := color.New(attr, color.Bold)
		c.EnableColor()
		return c.Sprint(s)
	}
	var b strings.Builder
	b.WriteString(paint(errs, "error", color.FgRed))
	b.WriteString(", ")
	b.WriteString(paint(warns, "warning", color.FgYellow))
	fmt.Fprintf(&b, " in %s", plural(len(res.Files), "file"))
	if cached > 0 {
		fmt.Fprintf(&b, " (%d cached)", cached)
	}
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
