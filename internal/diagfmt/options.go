// Package diagfmt renders diagnostic bags for people and for tools.
package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"jssema/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to the base directory when they lie
	// below it, and as stored otherwise.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto, absolute, relative and basename.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute", "abs":
		return PathModeAbsolute, nil
	case "relative", "rel":
		return PathModeRelative, nil
	case "basename", "base":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8
	PathMode    PathMode
	Width       uint8 // max source line width, 0 means unlimited
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // truncates the output, not the bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	if !filepath.IsAbs(f.Path) {
		return filepath.ToSlash(f.Path)
	}
	rel := f.FormatPath("relative", fs.BaseDir())
	if rel == ".." || strings.HasPrefix(rel, "../") || filepath.IsAbs(rel) {
		return filepath.ToSlash(f.Path)
	}
	return rel
}
