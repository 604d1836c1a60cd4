package diagfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"jssema/internal/diag"
	"jssema/internal/frontend"
	"jssema/internal/lint"
	"jssema/internal/semantic"
	"jssema/internal/source"
)

func TestPrettyUnderlinesSpan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.js", []byte("a;\nb;\nlet x = yy;\n"))
	items := []diag.Diagnostic{
		diag.New(diag.SevError, diag.LintNoUndef, source.Span{File: id, Start: 14, End: 16}, "'yy' is not defined"),
	}

	var buf bytes.Buffer
	Pretty(&buf, items, fs, PrettyOpts{Context: 1})

	want := "main.js:3:9: ERROR LNT6001: 'yy' is not defined\n" +
		"2 | b;\n" +
		"3 | let x = yy;\n" +
		"  |         ^~\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	id := fs.AddVirtual("/home/user/project/src/test.js", []byte("let s = 'x\n"))
	items := []diag.Diagnostic{
		diag.New(diag.SevError, diag.SynParseError, source.Span{File: id, Start: 8, End: 10}, "unterminated string"),
	}

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.js:1:9"},
		{"relative", PathModeRelative, " src/test.js:1:9"},
		{"auto below base", PathModeAuto, "src/test.js:1:9"},
		{"basename", PathModeBasename, "test.js:1:9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, items, fs, PrettyOpts{PathMode: tt.mode})
			out := " " + buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected %q in:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, "ERROR SYN2001: unterminated string") {
				t.Errorf("expected severity and code in:\n%s", out)
			}
		})
	}
}

func TestPathModeAutoOutsideBase(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.AddVirtual("/elsewhere/lib/file.js", []byte("x\n"))
	items := []diag.Diagnostic{diag.New(diag.SevWarning, diag.LintNoUndef, source.Span{File: id, Start: 0, End: 1}, "w")}

	var buf bytes.Buffer
	Pretty(&buf, items, fs, PrettyOpts{})
	if !strings.HasPrefix(buf.String(), "/elsewhere/lib/file.js:1:1: WARNING") {
		t.Fatalf("expected the stored path, got:\n%s", buf.String())
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{"": PathModeAuto, "ABS": PathModeAbsolute, "relative": PathModeRelative, "base": PathModeBasename} {
		got, err := ParsePathMode(in)
		if err != nil || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePathMode("nearby"); err == nil {
		t.Errorf("expected an error for an unknown mode")
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("dup.js", []byte("var a = 1;\nvar a = 2;\n"))
	d := diag.New(diag.SevWarning, diag.LintNoUndef, source.Span{File: id, Start: 15, End: 16}, "'a' is already defined").
		WithNote(source.Span{File: id, Start: 4, End: 5}, "first declared here").
		WithFix("rename", diag.FixEdit{Span: source.Span{File: id, Start: 15, End: 16}, NewText: "b"})

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{ShowNotes: true, ShowFixes: true})
	out := buf.String()
	for _, want := range []string{
		"note: dup.js:1:5: first declared here",
		"fix #1: rename",
		`dup.js:2:5 replace="a" apply="b"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "preview:") {
		t.Errorf("preview printed without ShowPreview:\n%s", out)
	}
}

// lintFile parses src and runs rules over it.
func lintFile(t *testing.T, fs *source.FileSet, path, src string, rules ...string) []diag.Diagnostic {
	t.Helper()
	f := fs.Get(fs.AddVirtual(path, []byte(src)))
	res, err := frontend.Parse(context.Background(), f, nil, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	l, err := lint.New(lint.Options{Rules: rules})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	bag := diag.NewBag(10)
	l.Run(semantic.Build(res.Tree, semantic.Options{}), diag.BagReporter{Bag: bag})
	bag.Sort()
	return bag.Items()
}

func TestPrettyPreviewOfLintFix(t *testing.T) {
	fs := source.NewFileSet()
	items := lintFile(t, fs, "main.js", "let total = 1;\nuse(total);\n", "prefer-const")
	if len(items) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(items))
	}

	var buf bytes.Buffer
	Pretty(&buf, items, fs, PrettyOpts{ShowFixes: true, ShowPreview: true})
	out := buf.String()
	for _, want := range []string{
		"fix #1: use const",
		`main.js:1:1 replace="let" apply="const"`,
		"- let total = 1;",
		"+ const total = 1;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.js", []byte("q\n"))
	items := []diag.Diagnostic{diag.New(diag.SevError, diag.LintNoUndef, source.Span{File: id, Start: 0, End: 1}, "m")}

	var plain, colored bytes.Buffer
	Pretty(&plain, items, fs, PrettyOpts{})
	Pretty(&colored, items, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}

func TestPrettyClipsWideLines(t *testing.T) {
	fs := source.NewFileSet()
	line := "const message = '" + strings.Repeat("z", 60) + "';\n"
	id := fs.AddVirtual("w.js", []byte(line))
	items := []diag.Diagnostic{diag.New(diag.SevInfo, diag.LintNoUndef, source.Span{File: id, Start: 6, End: 13}, "m")}

	var buf bytes.Buffer
	Pretty(&buf, items, fs, PrettyOpts{Width: 20})
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected a clipped source line, got %q", lines[1])
	}
}
