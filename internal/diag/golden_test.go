package diag

import (
	"testing"

	"jssema/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/sample.js", []byte("a\nb\n"), 0)
	vendored := fs.Add("/workspace/node_modules/dep/index.js", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaRedeclaration,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: vendored, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "previous declaration"},
			},
		},
		{
			Severity: SevError,
			Code:     LintNoUndef,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "warning SEM3001 src/sample.js:1:1 first line second\n" +
		"error LNT6001 src/sample.js:2:1 another\n" +
		"note SEM3001 src/sample.js:2:1 previous declaration"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	sp := func(s uint32) source.Span { return source.Span{Start: s, End: s + 1} }
	b.Add(NewWarning(LintNoShadow, sp(5), "later"))
	b.Add(NewError(LintNoUndef, sp(1), "first"))
	b.Add(NewError(LintNoUndef, sp(1), "first again"))
	if b.Add(NewError(LintNoUndef, sp(9), "over limit")) {
		t.Fatalf("bag accepted a diagnostic past its limit")
	}
	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 2 || items[0].Message != "first" || items[1].Message != "later" {
		t.Fatalf("unexpected items %+v", items)
	}
	if !b.HasErrors() || b.Count(SevWarning) != 1 {
		t.Fatalf("severity accounting is off")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportWarning(r, SemaRedeclaration, source.Span{Start: 1, End: 2}, "dup").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if r.Suppressed() != 2 {
		t.Fatalf("expected two suppressed, got %d", r.Suppressed())
	}
	ReportWarning(r, SemaRedeclaration, source.Span{Start: 1, End: 2}, "other").Emit()
	if bag.Len() != 2 {
		t.Fatalf("a different message is not a duplicate")
	}
}

func TestReporterFunc(t *testing.T) {
	var got []Diagnostic
	r := ReporterFunc(func(d Diagnostic) { got = append(got, d) })
	b := ReportError(r, SemaRedeclaration, source.Span{}, "x").WithNote(source.Span{Start: 3}, "here")
	b.Emit()
	b.Emit()
	if len(got) != 1 || len(got[0].Notes) != 1 {
		t.Fatalf("unexpected reports %+v", got)
	}
}
