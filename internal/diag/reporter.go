package diag

import "jssema/internal/source"

// Reporter receives finished diagnostics. Passes, the semantic builder and
// lint rules all report through it.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// ReportBuilder collects notes and fixes for one diagnostic. Emit hands it
// to the reporter once; later calls do nothing.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	done bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithFix(title, edits...)
	}
	return b
}

func (b *ReportBuilder) Emit() {
	if b == nil || b.done {
		return
	}
	b.done = true
	if b.to != nil {
		b.to.Report(b.d)
	}
}

// Diagnostic returns what Emit would send.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.d
}

// BagReporter adds into Bag; a nil Bag drops everything.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards the first diagnostic for each code, primary span
// and message. The semantic builder and lint rules can both flag the same
// redeclaration; only one copy reaches the bag.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := dedupKey{code: d.Code, span: d.Primary, msg: d.Message}
	if _, ok := r.seen[key]; ok {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}

// Suppressed is the number of duplicates dropped so far.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
