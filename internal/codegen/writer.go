package codegen

import "strings"

// writer accumulates output and tracks indentation.
type writer struct {
	buf         strings.Builder
	indent      string
	indentLevel int
	atLineStart bool
	last        byte
}

func newWriter(indent string) *writer {
	return &writer{indent: indent, atLineStart: true}
}

func (w *writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for range w.indentLevel {
		w.buf.WriteString(w.indent)
	}
	w.atLineStart = false
}

// write writes s, indenting first when at the start of a line.
func (w *writer) write(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf.WriteString(s)
	w.last = s[len(s)-1]
	w.atLineStart = w.last == '\n'
}

func (w *writer) writeByte(b byte) {
	w.writeIndent()
	w.buf.WriteByte(b)
	w.last = b
	w.atLineStart = b == '\n'
}

// space writes a single space unless the output already ends with one.
func (w *writer) space() {
	if w.buf.Len() == 0 || w.last == ' ' || w.last == '\n' {
		return
	}
	w.writeByte(' ')
}

// newline ends the current line if it has content.
func (w *writer) newline() {
	if w.buf.Len() == 0 || w.last == '\n' {
		w.atLineStart = true
		return
	}
	w.buf.WriteByte('\n')
	w.last = '\n'
	w.atLineStart = true
}

func (w *writer) indentPush() { w.indentLevel++ }

func (w *writer) indentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

func (w *writer) String() string { return w.buf.String() }
