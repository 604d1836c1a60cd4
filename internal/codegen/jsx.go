package codegen

import (
	"jssema/internal/ast"
)

// jsx prints an element's source text, splicing in the printed form of each
// embedded part that still covers its original text.
func (p *printer) jsx(id ast.NodeID) {
	text := p.name(id)
	span := p.t.Span(id)
	pos := uint32(0)
	for _, part := range p.t.List(id) {
		sp := p.t.Span(part)
		if sp.File != span.File || sp.Empty() || sp.Start < span.Start+pos || sp.End > span.End {
			continue
		}
		p.w.write(text[pos : sp.Start-span.Start])
		if p.t.Kind(part) == ast.KindJSXExpression {
			p.w.writeByte('{')
			p.expr(p.t.Kid(part, ast.SlotExpr), levelLowest)
			p.w.writeByte('}')
		} else {
			p.expr(part, levelPrimary)
		}
		pos = sp.End - span.Start
	}
	p.w.write(text[pos:])
}
