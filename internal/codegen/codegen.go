// Package codegen prints an ast.Tree back to JavaScript. TypeScript-only
// syntax is erased and enums are lowered to plain objects.
package codegen

import (
	"jssema/internal/ast"
)

// Quote selects the preferred string delimiter.
type Quote uint8

const (
	QuoteDouble Quote = iota
	QuoteSingle
)

type Options struct {
	Indent string // defaults to two spaces
	Quote  Quote
}

func (o Options) withDefaults() Options {
	if o.Indent == "" {
		o.Indent = "  "
	}
	return o
}

type printer struct {
	t   *ast.Tree
	w   *writer
	opt Options
}

func newPrinter(t *ast.Tree, opt Options) *printer {
	opt = opt.withDefaults()
	return &printer{t: t, w: newWriter(opt.Indent), opt: opt}
}

// Print renders the whole program.
func Print(t *ast.Tree, opt Options) string {
	p := newPrinter(t, opt)
	p.statements(t.List(t.Root))
	p.w.newline()
	return p.w.String()
}

// PrintNode renders one subtree: expressions without a trailing semicolon,
// statements as they would appear in a body.
func PrintNode(t *ast.Tree, id ast.NodeID, opt Options) string {
	p := newPrinter(t, opt)
	k := t.Kind(id)
	switch {
	case k == ast.KindProgram:
		p.statements(t.List(id))
	case k.Is(ast.CapExpression):
		p.expr(id, levelLowest)
	case k.IsStatement():
		p.stmt(id)
	default:
		p.pattern(id)
	}
	return p.w.String()
}

func (p *printer) name(id ast.NodeID) string { return p.t.Name(id) }

func (p *printer) has(id ast.NodeID, f ast.NodeFlags) bool { return p.t.Node(id).Has(f) }

// erased reports whether a statement has no JavaScript output.
func (p *printer) erased(id ast.NodeID) bool {
	if !id.IsValid() {
		return true
	}
	n := p.t.Node(id)
	if n.Has(ast.FlagDeclare) {
		return true
	}
	switch n.Kind {
	case ast.KindTSInterface, ast.KindTSTypeAlias:
		return true
	case ast.KindFunctionDecl:
		// overload signature
		return !p.t.Kid(id, ast.SlotBody).IsValid()
	case ast.KindExportNamed:
		decl := p.t.Kid(id, ast.SlotDecl)
		return decl.IsValid() && p.erased(decl)
	}
	return false
}
