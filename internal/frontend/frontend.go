// Package frontend lowers a tree-sitter JavaScript or TypeScript syntax tree
// into an ast.Tree. Constructs the AST does not model are kept as opaque
// nodes holding their source text.
package frontend

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/source"
)

// Result is one lowered file.
type Result struct {
	Tree *ast.Tree
	// Module is set when the file has import or export statements.
	Module bool
	// Errors counts syntax errors reported while lowering.
	Errors int
}

func grammar(lang source.Language) *sitter.Language {
	switch lang {
	case source.LangTypeScript:
		return ts.GetLanguage()
	case source.LangTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Parse lowers f into a fresh tree interning names into strings. Syntax
// errors go to rep; the broken text is kept as opaque nodes.
func Parse(ctx context.Context, f *source.File, strings *source.Interner, rep diag.Reporter) (*Result, error) {
	return ParseAs(ctx, f, f.Language(), strings, rep)
}

// ParseAs is Parse with the grammar chosen by lang instead of the file
// extension.
func ParseAs(ctx context.Context, f *source.File, lang source.Language, strings *source.Interner, rep diag.Reporter) (*Result, error) {
	if rep == nil {
		rep = diag.NopReporter{}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar(lang))

	cst, err := parser.ParseCtx(ctx, nil, f.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	defer cst.Close()

	root := cst.RootNode()
	tree := ast.NewTree(f.ID, strings, uint(len(f.Content)/4)+16)
	tree.Lang = lang
	l := &lowerer{
		tree: tree,
		b:    ast.NewBuilder(tree),
		src:  f.Content,
		file: f.ID,
		rep:  rep,
	}
	l.program(root)
	if root.HasError() && l.errors == 0 {
		l.errors++
		diag.ReportError(rep, diag.SynParseError, l.span(root), "source has syntax errors").Emit()
	}
	return &Result{Tree: tree, Module: l.module, Errors: l.errors}, nil
}

type lowerer struct {
	tree   *ast.Tree
	b      *ast.Builder
	src    []byte
	file   source.FileID
	rep    diag.Reporter
	module bool
	errors int
}

func (l *lowerer) span(n *sitter.Node) source.Span {
	return source.Span{File: l.file, Start: n.StartByte(), End: n.EndByte()}
}

func (l *lowerer) text(n *sitter.Node) string { return n.Content(l.src) }

// node allocates kind over the span of n.
func (l *lowerer) node(n *sitter.Node, kind ast.Kind, op ast.Op, kids, list []ast.NodeID) ast.NodeID {
	id := l.b.Make(kind, op, kids, compact(list))
	l.tree.Node(id).Span = l.span(n)
	return id
}

func (l *lowerer) leaf(n *sitter.Node, kind ast.Kind, op ast.Op, name string) ast.NodeID {
	id := l.tree.NewNamed(kind, l.span(n), name)
	l.tree.Node(id).Op = op
	return id
}

func (l *lowerer) flag(id ast.NodeID, f ast.NodeFlags) ast.NodeID {
	if id.IsValid() {
		l.tree.Node(id).Flags |= f
	}
	return id
}

// opaque keeps n verbatim and says so.
func (l *lowerer) opaque(n *sitter.Node, what string) ast.NodeID {
	diag.ReportInfo(l.rep, diag.SynUnsupported, l.span(n), what+" is kept verbatim").Emit()
	return l.verbatim(n)
}

func (l *lowerer) verbatim(n *sitter.Node) ast.NodeID {
	return l.leaf(n, ast.KindOpaque, ast.OpNone, l.text(n))
}

func (l *lowerer) broken(n *sitter.Node) ast.NodeID {
	msg := "unexpected syntax"
	if n.IsMissing() {
		msg = fmt.Sprintf("missing %s", n.Type())
	}
	l.errors++
	diag.ReportError(l.rep, diag.SynParseError, l.span(n), msg).Emit()
	return l.verbatim(n)
}

func isBroken(n *sitter.Node) bool { return n.Type() == "ERROR" || n.IsMissing() }

func kids(ids ...ast.NodeID) []ast.NodeID { return ids }

func compact(list []ast.NodeID) []ast.NodeID {
	out := list[:0]
	for _, id := range list {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

// named returns the named children of n without comments.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := range count {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "comment", "hash_bang_line", "html_comment", "decorator":
			continue
		}
		out = append(out, c)
	}
	return out
}

func first(n *sitter.Node) *sitter.Node {
	if list := named(n); len(list) > 0 {
		return list[0]
	}
	return nil
}

// hasToken reports an anonymous child token of n spelled tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c != nil && !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func hasChild(n *sitter.Node, typ string) bool {
	for i := range int(n.ChildCount()) {
		if c := n.Child(i); c != nil && c.Type() == typ {
			return true
		}
	}
	return false
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range named(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

// elements lowers a bracketed list, turning elided positions into holes.
func (l *lowerer) elements(n *sitter.Node, each func(*sitter.Node) ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	expect := true
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		switch {
		case c == nil:
		case !c.IsNamed() && c.Type() == ",":
			if expect {
				at := source.Span{File: l.file, Start: c.StartByte(), End: c.StartByte()}
				out = append(out, l.tree.New(ast.KindHole, at))
			}
			expect = true
		case c.IsNamed():
			switch c.Type() {
			case "comment", "html_comment":
				continue
			}
			out = append(out, each(c))
			expect = false
		}
	}
	return out
}
