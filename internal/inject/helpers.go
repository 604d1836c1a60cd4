package inject

import (
	"slices"

	"jssema/internal/ast"
	"jssema/internal/semantic"
	"jssema/internal/traverse"
)

// Helper builds the declaration of a runtime helper function named name.
type Helper func(b *ast.Builder, name string) ast.NodeID

var builtinHelpers = map[string]Helper{
	"typeof": typeofHelper,
}

// HelperNames lists the helpers Helpers can load.
func HelperNames() []string {
	names := make([]string, 0, len(builtinHelpers))
	for n := range builtinHelpers {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Helpers declares each runtime helper once at the top of the program and
// hands out references to it.
type Helpers struct {
	loaded map[string]traverse.BoundIdentifier
}

func NewHelpers() *Helpers {
	return &Helpers{loaded: make(map[string]traverse.BoundIdentifier)}
}

// Reference returns a new read of helper from the current scope, loading
// the helper on first use.
func (h *Helpers) Reference(ctx *traverse.Ctx, helper string) ast.NodeID {
	bi, ok := h.loaded[helper]
	if !ok {
		bi = h.load(ctx, helper)
		h.loaded[helper] = bi
	}
	return bi.CreateRead(ctx)
}

// Loaded lists the names of the helpers declared so far.
func (h *Helpers) Loaded() []string {
	out := make([]string, 0, len(h.loaded))
	for _, bi := range h.loaded {
		out = append(out, bi.Name)
	}
	slices.Sort(out)
	return out
}

func (h *Helpers) load(ctx *traverse.Ctx, helper string) traverse.BoundIdentifier {
	build, ok := builtinHelpers[helper]
	if !ok {
		ast.Violatef("unknown runtime helper %q", helper)
	}
	root := ctx.Sem.Root()
	name := ctx.Sem.UniqueName(helper, root)
	decl := build(ctx.Builder(), name)
	ctx.Sem.AnalyzeSubtree(decl, root, ctx.Rep)
	ctx.InsertAtTop(ctx.Tree.Root, decl)

	sym := ctx.Sem.SymbolOf(ctx.Tree.Kid(decl, ast.SlotID))
	ctx.Sem.Symbol(sym).Flags |= semantic.SymGenerated
	return traverse.BoundIdentifier{Name: name, Symbol: sym, Scope: root}
}

// typeofHelper builds
//
//	function _typeof(obj) {
//	  return obj && typeof Symbol === "function" && obj.constructor === Symbol &&
//	    obj !== Symbol.prototype ? "symbol" : typeof obj;
//	}
func typeofHelper(b *ast.Builder, name string) ast.NodeID {
	obj := func() ast.NodeID { return b.Ident("obj") }
	sym := func() ast.NodeID { return b.Ident("Symbol") }
	test := b.Logical(ast.OpAnd,
		b.Logical(ast.OpAnd,
			b.Logical(ast.OpAnd,
				obj(),
				b.Binary(ast.OpStrictEq, b.Unary(ast.OpTypeof, sym()), b.Str("function"))),
			b.Binary(ast.OpStrictEq, b.Member(obj(), "constructor"), sym())),
		b.Binary(ast.OpStrictNotEq, obj(), b.Member(sym(), "prototype")))
	body := b.Return(b.Cond(test, b.Str("symbol"), b.Unary(ast.OpTypeof, obj())))
	return b.Function(name, b.Params("obj"), body)
}
