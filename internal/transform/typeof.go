package transform

import (
	"jssema/internal/ast"
	"jssema/internal/semantic"
	"jssema/internal/traverse"
)

// typeofHelper routes typeof through the _typeof helper so symbols polyfilled
// as objects still report "symbol".
type typeofHelper struct {
	*traverse.Hooks
	env *Env
}

func newTypeofHelper(env *Env) traverse.Pass {
	p := &typeofHelper{Hooks: traverse.NewHooks(), env: env}
	p.OnExit(ast.KindUnary, p.unary)
	return p
}

func (p *typeofHelper) unary(ctx *traverse.Ctx, node ast.NodeID) {
	if ctx.Tree.Node(node).Op != ast.OpTypeof || p.comparedToPlainType(ctx, node) {
		return
	}
	arg := ctx.MoveOut(node, ast.SlotArg)
	b := ctx.Builder()
	call := b.Call(p.env.Helpers.Reference(ctx, "typeof"), arg)

	if ctx.Tree.Kind(arg) == ast.KindIdent {
		if ref := ctx.Sem.Reference(ctx.Sem.ReferenceOf(arg)); ref != nil && !ref.Resolved() {
			// typeof on an undeclared global must not throw.
			guard := b.Binary(ast.OpStrictEq,
				b.Unary(ast.OpTypeof, ctx.CloneReference(arg, semantic.RefRead)),
				b.Str("undefined"))
			ctx.ReplaceCurrent(b.Cond(guard, b.Str("undefined"), call))
			return
		}
	}
	ctx.ReplaceCurrent(call)
}

// comparedToPlainType matches typeof x === "string" and friends, whose
// result is unaffected by symbol polyfills.
func (p *typeofHelper) comparedToPlainType(ctx *traverse.Ctx, node ast.NodeID) bool {
	parent := ctx.Parent()
	if parent.Kind != ast.KindBinary {
		return false
	}
	switch ctx.Tree.Node(parent.Node).Op {
	case ast.OpEq, ast.OpNotEq, ast.OpStrictEq, ast.OpStrictNotEq:
	default:
		return false
	}
	other := ctx.Tree.Kid(parent.Node, ast.SlotLeft)
	if other == node {
		other = ctx.Tree.Kid(parent.Node, ast.SlotRight)
	}
	lit := ctx.Tree.Node(other)
	if lit.Kind != ast.KindLiteral || lit.Op != ast.OpString {
		return false
	}
	value := ctx.Tree.Name(other)
	return value != "symbol" && value != "object"
}
