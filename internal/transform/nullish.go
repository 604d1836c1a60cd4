package transform

import (
	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/semantic"
	"jssema/internal/traverse"
)

// nullish rewrites a ?? b to a !== null && a !== void 0 ? a : b, going
// through a temporary when a is not a bound identifier, and x ??= y to
// x !== null && x !== void 0 ? x : x = y.
type nullish struct {
	*traverse.Hooks
	env *Env
}

func newNullish(env *Env) traverse.Pass {
	p := &nullish{Hooks: traverse.NewHooks(), env: env}
	p.OnExit(ast.KindLogical, p.logical)
	p.OnExit(ast.KindAssign, p.assign)
	return p
}

// notNullish builds `first !== null && again !== void 0`.
func notNullish(ctx *traverse.Ctx, first, again ast.NodeID) ast.NodeID {
	b := ctx.Builder()
	return b.Logical(ast.OpAnd,
		b.Binary(ast.OpStrictNotEq, first, b.Null()),
		b.Binary(ast.OpStrictNotEq, again, b.Void0()))
}

func (p *nullish) logical(ctx *traverse.Ctx, node ast.NodeID) {
	if ctx.Tree.Node(node).Op != ast.OpNullish {
		return
	}
	left := ctx.MoveOut(node, ast.SlotLeft)
	right := ctx.MoveOut(node, ast.SlotRight)

	first, again := memoize(ctx, p.env, left, nameHint(ctx, left, "ref"))
	var value ast.NodeID
	if first == left {
		value = duplicate(ctx, left)
	} else {
		value = duplicate(ctx, again)
	}
	ctx.ReplaceCurrent(ctx.Builder().Cond(notNullish(ctx, first, again), value, right))
}

func (p *nullish) assign(ctx *traverse.Ctx, node ast.NodeID) {
	if ctx.Tree.Node(node).Op != ast.OpNullishAssign {
		return
	}
	target := ctx.Tree.Kid(node, ast.SlotLeft)
	if ctx.Tree.Kind(target) != ast.KindIdent {
		diag.ReportWarning(ctx.Rep, diag.TransformFailed, ctx.Tree.Span(node),
			"'??=' with a member target is left untouched").Emit()
		return
	}
	ctx.Sem.SetReferenceFlags(ctx.Sem.ReferenceOf(target), semantic.RefWrite)
	ctx.Tree.Node(node).Op = ast.OpAssign

	test := notNullish(ctx,
		ctx.CloneReference(target, semantic.RefRead),
		ctx.CloneReference(target, semantic.RefRead))
	value := ctx.CloneReference(target, semantic.RefRead)
	cond := ctx.Builder().Cond(test, value, ctx.Builder().Placeholder())
	assign := ctx.ReplaceCurrent(cond)
	ctx.Replace(cond, ast.SlotAlt, assign)
}
