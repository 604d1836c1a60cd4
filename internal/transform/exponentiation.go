package transform

import (
	"jssema/internal/ast"
	"jssema/internal/semantic"
	"jssema/internal/traverse"
)

// exponentiation rewrites a ** b to Math.pow(a, b) and x **= y to
// x = Math.pow(x, y), memoizing member targets.
type exponentiation struct {
	*traverse.Hooks
	env *Env
}

func newExponentiation(env *Env) traverse.Pass {
	p := &exponentiation{Hooks: traverse.NewHooks(), env: env}
	p.OnExit(ast.KindBinary, p.binary)
	p.OnExit(ast.KindAssign, p.assign)
	return p
}

func (p *exponentiation) binary(ctx *traverse.Ctx, node ast.NodeID) {
	if ctx.Tree.Node(node).Op != ast.OpExp {
		return
	}
	left := ctx.MoveOut(node, ast.SlotLeft)
	right := ctx.MoveOut(node, ast.SlotRight)
	ctx.ReplaceCurrent(mathPow(ctx, left, right))
}

func (p *exponentiation) assign(ctx *traverse.Ctx, node ast.NodeID) {
	if ctx.Tree.Node(node).Op != ast.OpExpAssign {
		return
	}
	target := ctx.Tree.Kid(node, ast.SlotLeft)
	var read ast.NodeID
	switch ctx.Tree.Kind(target) {
	case ast.KindIdent:
		ctx.Sem.SetReferenceFlags(ctx.Sem.ReferenceOf(target), semantic.RefWrite)
		read = ctx.CloneReference(target, semantic.RefRead)
	case ast.KindMember:
		read = p.memberRead(ctx, target)
	default:
		return
	}
	right := ctx.MoveOut(node, ast.SlotRight)
	ctx.Replace(node, ast.SlotRight, mathPow(ctx, read, right))
	ctx.Tree.Node(node).Op = ast.OpAssign
}

// memberRead memoizes the object (and computed key) of target in place and
// returns a second access to the same property.
func (p *exponentiation) memberRead(ctx *traverse.Ctx, target ast.NodeID) ast.NodeID {
	computed := ctx.Tree.Node(target).Has(ast.FlagComputed)

	obj := ctx.MoveOut(target, ast.SlotObject)
	first, again := memoize(ctx, p.env, obj, nameHint(ctx, obj, "obj"))
	ctx.Replace(target, ast.SlotObject, first)

	b := ctx.Builder()
	if !computed {
		return b.Member(again, ctx.Tree.Name(ctx.Tree.Kid(target, ast.SlotProperty)))
	}
	key := ctx.MoveOut(target, ast.SlotProperty)
	firstKey, againKey := memoize(ctx, p.env, key, "prop")
	ctx.Replace(target, ast.SlotProperty, firstKey)
	return b.Index(again, againKey)
}
