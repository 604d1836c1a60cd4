// Package transform lowers newer syntax using the traversal engine.
package transform

import (
	"fmt"
	"slices"

	"jssema/internal/ast"
	"jssema/internal/inject"
	"jssema/internal/semantic"
	"jssema/internal/traverse"
)

// Env is shared by the passes of one run.
type Env struct {
	Vars    *inject.Vars
	Helpers *inject.Helpers
}

func newEnv() *Env {
	return &Env{Vars: inject.NewVars(), Helpers: inject.NewHelpers()}
}

type factory func(env *Env) traverse.Pass

var registry = map[string]factory{
	"exponentiation":     newExponentiation,
	"nullish-coalescing": newNullish,
	"typeof-helper":      newTypeofHelper,
}

// Names lists the available passes.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Build composes the named passes, in order, followed by the var injector.
func Build(names []string) (traverse.Pass, *Env, error) {
	env := newEnv()
	passes := make([]traverse.Pass, 0, len(names)+1)
	for _, name := range names {
		mk, ok := registry[name]
		if !ok {
			return nil, nil, fmt.Errorf("unknown transform pass %q", name)
		}
		passes = append(passes, mk(env))
	}
	passes = append(passes, env.Vars)
	return traverse.Compose(passes...), env, nil
}

// Apply runs the named passes over sem in a single walk.
func Apply(sem *semantic.Semantic, names []string, opts ...traverse.Option) (*Env, error) {
	pass, env, err := Build(names)
	if err != nil {
		return nil, err
	}
	traverse.Run(sem, pass, opts...)
	return env, nil
}

// mathPow builds Math.pow(args...).
func mathPow(ctx *traverse.Ctx, args ...ast.NodeID) ast.NodeID {
	math := ctx.CreateResolvedReference("Math", semantic.RefRead, ctx.Scope())
	b := ctx.Builder()
	return b.Call(b.Member(math, "pow"), args...)
}

// reusable reports whether evaluating id twice is free of side effects:
// bound identifiers, this and literals.
func reusable(ctx *traverse.Ctx, id ast.NodeID) bool {
	switch ctx.Tree.Kind(id) {
	case ast.KindIdent:
		ref := ctx.Sem.Reference(ctx.Sem.ReferenceOf(id))
		return ref != nil && ref.Resolved()
	case ast.KindThis, ast.KindLiteral:
		return true
	}
	return false
}

// duplicate builds another copy of a reusable node.
func duplicate(ctx *traverse.Ctx, id ast.NodeID) ast.NodeID {
	switch ctx.Tree.Kind(id) {
	case ast.KindIdent:
		return ctx.CloneReference(id, semantic.RefRead)
	case ast.KindThis:
		return ctx.Builder().This()
	case ast.KindLiteral:
		return ctx.Builder().Lit(ctx.Tree.Node(id).Op, ctx.Tree.Name(id))
	}
	ast.Violatef("cannot duplicate %s %d", ctx.Tree.Kind(id), id)
	return ast.NoNodeID
}

// memoize returns two nodes that evaluate id once: the first to put where
// id was, the second to use afterwards. Non-reusable values go through a
// temporary: (_tmp = id) and _tmp.
func memoize(ctx *traverse.Ctx, env *Env, id ast.NodeID, hint string) (first, again ast.NodeID) {
	if reusable(ctx, id) {
		return id, duplicate(ctx, id)
	}
	tmp := env.Vars.CreateVar(ctx, hint)
	b := ctx.Builder()
	first = b.Assign(ast.OpAssign, tmp.CreateWrite(ctx), id)
	ctx.Tree.Node(first).Flags |= ast.FlagParens
	return first, tmp.CreateRead(ctx)
}

func nameHint(ctx *traverse.Ctx, id ast.NodeID, fallback string) string {
	switch ctx.Tree.Kind(id) {
	case ast.KindIdent:
		return ctx.Tree.Name(id)
	case ast.KindMember:
		if !ctx.Tree.Node(id).Has(ast.FlagComputed) {
			return ctx.Tree.Name(ctx.Tree.Kid(id, ast.SlotProperty))
		}
	case ast.KindCall:
		return nameHint(ctx, ctx.Tree.Kid(id, ast.SlotCallee), fallback)
	}
	return fallback
}
