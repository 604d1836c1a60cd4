// Package inject holds the statement-level collaborators of transform
// passes: the var injector and the runtime helper loader.
package inject

import (
	"jssema/internal/ast"
	"jssema/internal/semantic"
	"jssema/internal/traverse"
)

// Vars collects temporaries per function or program scope and declares
// them with a single `var` at the top of that scope's body when the body
// finishes visiting. Compose it after the passes that use it.
type Vars struct {
	pending map[semantic.ScopeID][]ast.NodeID
}

func NewVars() *Vars {
	return &Vars{pending: make(map[semantic.ScopeID][]ast.NodeID)}
}

// CreateVar declares a fresh temporary in the current var scope and
// queues its declaration.
func (v *Vars) CreateVar(ctx *traverse.Ctx, hint string) traverse.BoundIdentifier {
	bi := ctx.GenerateUniqueVar(hint)
	v.InsertVar(ctx, bi, ast.NoNodeID)
	return bi
}

// InsertVar queues `var <bi> = init` (init may be NoNodeID) in bi's scope.
func (v *Vars) InsertVar(ctx *traverse.Ctx, bi traverse.BoundIdentifier, init ast.NodeID) {
	scope := ctx.Sem.VarScope(bi.Scope)
	b := ctx.Builder()
	d := b.Declarator(bi.CreateBinding(ctx), init)
	v.pending[scope] = append(v.pending[scope], d)
}

// Pending reports how many declarators wait for scope.
func (v *Vars) Pending(scope semantic.ScopeID) int { return len(v.pending[scope]) }

func (v *Vars) Enter(*traverse.Ctx, ast.NodeID) {}

// Exit turns an expression-bodied arrow that received temporaries into a
// block body.
func (v *Vars) Exit(ctx *traverse.Ctx, node ast.NodeID) {
	if ctx.Tree.Kind(node) != ast.KindArrow || !ctx.Tree.Node(node).Has(ast.FlagExprBody) {
		return
	}
	scope := ctx.Sem.ScopeOwnedBy(node)
	decls := v.take(scope)
	if len(decls) == 0 {
		return
	}
	body := ctx.MoveOut(node, ast.SlotBody)
	b := ctx.Builder()
	block := b.Block(b.VarDecl(ast.OpVar, decls...), b.Return(body))
	ctx.Replace(node, ast.SlotBody, block)
	ctx.Tree.Node(node).Flags &^= ast.FlagExprBody
}

func (v *Vars) EnterStatements(*traverse.Ctx, ast.NodeID) {}

func (v *Vars) ExitStatements(ctx *traverse.Ctx, owner ast.NodeID) {
	scope := bodyScope(ctx, owner)
	if !scope.IsValid() {
		return
	}
	if decls := v.take(scope); len(decls) > 0 {
		ctx.InsertAtTop(owner, ctx.Builder().VarDecl(ast.OpVar, decls...))
	}
}

func (v *Vars) take(scope semantic.ScopeID) []ast.NodeID {
	decls := v.pending[scope]
	delete(v.pending, scope)
	return decls
}

// bodyScope returns the var scope whose body is owner's statement list.
func bodyScope(ctx *traverse.Ctx, owner ast.NodeID) semantic.ScopeID {
	if owner == ctx.Tree.Root {
		return ctx.Sem.Root()
	}
	parent := ctx.Tree.Parent(owner)
	if ctx.Tree.Kind(parent).IsFunction() && ctx.Tree.Kid(parent, ast.SlotBody) == owner {
		return ctx.Sem.ScopeOwnedBy(parent)
	}
	return semantic.NoScopeID
}
