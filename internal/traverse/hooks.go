package traverse

import "jssema/internal/ast"

// Hook handles one node.
type Hook func(ctx *Ctx, node ast.NodeID)

// Hooks is a Pass built from per-kind callbacks. Registering twice for one
// kind runs both callbacks in registration order.
type Hooks struct {
	enter      [ast.KindCount]Hook
	exit       [ast.KindCount]Hook
	enterStmts Hook
	exitStmts  Hook
}

func NewHooks() *Hooks { return &Hooks{} }

func chain(prev, next Hook) Hook {
	if prev == nil {
		return next
	}
	return func(ctx *Ctx, node ast.NodeID) {
		prev(ctx, node)
		next(ctx, ctx.Node())
	}
}

func (h *Hooks) OnEnter(kind ast.Kind, fn Hook) *Hooks {
	h.enter[kind] = chain(h.enter[kind], fn)
	return h
}

func (h *Hooks) OnExit(kind ast.Kind, fn Hook) *Hooks {
	h.exit[kind] = chain(h.exit[kind], fn)
	return h
}

// OnEnterStatements registers fn for every statement list; node is the owner.
func (h *Hooks) OnEnterStatements(fn Hook) *Hooks {
	h.enterStmts = chain(h.enterStmts, fn)
	return h
}

func (h *Hooks) OnExitStatements(fn Hook) *Hooks {
	h.exitStmts = chain(h.exitStmts, fn)
	return h
}

func (h *Hooks) Enter(ctx *Ctx, node ast.NodeID) {
	if fn := h.enter[ctx.Tree.Kind(node)]; fn != nil {
		fn(ctx, node)
	}
}

func (h *Hooks) Exit(ctx *Ctx, node ast.NodeID) {
	if fn := h.exit[ctx.Tree.Kind(node)]; fn != nil {
		fn(ctx, node)
	}
}

func (h *Hooks) EnterStatements(ctx *Ctx, owner ast.NodeID) {
	if h.enterStmts != nil {
		h.enterStmts(ctx, owner)
	}
}

func (h *Hooks) ExitStatements(ctx *Ctx, owner ast.NodeID) {
	if h.exitStmts != nil {
		h.exitStmts(ctx, owner)
	}
}

type composite []Pass

// Compose runs several passes in one walk. Enter and Exit both call the
// passes in the given order; a pass sees the node as left by the previous one.
func Compose(passes ...Pass) Pass {
	if len(passes) == 1 {
		return passes[0]
	}
	return composite(passes)
}

func (cp composite) Enter(ctx *Ctx, node ast.NodeID) {
	for _, p := range cp {
		p.Enter(ctx, node)
		node = ctx.Node()
	}
}

func (cp composite) Exit(ctx *Ctx, node ast.NodeID) {
	for _, p := range cp {
		p.Exit(ctx, node)
		node = ctx.Node()
	}
}

func (cp composite) EnterStatements(ctx *Ctx, owner ast.NodeID) {
	for _, p := range cp {
		if sp, ok := p.(StatementsPass); ok {
			sp.EnterStatements(ctx, owner)
		}
	}
}

func (cp composite) ExitStatements(ctx *Ctx, owner ast.NodeID) {
	for _, p := range cp {
		if sp, ok := p.(StatementsPass); ok {
			sp.ExitStatements(ctx, owner)
		}
	}
}
