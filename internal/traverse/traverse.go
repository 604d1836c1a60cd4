// Package traverse walks an ast.Tree depth-first with enter/exit hooks and
// offers the mutation primitives that keep the semantic model consistent
// while a pass rewrites the tree.
package traverse

import (
	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/semantic"
)

// Pass receives every node twice: before and after its children.
type Pass interface {
	Enter(ctx *Ctx, node ast.NodeID)
	Exit(ctx *Ctx, node ast.NodeID)
}

// StatementsPass is implemented by passes that observe statement lists
// (program, block and switch case bodies). ExitStatements runs before the
// list's deferred edits are flushed.
type StatementsPass interface {
	EnterStatements(ctx *Ctx, owner ast.NodeID)
	ExitStatements(ctx *Ctx, owner ast.NodeID)
}

// Option tunes Run.
type Option func(*Ctx)

// WithReporter routes diagnostics raised by passes to rep.
func WithReporter(rep diag.Reporter) Option {
	return func(c *Ctx) { c.Rep = rep }
}

// Run walks sem's tree with pass. The model is owned by the walk until Run
// returns; a second concurrent Run on the same model, a stale deferred edit
// or an illegal mutation raise an *ast.StructuralViolation.
func Run(sem *semantic.Semantic, pass Pass, opts ...Option) {
	if !sem.Claim() {
		ast.Violatef("semantic model is already owned by a running traversal")
	}
	defer sem.Release()

	c := newCtx(sem, pass)
	for _, opt := range opts {
		opt(c)
	}
	c.walk(c.Tree.Root, ast.SlotNone, -1)
	c.queue.checkDrained(c.Tree)
}

func (c *Ctx) walk(id ast.NodeID, slot ast.Slot, index int) {
	c.stack = append(c.stack, Frame{Node: id, Kind: c.Tree.Kind(id), Slot: slot, Index: index})
	c.setState(id, Entered)

	c.pass.Enter(c, id)
	id = c.top().Node

	c.walkChildren(id, c.Sem.ScopeOwnedBy(id))

	c.pass.Exit(c, id)
	c.setState(c.top().Node, Exited)
	c.stack = c.stack[:len(c.stack)-1]
}

var functionOrder = [...]ast.Slot{ast.SlotID, ast.SlotParams, ast.SlotReturnType, ast.SlotBody}

// outerSlot reports the slots of a scope owner that are evaluated in the
// enclosing scope: a declaration's own name, a class heritage, a switch
// discriminant and the iterated value of for-in/for-of.
func outerSlot(k ast.Kind, s ast.Slot) bool {
	switch k {
	case ast.KindFunctionDecl:
		return s == ast.SlotID
	case ast.KindClassDecl:
		return s == ast.SlotID || s == ast.SlotSuper
	case ast.KindClassExpr:
		return s == ast.SlotSuper
	case ast.KindSwitch:
		return s == ast.SlotDiscriminant
	case ast.KindForIn, ast.KindForOf:
		return s == ast.SlotRight
	case ast.KindTSEnum:
		return s == ast.SlotID
	}
	return false
}

// inScope runs fn with owned pushed unless the slot belongs to the
// enclosing scope.
func (c *Ctx) inScope(owned semantic.ScopeID, k ast.Kind, s ast.Slot, fn func()) {
	if !owned.IsValid() || outerSlot(k, s) {
		fn()
		return
	}
	depth := len(c.scopes)
	c.scopes = append(c.scopes, owned)
	fn()
	c.scopes = c.scopes[:depth]
}

func (c *Ctx) walkChildren(id ast.NodeID, owned semantic.ScopeID) {
	k := c.Tree.Kind(id)
	d := k.Describe()
	if d.Caps&ast.CapFunction != 0 {
		for _, s := range functionOrder {
			if s == d.List {
				c.inScope(owned, k, s, func() { c.walkList(id, d) })
				continue
			}
			c.inScope(owned, k, s, func() { c.walkSlot(id, s) })
		}
		return
	}
	for _, s := range d.Slots {
		if s != ast.SlotNone {
			c.inScope(owned, k, s, func() { c.walkSlot(id, s) })
		}
	}
	if d.List != ast.SlotNone {
		c.inScope(owned, k, d.List, func() { c.walkList(id, d) })
	}
}

func (c *Ctx) walkList(id ast.NodeID, d *ast.Desc) {
	sp, hasStmts := c.pass.(StatementsPass)
	if d.StmtList && hasStmts {
		sp.EnterStatements(c, id)
	}
	// Re-read the list each step: earlier children may have replaced
	// their own position.
	for i := 0; i < len(c.Tree.List(id)); i++ {
		if kid := c.Tree.List(id)[i]; kid.IsValid() {
			c.walk(kid, d.List, i)
		}
	}
	if !d.StmtList {
		return
	}
	if hasStmts {
		sp.ExitStatements(c, id)
	}
	c.queue.flush(c, id)
}
