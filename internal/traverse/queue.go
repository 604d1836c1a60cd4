package traverse

import (
	"jssema/internal/ast"
)

type edit struct {
	anchor ast.Handle
	after  bool
	stmts  []ast.NodeID
}

// editQueue buffers statement insertions per statement list. Anchors are
// generation-checked handles, so a statement that was moved or replaced
// after the edit was queued is detected at flush time.
type editQueue struct {
	byOwner map[ast.NodeID][]edit
	top     map[ast.NodeID][]ast.NodeID
}

// InsertBefore queues stmts to be spliced right before the statement that
// contains node. The splice happens when that statement's list finishes
// visiting; the inserted statements are not visited.
func (c *Ctx) InsertBefore(node ast.NodeID, stmts ...ast.NodeID) {
	c.queueEdit(node, false, stmts)
}

// InsertAfter queues stmts right after the statement that contains node.
// Edits against statements of one list apply in list order; edits against
// one statement keep call order.
func (c *Ctx) InsertAfter(node ast.NodeID, stmts ...ast.NodeID) {
	c.queueEdit(node, true, stmts)
}

// InsertAtTop queues stmts at the start of owner's statement list, after
// any directive prologue.
func (c *Ctx) InsertAtTop(owner ast.NodeID, stmts ...ast.NodeID) {
	if !c.Tree.Kind(owner).Describe().StmtList {
		ast.Violatef("%s %d has no statement list", c.Tree.Kind(owner), owner)
	}
	c.checkOpen(owner)
	c.checkStatements(stmts)
	if c.queue.top == nil {
		c.queue.top = make(map[ast.NodeID][]ast.NodeID)
	}
	c.queue.top[owner] = append(c.queue.top[owner], stmts...)
}

func (c *Ctx) queueEdit(node ast.NodeID, after bool, stmts []ast.NodeID) {
	owner, stmt := c.StatementOf(node)
	c.checkOpen(owner)
	c.checkStatements(stmts)
	if c.queue.byOwner == nil {
		c.queue.byOwner = make(map[ast.NodeID][]edit)
	}
	c.queue.byOwner[owner] = append(c.queue.byOwner[owner], edit{
		anchor: c.Tree.Handle(stmt),
		after:  after,
		stmts:  stmts,
	})
}

// StatementOf climbs from node to the statement that holds it in a
// statement list, returning the list owner and the statement.
func (c *Ctx) StatementOf(node ast.NodeID) (owner, stmt ast.NodeID) {
	for cur := node; cur.IsValid(); {
		p := c.Tree.Parent(cur)
		if !p.IsValid() {
			break
		}
		if c.Tree.Kind(p).Describe().StmtList {
			if _, _, idx := c.Tree.Position(cur); idx >= 0 {
				return p, cur
			}
		}
		cur = p
	}
	ast.Violatef("node %d is not inside a statement list", node)
	return ast.NoNodeID, ast.NoNodeID
}

func (c *Ctx) checkOpen(owner ast.NodeID) {
	if c.State(owner) != Entered {
		ast.Violatef("statement list of %s %d is %s; edits would never be flushed",
			c.Tree.Kind(owner), owner, c.State(owner))
	}
}

func (c *Ctx) checkStatements(stmts []ast.NodeID) {
	for _, st := range stmts {
		if !c.Tree.Kind(st).IsStatement() {
			ast.Violatef("cannot insert %s %d as a statement", c.Tree.Kind(st), st)
		}
	}
}

func (q *editQueue) flush(c *Ctx, owner ast.NodeID) {
	edits, top := q.byOwner[owner], q.top[owner]
	if len(edits) == 0 && len(top) == 0 {
		return
	}
	delete(q.byOwner, owner)
	delete(q.top, owner)

	anchors := make(map[ast.NodeID][]edit, len(edits))
	for _, e := range edits {
		if !c.Tree.Live(e.anchor) {
			ast.Violatef("deferred edit anchored at stale statement %s", e.anchor)
		}
		anchors[e.anchor.ID] = append(anchors[e.anchor.ID], e)
	}

	list := c.Tree.List(owner)
	prologue := 0
	if len(top) > 0 {
		for prologue < len(list) && c.Tree.Node(list[prologue]).Has(ast.FlagDirective) {
			prologue++
		}
	}
	out := make([]ast.NodeID, 0, len(list)+len(top)+len(edits))
	var inserted []ast.NodeID
	for i := 0; i <= len(list); i++ {
		if i == prologue && len(top) > 0 {
			out = append(out, top...)
			inserted = append(inserted, top...)
		}
		if i == len(list) {
			break
		}
		st := list[i]
		pending := anchors[st]
		delete(anchors, st)
		for _, e := range pending {
			if !e.after {
				out = append(out, e.stmts...)
				inserted = append(inserted, e.stmts...)
			}
		}
		out = append(out, st)
		for _, e := range pending {
			if e.after {
				out = append(out, e.stmts...)
				inserted = append(inserted, e.stmts...)
			}
		}
	}
	for id := range anchors {
		ast.Violatef("deferred edit anchor %d left the statement list of %d", id, owner)
	}

	c.Tree.ReplaceList(owner, out)
	scope := c.Sem.ScopeOwnedBy(owner)
	if !scope.IsValid() {
		scope = c.Sem.ScopeOf(owner)
	}
	for _, st := range inserted {
		c.annotate(st, scope)
	}
}

func (q *editQueue) checkDrained(t *ast.Tree) {
	n := len(q.top)
	for _, edits := range q.byOwner {
		n += len(edits)
	}
	if n > 0 {
		ast.Violatef("%d deferred edits of file %d were never flushed", n, t.File)
	}
}
