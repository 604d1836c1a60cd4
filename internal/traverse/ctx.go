package traverse

import (
	"iter"

	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/semantic"
)

// State tracks a node's progress through the walk.
type State uint8

const (
	Unvisited State = iota
	Entered
	Exited
)

func (s State) String() string {
	switch s {
	case Entered:
		return "entered"
	case Exited:
		return "exited"
	default:
		return "unvisited"
	}
}

// Frame is one entry of the ancestor stack: the node and the position it
// occupies in its parent.
type Frame struct {
	Node  ast.NodeID
	Kind  ast.Kind
	Slot  ast.Slot
	Index int // list index, -1 for fixed slots
}

// Ctx is the traversal context handed to every hook.
type Ctx struct {
	Sem  *semantic.Semantic
	Tree *ast.Tree
	Rep  diag.Reporter

	pass   Pass
	stack  []Frame
	scopes []semantic.ScopeID
	states []State
	queue  editQueue
	build  *ast.Builder
}

func newCtx(sem *semantic.Semantic, pass Pass) *Ctx {
	tree := sem.Tree()
	return &Ctx{
		Sem:    sem,
		Tree:   tree,
		Rep:    diag.NopReporter{},
		pass:   pass,
		stack:  make([]Frame, 0, 64),
		scopes: []semantic.ScopeID{sem.Root()},
		states: make([]State, tree.Len()+1),
		build:  ast.NewBuilder(tree),
	}
}

func (c *Ctx) top() *Frame { return &c.stack[len(c.stack)-1] }

// Node is the node currently being entered or exited.
func (c *Ctx) Node() ast.NodeID { return c.top().Node }

// Current is the frame of the current node.
func (c *Ctx) Current() Frame { return *c.top() }

// Parent is the frame of the current node's parent; the zero Frame at the root.
func (c *Ctx) Parent() Frame {
	if len(c.stack) < 2 {
		return Frame{Index: -1}
	}
	return c.stack[len(c.stack)-2]
}

// Depth is the number of ancestors of the current node.
func (c *Ctx) Depth() int { return len(c.stack) - 1 }

// Ancestors yields the frames above the current node, innermost first.
func (c *Ctx) Ancestors() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for i := len(c.stack) - 2; i >= 0; i-- {
			if !yield(c.stack[i]) {
				return
			}
		}
	}
}

// InSlot reports whether the current node lies under the slot of some
// ancestor of kind: InSlot(ast.KindFor, ast.SlotBody) is true inside a
// for-loop body and false inside its header.
func (c *Ctx) InSlot(kind ast.Kind, slot ast.Slot) bool {
	for i := len(c.stack) - 1; i > 0; i-- {
		if c.stack[i-1].Kind == kind && c.stack[i].Slot == slot {
			return true
		}
	}
	return false
}

// Scope is the innermost scope the current node executes in. A node that
// owns a scope sees its enclosing scope in Enter and Exit.
func (c *Ctx) Scope() semantic.ScopeID { return c.scopes[len(c.scopes)-1] }

// VarScope is the function or program scope of the current node.
func (c *Ctx) VarScope() semantic.ScopeID { return c.Sem.VarScope(c.Scope()) }

// State reports the walk state of node.
func (c *Ctx) State(node ast.NodeID) State {
	if int(node) < len(c.states) {
		return c.states[node]
	}
	return Unvisited
}

func (c *Ctx) setState(node ast.NodeID, st State) {
	if int(node) >= len(c.states) {
		grown := make([]State, max(int(node)+1, c.Tree.Len()+1))
		copy(grown, c.states)
		c.states = grown
	}
	c.states[node] = st
}

// Builder returns a builder stamping new nodes with the current node's span.
func (c *Ctx) Builder() *ast.Builder {
	return c.build.At(c.Tree.Span(c.Node()))
}
