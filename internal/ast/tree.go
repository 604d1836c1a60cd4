package ast

import (
	"fmt"
	"iter"

	"fortio.org/safecast"

	"jssema/internal/source"
)

// Tree owns every node of one parsed file.
type Tree struct {
	File    source.FileID
	Lang    source.Language
	Strings *source.Interner
	Root    NodeID

	nodes *Arena[Node]
	gens  []uint32 // indexed by NodeID
}

// NewTree allocates an empty tree. strings may be shared across trees.
func NewTree(file source.FileID, strings *source.Interner, capHint uint) *Tree {
	if strings == nil {
		strings = source.NewInterner()
	}
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Tree{
		File:    file,
		Strings: strings,
		nodes:   NewArena[Node](capHint),
		gens:    make([]uint32, 1, capHint+1),
	}
}

// New allocates a detached node.
func (t *Tree) New(kind Kind, span source.Span) NodeID {
	id := NodeID(t.nodes.Allocate(Node{Kind: kind, Span: span}))
	t.gens = append(t.gens, 0)
	return id
}

// NewNamed allocates a detached node carrying name.
func (t *Tree) NewNamed(kind Kind, span source.Span, name string) NodeID {
	id := t.New(kind, span)
	t.nodes.Get(uint32(id)).Name = t.Strings.Intern(name)
	return id
}

// Len is the number of nodes ever allocated; valid IDs are 1..Len.
func (t *Tree) Len() int { return int(t.nodes.Len()) }

// Node returns the node record, raising a violation for unknown IDs.
func (t *Tree) Node(id NodeID) *Node {
	n := t.nodes.Get(uint32(id))
	if n == nil {
		Violatef("node %d does not exist", id)
	}
	return n
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.nodes.Get(uint32(id)); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Span(id NodeID) source.Span { return t.Node(id).Span }

func (t *Tree) Parent(id NodeID) NodeID { return t.Node(id).Parent }

func (t *Tree) Name(id NodeID) string {
	n := t.nodes.Get(uint32(id))
	if n == nil {
		return ""
	}
	s, _ := t.Strings.Lookup(n.Name)
	return s
}

func (t *Tree) Intern(s string) source.StringID { return t.Strings.Intern(s) }

func (t *Tree) Ref(id NodeID) NodeRef { return NodeRef{Tree: t, ID: id} }

// Kid returns the child in slot, or NoNodeID if the kind has no such slot.
func (t *Tree) Kid(id NodeID, slot Slot) NodeID {
	n := t.Node(id)
	i := n.Kind.SlotIndex(slot)
	if i < 0 {
		return NoNodeID
	}
	return n.Kids[i]
}

// SetKid attaches child into slot and returns the detached previous child.
func (t *Tree) SetKid(id NodeID, slot Slot, child NodeID) NodeID {
	n := t.Node(id)
	i := n.Kind.SlotIndex(slot)
	if i < 0 {
		Violatef("%s has no %s slot", n.Kind, slot)
	}
	t.checkDetached(child)
	old := n.Kids[i]
	n.Kids[i] = child
	t.detach(old)
	t.attach(child, id)
	return old
}

// List is the node's child list; callers must not modify it.
func (t *Tree) List(id NodeID) []NodeID { return t.Node(id).List }

// SetAt replaces the list element at index and returns the detached one.
func (t *Tree) SetAt(id NodeID, index int, child NodeID) NodeID {
	n := t.Node(id)
	if index < 0 || index >= len(n.List) {
		Violatef("%s list index %d out of range [0,%d)", n.Kind, index, len(n.List))
	}
	t.checkDetached(child)
	old := n.List[index]
	n.List[index] = child
	t.detach(old)
	t.attach(child, id)
	return old
}

// InsertAt splices children into the list before index.
func (t *Tree) InsertAt(id NodeID, index int, children ...NodeID) {
	n := t.Node(id)
	if n.Kind.Describe().List == SlotNone {
		Violatef("%s has no child list", n.Kind)
	}
	if index < 0 || index > len(n.List) {
		Violatef("%s insert index %d out of range [0,%d]", n.Kind, index, len(n.List))
	}
	for _, c := range children {
		t.checkDetached(c)
		t.attach(c, id)
	}
	n.List = append(n.List[:index], append(append([]NodeID(nil), children...), n.List[index:]...)...)
}

func (t *Tree) Append(id NodeID, children ...NodeID) {
	t.InsertAt(id, len(t.Node(id).List), children...)
}

// RemoveAt deletes the list element at index and returns it detached.
func (t *Tree) RemoveAt(id NodeID, index int) NodeID {
	n := t.Node(id)
	if index < 0 || index >= len(n.List) {
		Violatef("%s list index %d out of range [0,%d)", n.Kind, index, len(n.List))
	}
	old := n.List[index]
	n.List = append(n.List[:index], n.List[index+1:]...)
	t.detach(old)
	return old
}

// ReplaceList swaps the whole child list. Elements of the old list that do
// not appear in the new one are detached.
func (t *Tree) ReplaceList(id NodeID, list []NodeID) {
	n := t.Node(id)
	keep := make(map[NodeID]struct{}, len(list))
	for _, c := range list {
		keep[c] = struct{}{}
	}
	for _, c := range n.List {
		if _, ok := keep[c]; !ok {
			t.detach(c)
		}
	}
	for _, c := range list {
		if c.IsValid() && t.Node(c).Parent != id {
			t.checkDetached(c)
			t.attach(c, id)
		}
	}
	n.List = list
}

// Position reports where id sits in its parent: the slot for fixed
// children, or the list slot and index for list elements.
func (t *Tree) Position(id NodeID) (parent NodeID, slot Slot, index int) {
	parent = t.Node(id).Parent
	if !parent.IsValid() {
		return NoNodeID, SlotNone, -1
	}
	p := t.Node(parent)
	d := p.Kind.Describe()
	for i, kid := range p.Kids {
		if kid == id {
			return parent, d.Slots[i], -1
		}
	}
	for i, kid := range p.List {
		if kid == id {
			return parent, d.List, i
		}
	}
	Violatef("node %d lists parent %d which does not hold it", id, parent)
	return NoNodeID, SlotNone, -1
}

// Handle captures the current generation of id.
func (t *Tree) Handle(id NodeID) Handle {
	t.Node(id)
	return Handle{ID: id, Gen: t.gens[id]}
}

// Live reports whether h still addresses the node at its original position.
func (t *Tree) Live(h Handle) bool {
	return h.ID.IsValid() && int(h.ID) < len(t.gens) && t.gens[h.ID] == h.Gen
}

// Resolve returns the node behind h, raising a violation if h is stale.
func (t *Tree) Resolve(h Handle) NodeID {
	if !t.Live(h) {
		Violatef("stale handle %s", h)
	}
	return h.ID
}

// functionOrder puts parameters and the return type before the body.
var functionOrder = [...]Slot{SlotID, SlotParams, SlotReturnType, SlotBody}

// Children yields every non-empty child in visiting order.
func (t *Tree) Children(id NodeID) iter.Seq2[Slot, NodeID] {
	return func(yield func(Slot, NodeID) bool) {
		n := t.Node(id)
		d := n.Kind.Describe()
		if d.Caps&CapFunction != 0 {
			for _, s := range functionOrder {
				if s == d.List {
					for _, c := range n.List {
						if c.IsValid() && !yield(s, c) {
							return
						}
					}
					continue
				}
				if i := n.Kind.SlotIndex(s); i >= 0 && n.Kids[i].IsValid() && !yield(s, n.Kids[i]) {
					return
				}
			}
			return
		}
		for i, s := range d.Slots {
			if s == SlotNone || !n.Kids[i].IsValid() {
				continue
			}
			if !yield(s, n.Kids[i]) {
				return
			}
		}
		for _, c := range n.List {
			if c.IsValid() && !yield(d.List, c) {
				return
			}
		}
	}
}

// Ancestors yields the parent chain of id, innermost first.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for p := t.Node(id).Parent; p.IsValid(); p = t.Node(p).Parent {
			if !yield(p) {
				return
			}
		}
	}
}

// Walk visits the subtree rooted at id in pre-order. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// LinkParents rewrites every parent pointer below root from the child
// slots, returning the number of nodes reached.
func (t *Tree) LinkParents(root NodeID) int {
	count := 0
	var link func(id, parent NodeID)
	link = func(id, parent NodeID) {
		count++
		t.Node(id).Parent = parent
		for _, c := range t.Children(id) {
			link(c, id)
		}
	}
	if root.IsValid() {
		link(root, t.Node(root).Parent)
	}
	return count
}

// IsDescendant reports whether id lies in the subtree rooted at root.
func (t *Tree) IsDescendant(id, root NodeID) bool {
	for cur := id; cur.IsValid(); cur = t.Node(cur).Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// Generation exposes the current generation of id.
func (t *Tree) Generation(id NodeID) uint32 {
	t.Node(id)
	return t.gens[id]
}

func (t *Tree) attach(child, parent NodeID) {
	if child.IsValid() {
		t.Node(child).Parent = parent
	}
}

func (t *Tree) detach(child NodeID) {
	if !child.IsValid() {
		return
	}
	t.Node(child).Parent = NoNodeID
	t.gens[child]++
}

func (t *Tree) checkDetached(child NodeID) {
	if !child.IsValid() {
		return
	}
	if p := t.Node(child).Parent; p.IsValid() {
		Violatef("node %d (%s) is still attached to %d", child, t.Node(child).Kind, p)
	}
	if child == t.Root {
		Violatef("cannot attach the root node")
	}
}

// Count returns the number of allocated nodes.
func (t *Tree) Count() uint32 {
	n, err := safecast.Conv[uint32](t.Len())
	if err != nil {
		panic(fmt.Errorf("node count overflow: %w", err))
	}
	return n
}
