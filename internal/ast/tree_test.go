package ast

import (
	"testing"

	"jssema/internal/source"
)

func newTestTree() (*Tree, *Builder) {
	t := NewTree(source.FileID(0), nil, 0)
	return t, NewSourceBuilder(t)
}

func expectViolation(t *testing.T, fn func()) *StructuralViolation {
	t.Helper()
	var got *StructuralViolation
	func() {
		defer func() {
			if r := recover(); r != nil {
				v, ok := AsViolation(r)
				if !ok {
					panic(r)
				}
				got = v
			}
		}()
		fn()
	}()
	if got == nil {
		t.Fatalf("expected a structural violation")
	}
	return got
}

func TestBuilderLinksParents(t *testing.T) {
	tree, b := newTestTree()
	call := b.Call(b.Ident("f"), b.Num(1))
	stmt := b.ExprStmt(call)
	prog := b.Program(stmt)

	if tree.Root != prog {
		t.Fatalf("root not registered")
	}
	if tree.Parent(stmt) != prog || tree.Parent(call) != stmt {
		t.Fatalf("parent links not recorded")
	}
	callee := tree.Kid(call, SlotCallee)
	if tree.Name(callee) != "f" {
		t.Fatalf("callee name: got %q", tree.Name(callee))
	}
	if !tree.Span(prog).Contains(tree.Span(callee)) {
		t.Fatalf("program span %v does not cover callee %v", tree.Span(prog), tree.Span(callee))
	}
}

func TestSetKidDetachesOldChild(t *testing.T) {
	tree, b := newTestTree()
	old := b.Ident("a")
	bin := b.Binary(OpAdd, old, b.Ident("b"))
	h := tree.Handle(old)

	repl := b.Num(2)
	got := tree.SetKid(bin, SlotLeft, repl)
	if got != old {
		t.Fatalf("expected old child back")
	}
	if tree.Parent(old).IsValid() {
		t.Fatalf("old child still attached")
	}
	if tree.Live(h) {
		t.Fatalf("handle should be stale after detach")
	}
	if tree.Parent(repl) != bin {
		t.Fatalf("replacement not attached")
	}
}

func TestAttachingAttachedNodeViolates(t *testing.T) {
	tree, b := newTestTree()
	x := b.Ident("x")
	b.ExprStmt(x)
	other := b.ExprStmt(NoNodeID)
	expectViolation(t, func() { tree.SetKid(other, SlotExpr, x) })
}

func TestInsertAtKeepsHandlesLive(t *testing.T) {
	tree, b := newTestTree()
	s1, s2 := b.Empty(), b.Empty()
	blk := b.Block(s1, s2)
	h := tree.Handle(s2)
	n := b.Empty()
	tree.InsertAt(blk, 1, n)

	if got := tree.List(blk); len(got) != 3 || got[1] != n || got[2] != s2 {
		t.Fatalf("unexpected list %v", got)
	}
	if !tree.Live(h) {
		t.Fatalf("handle must survive a sibling insertion")
	}
	parent, slot, idx := tree.Position(s2)
	if parent != blk || slot != SlotStatements || idx != 2 {
		t.Fatalf("position: got %d %s %d", parent, slot, idx)
	}
	tree.RemoveAt(blk, 2)
	expectViolation(t, func() { tree.Resolve(h) })
}

func TestUnknownSlotViolates(t *testing.T) {
	tree, b := newTestTree()
	id := b.Ident("x")
	expectViolation(t, func() { tree.SetKid(id, SlotBody, NoNodeID) })
}

func TestChildrenOrder(t *testing.T) {
	tree, b := newTestTree()
	test, cons, alt := b.Ident("t"), b.Empty(), b.Empty()
	ifs := b.If(test, cons, alt)
	var slots []Slot
	for s := range tree.Children(ifs) {
		slots = append(slots, s)
	}
	want := []Slot{SlotTest, SlotCons, SlotAlt}
	if len(slots) != len(want) {
		t.Fatalf("got %v", slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: want %s got %s", i, want[i], slots[i])
		}
	}
}

func TestOpLookup(t *testing.T) {
	cases := []struct {
		text string
		fn   func(string) (Op, bool)
		want Op
	}{
		{"**=", AssignOp, OpExpAssign},
		{"??", BinaryOp, OpNullish},
		{"instanceof", BinaryOp, OpInstanceof},
		{"typeof", UnaryOp, OpTypeof},
		{"--", UpdateOp, OpDec},
		{"const", VarOp, OpConst},
	}
	for _, tc := range cases {
		got, ok := tc.fn(tc.text)
		if !ok || got != tc.want {
			t.Fatalf("%q: want %v got %v (%v)", tc.text, tc.want, got, ok)
		}
	}
	if OpExpAssign.BinaryOf() != OpExp || !OpAddAssign.IsCompoundAssign() || OpAssign.IsCompoundAssign() {
		t.Fatalf("compound assignment helpers disagree")
	}
}

func TestFunctionChildrenOrder(t *testing.T) {
	tree, b := newTestTree()
	fn := b.Function("f", b.Params("a", "b"), b.Return(b.Ident("a")))
	var got []Slot
	for s := range tree.Children(fn) {
		got = append(got, s)
	}
	want := []Slot{SlotID, SlotParams, SlotParams, SlotBody}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("child %d: want %s got %s", i, want[i], got[i])
		}
	}
}
