package semantic

import (
	"testing"

	"jssema/internal/ast"
	"jssema/internal/diag"
)

type fixture struct {
	tree *ast.Tree
	b    *ast.Builder
}

func newFixture() *fixture {
	tree := ast.NewTree(0, nil, 0)
	return &fixture{tree: tree, b: ast.NewSourceBuilder(tree)}
}

func (f *fixture) build(t *testing.T, opts Options) (*Semantic, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	opts.Reporter = diag.BagReporter{Bag: bag}
	sem := Build(f.tree, opts)
	if err := sem.Validate(); err != nil {
		t.Fatalf("invalid semantic model: %v", err)
	}
	return sem, bag
}

// nodes returns every node of kind named name in source order.
func (f *fixture) nodes(kind ast.Kind, name string) []ast.NodeID {
	var out []ast.NodeID
	f.tree.Walk(f.tree.Root, func(id ast.NodeID) bool {
		if f.tree.Kind(id) == kind && f.tree.Name(id) == name {
			out = append(out, id)
		}
		return true
	})
	return out
}

func (f *fixture) ident(t *testing.T, name string, nth int) ast.NodeID {
	t.Helper()
	ids := f.nodes(ast.KindIdent, name)
	if nth >= len(ids) {
		t.Fatalf("identifier %q #%d not found (have %d)", name, nth, len(ids))
	}
	return ids[nth]
}

func (f *fixture) binding(t *testing.T, name string, nth int) ast.NodeID {
	t.Helper()
	ids := f.nodes(ast.KindBindingIdent, name)
	if nth >= len(ids) {
		t.Fatalf("binding %q #%d not found (have %d)", name, nth, len(ids))
	}
	return ids[nth]
}

func targetOf(t *testing.T, sem *Semantic, ident ast.NodeID) SymbolID {
	t.Helper()
	ref := sem.ReferenceOf(ident)
	if !ref.IsValid() {
		t.Fatalf("node %d has no reference", ident)
	}
	return sem.Reference(ref).Symbol
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}
