package semantic

import (
	"testing"

	"jssema/internal/ast"
)

func TestCamelHint(t *testing.T) {
	cases := map[string]string{
		"":          "ref",
		"Math.pow":  "mathPow",
		"typeof":    "typeof",
		"foo-bar_x": "fooBarX",
		"2d":        "_2d",
		"$el":       "$el",
	}
	for in, want := range cases {
		if got := camelHint(in); got != want {
			t.Fatalf("camelHint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueNameAvoidsBindingsAndGlobals(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Var("_tmp", b.Num(1)),
		b.ExprStmt(b.Ident("_tmp2")),
		b.Function("f", nil, b.Let("_tmp3", b.Num(2))),
	)
	sem, _ := f.build(t, Options{})

	if got := sem.UniqueName("tmp", sem.Root()); got != "_tmp4" {
		t.Fatalf("expected _tmp4, got %s", got)
	}
	if got := sem.UniqueName("other", sem.Root()); got != "_other" {
		t.Fatalf("expected _other, got %s", got)
	}
}

func TestUniqueNameDistinctOnceDeclared(t *testing.T) {
	f := newFixture()
	f.b.Program()
	sem, _ := f.build(t, Options{})

	seen := make(map[string]bool)
	for range 20 {
		name := sem.UniqueName("ref", sem.Root())
		if seen[name] {
			t.Fatalf("name %s handed out twice", name)
		}
		seen[name] = true
		sem.DeclareGenerated(sem.Root(), name, SymFunctionScoped, ast.NoNodeID)
	}
	if err := sem.Validate(); err != nil {
		t.Fatalf("invalid model after declarations: %v", err)
	}
}

func TestDeclareGeneratedAndReferences(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(b.ExprStmt(b.Ident("later")))
	sem, _ := f.build(t, Options{})

	decl := b.Bind("_gen")
	sym := sem.DeclareGenerated(sem.Root(), "_gen", SymFunctionScoped, decl)
	if !sem.SymbolFlags(sym).Has(SymGenerated) || sem.SymbolOf(decl) != sym {
		t.Fatalf("generated symbol not registered: %s", sem.SymbolFlags(sym))
	}
	use := b.Ident("_gen")
	ref := sem.AddReference(use, sym, sem.Root(), RefRead)
	if sem.Reference(ref).Symbol != sym || len(sem.ReferencesOf(sym)) != 1 {
		t.Fatalf("reference not attached")
	}
	sem.DeleteReference(ref)
	if len(sem.ReferencesOf(sym)) != 0 || sem.ReferenceOf(use).IsValid() {
		t.Fatalf("reference not removed")
	}
	if st := sem.Stats(); st.References != 1 {
		t.Fatalf("expected one live reference, got %d", st.References)
	}

	global := b.Ident("later")
	gref := sem.ResolveReference(global, sem.Root(), RefRead)
	if sem.Reference(gref).Resolved() || len(sem.UnresolvedRefs("later")) != 2 {
		t.Fatalf("unresolved use must join the unresolved table")
	}
	sem.DeleteReferencesIn(f.tree.Root)
	if len(sem.UnresolvedRefs("later")) != 1 {
		t.Fatalf("only the reference inside the program should be gone")
	}
}

func TestDeclareGeneratedTwiceViolates(t *testing.T) {
	f := newFixture()
	f.b.Program(f.b.Var("x", ast.NoNodeID))
	sem, _ := f.build(t, Options{})

	defer func() {
		if _, ok := ast.AsViolation(recover()); !ok {
			t.Fatalf("expected a structural violation")
		}
	}()
	sem.DeclareGenerated(sem.Root(), "x", 0, ast.NoNodeID)
}

func TestAdoptScopesMovesBlockContents(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Block(
			b.Let("inner", b.Num(1)),
			b.ExprStmt(b.Arrow(nil, b.Ident("inner"))),
		),
	)
	sem, _ := f.build(t, Options{})
	block := f.tree.List(f.tree.Root)[0]
	blockScope := sem.ScopeOwnedBy(block)

	for _, st := range f.tree.List(block) {
		sem.AdoptScopes(st, blockScope, sem.Root())
	}
	sym := sem.SymbolOf(f.binding(t, "inner", 0))
	if sem.Symbol(sym).Scope != sem.Root() {
		t.Fatalf("symbol must move to the program scope")
	}
	arrow := f.tree.Parent(f.ident(t, "inner", 0))
	if sem.Scope(sem.ScopeOwnedBy(arrow)).Parent != sem.Root() {
		t.Fatalf("arrow scope must be reparented")
	}
	if len(sem.Scope(blockScope).Children) != 0 || len(sem.Scope(blockScope).Bindings) != 0 {
		t.Fatalf("block scope should be empty")
	}
	if err := sem.Validate(); err != nil {
		t.Fatalf("invalid model after adoption: %v", err)
	}
}

func TestReparentScopeRejectsCycles(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(b.Block(b.Block()))
	sem, _ := f.build(t, Options{})
	outer := sem.ScopeOwnedBy(f.tree.List(f.tree.Root)[0])
	inner := sem.Scope(outer).Children[0]

	defer func() {
		if _, ok := ast.AsViolation(recover()); !ok {
			t.Fatalf("expected a structural violation")
		}
	}()
	sem.ReparentScope(outer, inner)
}

func TestAnalyzeSubtreeResolvesAgainstModel(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(b.Let("x", b.Num(1)))
	sem, _ := f.build(t, Options{})

	stmt := b.ExprStmt(b.Call(b.Ident("x"), b.FuncExpr("", b.Params("p"), b.Return(b.Ident("p")))))
	f.tree.Append(f.tree.Root, stmt)
	sem.AnalyzeSubtree(stmt, sem.Root(), nil)

	if targetOf(t, sem, f.ident(t, "x", 0)) != sem.SymbolOf(f.binding(t, "x", 0)) {
		t.Fatalf("new use must resolve to the existing binding")
	}
	if targetOf(t, sem, f.ident(t, "p", 0)) != sem.SymbolOf(f.binding(t, "p", 0)) {
		t.Fatalf("new function must get its own scope")
	}
	if err := sem.Validate(); err != nil {
		t.Fatalf("invalid model after analysis: %v", err)
	}
}
