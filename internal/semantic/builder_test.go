package semantic

import (
	"slices"
	"testing"

	"jssema/internal/ast"
	"jssema/internal/diag"
)

func TestShadowingResolvesToInnerBinding(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Let("x", b.Num(1)),
		b.Block(
			b.Let("x", b.Num(2)),
			b.ExprStmt(b.Call(b.Ident("use"), b.Ident("x"))),
		),
	)
	sem, bag := f.build(t, Options{})

	inner := sem.SymbolOf(f.binding(t, "x", 1))
	outer := sem.SymbolOf(f.binding(t, "x", 0))
	if inner == outer || !inner.IsValid() {
		t.Fatalf("expected two distinct symbols, got %d and %d", outer, inner)
	}
	if got := targetOf(t, sem, f.ident(t, "x", 0)); got != inner {
		t.Fatalf("use resolved to %d, want inner %d", got, inner)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	if sem.Symbol(inner).Scope == sem.Root() {
		t.Fatalf("inner let must live in the block scope")
	}
}

func TestFunctionDeclarationHoists(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Block(
			b.ExprStmt(b.Call(b.Ident("f"))),
			b.Function("f", nil),
		),
	)
	sem, _ := f.build(t, Options{})

	sym := sem.SymbolOf(f.binding(t, "f", 0))
	if got := targetOf(t, sem, f.ident(t, "f", 0)); got != sym {
		t.Fatalf("call resolved to %d, want hoisted function %d", got, sym)
	}
	if sem.Symbol(sym).Scope != sem.Root() {
		t.Fatalf("function declaration must bind in the program scope")
	}
	if !sem.SymbolFlags(sym).Has(SymFunction | SymFunctionScoped) {
		t.Fatalf("unexpected flags %s", sem.SymbolFlags(sym))
	}
}

func TestVarInBlockBindsToProgram(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Block(b.Var("y", b.Num(1))),
		b.ExprStmt(b.Call(b.Ident("use"), b.Ident("y"))),
	)
	sem, _ := f.build(t, Options{})

	sym := sem.SymbolOf(f.binding(t, "y", 0))
	if sem.Symbol(sym).Scope != sem.Root() {
		t.Fatalf("var must be owned by the program scope")
	}
	if got := targetOf(t, sem, f.ident(t, "y", 0)); got != sym {
		t.Fatalf("use resolved to %d, want %d", got, sym)
	}
	if refs := sem.ReferencesOf(sym); len(refs) != 1 {
		t.Fatalf("expected one reference, got %v", refs)
	}
}

func TestVarRedeclarationMerges(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Var("a", b.Num(1)),
		b.Var("a", b.Num(2)),
	)
	sem, bag := f.build(t, Options{})

	first, second := sem.SymbolOf(f.binding(t, "a", 0)), sem.SymbolOf(f.binding(t, "a", 1))
	if first != second {
		t.Fatalf("var redeclaration must reuse one symbol")
	}
	sym := sem.Symbol(first)
	if !sym.Flags.Has(SymMultiplyDeclared) {
		t.Fatalf("expected MultiplyDeclared, got %s", sym.Flags)
	}
	if sym.Decl != f.binding(t, "a", 1) {
		t.Fatalf("last declaration must be canonical")
	}
	if len(sym.Redeclarations) != 1 || sym.Redeclarations[0] != f.tree.Span(f.binding(t, "a", 0)) {
		t.Fatalf("unexpected redeclarations %v", sym.Redeclarations)
	}
	if bag.Len() != 0 {
		t.Fatalf("var redeclaration is silent, got %v", codes(bag))
	}
}

func TestLexicalRedeclarationWarnsAndLastWins(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Let("a", b.Num(1)),
		b.Let("a", b.Num(2)),
		b.ExprStmt(b.Ident("a")),
	)
	sem, bag := f.build(t, Options{})

	if !slices.Contains(codes(bag), diag.SemaRedeclaration) {
		t.Fatalf("expected a redeclaration warning, got %v", codes(bag))
	}
	for _, d := range bag.Items() {
		if d.Severity != diag.SevWarning {
			t.Fatalf("redeclaration must be a warning")
		}
	}
	last := sem.SymbolOf(f.binding(t, "a", 1))
	if got := targetOf(t, sem, f.ident(t, "a", 0)); got != last {
		t.Fatalf("use resolved to %d, want last declaration %d", got, last)
	}
}

func TestVarThroughLexicalWarns(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Let("a", b.Num(1)),
		b.Block(b.Var("a", b.Num(2))),
	)
	_, bag := f.build(t, Options{})
	if !slices.Contains(codes(bag), diag.SemaRedeclaration) {
		t.Fatalf("expected a redeclaration warning, got %v", codes(bag))
	}
}

func TestUseBeforeDeclarationWarns(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.ExprStmt(b.Call(b.Ident("use"), b.Ident("x"))),
		b.Let("x", b.Num(1)),
		b.Function("later", nil, b.Return(b.Ident("x"))),
	)
	sem, bag := f.build(t, Options{})

	got := codes(bag)
	if len(got) != 1 || got[0] != diag.SemaUseBeforeDeclaration {
		t.Fatalf("expected exactly one use-before-declaration warning, got %v", got)
	}
	sym := sem.SymbolOf(f.binding(t, "x", 0))
	if targetOf(t, sem, f.ident(t, "x", 0)) != sym {
		t.Fatalf("early use must still resolve")
	}
}

func TestUnresolvedTable(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.ExprStmt(b.Call(b.Member(b.Ident("console"), "log"), b.Ident("a"), b.Ident("a"))),
	)
	sem, _ := f.build(t, Options{})

	un := sem.Unresolved()
	if len(un) != 2 || un[0].Name != "a" || un[1].Name != "console" {
		t.Fatalf("unexpected unresolved table %+v", un)
	}
	if len(un[0].Refs) != 2 {
		t.Fatalf("expected two references to a, got %v", un[0].Refs)
	}
	for _, r := range un[0].Refs {
		if sem.Reference(r).Resolved() {
			t.Fatalf("unresolved reference claims a target")
		}
	}
	if len(f.nodes(ast.KindName, "log")) != 1 || sem.ReferenceOf(f.nodes(ast.KindName, "log")[0]).IsValid() {
		t.Fatalf("member property must not be a reference")
	}
}

func TestWriteClassification(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Let("x", b.Num(0)),
		b.Let("o", b.Object()),
		b.ExprStmt(b.Assign(ast.OpAssign, b.Ident("x"), b.Num(1))),
		b.ExprStmt(b.Assign(ast.OpAddAssign, b.Ident("x"), b.Num(2))),
		b.ExprStmt(b.Update(ast.OpInc, false, b.Ident("x"))),
		b.ExprStmt(b.Assign(ast.OpAssign, b.Member(b.Ident("o"), "p"), b.Ident("x"))),
		b.ExprStmt(b.Assign(ast.OpAssign, b.ArrayPattern(b.Ident("x"), b.Hole()), b.Ident("o"))),
		b.ForIn(b.Ident("x"), b.Ident("o"), b.Empty()),
	)
	sem, _ := f.build(t, Options{})

	want := []RefFlags{RefWrite, RefReadWrite, RefReadWrite, RefRead, RefWrite}
	for i, w := range want {
		ref := sem.Reference(sem.ReferenceOf(f.ident(t, "x", i)))
		if ref.Flags != w {
			t.Fatalf("x use #%d: want %s, got %s", i, w, ref.Flags)
		}
	}
	// for-in head
	if ref := sem.Reference(sem.ReferenceOf(f.ident(t, "x", 5))); ref.Flags != RefWrite {
		t.Fatalf("for-in target: got %s", ref.Flags)
	}
	if ref := sem.Reference(sem.ReferenceOf(f.ident(t, "o", 0))); ref.Flags != RefRead {
		t.Fatalf("member object in target position must be read, got %s", ref.Flags)
	}
}

func TestTypeAndValueReferencesAreSeparated(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.TSTypeAlias("T", b.TSKeyword("number")),
		b.VarDecl(ast.OpLet, b.Declarator(b.TypedBind("v", b.TypeRef("T")), ast.NoNodeID)),
		b.ExprStmt(b.Ident("T")),
	)
	sem, _ := f.build(t, Options{})

	alias := sem.SymbolOf(f.binding(t, "T", 0))
	if !sem.SymbolFlags(alias).Has(SymTypeOnly) {
		t.Fatalf("type alias must be type-only")
	}
	typeUse := sem.Reference(sem.ReferenceOf(f.ident(t, "T", 0)))
	if !typeUse.Flags.IsType() || typeUse.Symbol != alias {
		t.Fatalf("type reference: flags %s target %d", typeUse.Flags, typeUse.Symbol)
	}
	valueUse := sem.Reference(sem.ReferenceOf(f.ident(t, "T", 1)))
	if valueUse.Resolved() {
		t.Fatalf("value use must not resolve to a type-only symbol")
	}
}

func TestInterfaceAndClassMerge(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.TSInterface("Box"),
		b.Class("Box", ast.NoNodeID),
	)
	sem, bag := f.build(t, Options{})
	if bag.Len() != 0 {
		t.Fatalf("declaration merging must not warn: %v", codes(bag))
	}
	a, c := sem.SymbolOf(f.binding(t, "Box", 0)), sem.SymbolOf(f.binding(t, "Box", 1))
	if a != c || sem.SymbolFlags(a).Any(SymTypeOnly) {
		t.Fatalf("expected one merged symbol, got %d/%d %s", a, c, sem.SymbolFlags(a))
	}
}

func TestFunctionExpressionNameIsShadowable(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.ExprStmt(b.FuncExpr("self", nil,
			b.ExprStmt(b.Ident("self")),
		)),
		b.ExprStmt(b.FuncExpr("g", nil,
			b.Var("g", b.Num(1)),
			b.ExprStmt(b.Ident("g")),
		)),
	)
	sem, bag := f.build(t, Options{})

	self := sem.SymbolOf(f.binding(t, "self", 0))
	if !sem.SymbolFlags(self).Has(SymFunctionExprName) {
		t.Fatalf("expected FunctionExprName flag")
	}
	if sem.Symbol(self).Scope == sem.Root() {
		t.Fatalf("function expression name must bind in its own scope")
	}
	if targetOf(t, sem, f.ident(t, "self", 0)) != self {
		t.Fatalf("self reference must resolve to the expression name")
	}
	inner := sem.SymbolOf(f.binding(t, "g", 1))
	if targetOf(t, sem, f.ident(t, "g", 0)) != inner {
		t.Fatalf("var inside the function must shadow its name")
	}
	if bag.Len() != 0 {
		t.Fatalf("shadowing a function expression name is silent, got %v", codes(bag))
	}
}

func TestCatchParameterAndVar(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Try(
			b.Block(),
			b.Catch(b.Bind("e"), b.Block(b.Var("e", b.Num(1)), b.ExprStmt(b.Ident("e")))),
			ast.NoNodeID,
		),
	)
	sem, bag := f.build(t, Options{})
	if bag.Len() != 0 {
		t.Fatalf("var e inside catch(e) is legal: %v", codes(bag))
	}
	param := sem.SymbolOf(f.binding(t, "e", 0))
	if !sem.SymbolFlags(param).Has(SymCatchParam) {
		t.Fatalf("expected catch parameter flag")
	}
	if !sem.Scope(sem.Symbol(param).Scope).Flags.Has(ScopeCatch) {
		t.Fatalf("catch parameter must live in the catch scope")
	}
	if targetOf(t, sem, f.ident(t, "e", 0)) != param {
		t.Fatalf("use inside catch body must see the parameter")
	}
	if sem.Symbol(sem.SymbolOf(f.binding(t, "e", 1))).Scope != sem.Root() {
		t.Fatalf("var must hoist out of the catch clause")
	}
}

func TestStrictMode(t *testing.T) {
	t.Run("directive", func(t *testing.T) {
		f := newFixture()
		b := f.b
		b.Program(b.Directive("use strict"), b.Function("f", nil))
		sem, _ := f.build(t, Options{})
		fn := sem.ScopeOwnedBy(f.tree.Parent(f.binding(t, "f", 0)))
		if !sem.IsStrict(sem.Root()) || !sem.IsStrict(fn) {
			t.Fatalf("strictness must cover the program and be inherited")
		}
	})
	t.Run("function directive", func(t *testing.T) {
		f := newFixture()
		b := f.b
		b.Program(b.Function("f", nil, b.Directive("use strict")), b.Class("C", ast.NoNodeID))
		sem, _ := f.build(t, Options{})
		fn := sem.ScopeOwnedBy(f.tree.Parent(f.binding(t, "f", 0)))
		cls := sem.ScopeOwnedBy(f.tree.Parent(f.binding(t, "C", 0)))
		if sem.IsStrict(sem.Root()) || !sem.IsStrict(fn) || !sem.IsStrict(cls) {
			t.Fatalf("only the function and class scopes are strict")
		}
	})
	t.Run("module", func(t *testing.T) {
		f := newFixture()
		b := f.b
		b.Program(b.Import("dep", b.ImportDefault("d")))
		sem, _ := f.build(t, Options{})
		if !sem.IsModule() || !sem.IsStrict(sem.Root()) {
			t.Fatalf("a program with imports is a strict module")
		}
		if !sem.SymbolFlags(sem.SymbolOf(f.binding(t, "d", 0))).Has(SymImport) {
			t.Fatalf("import binding must be flagged")
		}
	})
}

func TestExportFlags(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.ExportNamed(b.Const("a", b.Num(1))),
		b.Let("c", b.Num(2)),
		b.ExportNamed(ast.NoNodeID, b.ExportSpec("c", "d")),
		b.Let("e", b.Num(3)),
	)
	sem, bag := f.build(t, Options{})
	for _, name := range []string{"a", "c"} {
		if !sem.SymbolFlags(sem.SymbolOf(f.binding(t, name, 0))).Has(SymExport) {
			t.Fatalf("%s must be exported", name)
		}
	}
	if sem.SymbolFlags(sem.SymbolOf(f.binding(t, "e", 0))).Has(SymExport) {
		t.Fatalf("e is not exported")
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics %v", codes(bag))
	}
}

func TestLexicalForHeadOpensScope(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.For(b.Let("i", b.Num(0)), b.Binary(ast.OpLt, b.Ident("i"), b.Num(3)), b.Update(ast.OpInc, false, b.Ident("i")),
			b.Block(b.ExprStmt(b.Ident("i")))),
	)
	sem, _ := f.build(t, Options{})
	sym := sem.SymbolOf(f.binding(t, "i", 0))
	sc := sem.Scope(sem.Symbol(sym).Scope)
	if !sc.Flags.Has(ScopeLoop) || sc.ID == sem.Root() {
		t.Fatalf("let in a for head must bind in the loop scope, got %s", sc.Flags)
	}
	if len(sem.ReferencesOf(sym)) != 3 {
		t.Fatalf("expected three references, got %v", sem.ReferencesOf(sym))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Var("a", b.Num(1)),
		b.Function("f", b.Params("p", "q"),
			b.Let("a", b.Ident("p")),
			b.Return(b.Arrow(b.Params("r"), b.Binary(ast.OpAdd, b.Ident("a"), b.Ident("r")))),
		),
		b.ExprStmt(b.Call(b.Ident("f"), b.Ident("a"), b.Ident("undef"))),
	)
	first, _ := f.build(t, Options{})
	second, _ := f.build(t, Options{Capacity: first.Stats()})
	if first.Snapshot() != second.Snapshot() {
		t.Fatalf("snapshots differ:\n%s\n---\n%s", first.Snapshot(), second.Snapshot())
	}
	st := first.Stats()
	if st.Scopes != 3 || st.Symbols != 6 || st.References != 6 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestParametersAndDefaults(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Const("d", b.Num(1)),
		b.Function("f", []ast.NodeID{
			b.AssignPattern(b.Bind("a"), b.Ident("d")),
			b.ObjectPattern(b.Prop("k", b.Bind("k")), b.Rest(b.Bind("rest"))),
		}, b.Return(b.Ident("rest"))),
	)
	sem, _ := f.build(t, Options{})
	for _, name := range []string{"a", "k", "rest"} {
		sym := sem.SymbolOf(f.binding(t, name, 0))
		if !sem.SymbolFlags(sym).Has(SymParam) {
			t.Fatalf("%s must be a parameter, got %s", name, sem.SymbolFlags(sym))
		}
	}
	if targetOf(t, sem, f.ident(t, "d", 0)) != sem.SymbolOf(f.binding(t, "d", 0)) {
		t.Fatalf("default value must resolve outward")
	}
}

func TestInterfaceDeclarationsMerge(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.TSInterface("I", b.TSProperty("a", b.TSKeyword("number"))),
		b.TSInterface("I", b.TSProperty("b", b.TSKeyword("number"))),
	)
	sem, bag := f.build(t, Options{})
	if bag.Len() != 0 {
		t.Fatalf("interfaces must merge silently: %v", codes(bag))
	}
	first, second := sem.SymbolOf(f.binding(t, "I", 0)), sem.SymbolOf(f.binding(t, "I", 1))
	if first != second {
		t.Fatalf("expected one merged symbol, got %d/%d", first, second)
	}
	if !sem.SymbolFlags(first).Has(SymInterface | SymTypeOnly) {
		t.Fatalf("merged interface flags: %s", sem.SymbolFlags(first))
	}
}

func TestEnumMembersResolveInInitializers(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.TSEnum("E",
			b.TSEnumMember("A", ast.NoNodeID),
			b.TSEnumMember("B", b.Ident("A")),
		),
		b.ExprStmt(b.Ident("A")),
	)
	sem, bag := f.build(t, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	keys := f.nodes(ast.KindName, "A")
	if len(keys) != 1 {
		t.Fatalf("expected one member key, got %d", len(keys))
	}
	member := sem.SymbolOf(keys[0])
	if !sem.SymbolFlags(member).Has(SymEnumMember) {
		t.Fatalf("member flags: %s", sem.SymbolFlags(member))
	}
	if !sem.Scope(sem.Symbol(member).Scope).Flags.Has(ScopeEnum) {
		t.Fatalf("member must live in the enum scope")
	}
	if targetOf(t, sem, f.ident(t, "A", 0)) != member {
		t.Fatalf("initializer must resolve to the earlier member")
	}
	if got := sem.Unresolved(); len(got) != 1 || got[0].Name != "A" || len(got[0].Refs) != 1 {
		t.Fatalf("only the use outside the enum stays unresolved, got %+v", got)
	}
}

func TestLexicalRedeclarationOfCatchParameter(t *testing.T) {
	f := newFixture()
	b := f.b
	b.Program(
		b.Try(
			b.Block(),
			b.Catch(b.Bind("e"), b.Block(b.Let("e", b.Num(1)))),
			ast.NoNodeID,
		),
	)
	_, bag := f.build(t, Options{})
	if got := codes(bag); len(got) != 1 || got[0] != diag.SemaRedeclaration {
		t.Fatalf("expected one redeclaration warning, got %v", got)
	}
}
