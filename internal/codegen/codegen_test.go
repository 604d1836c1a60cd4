package codegen

import (
	"testing"

	"jssema/internal/ast"
)

func newTree() (*ast.Tree, *ast.Builder) {
	tree := ast.NewTree(0, nil, 0)
	return tree, ast.NewSourceBuilder(tree)
}

func TestPrecedence(t *testing.T) {
	tree, b := newTree()
	id := b.Ident
	cases := []struct {
		node ast.NodeID
		want string
	}{
		{b.Binary(ast.OpMul, b.Binary(ast.OpAdd, id("a"), id("b")), id("c")), "(a + b) * c"},
		{b.Binary(ast.OpAdd, id("a"), b.Binary(ast.OpMul, id("b"), id("c"))), "a + b * c"},
		{b.Binary(ast.OpSub, id("a"), b.Binary(ast.OpSub, id("b"), id("c"))), "a - (b - c)"},
		{b.Binary(ast.OpExp, id("a"), b.Binary(ast.OpExp, id("b"), id("c"))), "a ** b ** c"},
		{b.Binary(ast.OpExp, b.Binary(ast.OpExp, id("a"), id("b")), id("c")), "(a ** b) ** c"},
		{b.Binary(ast.OpExp, b.Unary(ast.OpNeg, id("a")), id("b")), "(-a) ** b"},
		{b.Logical(ast.OpNullish, id("a"), b.Logical(ast.OpOr, id("b"), id("c"))), "a ?? (b || c)"},
		{b.Logical(ast.OpOr, b.Logical(ast.OpNullish, id("a"), id("b")), id("c")), "(a ?? b) || c"},
		{b.Assign(ast.OpAssign, id("x"), b.Assign(ast.OpAssign, id("y"), id("z"))), "x = y = z"},
		{b.Cond(b.Cond(id("a"), id("b"), id("c")), id("d"), id("e")), "(a ? b : c) ? d : e"},
		{b.Cond(id("a"), id("b"), b.Cond(id("c"), id("d"), id("e"))), "a ? b : c ? d : e"},
		{b.Call(id("f"), b.Seq(id("a"), id("b"))), "f((a, b))"},
		{b.New(b.Call(id("f"))), "new (f())()"},
		{b.Member(b.Binary(ast.OpAdd, id("a"), id("b")), "c"), "(a + b).c"},
		{b.Member(b.Num(1), "toString"), "(1).toString"},
		{b.Unary(ast.OpNeg, b.Unary(ast.OpNeg, id("a"))), "- -a"},
		{b.Unary(ast.OpTypeof, id("a")), "typeof a"},
		{b.Void0(), "void 0"},
		{b.Update(ast.OpInc, false, b.Member(id("a"), "b")), "a.b++"},
		{b.Call(b.Member(id("Math"), "pow"), id("a"), id("b")), "Math.pow(a, b)"},
		{b.Arrow(b.Params("x"), b.Object(b.Prop("x", id("x")))), "(x) => ({ x: x })"},
		{b.Index(id("a"), b.Str("k")), `a["k"]`},
		{b.Binary(ast.OpIn, b.Str("k"), id("o")), `"k" in o`},
		{b.Array(id("a"), b.Hole(), b.Hole()), "[a, , ,]"},
	}
	for i, tc := range cases {
		if got := PrintNode(tree, tc.node, Options{}); got != tc.want {
			t.Errorf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestStatements(t *testing.T) {
	tree, b := newTree()
	b.Program(
		b.Directive("use strict"),
		b.Var("x", b.Num(1)),
		b.If(b.Ident("x"),
			b.Block(b.ExprStmt(b.Call(b.Ident("f")))),
			b.ExprStmt(b.Call(b.Ident("g")))),
		b.For(
			b.VarDecl(ast.OpLet, b.Declarator(b.Bind("i"), b.Num(0))),
			b.Binary(ast.OpLt, b.Ident("i"), b.Ident("n")),
			b.Update(ast.OpInc, false, b.Ident("i")),
			b.Block()),
		b.Switch(b.Ident("x"),
			b.Case(b.Num(1), b.Break("")),
			b.Case(ast.NoNodeID, b.Return(ast.NoNodeID))),
		b.Try(b.Block(), b.Catch(b.Bind("e"), b.Block()), ast.NoNodeID),
		b.ExprStmt(b.Call(b.FuncExpr("", nil))),
	)
	want := `"use strict";
var x = 1;
if (x) {
  f();
} else g();
for (let i = 0; i < n; i++) {}
switch (x) {
  case 1:
    break;
  default:
    return;
}
try {} catch (e) {}
(function () {}());
`
	if got := Print(tree, Options{}); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTypeScriptErasure(t *testing.T) {
	tree, b := newTree()
	b.Program(
		b.TSInterface("Shape", b.TSProperty("area", b.TSKeyword("number"))),
		b.TSTypeAlias("ID", b.TSKeyword("string")),
		b.VarDecl(ast.OpLet, b.Declarator(b.TypedBind("s", b.TypeRef("Shape")), ast.NoNodeID)),
		b.Make(ast.KindFunctionDecl, ast.OpNone, []ast.NodeID{b.Bind("over")}, nil),
		b.TSEnum("Color",
			b.TSEnumMember("Red", ast.NoNodeID),
			b.TSEnumMember("Green", b.Num(5)),
			b.TSEnumMember("Blue", ast.NoNodeID),
			b.TSEnumMember("Named", b.Str("n")),
			b.TSEnumMember("Lime", b.Ident("Green")),
			b.TSEnumMember("Teal", ast.NoNodeID)),
		b.ExportNamed(b.TSTypeAlias("X", b.TSKeyword("number"))),
	)
	want := "let s;\nvar Color = { Red: 0, Green: 5, Blue: 6, Named: \"n\", Lime: 5, Teal: 6 };\n"
	if got := Print(tree, Options{}); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestQuotes(t *testing.T) {
	tree, b := newTree()
	cases := []struct {
		value string
		quote Quote
		want  string
	}{
		{"plain", QuoteSingle, `'plain'`},
		{"it's", QuoteSingle, `"it's"`},
		{`say "hi"`, QuoteDouble, `'say "hi"'`},
		{`both ' and "`, QuoteDouble, `"both ' and \""`},
		{"a\nb\\", QuoteDouble, `"a\nb\\"`},
		{"\x01 ", QuoteDouble, `"\x01 "`},
	}
	for _, tc := range cases {
		if got := PrintNode(tree, b.Str(tc.value), Options{Quote: tc.quote}); got != tc.want {
			t.Errorf("%q: got %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestClassAndTemplate(t *testing.T) {
	tree, b := newTree()
	ctor := b.FuncExpr("", nil, b.ExprStmt(b.Call(b.Super())))
	tpl := b.Make(ast.KindTemplate, ast.OpNone, nil, []ast.NodeID{
		b.Lit(ast.OpTemplateChunk, "n="), b.Ident("n"), b.Lit(ast.OpTemplateChunk, ""),
	})
	b.Program(
		b.Class("A", b.Ident("B"),
			b.Method(ast.OpConstructor, "constructor", ctor),
			b.ClassProp("n", b.Num(1))),
		b.ExprStmt(tpl),
	)
	want := "class A extends B {\n  constructor() {\n    super();\n  }\n  n = 1;\n}\n`n=${n}`;\n"
	if got := Print(tree, Options{}); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPlaceholderViolates(t *testing.T) {
	tree, b := newTree()
	ph := b.Placeholder()
	defer func() {
		if _, ok := ast.AsViolation(recover()); !ok {
			t.Fatalf("expected a structural violation")
		}
	}()
	PrintNode(tree, ph, Options{})
}
