package frontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jssema/internal/ast"
	"jssema/internal/codegen"
	"jssema/internal/diag"
	"jssema/internal/lint"
	"jssema/internal/semantic"
	"jssema/internal/source"
)

func parse(t *testing.T, path, src string) (*Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(src))
	bag := diag.NewBag(100)
	res, err := Parse(context.Background(), fs.Get(id), nil, diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	require.NotNil(t, res.Tree)
	return res, bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	src := `"use strict";
const a = b ?? c;
let [x, , y = 1] = list;
for (const k of keys) {
  total += obj[k];
}
class A extends B {
  constructor() {
    super();
  }
}
`
	res, bag := parse(t, "main.js", src)
	assert.Empty(t, codes(bag))
	assert.False(t, res.Module)
	assert.Equal(t, src, codegen.Print(res.Tree, codegen.Options{}))

	first := res.Tree.List(res.Tree.Root)[0]
	assert.True(t, res.Tree.Node(first).Has(ast.FlagDirective))
}

func TestModuleSyntax(t *testing.T) {
	t.Parallel()
	src := `import def, { one as uno } from "lib";
import * as ns from "./ns";
export { uno as alias };
export * from "other";
`
	res, bag := parse(t, "mod.js", src)
	assert.Empty(t, codes(bag))
	assert.True(t, res.Module)
	assert.Equal(t, src, codegen.Print(res.Tree, codegen.Options{}))

	sem := semantic.Build(res.Tree, semantic.Options{Module: res.Module})
	root := sem.Root()
	for _, name := range []string{"def", "uno", "ns"} {
		sym := sem.Lookup(root, name)
		require.True(t, sym.IsValid(), name)
		assert.True(t, sem.SymbolFlags(sym).Has(semantic.SymImport), name)
	}
	assert.Len(t, sem.ReferencesOf(sem.Lookup(root, "uno")), 1)
	assert.True(t, sem.IsStrict(root))
}

func TestScopesFromSource(t *testing.T) {
	t.Parallel()
	src := `let x = 1;
{
  let x = 2;
  use(x);
  hoisted();
  function hoisted() {}
}
`
	res, _ := parse(t, "scopes.js", src)
	sem := semantic.Build(res.Tree, semantic.Options{})

	var inner semantic.SymbolID
	for _, sym := range sem.Symbols() {
		if sem.SymbolName(sym.ID) == "x" && sym.Scope != sem.Root() {
			inner = sym.ID
		}
	}
	require.True(t, inner.IsValid())
	assert.Len(t, sem.ReferencesOf(inner), 1)
	assert.Empty(t, sem.ReferencesOf(sem.Lookup(sem.Root(), "x")))

	unresolved := sem.Unresolved()
	require.Len(t, unresolved, 1)
	assert.Equal(t, "use", unresolved[0].Name)
}

func TestTypeScript(t *testing.T) {
	t.Parallel()
	src := `interface Shape { area: number }
type ID = string | number;
enum Color { Red, Green = 5 }
declare const env: Shape;
function area(s: Shape, id?: ID): number {
  return s.area;
}
const c = Color.Red as number;
`
	res, bag := parse(t, "shapes.ts", src)
	assert.Empty(t, codes(bag))
	assert.Equal(t, source.LangTypeScript, res.Tree.Lang)

	want := `var Color = { Red: 0, Green: 5 };
function area(s, id) {
  return s.area;
}
const c = Color.Red;
`
	assert.Equal(t, want, codegen.Print(res.Tree, codegen.Options{}))

	sem := semantic.Build(res.Tree, semantic.Options{})
	shape := sem.Lookup(sem.Root(), "Shape")
	require.True(t, shape.IsValid())
	// env and s both annotate with Shape
	assert.Len(t, sem.ReferencesOf(shape), 2)
	for _, ref := range sem.ReferencesOf(shape) {
		assert.True(t, sem.Reference(ref).Flags.IsType())
	}
}

func TestSyntaxErrorKeepsGoing(t *testing.T) {
	t.Parallel()
	res, bag := parse(t, "broken.js", "let b = 2;\nlet a = ;\n")
	assert.Positive(t, res.Errors)
	assert.Contains(t, codes(bag), diag.SynParseError)
	assert.True(t, bag.HasErrors())

	sem := semantic.Build(res.Tree, semantic.Options{})
	assert.True(t, sem.Lookup(sem.Root(), "b").IsValid())
}

func TestUnsupportedIsOpaque(t *testing.T) {
	t.Parallel()
	res, bag := parse(t, "tag.js", "const q = sql`select 1`;\n")
	assert.Contains(t, codes(bag), diag.SynUnsupported)
	assert.False(t, bag.HasErrors())

	var opaque int
	res.Tree.Walk(res.Tree.Root, func(id ast.NodeID) bool {
		if res.Tree.Kind(id) == ast.KindOpaque {
			opaque++
			assert.Equal(t, "sql`select 1`", res.Tree.Name(id))
		}
		return true
	})
	assert.Equal(t, 1, opaque)
	assert.Equal(t, "const q = (sql`select 1`);\n", codegen.Print(res.Tree, codegen.Options{}))
}

func TestJSXNamesAreReferences(t *testing.T) {
	t.Parallel()
	src := `import Comp from "x";
import * as ui from "ui";
export const el = <Comp />;
export const page = <ui.Panel title={title} {...rest}><div>{count + 1}</div></ui.Panel>;
`
	res, bag := parse(t, "m.jsx", src)
	assert.Empty(t, codes(bag))
	assert.Equal(t, src, codegen.Print(res.Tree, codegen.Options{}))

	sem := semantic.Build(res.Tree, semantic.Options{Module: res.Module})
	require.NoError(t, sem.Validate())
	root := sem.Root()
	assert.Len(t, sem.ReferencesOf(sem.Lookup(root, "Comp")), 1)
	// opening and closing tag
	assert.Len(t, sem.ReferencesOf(sem.Lookup(root, "ui")), 2)

	var names []string
	for _, u := range sem.Unresolved() {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"count", "rest", "title"}, names)

	l, err := lint.New(lint.Options{Rules: []string{"no-unused-vars"}})
	require.NoError(t, err)
	lints := diag.NewBag(10)
	l.Run(sem, diag.BagReporter{Bag: lints})
	assert.Empty(t, codes(lints))
}

func TestTemplateAndHoles(t *testing.T) {
	t.Parallel()
	res, _ := parse(t, "tpl.js", "f(`a${b}c`, [, x]);\n")
	assert.Equal(t, "f(`a${b}c`, [, x]);\n", codegen.Print(res.Tree, codegen.Options{}))
}

func TestUnquote(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		`"plain"`:       "plain",
		`'it\'s'`:       "it's",
		`"a\nb"`:        "a\nb",
		`"\x41B"`:       "AB",
		`"\u{1F600}"`:   "\U0001F600",
		`"\q"`:          "q",
		"\"line\\\nx\"": "linex",
	}
	for lit, want := range cases {
		assert.Equal(t, want, unquote(lit), lit)
	}
}
