package lintscript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/lint"
	"jssema/internal/semantic"
)

func program(build func(b *ast.Builder)) *semantic.Semantic {
	tree := ast.NewTree(0, nil, 0)
	build(ast.NewSourceBuilder(tree))
	return semantic.Build(tree, semantic.Options{})
}

// runScript lints sem with the script rule and returns only its findings.
func runScript(t *testing.T, sem *semantic.Semantic, rule lint.Rule) []diag.Diagnostic {
	t.Helper()
	l, err := lint.New(lint.Options{Extra: []lint.Rule{rule}})
	require.NoError(t, err)
	bag := diag.NewBag(64)
	l.Run(sem, diag.BagReporter{Bag: bag})
	var out []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Code == diag.LintScript || d.Code == diag.LintScriptError {
			out = append(out, d)
		}
	}
	return out
}

func TestReportsSymbols(t *testing.T) {
	t.Parallel()
	sem := program(func(b *ast.Builder) {
		b.Program(b.Let("tmp", b.Num(1)), b.Let("keep", b.Num(2)))
	})
	script := `
for _, s := range symbols() {
  if s["name"] == "tmp" {
    report(s, "avoid the name " + s["name"])
  }
}
`
	got := runScript(t, sem, New("no-tmp", script))
	require.Len(t, got, 1)
	assert.Equal(t, diag.LintScript, got[0].Code)
	assert.Equal(t, diag.SevWarning, got[0].Severity)
	assert.Equal(t, "avoid the name tmp", got[0].Message)

	tmp := sem.Symbol(sem.Lookup(sem.Root(), "tmp"))
	assert.Equal(t, tmp.Span, got[0].Primary)
}

func TestUnresolvedAndGlobals(t *testing.T) {
	t.Parallel()
	sem := program(func(b *ast.Builder) {
		b.Program(
			b.ExprStmt(b.Call(b.Member(b.Ident("console"), "log"), b.Ident("missing"))),
			b.ExprStmt(b.Ident("missing")),
		)
	})
	script := `
for _, u := range unresolved() {
  if !is_global(u["name"]) {
    for _, r := range u["refs"] {
      report(r, "undeclared " + u["name"])
    }
  }
}
`
	got := runScript(t, sem, New("undeclared", script))
	require.Len(t, got, 2)
	for _, d := range got {
		assert.Equal(t, "undeclared missing", d.Message)
	}
}

func TestReferencesAndScopes(t *testing.T) {
	t.Parallel()
	sem := program(func(b *ast.Builder) {
		b.Program(
			b.Var("used", b.Num(1)),
			b.Var("idle", b.Num(2)),
			b.ExprStmt(b.Call(b.Ident("f"), b.Ident("used"))),
		)
	})
	script := `
for _, s := range symbols() {
  if len(references(s["id"])) == 0 {
    sc := scope(scope_of(s["decl"]))
    report(s, s["name"] + " in " + sc["flags"])
  }
}
`
	got := runScript(t, sem, New("idle", script))
	require.Len(t, got, 1)
	want := "idle in " + sem.Scope(sem.Root()).Flags.String()
	assert.Equal(t, want, got[0].Message)
}

func TestScriptErrorIsReported(t *testing.T) {
	t.Parallel()
	sem := program(func(b *ast.Builder) { b.Program(b.Let("x", b.Num(1))) })

	got := runScript(t, sem, New("broken", `report(symbols()`))
	require.Len(t, got, 1)
	assert.Equal(t, diag.LintScriptError, got[0].Code)
	assert.Equal(t, diag.SevError, got[0].Severity)
	assert.Contains(t, got[0].Message, "script:broken")
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "no-console.risor")
	require.NoError(t, os.WriteFile(path, []byte(`x := 1`), 0o644))

	rules, err := Load([]string{path})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "script:no-console", rules[0].Name())
	assert.Equal(t, diag.LintScript, rules[0].Code())

	_, err = Load([]string{filepath.Join(dir, "absent.risor")})
	require.Error(t, err)
}
