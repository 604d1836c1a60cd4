package testkit

import (
	"context"
	"strings"
	"testing"

	"jssema/internal/ast"
	"jssema/internal/frontend"
	"jssema/internal/semantic"
	"jssema/internal/source"
)

func parse(t *testing.T, src string) (*ast.Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("main.js", []byte(src)))
	res, err := frontend.Parse(context.Background(), f, nil, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return res.Tree, f
}

func TestParsedTreeHoldsInvariants(t *testing.T) {
	tree, f := parse(t, "let x = 1;\nfunction f(a, b = x) {\n  for (const k of a) { b += k; }\n  return b;\n}\n")
	sem := semantic.Build(tree, semantic.Options{})
	if err := CheckSpanInvariants(tree, f); err != nil {
		t.Fatalf("spans: %v", err)
	}
	if err := CheckModel(sem); err != nil {
		t.Fatalf("model: %v", err)
	}
}

func TestSpanOutsideParentIsReported(t *testing.T) {
	tree, f := parse(t, "let x = 1;\nlet y = 2;\n")
	first := tree.List(tree.Root)[0]
	tree.Node(first).Span.End = 100
	err := CheckSpanInvariants(tree, f)
	if err == nil || !strings.Contains(err.Error(), "beyond content") {
		t.Fatalf("expected a content bound error, got %v", err)
	}
}

func TestPlaceholderIsReported(t *testing.T) {
	tree := ast.NewTree(0, nil, 0)
	b := ast.NewBuilder(tree)
	b.Program(b.ExprStmt(b.Placeholder()))
	tree.LinkParents(tree.Root)
	err := CheckNoPlaceholders(tree)
	if err == nil || !strings.Contains(err.Error(), "placeholder") {
		t.Fatalf("expected a placeholder error, got %v", err)
	}
}

func TestBrokenParentLinkIsReported(t *testing.T) {
	tree := ast.NewTree(0, nil, 0)
	b := ast.NewBuilder(tree)
	b.Program(b.ExprStmt(b.Ident("a")))
	tree.LinkParents(tree.Root)
	stmt := tree.List(tree.Root)[0]
	tree.Node(stmt).Parent = ast.NoNodeID
	if err := CheckParents(tree); err == nil {
		t.Fatalf("expected a parent link error")
	}
}
