package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jssema/internal/frontend"
	"jssema/internal/semantic"
	"jssema/internal/source"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func analyze(t *testing.T, fs *source.FileSet, path, src string) (*source.File, *semantic.Semantic) {
	t.Helper()
	id := fs.AddVirtual(path, []byte(src))
	f := fs.Get(id)
	res, err := frontend.Parse(context.Background(), f, nil, nil)
	require.NoError(t, err)
	return f, semantic.Build(res.Tree, semantic.Options{Module: res.Module})
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
	for _, table := range []string{"files", "scopes", "symbols", "refs"} {
		n, err := s.Count(context.Background(), table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}
	_, err := s.Count(context.Background(), "sqlite_master; DROP TABLE files")
	assert.Error(t, err)
}

func TestWriteFileAndQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	fs := source.NewFileSet()
	f, sem := analyze(t, fs, "main.js", "let x = 1;\nfunction f(a) { return a + x + y; }\nf(x);\n")

	fileID, st, err := s.WriteFile(ctx, fs, f, sem)
	require.NoError(t, err)
	assert.Positive(t, fileID)
	assert.Equal(t, Stats{Scopes: 2, Symbols: 3, References: 5}, st)

	xs, err := s.SymbolsNamed(ctx, "x")
	require.NoError(t, err)
	require.Len(t, xs, 1)
	assert.Equal(t, "main.js", xs[0].Path)
	assert.Equal(t, "program", xs[0].ScopeKind)
	assert.Equal(t, 2, xs[0].Refs)
	assert.Equal(t, 1, xs[0].Line)
	assert.Equal(t, 5, xs[0].Col)

	refs, err := s.ReferencesTo(ctx, xs[0].ID)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, 2, refs[0].Line)
	assert.Equal(t, 3, refs[1].Line)

	as, err := s.SymbolsNamed(ctx, "a")
	require.NoError(t, err)
	require.Len(t, as, 1)
	assert.Equal(t, "function", as[0].ScopeKind)
	assert.Contains(t, as[0].Flags, "param")

	un, err := s.Unresolved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NameCount{{Name: "y", Count: 1}}, un)
}

func TestWriteFileReplacesPreviousRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	fs := source.NewFileSet()

	f1, sem1 := analyze(t, fs, "a.js", "let a = 1; let b = a;\n")
	_, _, err := s.WriteFile(ctx, fs, f1, sem1)
	require.NoError(t, err)
	other, otherSem := analyze(t, fs, "b.js", "const z = 0;\n")
	_, _, err = s.WriteFile(ctx, fs, other, otherSem)
	require.NoError(t, err)

	f2, sem2 := analyze(t, fs, "a.js", "let only = 1;\n")
	_, _, err = s.WriteFile(ctx, fs, f2, sem2)
	require.NoError(t, err)

	files, err := s.Count(ctx, "files")
	require.NoError(t, err)
	assert.Equal(t, 2, files)
	symbols, err := s.Count(ctx, "symbols")
	require.NoError(t, err)
	assert.Equal(t, 2, symbols)

	gone, err := s.SymbolsNamed(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, gone)
}
