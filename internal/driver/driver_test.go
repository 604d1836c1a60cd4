package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jssema/internal/ast"
	"jssema/internal/config"
	"jssema/internal/diag"
	"jssema/internal/observ"
	"jssema/internal/source"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
	}
	return dir
}

func messages(ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Message)
	}
	return out
}

type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func TestListSources(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"a.js":                  "",
		"src/b.ts":              "",
		"src/c.tsx":             "",
		"README.md":             "",
		"node_modules/x/i.js":   "",
		".hidden/d.js":          "",
		".jssema-cache/e.js":    "",
		"src/nested/deep/f.mjs": "",
	})
	files, err := ListSources([]string{dir, filepath.Join(dir, "a.js")}, filepath.Join(dir, ".jssema-cache"))
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.js", "src/b.ts", "src/c.tsx", "src/nested/deep/f.mjs"}, rel)

	_, err = ListSources([]string{filepath.Join(dir, "missing")}, "")
	assert.Error(t, err)
}

func TestRunChecksAndEmits(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"main.js":   "export const sq = (n) => n ** 2;\nconsole.log(sq(x));\n",
		"types.ts":  "interface Shape { area: number }\nexport function area(s: Shape) { return s.area; }\n",
		"broken.js": "let ok = 1;\nlet a = ;\n",
	})
	cfg := config.Default()
	cfg.Transform.Passes = []string{"exponentiation"}

	sink := &recordSink{}
	timer := observ.NewTimer()
	res, err := Run(context.Background(), []string{dir}, Options{
		Config:   cfg,
		Jobs:     2,
		Emit:     true,
		Verify:   true,
		Timer:    timer,
		Progress: sink,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.True(t, res.HasErrors())

	byName := map[string]*FileResult{}
	for i := range res.Files {
		byName[filepath.Base(res.Files[i].Path)] = &res.Files[i]
	}

	main := byName["main.js"]
	require.NoError(t, main.Err)
	assert.True(t, main.Module)
	assert.Contains(t, main.Output, "Math.pow(n, 2)")
	assert.Contains(t, messages(main.Bag.Items()), "'x' is not defined")
	assert.Positive(t, main.Stats.Symbols)

	types := byName["types.ts"]
	require.NoError(t, types.Err)
	assert.NotContains(t, types.Output, "interface")
	assert.False(t, types.Bag.HasErrors())

	broken := byName["broken.js"]
	require.NoError(t, broken.Err)
	assert.True(t, broken.Bag.HasErrors())
	for _, d := range broken.Bag.Items() {
		assert.NotEqual(t, diag.SemaInvariant, d.Code, d.Message)
	}

	report := timer.Report()
	var phases []string
	for _, p := range report.Phases {
		phases = append(phases, p.Name)
	}
	assert.Subset(t, phases, []string{"load", "parse", "semantic", "lint", "transform", "codegen"})

	done := 0
	for _, ev := range sink.events {
		if ev.Status == StatusDone || ev.Status == StatusError {
			done++
		}
	}
	assert.Equal(t, 3, done)
}

func TestRunUsesCache(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"a.js": "let unused = 1;\nfoo();\n",
	})
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := Options{Config: config.Default(), Cache: cache}

	first, err := Run(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	require.Len(t, first.Files, 1)
	assert.False(t, first.Files[0].Cached)

	second, err := Run(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	require.Len(t, second.Files, 1)
	assert.True(t, second.Files[0].Cached)
	assert.Equal(t, messages(first.Diagnostics()), messages(second.Diagnostics()))
	assert.Equal(t, first.Files[0].Stats, second.Files[0].Stats)
	for _, d := range second.Diagnostics() {
		assert.Equal(t, second.Files[0].FileID, d.Primary.File)
	}

	// A different rule set is a different key.
	opts.Config.Lint.Rules = []string{"no-undef"}
	third, err := Run(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.False(t, third.Files[0].Cached)
	assert.Equal(t, []string{"'foo' is not defined"}, messages(third.Diagnostics()))

	// Models are rebuilt when requested, even on a hit.
	opts.KeepSemantic = true
	fourth, err := Run(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.False(t, fourth.Files[0].Cached)
	require.NotNil(t, fourth.Files[0].Sem)
	assert.True(t, fourth.Files[0].Sem.Lookup(fourth.Files[0].Sem.Root(), "unused").IsValid())
}

func TestRunRejectsUnknownRule(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{"a.js": "1;\n"})
	cfg := config.Default()
	cfg.Lint.Rules = []string{"no-such-rule"}
	_, err := Run(context.Background(), []string{dir}, Options{Config: cfg})
	assert.Error(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{"a.js": "1;\n", "b.js": "2;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, []string{dir}, Options{Config: config.Default()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuard(t *testing.T) {
	t.Parallel()
	err := Guard(func() { ast.Violatef("node %d is broken", 7) })
	require.Error(t, err)
	var v *ast.StructuralViolation
	assert.True(t, errors.As(err, &v))
	assert.Contains(t, err.Error(), "node 7 is broken")

	assert.NoError(t, Guard(func() {}))
	assert.Panics(t, func() { _ = Guard(func() { panic("other") }) })
}

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Parallel()
	cache, err := OpenDiskCache(t.TempDir())
	require.NoError(t, err)
	key := combineDigest([]byte("content"))

	var out Payload
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	in := &Payload{Path: "a.js", Output: "x;\n", Diagnostics: []CachedDiagnostic{{Severity: 2, Code: 6001, Message: "m", Start: 1, End: 2}}}
	require.NoError(t, cache.Put(key, in))
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x;\n", out.Output)
	assert.Equal(t, "m", out.Diagnostics[0].Message)

	require.NoError(t, cache.DropAll())
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFingerprintIsOrderIndependentForMaps(t *testing.T) {
	t.Parallel()
	a := map[string]string{"no-undef": "error", "no-shadow": "warning", "prefer-const": "info"}
	b := map[string]string{"prefer-const": "info", "no-undef": "error", "no-shadow": "warning"}
	da, err := fingerprint(a)
	require.NoError(t, err)
	db, err := fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestCachedDiagnosticsKeepFixes(t *testing.T) {
	t.Parallel()
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("let a = 1;\n"))
	d := diag.New(diag.SevWarning, diag.LintPreferConst, source.Span{File: id, Start: 4, End: 5}, "m").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "n").
		WithFix("use const", diag.FixEdit{Span: source.Span{File: id, Start: 0, End: 3}, NewText: "const", OldText: "let"})

	other := id + 7
	bag := fromCached(toCached([]diag.Diagnostic{d}), other, 10)
	require.Equal(t, 1, bag.Len())
	got := bag.Items()[0]
	assert.Equal(t, other, got.Primary.File)
	require.Len(t, got.Fixes, 1)
	assert.Equal(t, "use const", got.Fixes[0].Title)
	assert.Equal(t, diag.FixEdit{Span: source.Span{File: other, Start: 0, End: 3}, NewText: "const", OldText: "let"}, got.Fixes[0].Edits[0])
	assert.Equal(t, "n", got.Notes[0].Msg)
}
