package fuzztests

import (
	"context"
	"testing"
	"time"

	"jssema/internal/codegen"
	"jssema/internal/diag"
	"jssema/internal/driver"
	"jssema/internal/frontend"
	"jssema/internal/semantic"
	"jssema/internal/source"
	"jssema/internal/testkit"
	"jssema/internal/transform"
)

// pipelineTimeout bounds one input; longer runs point at a loop.
const pipelineTimeout = 5 * time.Second

func parse(t *testing.T, input []byte) (*source.File, *frontend.Result) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.js", input))
	bag := diag.NewBag(128)
	res, err := frontend.Parse(context.Background(), file, nil, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Skip(err)
	}
	return file, res
}

func FuzzSemanticModel(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		file, res := parse(t, clampInput(input))
		if err := testkit.CheckSpanInvariants(res.Tree, file); err != nil {
			t.Fatalf("spans: %v", err)
		}
		var sem *semantic.Semantic
		if err := driver.Guard(func() {
			sem = semantic.Build(res.Tree, semantic.Options{Module: res.Module})
		}); err != nil {
			t.Fatalf("build: %v", err)
		}
		if err := testkit.CheckModel(sem); err != nil {
			t.Fatalf("model: %v", err)
		}
	})
}

func FuzzPassesKeepModel(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		_, res := parse(t, clampInput(input))
		if res.Errors > 0 {
			return
		}
		sem := semantic.Build(res.Tree, semantic.Options{Module: res.Module})
		if err := driver.Guard(func() {
			if _, err := transform.Apply(sem, transform.Names()); err != nil {
				t.Fatalf("apply: %v", err)
			}
		}); err != nil {
			t.Fatalf("passes: %v", err)
		}
		if err := testkit.CheckModel(sem); err != nil {
			t.Fatalf("model after passes: %v", err)
		}
		_ = codegen.Print(res.Tree, codegen.Options{})
	})
}

// FuzzPipelineNoHang runs the whole per-file pipeline under a deadline.
func FuzzPipelineNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("a = b ?? c ?? d ** e ** f;"))
	f.Add([]byte("function f() { { { { } } } }"))
	f.Add([]byte("let x = ;"))
	f.Add([]byte("for (let i = 0 i < 10 i++) {}"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.js", input))
			res, err := frontend.Parse(ctx, file, nil, nil)
			if err != nil {
				return
			}
			_ = driver.Guard(func() {
				sem := semantic.Build(res.Tree, semantic.Options{Module: res.Module})
				_, _ = transform.Apply(sem, transform.Names())
				_ = codegen.Print(res.Tree, codegen.Options{})
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("pipeline hang: took longer than %v\ninput (%d bytes): %q",
				pipelineTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
