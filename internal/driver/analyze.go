package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"jssema/internal/ast"
	"jssema/internal/codegen"
	"jssema/internal/diag"
	"jssema/internal/frontend"
	"jssema/internal/lint"
	"jssema/internal/semantic"
	"jssema/internal/source"
	"jssema/internal/testkit"
	"jssema/internal/trace"
	"jssema/internal/transform"
	"jssema/internal/traverse"
)

// Guard runs fn and turns a structural violation raised inside it into an
// error. Any other panic propagates.
func Guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			v, ok := ast.AsViolation(r)
			if !ok {
				panic(r)
			}
			err = v
		}
	}()
	fn()
	return nil
}

// file runs the pipeline for f, serving it from the cache when possible.
func (r *runner) file(ctx context.Context, f *source.File) FileResult {
	started := time.Now()
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+f.Path)
	res := FileResult{Path: f.Path, FileID: f.ID}

	key := r.cacheKey(f)
	var cached Payload
	hit, err := r.opts.Cache.Get(key, &cached)
	if err != nil {
		trace.Point(ctx, trace.ScopeFile, "cache", err.Error())
		hit = false
	}
	if hit && !r.opts.KeepSemantic {
		res.Bag = fromCached(cached.Diagnostics, f.ID, r.opts.Config.Output.MaxDiagnostics)
		res.Module = cached.Module
		res.Output = cached.Output
		res.Stats = cached.Stats
		res.Cached = true
		span.End("cached")
		emit(r.opts.Progress, Event{File: f.Path, Status: StatusCached, Elapsed: time.Since(started)})
		return res
	}

	var capacity semantic.Stats
	if hit {
		capacity = cached.Stats
	}
	res.Bag = diag.NewBag(r.opts.Config.Output.MaxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	if err := Guard(func() { r.pipeline(ctx, f, capacity, rep, &res) }); err != nil {
		diag.ReportError(rep, diag.SemaStructural, source.Span{File: f.ID}, err.Error()).Emit()
		res.Err = fmt.Errorf("%s: %w", f.Path, err)
		res.Tree, res.Sem = nil, nil
	}
	if n := rep.Suppressed(); n > 0 {
		trace.Point(ctx, trace.ScopeFile, "dedup", strconv.Itoa(n)+" duplicate diagnostics")
	}
	res.Bag.Sort()

	status := StatusDone
	if res.Err != nil || res.Bag.HasErrors() {
		status = StatusError
	}
	if res.Err == nil {
		payload := &Payload{
			Path:        f.Path,
			Module:      res.Module,
			Diagnostics: toCached(res.Bag.Items()),
			Output:      res.Output,
			Stats:       res.Stats,
		}
		if err := r.opts.Cache.Put(key, payload); err != nil {
			diag.ReportWarning(rep, diag.IOCacheFailed, source.Span{File: f.ID}, err.Error()).Emit()
		}
	}
	span.WithExtra("symbols", strconv.Itoa(res.Stats.Symbols)).
		WithExtra("references", strconv.Itoa(res.Stats.References)).
		End(string(status))
	emit(r.opts.Progress, Event{File: f.Path, Status: status, Err: res.Err, Elapsed: time.Since(started)})
	return res
}

func (r *runner) pipeline(ctx context.Context, f *source.File, capacity semantic.Stats, rep diag.Reporter, res *FileResult) {
	cfg := &r.opts.Config

	var parsed *frontend.Result
	var parseErr error
	r.stage(ctx, f.Path, StageParse, func() {
		parsed, parseErr = frontend.ParseAs(ctx, f, cfg.LanguageFor(f.Language()), nil, rep)
	})
	if parseErr != nil {
		diag.ReportError(rep, diag.SynParseError, source.Span{File: f.ID}, parseErr.Error()).Emit()
		return
	}
	tree := parsed.Tree
	res.Module = cfg.Source.Module || parsed.Module

	var sem *semantic.Semantic
	r.stage(ctx, f.Path, StageSemantic, func() {
		sem = semantic.Build(tree, semantic.Options{Module: res.Module, Capacity: capacity, Reporter: rep})
	})
	r.verify(sem, f, rep, "after semantic build")

	r.stage(ctx, f.Path, StageLint, func() {
		l, err := lint.New(lint.Options{
			Rules:    cfg.Lint.Rules,
			Globals:  cfg.Lint.Globals,
			Severity: r.severity,
			Extra:    r.scripts,
		})
		if err != nil {
			// rule names were checked by newRunner
			ast.Violatef("lint setup: %v", err)
		}
		l.Run(sem, rep)
	})

	if r.opts.Emit {
		if len(cfg.Transform.Passes) > 0 {
			r.stage(ctx, f.Path, StageTransform, func() {
				env, err := transform.Apply(sem, cfg.Transform.Passes, traverse.WithReporter(rep))
				if err != nil {
					ast.Violatef("transform setup: %v", err)
				}
				if loaded := env.Helpers.Loaded(); len(loaded) > 0 {
					trace.Point(ctx, trace.ScopePass, "helpers", fmt.Sprint(loaded))
				}
			})
			r.verify(sem, f, rep, "after transforms")
		}
		r.stage(ctx, f.Path, StageCodegen, func() {
			res.Output = codegen.Print(tree, codegen.Options{Quote: quoteOf(cfg.Transform.Quote)})
		})
	}

	res.Stats = sem.Stats()
	if r.opts.KeepSemantic {
		res.Tree, res.Sem = tree, sem
	}
}

// stage times fn and reports it to the tracer and the progress sink.
func (r *runner) stage(ctx context.Context, path string, st Stage, fn func()) {
	emit(r.opts.Progress, Event{File: path, Stage: st, Status: StatusWorking})
	_, span := trace.Start(ctx, trace.ScopePass, string(st))
	mark := r.opts.Timer.Begin(string(st))
	defer func() {
		mark.End("")
		span.End("")
	}()
	fn()
}

func (r *runner) verify(sem *semantic.Semantic, f *source.File, rep diag.Reporter, when string) {
	if !r.opts.Verify {
		return
	}
	if err := testkit.CheckModel(sem); err != nil {
		diag.ReportError(rep, diag.SemaInvariant, source.Span{File: f.ID}, when+": "+err.Error()).Emit()
	}
}

func quoteOf(s string) codegen.Quote {
	if s == "single" {
		return codegen.QuoteSingle
	}
	return codegen.QuoteDouble
}
