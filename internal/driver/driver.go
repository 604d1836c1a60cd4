// Package driver runs the analysis pipeline over a set of files: load,
// parse, semantic model, lint and, when asked, transform and codegen.
// Files are independent and run in parallel; each owns its tree, model
// and diagnostics.
package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"jssema/internal/ast"
	"jssema/internal/config"
	"jssema/internal/diag"
	"jssema/internal/lint"
	"jssema/internal/lintscript"
	"jssema/internal/observ"
	"jssema/internal/semantic"
	"jssema/internal/source"
	"jssema/internal/trace"
	"jssema/internal/transform"
)

// Options configure Run.
type Options struct {
	Config config.Config
	// Jobs bounds parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Emit runs the configured transforms and prints the result.
	Emit bool
	// KeepSemantic keeps each file's tree and model in its result. Cached
	// entries are then only used to presize the model.
	KeepSemantic bool
	// Verify checks the model's invariants after every stage that changes it.
	Verify bool

	Cache    *DiskCache
	Timer    *observ.Timer
	Progress ProgressSink
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Module bool
	Output string
	Stats  semantic.Stats
	Cached bool

	// Set with Options.KeepSemantic.
	Tree *ast.Tree
	Sem  *semantic.Semantic

	// Err is a load failure or a structural violation; the other files
	// are unaffected.
	Err error
}

// Result collects every file of a run in path order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Diagnostics flattens the per-file bags.
func (r *Result) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			out = append(out, r.Files[i].Bag.Items()...)
		}
	}
	return out
}

// HasErrors reports error diagnostics or failed files.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		f := &r.Files[i]
		if f.Err != nil || (f.Bag != nil && f.Bag.HasErrors()) {
			return true
		}
	}
	return false
}

type runner struct {
	opts     Options
	scripts  []lint.Rule
	severity map[string]diag.Severity
	settings Digest
}

// Run analyses paths (files or directories).
func Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "run")
	defer span.End("")

	files, err := ListSources(paths, opts.Cache.Dir())
	if err != nil {
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))

	r, err := newRunner(opts)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}

	fileSet, ids, loadErrs := r.load(ctx, files)
	res := &Result{FileSet: fileSet, Files: make([]FileResult, len(files))}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	pctx, phase := trace.Start(ctx, trace.ScopePhase, "analyze")
	g, gctx := errgroup.WithContext(pctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if err := loadErrs[i]; err != nil {
				res.Files[i] = FileResult{Path: path, Bag: diag.NewBag(1), Err: err}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
				return nil
			}
			res.Files[i] = r.file(gctx, fileSet.Get(ids[i]))
			return nil
		})
	}
	err = g.Wait()
	phase.End("")
	if err != nil {
		return nil, err
	}
	return res, nil
}

func newRunner(opts Options) (*runner, error) {
	cfg := &opts.Config
	if _, err := lint.New(lint.Options{Rules: cfg.Lint.Rules}); err != nil {
		return nil, err
	}
	if opts.Emit {
		if _, _, err := transform.Build(cfg.Transform.Passes); err != nil {
			return nil, err
		}
	}
	scripts, err := lintscript.Load(cfg.Lint.Scripts)
	if err != nil {
		return nil, err
	}
	scriptHashes := make([]Digest, 0, len(cfg.Lint.Scripts))
	for _, p := range cfg.Lint.Scripts {
		// #nosec G304 -- script paths come from the project config
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read lint script: %w", err)
		}
		scriptHashes = append(scriptHashes, combineDigest(data))
	}
	settings, err := fingerprint(struct {
		Source    config.Source
		Lint      config.Lint
		Transform config.Transform
		Emit      bool
		Scripts   []Digest
	}{cfg.Source, cfg.Lint, cfg.Transform, opts.Emit, scriptHashes})
	if err != nil {
		return nil, fmt.Errorf("fingerprint config: %w", err)
	}
	return &runner{opts: opts, scripts: scripts, severity: cfg.Severities(), settings: settings}, nil
}

// load reads every file up front; the FileSet is read-only afterwards.
func (r *runner) load(ctx context.Context, files []string) (*source.FileSet, []source.FileID, []error) {
	_, span := trace.Start(ctx, trace.ScopePhase, "load")
	mark := r.opts.Timer.Begin(string(StageLoad))
	defer func() {
		mark.End("")
		span.End("")
	}()

	fileSet := source.NewFileSet()
	ids := make([]source.FileID, len(files))
	errs := make([]error, len(files))
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			errs[i] = fmt.Errorf("%s: %w", path, err)
			continue
		}
		ids[i] = id
	}
	return fileSet, ids, errs
}

func (r *runner) cacheKey(f *source.File) Digest {
	lang := r.opts.Config.LanguageFor(f.Language())
	return combineDigest(r.settings[:], []byte(lang.String()), f.Hash[:])
}
