// Package lintscript runs lint rules written in Risor. A script sees the
// semantic model through read-only host functions and reports findings
// with report().
package lintscript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/risor-io/risor"

	"jssema/internal/diag"
	"jssema/internal/lint"
)

// DefaultTimeout bounds one script run on one file.
const DefaultTimeout = 5 * time.Second

// Script is a scripted rule.
type Script struct {
	name    string
	source  string
	timeout time.Duration
}

// Option configures a Script.
type Option func(*Script)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Script) { s.timeout = d }
}

// New wraps source as a rule named "script:<name>".
func New(name, source string, opts ...Option) *Script {
	s := &Script{name: "script:" + name, source: source, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads each .risor file; the rule is named after the file's base name.
func Load(paths []string, opts ...Option) ([]lint.Rule, error) {
	rules := make([]lint.Rule, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("lintscript: loading %s: %w", p, err)
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		rules = append(rules, New(name, string(data), opts...))
	}
	return rules, nil
}

func (s *Script) Name() string { return s.name }

func (s *Script) Code() diag.Code { return diag.LintScript }

// Check evaluates the script against the file in c. A failing script is
// reported as an error diagnostic on the program; the run continues.
func (s *Script) Check(c *lint.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.eval(ctx, c); err != nil {
		diag.ReportError(c.Reporter(), diag.LintScriptError, c.Tree.Span(c.Tree.Root),
			fmt.Sprintf("%s: %v", s.name, err)).Emit()
	}
}

func (s *Script) eval(ctx context.Context, c *lint.Context) error {
	globals := hostGlobals(c)
	opts := make([]risor.Option, 0, len(globals)+1)
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	opts = append(opts, risor.WithGlobal("rule", s.name))
	if _, err := risor.Eval(ctx, s.source, opts...); err != nil {
		return fmt.Errorf("script failed: %w", err)
	}
	return nil
}
