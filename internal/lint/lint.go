// Package lint runs read-only rules over a semantic model.
package lint

import (
	"fmt"
	"slices"

	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/semantic"
	"jssema/internal/source"
	"jssema/internal/traverse"
)

// Rule inspects the model once per file.
type Rule interface {
	Name() string
	Code() diag.Code
	Check(c *Context)
}

// NodeRule is a rule that also needs a walk over the tree. Its hooks are
// merged with the other node rules into a single traversal.
type NodeRule interface {
	Rule
	Register(c *Context, h *traverse.Hooks)
}

// Context is what a rule sees.
type Context struct {
	Sem     *semantic.Semantic
	Tree    *ast.Tree
	Globals map[string]bool

	rep      diag.Reporter
	severity map[string]diag.Severity
	rule     Rule
}

// Report emits a diagnostic for the running rule.
func (c *Context) Report(span source.Span, msg string) *diag.ReportBuilder {
	sev, ok := c.severity[c.rule.Name()]
	if !ok {
		sev = diag.SevWarning
	}
	return diag.NewReportBuilder(c.rep, sev, c.rule.Code(), span, msg)
}

// Reporter is where the running rule's diagnostics go.
func (c *Context) Reporter() diag.Reporter { return c.rep }

// IsGlobal reports whether name is a known global.
func (c *Context) IsGlobal(name string) bool { return c.Globals[name] || builtinGlobals[name] }

var registry = map[string]func() Rule{
	"no-undef":       func() Rule { return noUndef{} },
	"prefer-const":   func() Rule { return preferConst{} },
	"no-shadow":      func() Rule { return noShadow{} },
	"no-redeclare":   func() Rule { return noRedeclare{} },
	"no-unused-vars": func() Rule { return noUnusedVars{} },
	"no-loop-func":   func() Rule { return &noLoopFunc{} },
}

// RuleNames lists the built-in rules in name order.
func RuleNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Linter is a configured rule set.
type Linter struct {
	rules    []Rule
	globals  map[string]bool
	severity map[string]diag.Severity
}

// Options configure New.
type Options struct {
	Rules    []string
	Globals  []string
	Severity map[string]diag.Severity
	Extra    []Rule
}

// New builds a linter from rule names. A nil list enables every built-in
// rule; an empty one enables none.
func New(opts Options) (*Linter, error) {
	names := opts.Rules
	if names == nil {
		names = RuleNames()
	}
	l := &Linter{globals: make(map[string]bool, len(opts.Globals)), severity: opts.Severity}
	for _, name := range names {
		mk, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown lint rule %q", name)
		}
		l.rules = append(l.rules, mk())
	}
	l.rules = append(l.rules, opts.Extra...)
	for _, g := range opts.Globals {
		l.globals[g] = true
	}
	return l, nil
}

// Rules returns the enabled rule names.
func (l *Linter) Rules() []string {
	out := make([]string, len(l.rules))
	for i, r := range l.rules {
		out[i] = r.Name()
	}
	return out
}

// Run checks sem with every enabled rule.
func (l *Linter) Run(sem *semantic.Semantic, rep diag.Reporter) {
	base := Context{
		Sem:      sem,
		Tree:     sem.Tree(),
		Globals:  l.globals,
		rep:      rep,
		severity: l.severity,
	}
	hooks := traverse.NewHooks()
	walk := false
	for _, r := range l.rules {
		if nr, ok := r.(NodeRule); ok {
			c := base
			c.rule = r
			nr.Register(&c, hooks)
			walk = true
		}
	}
	if walk {
		traverse.Run(sem, hooks, traverse.WithReporter(rep))
	}
	for _, r := range l.rules {
		c := base
		c.rule = r
		r.Check(&c)
	}
}
