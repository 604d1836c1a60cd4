// Package config loads jssema.toml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"jssema/internal/diag"
	"jssema/internal/lint"
	"jssema/internal/source"
	"jssema/internal/transform"
)

// Config mirrors jssema.toml.
type Config struct {
	Source    Source    `toml:"source"`
	Lint      Lint      `toml:"lint"`
	Transform Transform `toml:"transform"`
	Output    Output    `toml:"output"`
	Cache     Cache     `toml:"cache"`

	// Path is the manifest the config came from; empty for defaults.
	Path string `toml:"-"`
}

type Source struct {
	Module     bool   `toml:"module"`
	TypeScript string `toml:"typescript"` // auto|on|off
}

type Lint struct {
	// Rules lists enabled built-in rules; nil enables all of them.
	Rules    []string          `toml:"rules"`
	Globals  []string          `toml:"globals"`
	Scripts  []string          `toml:"scripts"`
	Severity map[string]string `toml:"severity"`
}

type Transform struct {
	Passes []string `toml:"passes"`
	Quote  string   `toml:"quote"` // double|single
}

type Output struct {
	Format         string `toml:"format"` // pretty|json|short
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Error is one configuration problem.
type Error struct {
	Code diag.Code
	Path string
	Key  string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s: %s", e.Code.ID(), e.Key, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s: %s", e.Path, e.Code.ID(), e.Key, e.Msg)
}

// Default is the configuration used without a manifest.
func Default() Config {
	return Config{
		Source:    Source{TypeScript: "auto"},
		Transform: Transform{Quote: "double"},
		Output:    Output{Format: "pretty", MaxDiagnostics: 100},
		Cache:     Cache{Enabled: true, Dir: ".jssema-cache"},
	}
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	var errs []error
	for _, key := range meta.Undecoded() {
		errs = append(errs, &Error{Code: diag.CfgUnknownKey, Path: path, Key: key.String(), Msg: "unknown key"})
	}
	if meta.IsDefined("lint", "rules") && cfg.Lint.Rules == nil {
		cfg.Lint.Rules = []string{}
	}
	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	cfg.resolveScripts()
	return cfg, nil
}

// Discover loads the manifest above startDir, or returns the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerations and names against the known rules and passes.
func (c *Config) Validate() error {
	var errs []error
	bad := func(code diag.Code, key, format string, args ...any) {
		errs = append(errs, &Error{Code: code, Path: c.Path, Key: key, Msg: fmt.Sprintf(format, args...)})
	}
	oneOf := func(key, value string, allowed ...string) {
		if !slices.Contains(allowed, value) {
			bad(diag.CfgInvalidValue, key, "%q is not one of %s", value, strings.Join(allowed, ", "))
		}
	}
	oneOf("source.typescript", c.Source.TypeScript, "auto", "on", "off")
	oneOf("output.format", c.Output.Format, "pretty", "json", "short")
	oneOf("transform.quote", c.Transform.Quote, "double", "single")
	if c.Output.MaxDiagnostics < 0 {
		bad(diag.CfgInvalidValue, "output.max_diagnostics", "must not be negative")
	}
	known := lint.RuleNames()
	for _, r := range c.Lint.Rules {
		if !slices.Contains(known, r) {
			bad(diag.CfgUnknownRule, "lint.rules", "unknown rule %q", r)
		}
	}
	for rule, sev := range c.Lint.Severity {
		if !slices.Contains(known, rule) && !strings.HasPrefix(rule, "script:") {
			bad(diag.CfgUnknownRule, "lint.severity", "unknown rule %q", rule)
		}
		if _, ok := diag.ParseSeverity(sev); !ok {
			bad(diag.CfgInvalidValue, "lint.severity."+rule, "unknown severity %q", sev)
		}
	}
	passes := transform.Names()
	for _, p := range c.Transform.Passes {
		if !slices.Contains(passes, p) {
			bad(diag.CfgUnknownPass, "transform.passes", "unknown pass %q", p)
		}
	}
	return errors.Join(errs...)
}

// Severities converts the [lint.severity] table; Validate has checked it.
func (c *Config) Severities() map[string]diag.Severity {
	if len(c.Lint.Severity) == 0 {
		return nil
	}
	out := make(map[string]diag.Severity, len(c.Lint.Severity))
	for rule, s := range c.Lint.Severity {
		if sev, ok := diag.ParseSeverity(s); ok {
			out[rule] = sev
		}
	}
	return out
}

// resolveScripts makes script paths relative to the manifest directory.
func (c *Config) resolveScripts() {
	if c.Path == "" {
		return
	}
	base := filepath.Dir(c.Path)
	for i, s := range c.Lint.Scripts {
		if !filepath.IsAbs(s) {
			c.Lint.Scripts[i] = filepath.Join(base, filepath.FromSlash(s))
		}
	}
	if c.Cache.Dir != "" && !filepath.IsAbs(c.Cache.Dir) {
		c.Cache.Dir = filepath.Join(base, c.Cache.Dir)
	}
}

// LanguageFor applies source.typescript to the language picked from a
// file extension; "auto" keeps it.
func (c *Config) LanguageFor(lang source.Language) source.Language {
	switch c.Source.TypeScript {
	case "on":
		if lang == source.LangJSX {
			return source.LangTSX
		}
		if lang == source.LangJavaScript {
			return source.LangTypeScript
		}
	case "off":
		if lang == source.LangTSX {
			return source.LangJSX
		}
		if lang == source.LangTypeScript {
			return source.LangJavaScript
		}
	}
	return lang
}
