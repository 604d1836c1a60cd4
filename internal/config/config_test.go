package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jssema/internal/diag"
	"jssema/internal/source"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}
	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || dir != root {
		t.Fatalf("FindProjectRoot = %q, %v, %v", dir, ok, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[source]
module = true
typescript = "on"

[lint]
rules = ["no-undef", "prefer-const"]
globals = ["window"]
scripts = ["rules/no-console.risor"]

[lint.severity]
no-undef = "error"

[transform]
passes = ["exponentiation"]

[output]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Source.Module || cfg.Output.Format != "json" || cfg.Output.MaxDiagnostics != 100 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.Cache.Enabled {
		t.Fatalf("cache default lost")
	}
	if want := filepath.Join(dir, "rules", "no-console.risor"); cfg.Lint.Scripts[0] != want {
		t.Fatalf("script path = %q, want %q", cfg.Lint.Scripts[0], want)
	}
	if got := cfg.Severities()["no-undef"]; got != diag.SevError {
		t.Fatalf("severity = %v", got)
	}
	if got := cfg.LanguageFor(source.LangJavaScript); got != source.LangTypeScript {
		t.Fatalf("LanguageFor = %v", got)
	}
}

func TestLoadEmptyRulesDisablesAll(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[lint]\nrules = []\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lint.Rules == nil || len(cfg.Lint.Rules) != 0 {
		t.Fatalf("rules = %#v, want empty non-nil", cfg.Lint.Rules)
	}
	if Default().Lint.Rules != nil {
		t.Fatalf("default rules must be nil")
	}
}

func TestLoadReportsEveryProblem(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[source]
typescript = "maybe"
colour = "red"

[lint]
rules = ["no-such-rule"]

[transform]
passes = ["minify"]
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected errors")
	}
	want := map[diag.Code]bool{
		diag.CfgUnknownKey:   false,
		diag.CfgInvalidValue: false,
		diag.CfgUnknownRule:  false,
		diag.CfgUnknownPass:  false,
	}
	var walk func(error)
	walk = func(err error) {
		var ce *Error
		if errors.As(err, &ce) {
			want[ce.Code] = true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
		}
	}
	walk(err)
	for code, seen := range want {
		if !seen {
			t.Errorf("missing %s in %v", code.ID(), err)
		}
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" || cfg.Output.Format != "pretty" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
