package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jssema/internal/diag"
	"jssema/internal/driver"
	"jssema/internal/source"
)

// project writes files and a jssema.toml with the cache off into a
// temporary directory and returns the directory and the config path.
func project(t *testing.T, passes string, files map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := "[cache]\nenabled = false\n"
	if passes != "" {
		cfg += "[transform]\npasses = [" + passes + "]\n"
	}
	files["jssema.toml"] = cfg
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir, filepath.Join(dir, "jssema.toml")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--ui", "off", "--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir, cfg := project(t, "", map[string]string{
		"main.js": "let x = 1;\nconsole.log(x + y);\n",
	})

	out, _, err := execute(t, "--config", cfg, "check", "--format", "pretty", "--warnings-as-errors=false", dir)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	for _, want := range []string{
		"main.js:2:17: WARNING LNT6001: 'y' is not defined",
		"'x' is never reassigned. Use 'const' instead",
		"in 1 file",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	_, _, err = execute(t, "--config", cfg, "check", "--warnings-as-errors", dir)
	var code exitCode
	if !errors.As(err, &code) || code != 1 {
		t.Fatalf("expected exit status 1 with --warnings-as-errors, got %v", err)
	}

	out, _, err = execute(t, "--config", cfg, "check", "--format", "short", "--warnings-as-errors=false", dir)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "LNT6001") || strings.Contains(out, "in 1 file") {
		t.Errorf("unexpected short output:\n%s", out)
	}
}

func TestCheckFailsOnSyntaxError(t *testing.T) {
	dir, cfg := project(t, "", map[string]string{"bad.js": "let a = ;\n"})
	out, _, err := execute(t, "--config", cfg, "check", "--format", "json", "--warnings-as-errors=false", dir)
	var code exitCode
	if !errors.As(err, &code) || code != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	if !strings.Contains(out, `"severity": "ERROR"`) {
		t.Errorf("expected an error in the JSON output:\n%s", out)
	}
}

func TestTransformCommand(t *testing.T) {
	dir, cfg := project(t, `"exponentiation"`, map[string]string{
		"main.js": "export const sq = (n) => n ** 2;\n",
	})

	out, _, err := execute(t, "--config", cfg, "transform", filepath.Join(dir, "main.js"))
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if !strings.Contains(out, "Math.pow(n, 2)") {
		t.Errorf("expected the rewritten power in:\n%s", out)
	}

	out, _, err = execute(t, "transform", "--list")
	if err != nil {
		t.Fatalf("transform --list failed: %v", err)
	}
	if !strings.Contains(out, "exponentiation") {
		t.Errorf("expected the pass list to name exponentiation:\n%s", out)
	}
}

func TestFixCommand(t *testing.T) {
	dir, cfg := project(t, "", map[string]string{
		"main.js": "let total = 1;\nconsole.log(total);\n",
	})
	path := filepath.Join(dir, "main.js")

	out, _, err := execute(t, "--config", cfg, "fix", "--all", "--dry-run", dir)
	if err != nil {
		t.Fatalf("fix failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Would apply 1 fix(es):") || !strings.Contains(out, "use const [LNT6002-main.js-1-5-0]") {
		t.Errorf("unexpected dry-run output:\n%s", out)
	}
	unchanged, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(unchanged), "let total") {
		t.Fatalf("dry run wrote the file: %q", unchanged)
	}

	out, _, err = execute(t, "--config", cfg, "fix", "--all", "--dry-run=false", dir)
	if err != nil {
		t.Fatalf("fix failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Updated files:") {
		t.Errorf("unexpected output:\n%s", out)
	}
	fixed, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(fixed) != "const total = 1;\nconsole.log(total);\n" {
		t.Fatalf("unexpected file content %q", fixed)
	}

	out, _, err = execute(t, "--config", cfg, "fix", "--all", dir)
	if err != nil {
		t.Fatalf("fix failed: %v", err)
	}
	if !strings.Contains(out, "No applicable fixes found.") {
		t.Errorf("expected nothing left to fix:\n%s", out)
	}
	_ = fixCmd.Flags().Set("all", "false")
}

func TestScopesCommand(t *testing.T) {
	dir, cfg := project(t, "", map[string]string{"s.js": "function f(a) { return a; }\n"})

	out, _, err := execute(t, "--config", cfg, "scopes", "--stats=false", dir)
	if err != nil {
		t.Fatalf("scopes failed: %v", err)
	}
	if !strings.Contains(out, "== ") || !strings.Contains(out, "scope 1 ") || !strings.Contains(out, " a ") {
		t.Errorf("unexpected snapshot:\n%s", out)
	}

	out, _, err = execute(t, "--config", cfg, "scopes", "--stats", dir)
	if err != nil {
		t.Fatalf("scopes --stats failed: %v", err)
	}
	if !strings.Contains(out, "2 scopes, 2 symbols, 1 references") {
		t.Errorf("unexpected stats:\n%s", out)
	}
}

func TestIndexAndQuery(t *testing.T) {
	dir, cfg := project(t, "", map[string]string{
		"lib.js": "export const answer = 42;\nexport const twice = answer * 2;\nmissing();\n",
	})
	db := filepath.Join(t.TempDir(), "index.db")

	out, _, err := execute(t, "--config", cfg, "index", "--db", db, dir)
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if !strings.Contains(out, "indexed 1 file") {
		t.Errorf("unexpected index output:\n%s", out)
	}

	out, _, err = execute(t, "query", "symbol", "--db", db, "answer")
	if err != nil {
		t.Fatalf("query symbol failed: %v", err)
	}
	if !strings.Contains(out, "lib.js:1:14") || !strings.Contains(out, "1 refs") {
		t.Errorf("unexpected symbol rows:\n%s", out)
	}

	out, _, err = execute(t, "query", "unresolved", "--db", db)
	if err != nil {
		t.Fatalf("query unresolved failed: %v", err)
	}
	if !strings.Contains(out, "missing") {
		t.Errorf("expected the unresolved name in:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, `"tool": "jssema"`) {
		t.Errorf("unexpected payload:\n%s", out)
	}
}

func TestParseTristate(t *testing.T) {
	for in, want := range map[string]tristate{"": switchAuto, "AUTO": switchAuto, " on ": switchOn, "never": switchOff} {
		got, err := parseTristate("ui", in)
		if err != nil || got != want {
			t.Errorf("parseTristate(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseTristate("color", "sometimes"); err == nil || !strings.Contains(err.Error(), "--color") {
		t.Errorf("expected an error naming the flag, got %v", err)
	}
	tty := func() bool { return true }
	if !switchAuto.enabled(tty) || switchOff.enabled(tty) || !switchOn.enabled(func() bool { return false }) {
		t.Errorf("enabled does not resolve auto through tty")
	}
}

func TestOutputName(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct{ in, want string }{
		{"src/a.js", filepath.Join("src", "a.js")},
		{filepath.Join(wd, "lib", "b.ts"), filepath.Join("lib", "b.ts")},
		{"../outside/c.js", "c.js"},
	}
	for _, tc := range cases {
		if got := outputName(tc.in); got != tc.want {
			t.Errorf("outputName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSummary(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("x\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LintNoUndef, source.Span{File: id, Start: 0, End: 1}, "e"))
	bag.Add(diag.New(diag.SevWarning, diag.LintNoUndef, source.Span{File: id, Start: 0, End: 1}, "w"))
	res := &driver.Result{FileSet: fs, Files: []driver.FileResult{
		{Path: "a.js", Bag: bag},
		{Path: "b.js", Bag: diag.NewBag(1), Cached: true},
	}}
	if got, want := summary(res, false), "1 error, 1 warning in 2 files (1 cached)"; got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}
