package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestGetTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "  "
	GitCommit = " abc123 \n"
	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want %q", info.Version, "dev")
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q, want %q", info.GitCommit, "abc123")
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origDate := Version, BuildDate
	defer func() { Version, BuildDate = origVersion, origDate }()

	Version = "1.2.3"
	BuildDate = "2024-01-15T10:30:00Z"
	info := Get()
	if info.Version != "1.2.3" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	cases := map[string]string{
		"0.1.0-dev":    "0.1.0-dev",
		"1.2.3":        "1.2.3",
		"1.0.0-beta.1": "1.0.0-beta.1",
		"nightly":      "nightly",
		"2.0-alpha":    "2.0-alpha",
	}
	for in, want := range cases {
		if got := Colored(in); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Errorf("expected colored output, got %q", got)
	}
}
