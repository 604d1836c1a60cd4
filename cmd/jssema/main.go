package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jssema/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "jssema",
	Short:         "Scope analysis, linting and rewriting for JavaScript and TypeScript",
	Long:          `jssema builds the semantic model of JS/TS files (scopes, symbols, references) and runs lint rules and rewrite passes over it`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCode ends the process with a status without printing anything else.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func init() {
	rootCmd.Version = version.Get().Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to jssema.toml (default: discovered from the first path)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "print per-stage timings to stderr")
	flags.Int("max-diagnostics", 0, "maximum diagnostics kept per file (0 = from config)")
	flags.Int("jobs", 0, "max parallel workers (0 = GOMAXPROCS)")
	flags.Bool("no-cache", false, "bypass the on-disk result cache")
	flags.String("ui", "auto", "progress UI (auto|on|off)")
	flags.String("trace", "", "write a trace to this file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	flags.String("trace-format", "text", "trace format (text|ndjson)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintf(os.Stderr, "jssema: %v\n", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
