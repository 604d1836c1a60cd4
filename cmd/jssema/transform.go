package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jssema/internal/transform"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] [file|directory]...",
	Short: "Run rewrite passes and print the resulting source",
	Long: `Run the configured (or --passes) rewrite passes over each file and print the
regenerated source. With --out-dir the output is written below that directory
instead. Diagnostics go to stderr.`,
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringSlice("passes", nil, "comma-separated passes to run (default from config)")
	transformCmd.Flags().String("quote", "", "string quote style (double|single; default from config)")
	transformCmd.Flags().String("out-dir", "", "write outputs below this directory")
	transformCmd.Flags().Bool("list", false, "list the available passes and exit")
	transformCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json|short)")
	transformCmd.Flags().String("path-mode", "auto", "how paths are shown (auto|absolute|relative|basename)")
	transformCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	transformCmd.Flags().Bool("fixes", false, "include suggested fixes")
	transformCmd.Flags().Bool("preview", false, "preview the lines each fix would change")
}

func runTransform(cmd *cobra.Command, args []string) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	if list {
		for _, name := range transform.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("transform needs at least one file or directory")
	}

	passes, err := cmd.Flags().GetStringSlice("passes")
	if err != nil {
		return fmt.Errorf("failed to get passes flag: %w", err)
	}
	quote, err := cmd.Flags().GetString("quote")
	if err != nil {
		return fmt.Errorf("failed to get quote flag: %w", err)
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	report, err := readReportFlags(cmd)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	s.opts.Emit = true
	if cmd.Flags().Changed("passes") {
		s.opts.Config.Transform.Passes = passes
	}
	switch quote {
	case "":
	case "double", "single":
		s.opts.Config.Transform.Quote = quote
	default:
		return fmt.Errorf("invalid --quote value %q (expected double|single)", quote)
	}
	report.color = s.color && report.format == "pretty" && isTerminal(os.Stderr)

	res, err := s.run(args, "transforming")
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), cmd.ErrOrStderr(), res, report); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range res.Files {
		f := &res.Files[i]
		if f.Err != nil || (f.Bag != nil && f.Bag.HasErrors()) {
			continue
		}
		if outDir != "" {
			dest := filepath.Join(outDir, outputName(f.Path))
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(dest, []byte(f.Output), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}
			continue
		}
		if len(res.Files) > 1 {
			fmt.Fprintf(out, "// ==> %s <==\n", f.Path)
		}
		fmt.Fprint(out, f.Output)
		if !strings.HasSuffix(f.Output, "\n") {
			fmt.Fprintln(out)
		}
	}
	if res.HasErrors() {
		return exitCode(1)
	}
	return nil
}

// outputName maps a source path to its place below --out-dir. Paths that
// climb out of the working directory keep only their base name.
func outputName(path string) string {
	rel := path
	if filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		if rel, err = filepath.Rel(wd, path); err != nil {
			return filepath.Base(path)
		}
	}
	rel = filepath.Clean(rel)
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(path)
	}
	return rel
}
