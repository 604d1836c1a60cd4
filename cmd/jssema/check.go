package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jssema/internal/diag"
	"jssema/internal/diagfmt"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory]...",
	Short: "Build the semantic model of each file and run the lint rules",
	Long: `Parse every JS/TS source under the given paths, build its scopes, symbols and
references, and report lint diagnostics. Exits with status 1 when any error is found.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|json|short; default from config)")
	checkCmd.Flags().String("path-mode", "auto", "how paths are shown (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	checkCmd.Flags().Bool("fixes", false, "include suggested fixes")
	checkCmd.Flags().Bool("preview", false, "preview the lines each fix would change")
	checkCmd.Flags().Bool("verify", false, "check model invariants after every stage")
	checkCmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 on warnings too")
}

func runCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	report, err := readReportFlags(cmd)
	if err != nil {
		return err
	}
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return fmt.Errorf("failed to get verify flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	s, err := newSession(cmd, paths)
	if err != nil {
		return err
	}
	defer s.close()
	s.opts.Verify = verify
	if report.format == "" {
		report.format = s.cfg.Output.Format
	}
	report.color = s.color && report.format == "pretty"

	res, err := s.run(paths, "checking")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := printDiagnostics(out, cmd.ErrOrStderr(), res, report); err != nil {
		return err
	}
	if report.format == "pretty" && !s.quiet {
		fmt.Fprintln(out, summary(res, report.color))
	}

	if res.HasErrors() {
		return exitCode(1)
	}
	if strict {
		for _, d := range res.Diagnostics() {
			if d.Severity >= diag.SevWarning {
				return exitCode(1)
			}
		}
	}
	return nil
}

// readReportFlags reads the output flags shared by check and transform.
func readReportFlags(cmd *cobra.Command) (reportOptions, error) {
	var opts reportOptions
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if opts.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return opts, err
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.fixes, err = cmd.Flags().GetBool("fixes"); err != nil {
		return opts, fmt.Errorf("failed to get fixes flag: %w", err)
	}
	if opts.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return opts, fmt.Errorf("failed to get preview flag: %w", err)
	}
	return opts, nil
}
