package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jssema/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file|directory]...",
	Short: "Apply the fixes suggested by lint diagnostics",
	Long:  "Run the checks, collect the fixes attached to their diagnostics, and apply them according to the chosen strategy.",
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with this identifier")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, TargetID: targetID, DryRun: dryRun}
	switch {
	case targetID != "":
		opts.Mode = fix.ApplyModeID
	case applyAll:
		opts.Mode = fix.ApplyModeAll
	}

	s, err := newSession(cmd, paths)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.run(paths, "fixing")
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %v\n", f.Path, f.Err)
		}
	}
	applied, applyErr := fix.Apply(res.FileSet, res.Diagnostics(), opts)
	return printApplyResult(cmd.OutOrStdout(), applied, applyErr, dryRun)
}

func printApplyResult(w io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(w, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(w, "  %s [%s] %s (%s)\n", item.Title, item.ID, location, plural(item.EditCount, "edit"))
		}
	}
	if len(res.FileChanges) > 0 {
		if dryRun {
			fmt.Fprintln(w, "Files that would change:")
		} else {
			fmt.Fprintln(w, "Updated files:")
		}
		for _, change := range res.FileChanges {
			fmt.Fprintf(w, "  %s (%s)\n", change.Path, plural(change.EditCount, "edit"))
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(w, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(w, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}
