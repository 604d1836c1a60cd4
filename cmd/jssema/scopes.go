package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes [flags] <file|directory>...",
	Short: "Dump the scopes, symbols and references of each file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScopes,
}

func init() {
	scopesCmd.Flags().Bool("stats", false, "print only the table sizes")
	scopesCmd.Flags().Bool("verify", false, "check model invariants")
}

func runScopes(cmd *cobra.Command, args []string) error {
	statsOnly, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return fmt.Errorf("failed to get verify flag: %w", err)
	}

	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	s.opts.KeepSemantic = !statsOnly
	s.opts.Verify = verify

	res, err := s.run(args, "resolving")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i := range res.Files {
		f := &res.Files[i]
		if f.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Path, f.Err)
			continue
		}
		if statsOnly {
			fmt.Fprintf(out, "%s: %d nodes, %d scopes, %d symbols, %d references\n",
				f.Path, f.Stats.Nodes, f.Stats.Scopes, f.Stats.Symbols, f.Stats.References)
			continue
		}
		if f.Sem == nil {
			continue
		}
		fmt.Fprintf(out, "== %s ==\n%s", f.Path, f.Sem.Snapshot())
	}
	if res.HasErrors() {
		return exitCode(1)
	}
	return nil
}
