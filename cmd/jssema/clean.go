package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove the result cache",
	Long:  "Remove the on-disk result cache of the project containing path (default: the working directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	cache := s.opts.Cache
	if cache == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "cache is disabled")
		return nil
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean cache: %w", err)
	}
	if !s.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "cleared cache at %s\n", cache.Dir())
	}
	return nil
}
