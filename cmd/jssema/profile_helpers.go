package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jssema/internal/prof"
)

// setupProfiling starts the profilers named by the persistent flags. The
// cleanup stops them and is safe to call more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	p, err := prof.Start(prof.Config{CPU: cpuProfile, Mem: memProfile, Trace: tracePath})
	if err != nil {
		return nil, err
	}
	if !p.Active() {
		return func() {}, nil
	}
	return func() {
		if err := p.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
