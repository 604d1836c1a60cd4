package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jssema/internal/trace"
)

// setupTracing reads the trace flags and attaches a tracer to the
// command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		if traceOutput == "" {
			cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
			return func() {}, nil
		}
		// an output without a level means phases
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: traceOutput})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
