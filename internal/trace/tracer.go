package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or "" for stderr
}

// New creates a Tracer based on Config. Paths ending in .ndjson select
// the NDJSON format.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		format = FormatNDJSON
	}
	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser keeps Close from closing stderr.
type nopCloser struct{ io.Writer }
