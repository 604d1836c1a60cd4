package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jssema/internal/config"
	"jssema/internal/driver"
	"jssema/internal/observ"
)

// session is the state shared by the commands that run the driver.
type session struct {
	cmd     *cobra.Command
	cfg     config.Config
	opts    driver.Options
	color   bool
	quiet   bool
	timings bool
	ui      tristate
	cleanup func()
}

// newSession reads the global flags, sets up tracing and loads the
// configuration for paths. Callers must defer s.close.
func newSession(cmd *cobra.Command, paths []string) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	s := &session{cmd: cmd, cleanup: func() {}}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = parseTristate("ui", uiFlag); err != nil {
		return nil, err
	}
	color, err := parseTristate("color", colorFlag)
	if err != nil {
		return nil, err
	}
	s.color = color.enabled(func() bool { return isTerminal(os.Stdout) })

	if s.cfg, err = loadConfig(configPath, paths); err != nil {
		return nil, err
	}
	if maxDiagnostics > 0 {
		s.cfg.Output.MaxDiagnostics = maxDiagnostics
	}

	s.opts = driver.Options{Config: s.cfg, Jobs: jobs}
	if s.timings {
		s.opts.Timer = observ.NewTimer()
	}
	if s.cfg.Cache.Enabled && !noCache {
		dir := s.cfg.Cache.Dir
		if !filepath.IsAbs(dir) && s.cfg.Path != "" {
			dir = filepath.Join(filepath.Dir(s.cfg.Path), dir)
		}
		if s.opts.Cache, err = driver.OpenDiskCache(dir); err != nil {
			return nil, err
		}
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	stopTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return nil, err
	}
	s.cleanup = func() {
		stopTracing()
		stopProfiling()
	}
	return s, nil
}

func loadConfig(path string, paths []string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	start := "."
	if len(paths) > 0 {
		start = paths[0]
		if info, err := os.Stat(start); err == nil && !info.IsDir() {
			start = filepath.Dir(start)
		}
	}
	return config.Discover(start)
}

// run executes the driver, with the progress view when it is wanted.
func (s *session) run(paths []string, title string) (*driver.Result, error) {
	ctx := s.cmd.Context()
	tty := func() bool { return isTerminal(os.Stdout) && isTerminal(os.Stderr) }
	if s.quiet || !s.ui.enabled(tty) {
		return driver.Run(ctx, paths, s.opts)
	}
	files, err := driver.ListSources(paths, s.opts.Cache.Dir())
	if err != nil {
		return nil, err
	}
	return runWithUI(ctx, title, files, paths, s.opts)
}

// close prints the timings when asked and stops the tracer.
func (s *session) close() {
	if s.timings && s.opts.Timer != nil {
		fmt.Fprint(s.cmd.ErrOrStderr(), s.opts.Timer.Summary())
	}
	s.cleanup()
}
