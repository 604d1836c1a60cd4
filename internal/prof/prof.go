// Package prof wraps the runtime profilers behind one start/stop pair.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	rtrace "runtime/trace"
)

// Config names the output files; empty paths disable that profiler.
type Config struct {
	CPU   string
	Mem   string
	Trace string
}

// Profiler owns the files of a running profile session.
type Profiler struct {
	cfg       Config
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the profilers cfg asks for. On error nothing stays running.
func Start(cfg Config) (*Profiler, error) {
	p := &Profiler{cfg: cfg}
	if cfg.CPU != "" {
		f, err := os.Create(cfg.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		p.cpuFile = f
	}
	if cfg.Trace != "" {
		f, err := os.Create(cfg.Trace)
		if err != nil {
			p.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := rtrace.Start(f); err != nil {
			_ = f.Close()
			p.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		p.traceFile = f
	}
	return p, nil
}

// Active reports whether any profiler was requested.
func (p *Profiler) Active() bool {
	return p != nil && (p.cfg.CPU != "" || p.cfg.Mem != "" || p.cfg.Trace != "")
}

// Stop ends the CPU profile and the runtime trace, then writes the heap
// profile. Calling it again does nothing.
func (p *Profiler) Stop() error {
	if p == nil || p.stopped {
		return nil
	}
	p.stopped = true
	var errs []error
	if err := p.stopCPU(); err != nil {
		errs = append(errs, err)
	}
	if p.traceFile != nil {
		rtrace.Stop()
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("runtime trace: %w", err))
		}
		p.traceFile = nil
	}
	if p.cfg.Mem != "" {
		if err := writeHeap(p.cfg.Mem); err != nil {
			errs = append(errs, fmt.Errorf("heap profile: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (p *Profiler) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := p.cpuFile.Close()
	p.cpuFile = nil
	return err
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
