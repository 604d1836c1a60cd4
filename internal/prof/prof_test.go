package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartStopWritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	p, err := Start(cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !p.Active() {
		t.Fatalf("expected an active profiler")
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	for _, path := range []string{cfg.CPU, cfg.Mem, cfg.Trace} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}

func TestEmptyConfigIsInactive(t *testing.T) {
	p, err := Start(Config{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if p.Active() {
		t.Errorf("empty config should be inactive")
	}
	if err := p.Stop(); err != nil {
		t.Errorf("stop: %v", err)
	}
	var nilProf *Profiler
	if nilProf.Active() || nilProf.Stop() != nil {
		t.Errorf("nil profiler should be inert")
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	if _, err := Start(Config{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")}); err == nil {
		t.Fatalf("expected an error for an unwritable path")
	}
}
