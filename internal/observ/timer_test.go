package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerAggregatesConcurrentPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Begin("parse").End("")
			tm.Begin("semantic").End("")
		}()
	}
	wg.Wait()
	tm.Begin("parse").End("8 files")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Count != 9 || r.Phases[0].Note != "8 files" {
		t.Fatalf("unexpected parse phase: %+v", r.Phases[0])
	}
	if r.Phases[1].Count != 8 {
		t.Fatalf("semantic count = %d", r.Phases[1].Count)
	}
	if r.TotalMS < 0 || r.WallMS < 0 {
		t.Fatalf("negative durations: %+v", r)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	if d := tm.Begin("x").End("note"); d != 0 {
		t.Fatalf("nil timer measured %v", d)
	}
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer reported phases")
	}
}

func TestSummaryListsPhases(t *testing.T) {
	tm := NewTimer()
	tm.Begin("lint").End("2 rules")
	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") || !strings.Contains(s, "lint") || !strings.Contains(s, "// 2 rules") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
	if !strings.Contains(s, "wall") {
		t.Fatalf("summary misses wall time:\n%s", s)
	}
}
