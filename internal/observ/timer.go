package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase accumulates the time spent in one pipeline phase across files.
type Phase struct {
	Name  string
	Dur   time.Duration
	Count int
	Note  string
}

// Timer aggregates phase durations. Files are analysed concurrently, so
// the same phase may be open on several goroutines at once; Timer is safe
// for that use. Phases are reported in first-seen order.
type Timer struct {
	mu     sync.Mutex
	start  time.Time
	phases []Phase
	index  map[string]int
}

func NewTimer() *Timer {
	return &Timer{start: time.Now(), phases: make([]Phase, 0, 8), index: make(map[string]int, 8)}
}

// Mark is an open measurement returned by Begin.
type Mark struct {
	t     *Timer
	name  string
	start time.Time
}

// Begin opens a measurement of phase name. A nil Timer yields a Mark
// whose End does nothing.
func (t *Timer) Begin(name string) Mark {
	if t == nil {
		return Mark{}
	}
	t.mu.Lock()
	if _, ok := t.index[name]; !ok {
		t.index[name] = len(t.phases)
		t.phases = append(t.phases, Phase{Name: name})
	}
	t.mu.Unlock()
	return Mark{t: t, name: name, start: time.Now()}
}

// End adds the elapsed time to the phase. A non-empty note replaces the
// phase's previous note.
func (m Mark) End(note string) time.Duration {
	if m.t == nil {
		return 0
	}
	d := time.Since(m.start)
	m.t.mu.Lock()
	p := &m.t.phases[m.t.index[m.name]]
	p.Dur += d
	p.Count++
	if note != "" {
		p.Note = note
	}
	m.t.mu.Unlock()
	return d
}

// Summary renders the report as aligned text.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %9.2f ms  x%d", p.Name, p.DurationMS, p.Count)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %9.2f ms\n", "wall", report.WallMS)
	return sb.String()
}

// PhaseReport is the serialisable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report is a snapshot of a Timer. TotalMS sums the phases, which can
// exceed WallMS when files run in parallel.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	WallMS  float64       `json:"wall_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	report := Report{
		WallMS: durationToMillis(time.Since(t.start)),
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Count:      phase.Count,
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
