package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"": LevelOff, "off": LevelOff, "Phase": LevelPhase, "detail": LevelDetail, "DEBUG": LevelDebug}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopeDriver) || !LevelPhase.ShouldEmit(ScopePhase) {
		t.Fatalf("phase level must emit driver and phase events")
	}
	if LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatalf("phase level must not emit file events")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopePass) {
		t.Fatalf("detail level covers files but not passes")
	}
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Fatalf("off emits nothing")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	sp := Begin(tr, ScopeDriver, "check", 0)
	if sp.ID() != 0 || sp.End("") != 0 {
		t.Fatalf("nop span must be inert")
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopePhase, "semantic")
	_, inner := Start(ctx, ScopeFile, "file:a.js")
	inner.WithExtra("symbols", "3").End("ok")
	outer.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		SpanID   uint64            `json:"span_id"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "file:a.js" || ev.Extra["symbols"] != "3" {
		t.Fatalf("unexpected inner end event: %+v", ev)
	}
	if ev.ParentID != outer.ID() || ev.SpanID != inner.ID() {
		t.Fatalf("inner span parent = %d, want %d", ev.ParentID, outer.ID())
	}
}

func TestTextFormatSkipsFilteredScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, phase := Start(ctx, ScopePhase, "lint")
	_, file := Start(ctx, ScopeFile, "file:b.ts")
	file.End("")
	Point(ctx, ScopePass, "pass", "ignored")
	phase.WithExtra("b", "2").WithExtra("a", "1").End("done")

	out := buf.String()
	if strings.Contains(out, "file:b.ts") || strings.Contains(out, "ignored") {
		t.Fatalf("file and pass events must be filtered at phase level:\n%s", out)
	}
	if !strings.Contains(out, "→ lint") || !strings.Contains(out, "← lint (done) {a=1, b=2}") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}
