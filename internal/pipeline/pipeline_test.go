package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/sigil"
	"github.com/dawnfield/reflex-controller/internal/state"
)

type reloopCall struct {
	taskID string
	mode   string
	meta   map[string]any
}

type spyRouter struct {
	calls []reloopCall
}

func (r *spyRouter) ReloopTask(taskID, mode string, meta map[string]any) error {
	r.calls = append(r.calls, reloopCall{taskID: taskID, mode: mode, meta: meta})
	return nil
}

type fixture struct {
	pipe     *Pipeline
	logPath  string
	registry *sigil.MemRegistry
	router   *spyRouter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "history.jsonl")
	w, err := rebloomlog.NewWriter(logPath)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	registry := sigil.NewMemRegistry()
	pipe, err := New(Options{Writer: w, Registry: registry})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return &fixture{pipe: pipe, logPath: logPath, registry: registry, router: &spyRouter{}}
}

func (f *fixture) turn(t *testing.T, mood string, drift, heat, entropy, alignment float32) *state.ReflexState {
	t.Helper()
	s := NewState(StateParams{
		Mood:       mood,
		DriftScore: drift,
		Heat:       heat,
		Entropy:    entropy,
		Sigil:      "sigil-a",
		Router:     f.router,
	})
	s.Audit = &state.AuditResult{
		IsValid:        true,
		AlignmentScore: alignment,
		FormatErrors:   []string{},
		MemoryGaps:     []string{},
	}
	out, err := f.pipe.Process(s)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	return out
}

func TestProcessEmotionalOverloadTurn(t *testing.T) {
	f := newFixture(t)

	// Hot and drifting, but aligned and low-entropy: only the
	// heat-times-drift signal fires.
	s := f.turn(t, "stable", 0.95, 0.9, 0.3, 0.9)

	d := s.Decision
	if !d.ShouldRebloom || d.Mode != state.ModeRephrase {
		t.Fatalf("decision: %+v", d)
	}
	if d.Faltering {
		t.Error("single signal must not falter")
	}

	if len(f.router.calls) != 1 {
		t.Fatalf("router calls: got %d, want 1", len(f.router.calls))
	}
	call := f.router.calls[0]
	if call.taskID != s.TaskID || call.mode != "rephrase" {
		t.Errorf("call: %+v", call)
	}
	if _, ok := call.meta["drift_score"]; !ok {
		t.Errorf("meta: %v", call.meta)
	}
	if f.registry.Len() != 0 {
		t.Error("non-faltering turn must not mark the sigil")
	}
}

func TestProcessFalteringTurn(t *testing.T) {
	f := newFixture(t)

	// Everything bad at once: all three signals exceed their thresholds.
	s := f.turn(t, "drift", 0.95, 0.95, 0.9, 0.1)

	d := s.Decision
	if !d.ShouldRebloom || d.Mode != state.ModeRegenerate {
		t.Fatalf("decision: %+v", d)
	}
	if !d.Faltering {
		t.Fatal("three elevated signals must falter")
	}

	entry, err := f.registry.Get("sigil-a")
	if err != nil {
		t.Fatalf("sigil not marked: %v", err)
	}
	if entry.Definition != "UNSTABLE - Requires regeneration" {
		t.Errorf("definition: %q", entry.Definition)
	}

	if len(f.router.calls) != 1 || f.router.calls[0].mode != "regenerate" {
		t.Fatalf("router calls: %+v", f.router.calls)
	}
}

func TestProcessQuietTurnStillLogs(t *testing.T) {
	f := newFixture(t)

	s := f.turn(t, "calm", 0.2, 0.2, 0.2, 0.95)

	if s.Decision.ShouldRebloom {
		t.Fatal("quiet turn must not rebloom")
	}
	if len(f.router.calls) != 0 || f.registry.Len() != 0 {
		t.Error("quiet turn produced side effects")
	}

	records, err := rebloomlog.NewReader(f.logPath).Records()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if records[0].Mode != "clarify" || records[0].ShouldRebloom {
		t.Errorf("record: %+v", records[0])
	}
}

func TestProcessOneRecordPerTurn(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "calm", 0.2, 0.2, 0.2, 0.95)
	f.turn(t, "stable", 0.95, 0.9, 0.3, 0.9)
	f.turn(t, "drift", 0.95, 0.95, 0.9, 0.1)

	records, err := rebloomlog.NewReader(f.logPath).Records()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records: got %d, want 3", len(records))
	}
}

func TestProcessRejectsOutOfRangeInput(t *testing.T) {
	f := newFixture(t)

	s := NewState(StateParams{Mood: "stable", DriftScore: 1.5, Heat: 0.5, Entropy: 0.5, Sigil: "s"})
	s.Audit = &state.AuditResult{IsValid: true, AlignmentScore: 0.9, FormatErrors: []string{}, MemoryGaps: []string{}}

	_, err := f.pipe.Process(s)
	var lerr *LayerError
	if !errors.As(err, &lerr) {
		t.Fatalf("error: got %v, want LayerError", err)
	}
	if lerr.Layer != "input" {
		t.Errorf("layer: got %q, want input", lerr.Layer)
	}

	records, readErr := rebloomlog.NewReader(f.logPath).Records()
	if readErr != nil {
		t.Fatalf("read log: %v", readErr)
	}
	if len(records) != 0 {
		t.Error("aborted turn must not log")
	}
}

func TestNewRequiresWriter(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("pipeline without writer should fail")
	}
}

func TestNewStateGeneratesTaskID(t *testing.T) {
	a := NewState(StateParams{Sigil: "s"})
	b := NewState(StateParams{Sigil: "s"})
	if a.TaskID == "" || a.TaskID == b.TaskID {
		t.Fatalf("task IDs: %q vs %q", a.TaskID, b.TaskID)
	}
	if a.Extra == nil {
		t.Error("extra must be non-nil")
	}

	c := NewState(StateParams{TaskID: "fixed"})
	if c.TaskID != "fixed" {
		t.Errorf("caller task ID lost: %q", c.TaskID)
	}
}
