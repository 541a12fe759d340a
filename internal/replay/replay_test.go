package replay

import (
	"testing"

	"github.com/dawnfield/reflex-controller/internal/decision"
	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/semantic"
)

func record(taskID, mode string, rebloom, faltering bool, eo, ci, sb float64) rebloomlog.Record {
	return rebloomlog.Record{
		TaskID:        taskID,
		Timestamp:     "2026-03-04T05:06:07Z",
		ShouldRebloom: rebloom,
		Mode:          mode,
		DriftScore:    0.5,
		Faltering:     faltering,
		Flags:         []string{},
		Mood:          "stable",
		Heat:          0.5,
		Entropy:       0.5,
		Sigil:         "sigil-a",
		Metadata: map[string]any{
			"signals": map[string]any{
				semantic.SignalEmotionalOverload:     eo,
				semantic.SignalConceptualInstability: ci,
				semantic.SignalSchemaBreakdown:       sb,
			},
		},
	}
}

func TestReplayConsistentHistory(t *testing.T) {
	records := []rebloomlog.Record{
		record("t1", "clarify", false, false, 0.3, 0.2, 0.1),
		record("t2", "rephrase", true, false, 0.85, 0.4, 0.1),
		record("t3", "regenerate", true, true, 0.9, 0.85, 0.8),
	}

	results, summary := Replay(records, semantic.DefaultTable(), decision.DefaultConfig())

	for _, r := range results {
		if r.Diverged {
			t.Errorf("turn %s diverged: %s", r.TaskID, r.Reason)
		}
	}
	if summary.Turns != 3 || summary.Divergences != 0 {
		t.Fatalf("summary: %+v", summary)
	}
	if summary.Reblooms != 2 || summary.Faltering != 1 {
		t.Errorf("counts: %+v", summary)
	}
	if summary.Modes["rephrase"] != 1 || summary.Modes["regenerate"] != 1 || summary.Modes["clarify"] != 1 {
		t.Errorf("modes: %v", summary.Modes)
	}
}

func TestReplayDetectsModeMismatch(t *testing.T) {
	// Signals say regenerate; the record claims rephrase.
	rec := record("t1", "rephrase", true, true, 0.9, 0.85, 0.8)

	results, summary := Replay([]rebloomlog.Record{rec}, semantic.DefaultTable(), decision.DefaultConfig())

	if summary.Divergences != 1 || !results[0].Diverged {
		t.Fatalf("mismatch not detected: %+v", results[0])
	}
	if results[0].Mode != "regenerate" {
		t.Errorf("derived mode: got %s", results[0].Mode)
	}
}

func TestReplayDetectsTriggerMismatch(t *testing.T) {
	// Quiet signals but a recorded rebloom.
	rec := record("t1", "rephrase", true, false, 0.3, 0.2, 0.1)

	_, summary := Replay([]rebloomlog.Record{rec}, semantic.DefaultTable(), decision.DefaultConfig())
	if summary.Divergences != 1 {
		t.Fatal("trigger mismatch not detected")
	}
}

func TestReplayDetectsFalteringMismatch(t *testing.T) {
	rec := record("t1", "regenerate", true, false, 0.9, 0.85, 0.8)

	results, _ := Replay([]rebloomlog.Record{rec}, semantic.DefaultTable(), decision.DefaultConfig())
	if !results[0].Diverged {
		t.Fatal("faltering mismatch not detected")
	}
}

func TestReplayFlagsMissingSignals(t *testing.T) {
	rec := record("t1", "clarify", false, false, 0.3, 0.2, 0.1)
	signals := rec.Metadata["signals"].(map[string]any)
	delete(signals, semantic.SignalSchemaBreakdown)

	results, _ := Replay([]rebloomlog.Record{rec}, semantic.DefaultTable(), decision.DefaultConfig())
	if !results[0].Diverged {
		t.Fatal("missing signal not flagged")
	}
}

func TestReplayFlagsSchemaFailure(t *testing.T) {
	rec := record("", "clarify", false, false, 0.3, 0.2, 0.1)

	results, _ := Replay([]rebloomlog.Record{rec}, semantic.DefaultTable(), decision.DefaultConfig())
	if !results[0].Diverged {
		t.Fatal("schema failure not flagged")
	}
}

func TestReplayNoSignalsInMetadata(t *testing.T) {
	rec := record("t1", "clarify", false, false, 0.3, 0.2, 0.1)
	rec.Metadata = map[string]any{}

	results, _ := Replay([]rebloomlog.Record{rec}, semantic.DefaultTable(), decision.DefaultConfig())
	if !results[0].Diverged {
		t.Fatal("signal-free record not flagged")
	}
}
