package replay

// #region imports
import (
	"fmt"

	"github.com/dawnfield/reflex-controller/internal/decision"
	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/semantic"
	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region types

// TurnResult is the outcome of re-deriving one recorded turn.
type TurnResult struct {
	TaskID    string
	Recorded  rebloomlog.Record
	Rebloom   bool
	Mode      state.RebloomMode
	Faltering bool
	Diverged  bool
	Reason    string
}

// Summary aggregates a replay run.
type Summary struct {
	Turns       int
	Reblooms    int
	Faltering   int
	Divergences int
	Modes       map[string]int
}

// #endregion types

// #region replay

// Replay re-derives trigger, mode, and faltering status from each record's
// persisted signal values and compares them against what was recorded.
// Signal formulas are not re-run — the history carries values, not raw
// inputs — so replay verifies the decision logic and the log's integrity,
// deterministically.
func Replay(records []rebloomlog.Record, table semantic.SignalTable, dcfg decision.Config) ([]TurnResult, Summary) {
	results := make([]TurnResult, 0, len(records))
	summary := Summary{Modes: make(map[string]int)}

	for _, rec := range records {
		result := replayOne(rec, table, dcfg)
		results = append(results, result)

		summary.Turns++
		summary.Modes[rec.Mode]++
		if rec.ShouldRebloom {
			summary.Reblooms++
		}
		if rec.Faltering {
			summary.Faltering++
		}
		if result.Diverged {
			summary.Divergences++
		}
	}
	return results, summary
}

func replayOne(rec rebloomlog.Record, table semantic.SignalTable, dcfg decision.Config) TurnResult {
	result := TurnResult{TaskID: rec.TaskID, Recorded: rec}

	if err := rec.Validate(); err != nil {
		result.Diverged = true
		result.Reason = fmt.Sprintf("schema: %v", err)
		return result
	}

	signals, ok := rec.SignalValues()
	if !ok {
		result.Diverged = true
		result.Reason = "metadata carries no signal values"
		return result
	}

	// Re-run the evaluation layer's trigger/override walk over recorded
	// values, in table order.
	rebloom := false
	mode := state.ModeClarify
	for _, spec := range table {
		value, present := signals[spec.Name]
		if !present {
			result.Diverged = true
			result.Reason = fmt.Sprintf("signal %s missing from record", spec.Name)
			return result
		}
		if value > spec.Threshold {
			rebloom = true
			if spec.Mode != "" {
				mode = spec.Mode
			}
		}
	}

	// Re-run the faltering plurality check.
	over := 0
	for _, v := range signals {
		if v > dcfg.FalteringCutoff {
			over++
		}
	}
	faltering := over >= dcfg.FalteringMinSignals

	result.Rebloom = rebloom
	result.Mode = mode
	result.Faltering = faltering

	switch {
	case rebloom != rec.ShouldRebloom:
		result.Diverged = true
		result.Reason = fmt.Sprintf("should_rebloom: recorded %v, derived %v", rec.ShouldRebloom, rebloom)
	case string(mode) != rec.Mode:
		result.Diverged = true
		result.Reason = fmt.Sprintf("mode: recorded %s, derived %s", rec.Mode, mode)
	case faltering != rec.Faltering:
		result.Diverged = true
		result.Reason = fmt.Sprintf("faltering: recorded %v, derived %v", rec.Faltering, faltering)
	}
	return result
}

// #endregion replay
