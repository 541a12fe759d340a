package state

// #region rebloom-mode

// RebloomMode names the re-processing action a decision asks for.
type RebloomMode string

const (
	ModeClarify    RebloomMode = "clarify"
	ModeRephrase   RebloomMode = "rephrase"
	ModeRegenerate RebloomMode = "regenerate"
	// ModeSuppress is never produced by the default signal table. It stays
	// reachable for manual overrides and future signal mappings.
	ModeSuppress RebloomMode = "suppress"
)

// Valid reports whether m is one of the defined modes.
func (m RebloomMode) Valid() bool {
	switch m {
	case ModeClarify, ModeRephrase, ModeRegenerate, ModeSuppress:
		return true
	}
	return false
}

// #endregion rebloom-mode

// #region audit-result

// AuditResult is the output of prompt/response validation.
type AuditResult struct {
	IsValid        bool
	AlignmentScore float32 // [0,1]
	FormatErrors   []string
	MemoryGaps     []string
}

// #endregion audit-result

// #region recommendation

// Recommendation is the evaluation layer's provisional finding,
// canonicalized by the decision layer.
type Recommendation struct {
	ShouldRebloom bool
	Mode          RebloomMode
	Flags         []string // table order, one entry per triggered signal
}

// #endregion recommendation

// #region rebloom-decision

// RebloomDecision is the canonical output of one pipeline turn.
type RebloomDecision struct {
	ShouldRebloom bool
	Mode          RebloomMode
	Flags         []string
	Faltering     bool
	DriftScore    float32
	Signals       map[string]float32 // signal values at decision time
}

// #endregion rebloom-decision

// #region task-router

// TaskRouter re-routes a task for re-processing. It rides the state because
// routing is configured per turn, not per pipeline.
type TaskRouter interface {
	ReloopTask(taskID, mode string, meta map[string]any) error
}

// #endregion task-router

// #region reflex-state

// ReflexState is the per-turn context threaded through all five layers.
// The fixed fields are populated by the factory; the hand-off fields below
// them are written one layer at a time. Each layer reads only the hand-off
// fields it needs, so earlier layers can be swapped without breaking later
// ones.
type ReflexState struct {
	TaskID     string
	Mood       string
	DriftScore float32 // [0,1] after input layer
	Heat       float32 // [0,1]
	Entropy    float32 // [0,1]
	Sigil      string
	Audit      *AuditResult
	Router     TaskRouter     // optional
	Extra      map[string]any // caller scratch, carried into the log record

	// Hand-off fields, in stage order.
	Signals        map[string]float32
	SignalOrder    []string // table order, preserved for log readability
	Recommendation *Recommendation
	Decision       *RebloomDecision
	Logged         bool
	Actuated       bool
}

// SignalSnapshot returns a copy of the computed signal values.
func (s *ReflexState) SignalSnapshot() map[string]float32 {
	if s.Signals == nil {
		return nil
	}
	out := make(map[string]float32, len(s.Signals))
	for k, v := range s.Signals {
		out[k] = v
	}
	return out
}

// #endregion reflex-state
