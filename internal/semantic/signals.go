package semantic

// #region imports
import (
	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region signal-spec

// Formula computes a signal value from the current state. Formulas may
// assume the input layer's range invariant holds.
type Formula func(s *state.ReflexState) float32

// SignalSpec defines one named semantic signal: its formula, trigger
// threshold, weight, and the mode it implies when triggered.
type SignalSpec struct {
	Name      string
	Compute   Formula
	Threshold float32
	Weight    float32          // reserved; carried through config, unused by evaluation
	Mode      state.RebloomMode // "" = flag only, no mode override
}

// SignalTable is an ordered signal list. Order is load-bearing twice over:
// flags are emitted in table order, and when several triggered signals carry
// a mode, the later entry wins. The default table deliberately places
// schema_breakdown after emotional_overload so regeneration outranks
// rephrasing.
type SignalTable []SignalSpec

// #endregion signal-spec

// #region default-table

// Canonical signal names.
const (
	SignalEmotionalOverload     = "emotional_overload"
	SignalConceptualInstability = "conceptual_instability"
	SignalSchemaBreakdown       = "schema_breakdown"
)

// DefaultTable returns the three canonical signals.
func DefaultTable() SignalTable {
	return SignalTable{
		{
			Name: SignalEmotionalOverload,
			Compute: func(s *state.ReflexState) float32 {
				return s.Heat * s.DriftScore
			},
			Threshold: 0.8,
			Weight:    1.0,
			Mode:      state.ModeRephrase,
		},
		{
			Name: SignalConceptualInstability,
			Compute: func(s *state.ReflexState) float32 {
				return s.DriftScore * s.Entropy
			},
			Threshold: 0.6,
			Weight:    1.0,
		},
		{
			Name: SignalSchemaBreakdown,
			Compute: func(s *state.ReflexState) float32 {
				return (1 - s.Audit.AlignmentScore) * s.DriftScore
			},
			Threshold: 0.7,
			Weight:    1.0,
			Mode:      state.ModeRegenerate,
		},
	}
}

// #endregion default-table
