package semantic

// #region imports
import (
	"fmt"

	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region layer

// Layer is the evaluation stage: it recomputes every signal from the current
// state and drafts a provisional rebloom recommendation. It is stateless
// across evaluations — no smoothing, no memory of prior values.
type Layer struct {
	table SignalTable
}

// NewLayer creates an evaluation layer over the given table. A nil or empty
// table falls back to the default three signals.
func NewLayer(table SignalTable) *Layer {
	if len(table) == 0 {
		table = DefaultTable()
	}
	return &Layer{table: table}
}

// Name identifies the layer in pipeline errors.
func (l *Layer) Name() string { return "evaluation" }

// Execute computes all signal values and the provisional recommendation.
// Mode starts at clarify and is overwritten by each triggered signal that
// carries one, in table order (last write wins).
func (l *Layer) Execute(s *state.ReflexState) error {
	if s.Audit == nil {
		return fmt.Errorf("audit result missing; input layer did not run")
	}

	signals := make(map[string]float32, len(l.table))
	order := make([]string, 0, len(l.table))
	rec := &state.Recommendation{
		Mode:  state.ModeClarify,
		Flags: []string{},
	}

	for _, spec := range l.table {
		value := spec.Compute(s)
		signals[spec.Name] = value
		order = append(order, spec.Name)

		if value > spec.Threshold {
			rec.ShouldRebloom = true
			rec.Flags = append(rec.Flags, fmt.Sprintf("%s=%.2f", spec.Name, value))
			if spec.Mode != "" {
				rec.Mode = spec.Mode
			}
		}
	}

	s.Signals = signals
	s.SignalOrder = order
	s.Recommendation = rec
	return nil
}

// Validate requires the signal map, the table order, and a well-formed
// recommendation on the state.
func (l *Layer) Validate(s *state.ReflexState) bool {
	if s.Signals == nil || len(s.SignalOrder) != len(l.table) {
		return false
	}
	rec := s.Recommendation
	return rec != nil && rec.Mode.Valid() && rec.Flags != nil
}

// #endregion layer
