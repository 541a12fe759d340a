package actuate

// #region imports
import (
	"fmt"
	"log"

	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region registry-interface

// Registry marks sigils. Register overwrites any prior registration for
// the symbol.
type Registry interface {
	Register(symbol, definition string, tags []string) error
}

// #endregion registry-interface

// #region unstable-marking

const unstableDefinition = "UNSTABLE - Requires regeneration"

func unstableTags() []string {
	return []string{"unstable", "needs_regeneration"}
}

// #endregion unstable-marking

// #region layer

// Layer applies the decision's side effects: sigil instability marking and
// task re-routing. It is the only layer that touches external collaborators,
// and it never swallows their failures.
type Layer struct {
	registry Registry
}

// NewLayer creates an actuation layer over the given registry.
func NewLayer(registry Registry) *Layer {
	return &Layer{registry: registry}
}

// Name identifies the layer in pipeline errors.
func (l *Layer) Name() string { return "actuation" }

// Execute marks the sigil unstable on faltering and re-routes through the
// state's task router when a rebloom mode calls for it. Clarify and
// suppress never route; a clarifying question is outside this core. The
// state is marked actuated even when no side effect fires.
func (l *Layer) Execute(s *state.ReflexState) error {
	d := s.Decision
	if d == nil {
		return fmt.Errorf("decision missing")
	}

	if d.Faltering && l.registry != nil {
		if err := l.registry.Register(s.Sigil, unstableDefinition, unstableTags()); err != nil {
			return fmt.Errorf("mark sigil %s unstable: %w", s.Sigil, err)
		}
		log.Printf("[ACTUATE] sigil %s marked unstable", s.Sigil)
	}

	if d.ShouldRebloom && s.Router != nil {
		switch d.Mode {
		case state.ModeRephrase:
			err := s.Router.ReloopTask(s.TaskID, string(state.ModeRephrase), map[string]any{
				"drift_score": d.DriftScore,
			})
			if err != nil {
				return fmt.Errorf("reloop task %s: %w", s.TaskID, err)
			}
		case state.ModeRegenerate:
			err := s.Router.ReloopTask(s.TaskID, string(state.ModeRegenerate), map[string]any{
				"faltering": d.Faltering,
			})
			if err != nil {
				return fmt.Errorf("reloop task %s: %w", s.TaskID, err)
			}
		}
	}

	s.Actuated = true
	return nil
}

// Validate requires the actuation mark.
func (l *Layer) Validate(s *state.ReflexState) bool {
	return s.Actuated
}

// #endregion layer
