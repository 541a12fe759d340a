package decision

// #region imports
import (
	"fmt"

	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region config

// Config holds the decision layer's thresholds.
type Config struct {
	// FalteringCutoff is the bar a signal value must exceed to count toward
	// faltering. It is independent of each signal's own trigger threshold;
	// conceptual_instability triggers at 0.6 but only counts here above 0.7.
	FalteringCutoff float32
	// FalteringMinSignals is how many signals must exceed the cutoff.
	FalteringMinSignals int
	// EntropyFlagThreshold controls the "entropy exceeds threshold" flag.
	EntropyFlagThreshold float32
}

// DefaultConfig returns the canonical thresholds.
func DefaultConfig() Config {
	return Config{
		FalteringCutoff:      0.7,
		FalteringMinSignals:  2,
		EntropyFlagThreshold: 0.7,
	}
}

// #endregion config

// #region layer

// Layer converts the evaluation layer's provisional recommendation into the
// canonical RebloomDecision and determines faltering status.
type Layer struct {
	config Config
}

// NewLayer creates a decision layer with the given config.
func NewLayer(config Config) *Layer {
	return &Layer{config: config}
}

// Name identifies the layer in pipeline errors.
func (l *Layer) Name() string { return "decision" }

// Execute builds the decision. Faltering requires plurality: at least
// FalteringMinSignals values above the cutoff — a single hot signal is an
// isolated trigger, not persistent decline.
func (l *Layer) Execute(s *state.ReflexState) error {
	rec := s.Recommendation
	if rec == nil || s.Signals == nil {
		return fmt.Errorf("evaluation results missing")
	}

	over := 0
	for _, v := range s.Signals {
		if v > l.config.FalteringCutoff {
			over++
		}
	}
	faltering := over >= l.config.FalteringMinSignals

	// Augment, never replace, the evaluation flags.
	flags := make([]string, 0, len(rec.Flags)+3)
	flags = append(flags, rec.Flags...)
	flags = append(flags, fmt.Sprintf("drift=%.2f", s.DriftScore))
	if s.Entropy > l.config.EntropyFlagThreshold {
		flags = append(flags, fmt.Sprintf("entropy=%.2f exceeds threshold", s.Entropy))
	}
	if s.Mood == "drift" {
		flags = append(flags, "mood=drift")
	}

	s.Decision = &state.RebloomDecision{
		ShouldRebloom: rec.ShouldRebloom,
		Mode:          rec.Mode,
		Flags:         flags,
		Faltering:     faltering,
		DriftScore:    s.DriftScore,
		Signals:       s.SignalSnapshot(),
	}
	return nil
}

// Validate structurally checks the constructed decision.
func (l *Layer) Validate(s *state.ReflexState) bool {
	d := s.Decision
	return d != nil && d.Mode.Valid() && d.Flags != nil && d.Signals != nil
}

// #endregion layer
