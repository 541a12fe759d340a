package pipeline

// #region imports
import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/dawnfield/reflex-controller/internal/actuate"
	"github.com/dawnfield/reflex-controller/internal/decision"
	"github.com/dawnfield/reflex-controller/internal/input"
	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/semantic"
	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region layer-interface

// Layer is one pipeline stage. Execute mutates the state; Validate checks
// the stage's postcondition afterwards.
type Layer interface {
	Name() string
	Execute(s *state.ReflexState) error
	Validate(s *state.ReflexState) bool
}

// #endregion layer-interface

// #region layer-error

// LayerError is the pipeline's terminal failure: one layer either errored
// or left its postcondition unsatisfied. There are no retries and no
// partial-success states.
type LayerError struct {
	Layer string
	Err   error
}

func (e *LayerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s layer: %v", e.Layer, e.Err)
	}
	return fmt.Sprintf("%s layer: postcondition failed", e.Layer)
}

func (e *LayerError) Unwrap() error { return e.Err }

// #endregion layer-error

// #region options

// Options wires a pipeline. Zero-value components fall back to defaults;
// Writer is the one required dependency.
type Options struct {
	Mood    input.MoodClassifier
	Drift   input.DriftDetector
	Auditor input.PromptAuditor

	SignalTable    semantic.SignalTable
	DecisionConfig decision.Config

	Writer   *rebloomlog.Writer
	Registry actuate.Registry
}

// #endregion options

// #region pipeline

// Pipeline runs the five reflex layers in fixed sequence: input →
// evaluation → decision → logging → actuation. No branching, no retries,
// no cycles.
type Pipeline struct {
	layers []Layer
}

// New wires a pipeline from options.
func New(opts Options) (*Pipeline, error) {
	if opts.Writer == nil {
		return nil, fmt.Errorf("rebloom log writer is required")
	}
	dcfg := opts.DecisionConfig
	if dcfg == (decision.Config{}) {
		dcfg = decision.DefaultConfig()
	}
	return &Pipeline{
		layers: []Layer{
			input.NewLayer(opts.Mood, opts.Drift, opts.Auditor),
			semantic.NewLayer(opts.SignalTable),
			decision.NewLayer(dcfg),
			rebloomlog.NewLayer(opts.Writer),
			actuate.NewLayer(opts.Registry),
		},
	}, nil
}

// #endregion pipeline

// #region state-factory

// StateParams carries everything the factory needs for one turn.
type StateParams struct {
	Mood       string
	DriftScore float32
	Heat       float32
	Entropy    float32
	Sigil      string
	TaskID     string // generated when empty
	Router     state.TaskRouter
	Extra      map[string]any
}

// NewState builds the initial per-turn state. The returned state is valid
// input for Process and nothing else; it is discarded after the caller
// reads the result.
func NewState(p StateParams) *state.ReflexState {
	taskID := p.TaskID
	if taskID == "" {
		taskID = uuid.New().String()
	}
	extra := p.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	return &state.ReflexState{
		TaskID:     taskID,
		Mood:       p.Mood,
		DriftScore: p.DriftScore,
		Heat:       p.Heat,
		Entropy:    p.Entropy,
		Sigil:      p.Sigil,
		Router:     p.Router,
		Extra:      extra,
	}
}

// #endregion state-factory

// #region process

// Process runs the state through all five layers, validating after each.
// The first layer error or failed postcondition aborts the turn with a
// LayerError naming the stage; the partially processed state is returned
// alongside it for diagnosis.
func (p *Pipeline) Process(s *state.ReflexState) (*state.ReflexState, error) {
	for _, layer := range p.layers {
		if err := layer.Execute(s); err != nil {
			return s, &LayerError{Layer: layer.Name(), Err: err}
		}
		if !layer.Validate(s) {
			return s, &LayerError{Layer: layer.Name()}
		}
	}

	d := s.Decision
	log.Printf("[PIPELINE] task=%s rebloom=%v mode=%s faltering=%v flags=%d",
		s.TaskID, d.ShouldRebloom, d.Mode, d.Faltering, len(d.Flags))
	return s, nil
}

// #endregion process
