package input

// #region imports
import (
	"fmt"
	"math"

	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region component-interfaces

// MoodClassifier infers the affective tone of a response.
type MoodClassifier interface {
	Classify(responseText string) string
}

// DriftDetector scores how far a response has diverged from the
// conversational trajectory.
type DriftDetector interface {
	Score(responseText string) float32
}

// PromptAuditor validates structural well-formedness and memory alignment
// of a prompt/response pair.
type PromptAuditor interface {
	Audit(prompt, responseText string) state.AuditResult
}

// #endregion component-interfaces

// #region unset-score

// UnsetScore marks a metric the caller wants the input layer to compute.
// NaN is used so an unset value can never pass the range check by accident.
var UnsetScore = float32(math.NaN())

// #endregion unset-score

// #region layer

// Layer populates mood, drift score, and audit result on a fresh state and
// enforces the [0,1] range invariant before hand-off. Metrics the caller
// already set are passed through untouched.
type Layer struct {
	mood    MoodClassifier
	drift   DriftDetector
	auditor PromptAuditor
}

// NewLayer creates an input layer. Any component may be nil; the layer then
// requires the caller to supply the corresponding field.
func NewLayer(mood MoodClassifier, drift DriftDetector, auditor PromptAuditor) *Layer {
	return &Layer{mood: mood, drift: drift, auditor: auditor}
}

// Name identifies the layer in pipeline errors.
func (l *Layer) Name() string { return "input" }

// Execute fills unset fields from the configured components. Prompt and
// response text, when available, ride in Extra under "prompt" / "response".
func (l *Layer) Execute(s *state.ReflexState) error {
	response := extraString(s, "response")
	prompt := extraString(s, "prompt")

	if s.Mood == "" && l.mood != nil {
		s.Mood = l.mood.Classify(response)
	}
	if isUnset(s.DriftScore) && l.drift != nil {
		s.DriftScore = l.drift.Score(response)
	}
	if s.Audit == nil && l.auditor != nil {
		audit := l.auditor.Audit(prompt, response)
		s.Audit = &audit
	}

	// A caller-provided audit may carry nil lists; the contract downstream
	// is populated (possibly empty) lists.
	if s.Audit != nil {
		if s.Audit.FormatErrors == nil {
			s.Audit.FormatErrors = []string{}
		}
		if s.Audit.MemoryGaps == nil {
			s.Audit.MemoryGaps = []string{}
		}
	}
	return nil
}

// Validate enforces the range invariant. Out-of-range values are never
// clamped; the turn fails instead.
func (l *Layer) Validate(s *state.ReflexState) bool {
	if s.Mood == "" {
		return false
	}
	if !inRange(s.DriftScore) || !inRange(s.Heat) || !inRange(s.Entropy) {
		return false
	}
	if s.Audit == nil || !inRange(s.Audit.AlignmentScore) {
		return false
	}
	return s.Audit.FormatErrors != nil && s.Audit.MemoryGaps != nil
}

// #endregion layer

// #region helpers

func inRange(v float32) bool {
	return v >= 0 && v <= 1 // NaN fails both comparisons
}

func isUnset(v float32) bool {
	return math.IsNaN(float64(v))
}

func extraString(s *state.ReflexState, key string) string {
	if s.Extra == nil {
		return ""
	}
	v, ok := s.Extra[key]
	if !ok {
		return ""
	}
	str, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	return str
}

// #endregion helpers
