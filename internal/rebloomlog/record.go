package rebloomlog

// #region imports
import (
	"fmt"
	"time"

	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region record

// Record is one JSON-Lines entry in the rebloom history. One record per
// processed turn; the file is the core's only persisted artifact and the
// sole interface for offline analysis.
type Record struct {
	TaskID        string         `json:"task_id"`
	Timestamp     string         `json:"timestamp"` // ISO-8601 UTC
	ShouldRebloom bool           `json:"should_rebloom"`
	Mode          string         `json:"mode"`
	DriftScore    float32        `json:"drift_score"`
	Faltering     bool           `json:"faltering"`
	Flags         []string       `json:"flags"`
	Mood          string         `json:"mood"`
	Heat          float32        `json:"heat"`
	Entropy       float32        `json:"entropy"`
	Sigil         string         `json:"sigil"`
	Metadata      map[string]any `json:"metadata"`
}

// FromState builds the record for a decided state. The metadata object is
// the state's scratch map plus the computed signals, minus the decision and
// the task id (both already top-level fields).
func FromState(s *state.ReflexState, now time.Time) Record {
	meta := make(map[string]any, len(s.Extra)+1)
	for k, v := range s.Extra {
		if k == "task_id" {
			continue
		}
		meta[k] = v
	}
	if s.Signals != nil {
		meta["signals"] = s.SignalSnapshot()
	}

	d := s.Decision
	return Record{
		TaskID:        s.TaskID,
		Timestamp:     now.UTC().Format(time.RFC3339),
		ShouldRebloom: d.ShouldRebloom,
		Mode:          string(d.Mode),
		DriftScore:    d.DriftScore,
		Faltering:     d.Faltering,
		Flags:         d.Flags,
		Mood:          s.Mood,
		Heat:          s.Heat,
		Entropy:       s.Entropy,
		Sigil:         s.Sigil,
		Metadata:      meta,
	}
}

// Validate checks the record against the history schema.
func (r Record) Validate() error {
	if r.TaskID == "" {
		return fmt.Errorf("missing task_id")
	}
	if _, err := time.Parse(time.RFC3339, r.Timestamp); err != nil {
		return fmt.Errorf("bad timestamp %q: %w", r.Timestamp, err)
	}
	if !state.RebloomMode(r.Mode).Valid() {
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	if r.Flags == nil {
		return fmt.Errorf("missing flags")
	}
	return nil
}

// SignalValues extracts the recorded signal map from metadata.
// JSON numbers arrive as float64; they are narrowed back to float32.
func (r Record) SignalValues() (map[string]float32, bool) {
	raw, ok := r.Metadata["signals"].(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]float32, len(raw))
	for name, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, false
		}
		out[name] = float32(f)
	}
	return out, true
}

// #endregion record
