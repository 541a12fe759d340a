package rebloomlog

// #region imports
import (
	"fmt"
	"log"
	"time"

	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region layer

// Layer persists one record per decided turn. A missing decision is not an
// error here — the layer skips the write and leaves Logged unset, which the
// pipeline's postcondition check turns into a turn failure. A write
// error aborts the turn outright: the audit trail outranks availability.
type Layer struct {
	writer *Writer
	now    func() time.Time
}

// NewLayer creates a logging layer over the given writer.
func NewLayer(writer *Writer) *Layer {
	return &Layer{writer: writer, now: time.Now}
}

// Name identifies the layer in pipeline errors.
func (l *Layer) Name() string { return "logging" }

// Execute appends the turn's record and marks the state logged.
func (l *Layer) Execute(s *state.ReflexState) error {
	if s.Decision == nil {
		log.Printf("[REBLOOM] no decision on task %s, nothing to log", s.TaskID)
		return nil
	}
	if err := l.writer.Append(FromState(s, l.now())); err != nil {
		return fmt.Errorf("task %s: %w", s.TaskID, err)
	}
	s.Logged = true
	return nil
}

// Validate requires the record to have been written.
func (l *Layer) Validate(s *state.ReflexState) bool {
	return s.Logged
}

// #endregion layer
