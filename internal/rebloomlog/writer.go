package rebloomlog

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// #endregion imports

// #region writer

// DefaultPath is where the history lands unless configured otherwise.
const DefaultPath = "logs/rebloom/rebloom_history.jsonl"

// Writer appends records to the history file. The file handle is owned by
// the writer and guarded by a mutex, so concurrent pipelines sharing one
// writer serialize cleanly. Construct at startup, Close at shutdown —
// there is no hidden process-wide instance.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// NewWriter opens (creating directories as needed) the history file in
// append mode. Prior records are never touched.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	return &Writer{f: f, path: path}, nil
}

// Path returns the history file path.
func (w *Writer) Path() string { return w.path }

// Append writes one record as a single JSON line and syncs it to disk
// before returning, so the decision is recoverable even if the process
// dies in the actuation layer right after.
func (w *Writer) Append(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("sync history: %w", err)
	}
	return nil
}

// Close releases the file handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// #endregion writer
