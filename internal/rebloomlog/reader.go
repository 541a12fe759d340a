package rebloomlog

// #region imports
import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// #endregion imports

// #region reader

// Reader loads history records back for replay and inspection.
type Reader struct {
	path string
}

// NewReader points at a history file.
func NewReader(path string) *Reader {
	if path == "" {
		path = DefaultPath
	}
	return &Reader{path: path}
}

// Records parses every line of the history. A corrupt line fails the whole
// read with its line number; the history is an audit trail, not best-effort
// telemetry.
func (r *Reader) Records() ([]Record, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", r.path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("history line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return records, nil
}

// Tail returns the most recent limit records, oldest first.
func (r *Reader) Tail(limit int) ([]Record, error) {
	records, err := r.Records()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// #endregion reader
