package sigil

// #region imports
import (
	"fmt"
	"sync"
	"time"
)

// #endregion imports

// #region mem-registry

// MemRegistry is an in-process registry with the same overwrite semantics
// as the SQLite store. Used in tests and in runs that do not persist sigils.
type MemRegistry struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemRegistry returns an empty in-memory registry.
func NewMemRegistry() *MemRegistry {
	return &MemRegistry{entries: make(map[string]Entry)}
}

// Register replaces any prior registration for the symbol.
func (m *MemRegistry) Register(symbol, definition string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[symbol] = Entry{
		Symbol:       symbol,
		Definition:   definition,
		Tags:         append([]string(nil), tags...),
		RegisteredAt: time.Now().UTC(),
	}
	return nil
}

// Get retrieves one sigil by symbol.
func (m *MemRegistry) Get(symbol string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[symbol]
	if !ok {
		return Entry{}, fmt.Errorf("sigil %s not registered", symbol)
	}
	return entry, nil
}

// Len reports how many sigils are registered.
func (m *MemRegistry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// #endregion mem-registry
