package sigil

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sigils (
	symbol        TEXT PRIMARY KEY,
	definition    TEXT NOT NULL,
	tags          TEXT NOT NULL,
	registered_at TEXT NOT NULL
);
`

// #endregion schema

// #region entry

// Entry is one registered sigil.
type Entry struct {
	Symbol       string
	Definition   string
	Tags         []string
	RegisteredAt time.Time
}

// #endregion entry

// #region store

// Store persists the sigil registry in SQLite. Registration overwrites:
// a sigil has exactly one current definition.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the registry database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate registry: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Register upserts a sigil, replacing any prior registration for the symbol.
func (s *Store) Register(symbol, definition string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sigils (symbol, definition, tags, registered_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET
			definition = excluded.definition,
			tags = excluded.tags,
			registered_at = excluded.registered_at`,
		symbol, definition, string(tagsJSON), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("register sigil %s: %w", symbol, err)
	}
	return nil
}

// Get retrieves one sigil by symbol.
func (s *Store) Get(symbol string) (Entry, error) {
	row := s.db.QueryRow(
		`SELECT symbol, definition, tags, registered_at FROM sigils WHERE symbol = ?`, symbol,
	)
	return scanEntry(row.Scan)
}

// List returns all registered sigils, most recent first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT symbol, definition, tags, registered_at FROM sigils ORDER BY registered_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sigils: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scan func(...any) error) (Entry, error) {
	var e Entry
	var tagsJSON, registeredAt string
	if err := scan(&e.Symbol, &e.Definition, &tagsJSON, &registeredAt); err != nil {
		return Entry{}, fmt.Errorf("scan sigil: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
		return Entry{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	e.RegisteredAt, _ = time.Parse(time.RFC3339Nano, registeredAt)
	return e, nil
}

// #endregion store
