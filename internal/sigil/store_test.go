package sigil

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "sigils.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRegisterAndGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Register("sigil-a", "stable concept", []string{"core"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	entry, err := s.Get("sigil-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Symbol != "sigil-a" || entry.Definition != "stable concept" {
		t.Errorf("entry: %+v", entry)
	}
	if len(entry.Tags) != 1 || entry.Tags[0] != "core" {
		t.Errorf("tags: %v", entry.Tags)
	}
	if entry.RegisteredAt.IsZero() {
		t.Error("registered_at not recorded")
	}
}

func TestStoreRegisterOverwrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.Register("sigil-a", "first", []string{"v1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := s.Register("sigil-a", "second", []string{"v2", "rewritten"}); err != nil {
		t.Fatalf("second register: %v", err)
	}

	entry, err := s.Get("sigil-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Definition != "second" {
		t.Errorf("definition: got %q, want latest", entry.Definition)
	}
	if len(entry.Tags) != 2 {
		t.Errorf("tags: %v", entry.Tags)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("overwrite produced %d rows, want 1", len(entries))
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("absent"); err == nil {
		t.Fatal("missing sigil should error")
	}
}

func TestStoreNilTags(t *testing.T) {
	s := newTestStore(t)
	if err := s.Register("sigil-a", "def", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	entry, err := s.Get("sigil-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Tags == nil || len(entry.Tags) != 0 {
		t.Errorf("tags: got %#v, want empty list", entry.Tags)
	}
}

func TestMemRegistryOverwrites(t *testing.T) {
	m := NewMemRegistry()

	if err := m.Register("sigil-a", "first", []string{"v1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := m.Register("sigil-a", "second", nil); err != nil {
		t.Fatalf("register: %v", err)
	}

	entry, err := m.Get("sigil-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Definition != "second" {
		t.Errorf("definition: got %q", entry.Definition)
	}
	if m.Len() != 1 {
		t.Errorf("len: got %d, want 1", m.Len())
	}
	if _, err := m.Get("absent"); err == nil {
		t.Error("missing sigil should error")
	}
}
