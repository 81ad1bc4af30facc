package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func recordAt(t *testing.T, store *Store, op Operation, ts time.Time) *Entry {
	t.Helper()

	entry := NewEntry(op, "composer.json", []string{"vendor/pkg:1.0"})
	entry.Timestamp = ts
	entry.MarkSuccess()
	if err := store.Record(entry); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	return entry
}

func TestOpenDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(os.Getenv("XDG_DATA_HOME"), "updater", "history.db")); err != nil {
		t.Errorf("history database not created: %v", err)
	}
}

func TestRecordAndCount(t *testing.T) {
	store := setupTestStore(t)

	recordAt(t, store, OpRequire, time.Now())

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestRecordReplacesSameID(t *testing.T) {
	store := setupTestStore(t)

	entry := NewEntry(OpUpdate, "composer.json", nil)
	if err := store.Record(entry); err != nil {
		t.Fatal(err)
	}
	entry.MarkSuccess()
	if err := store.Record(entry); err != nil {
		t.Fatal(err)
	}

	count, _ := store.Count()
	if count != 1 {
		t.Errorf("expected 1 entry after re-recording, got %d", count)
	}
	got, err := store.Get(entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Success {
		t.Error("re-recorded entry should be updated")
	}
}

func TestList(t *testing.T) {
	store := setupTestStore(t)

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, recordAt(t, store, OpRequire, base.Add(time.Duration(i)*time.Minute)).ID)
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	if entries[0].ID != ids[4] {
		t.Error("List() should return the most recent entry first")
	}

	entries, _ = store.List(2)
	if len(entries) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(entries))
	}
}

func TestGet(t *testing.T) {
	store := setupTestStore(t)

	entry := NewEntry(OpRequire, "composer.json", []string{"vendor/a:1.0"})
	entry.SetSnapshot([]byte(`{"name":"shop"}`))
	if err := store.Record(entry); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ID != entry.ID || got.Operation != OpRequire {
		t.Errorf("Get() = %+v", got)
	}
	if string(got.Snapshot) != `{"name":"shop"}` {
		t.Errorf("snapshot = %q", got.Snapshot)
	}

	byPrefix, err := store.Get(entry.ShortID())
	if err != nil {
		t.Fatalf("Get(prefix) error: %v", err)
	}
	if byPrefix.ID != entry.ID {
		t.Error("Get(prefix) returned the wrong entry")
	}

	if _, err := store.Get("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Get(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestGetAmbiguousPrefix(t *testing.T) {
	store := setupTestStore(t)

	for _, id := range []string{"abc-1", "abc-2"} {
		entry := NewEntry(OpUpdate, "composer.json", nil)
		entry.ID = id
		if err := store.Record(entry); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := store.Get("abc"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestLast(t *testing.T) {
	store := setupTestStore(t)

	last, err := store.Last()
	if err != nil || last != nil {
		t.Fatalf("Last() on empty store = %v, %v", last, err)
	}

	recordAt(t, store, OpRequire, time.Now().Add(-time.Minute))
	latest := recordAt(t, store, OpUpdate, time.Now())

	last, err = store.Last()
	if err != nil {
		t.Fatalf("Last() error: %v", err)
	}
	if last.ID != latest.ID {
		t.Error("Last() should return the most recent entry")
	}
}

func TestRestore(t *testing.T) {
	store := setupTestStore(t)

	manifest := filepath.Join(t.TempDir(), "composer.json")
	original := []byte("{\n    \"replace\": {\n        \"vendor/a\": \"*\"\n    }\n}\n")
	if err := os.WriteFile(manifest, []byte("{}\n"), 0640); err != nil {
		t.Fatal(err)
	}

	entry := NewEntry(OpRequire, manifest, []string{"vendor/a:1.0"})
	entry.SetSnapshot(original)
	if err := store.Record(entry); err != nil {
		t.Fatal(err)
	}

	restored, err := store.Restore(entry.ID)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if restored.ID != entry.ID {
		t.Error("Restore() returned the wrong entry")
	}

	data, _ := os.ReadFile(manifest)
	if string(data) != string(original) {
		t.Errorf("manifest = %q, want %q", data, original)
	}
	info, _ := os.Stat(manifest)
	if info.Mode().Perm() != 0640 {
		t.Errorf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	store := setupTestStore(t)

	entry := recordAt(t, store, OpUpdate, time.Now())
	if _, err := store.Restore(entry.ID); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	entry := NewEntry(OpRequire, "composer.json", nil)
	entry.SetSnapshot([]byte("{}"))
	store.Record(entry)
	recordAt(t, store, OpUpdate, time.Now())

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	count, _ := store.Count()
	if count != 0 {
		t.Errorf("expected 0 entries after clear, got %d", count)
	}
	if _, err := store.Get(entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	store := setupTestStore(t)

	old := recordAt(t, store, OpRequire, time.Now().Add(-48*time.Hour))
	recent := recordAt(t, store, OpUpdate, time.Now())

	deleted, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	if _, err := store.Get(old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("pruned entry still present: %v", err)
	}
	if _, err := store.Get(recent.ID); err != nil {
		t.Errorf("recent entry missing: %v", err)
	}
}

func TestClose(t *testing.T) {
	store, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := (&Store{}).Close(); err != nil {
		t.Errorf("Close() on empty store error: %v", err)
	}
}
