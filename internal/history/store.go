package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"updater/internal/config"

	"go.etcd.io/bbolt"
)

const (
	bucketHistory   = "history"
	bucketIndex     = "index"
	bucketSnapshots = "snapshots"
)

// ErrNotFound is returned when no entry matches an ID.
var ErrNotFound = errors.New("history entry not found")

// ErrNoSnapshot is returned when restoring an entry without a manifest snapshot.
var ErrNoSnapshot = errors.New("history entry has no manifest snapshot")

// Store manages the run journal using BoltDB.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the journal at the default data path.
func Open() (*Store, error) {
	if err := config.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return OpenAt(config.HistoryPath())
}

// OpenAt opens or creates the journal at path.
func OpenAt(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketHistory, bucketIndex, bucketSnapshots} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// entryKey orders entries chronologically; the ID suffix keeps keys unique.
func entryKey(e *Entry) []byte {
	return []byte(e.Timestamp.UTC().Format("2006-01-02T15:04:05.000000000Z") + "/" + e.ID)
}

// Record saves an entry and its snapshot. Recording an existing ID replaces it.
func (s *Store) Record(entry *Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketHistory))
		index := tx.Bucket([]byte(bucketIndex))
		snapshots := tx.Bucket([]byte(bucketSnapshots))

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}

		if old := index.Get([]byte(entry.ID)); old != nil {
			if err := bucket.Delete(old); err != nil {
				return err
			}
		}

		key := entryKey(entry)
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}
		if err := index.Put([]byte(entry.ID), key); err != nil {
			return fmt.Errorf("failed to index entry: %w", err)
		}

		if entry.HasSnapshot {
			if err := snapshots.Put([]byte(entry.ID), entry.Snapshot); err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
		}
		return nil
	})
}

// List returns the most recent entries first. A limit of zero or less returns all.
func (s *Store) List(limit int) ([]Entry, error) {
	var entries []Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(bucketHistory)).Cursor()

		for k, v := cursor.Last(); k != nil && (limit <= 0 || len(entries) < limit); k, v = cursor.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue // Skip malformed entries
			}
			entries = append(entries, entry)
		}
		return nil
	})

	return entries, err
}

// Get retrieves an entry, with its snapshot, by full ID or unique ID prefix.
func (s *Store) Get(id string) (*Entry, error) {
	var entry *Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		index := tx.Bucket([]byte(bucketIndex))

		fullID, key, err := resolveID(index, id)
		if err != nil {
			return err
		}

		var e Entry
		if err := json.Unmarshal(tx.Bucket([]byte(bucketHistory)).Get(key), &e); err != nil {
			return fmt.Errorf("failed to decode entry %s: %w", fullID, err)
		}
		if snap := tx.Bucket([]byte(bucketSnapshots)).Get([]byte(fullID)); snap != nil {
			e.Snapshot = append([]byte(nil), snap...)
		}
		entry = &e
		return nil
	})

	return entry, err
}

func resolveID(index *bbolt.Bucket, id string) (string, []byte, error) {
	if id == "" {
		return "", nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	if key := index.Get([]byte(id)); key != nil {
		return id, key, nil
	}

	var fullID string
	var key []byte
	prefix := []byte(id)
	c := index.Cursor()
	for k, v := c.Seek(prefix); k != nil && len(k) >= len(prefix) && string(k[:len(prefix)]) == id; k, v = c.Next() {
		if fullID != "" {
			return "", nil, fmt.Errorf("ambiguous history id %q", id)
		}
		fullID, key = string(k), v
	}
	if fullID == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fullID, key, nil
}

// Last returns the most recent entry, or nil when the journal is empty.
func (s *Store) Last() (*Entry, error) {
	entries, err := s.List(1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// Restore writes the snapshot of entry id back to its manifest path and
// returns the entry. The file keeps its current mode when it exists.
func (s *Store) Restore(id string) (*Entry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !entry.CanRestore() {
		return entry, fmt.Errorf("%w: %s", ErrNoSnapshot, entry.ID)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(entry.ManifestPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(entry.ManifestPath), 0755); err != nil {
		return entry, fmt.Errorf("failed to restore %s: %w", entry.ManifestPath, err)
	}
	if err := os.WriteFile(entry.ManifestPath, entry.Snapshot, mode); err != nil {
		return entry, fmt.Errorf("failed to restore %s: %w", entry.ManifestPath, err)
	}
	return entry, nil
}

// Count returns the total number of entries.
func (s *Store) Count() (int, error) {
	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket([]byte(bucketHistory)).Stats().KeyN
		return nil
	})

	return count, err
}

// Clear removes all entries and snapshots.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketHistory, bucketIndex, bucketSnapshots} {
			if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Prune removes entries older than maxAge and returns how many were deleted.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	var deleted int

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketHistory))
		index := tx.Bucket([]byte(bucketIndex))
		snapshots := tx.Bucket([]byte(bucketSnapshots))

		type victim struct{ key, id []byte }
		var toDelete []victim
		cursor := bucket.Cursor()

		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			if !e.Timestamp.Before(cutoff) {
				break
			}
			toDelete = append(toDelete, victim{key: append([]byte(nil), k...), id: []byte(e.ID)})
		}

		for _, d := range toDelete {
			if err := bucket.Delete(d.key); err != nil {
				return err
			}
			if err := index.Delete(d.id); err != nil {
				return err
			}
			if err := snapshots.Delete(d.id); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})

	return deleted, err
}
