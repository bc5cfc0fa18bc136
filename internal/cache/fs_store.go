package cache

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// fsEnvelope is the on-disk form of an entry. Value bytes round-trip through
// base64 via encoding/json.
type fsEnvelope struct {
	Class     string `json:"class"`
	WrittenAt int64  `json:"written_at"` // unix nanoseconds
	Value     []byte `json:"value"`
}

// FSStore persists entries as one JSON file per address under
// root/<aa>/<address>.json, sharded by the first two address characters to
// keep directories small. This is the default backend.
type FSStore struct {
	mu   sync.RWMutex
	root string
}

// NewFSStore creates or reopens a filesystem store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FSStore{root: dir}, nil
}

func (s *FSStore) entryPath(addr string) string {
	shard := "00"
	if len(addr) >= 2 {
		shard = addr[:2]
	}
	return filepath.Join(s.root, shard, addr+".json")
}

// Read loads and decodes the entry at addr.
func (s *FSStore) Read(addr string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.entryPath(addr))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var env fsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Entry{}, fmt.Errorf("corrupt cache entry %s: %w", addr, err)
	}

	return Entry{
		Class:     env.Class,
		Value:     env.Value,
		WrittenAt: time.Unix(0, env.WrittenAt),
	}, nil
}

// Write encodes and stores the entry at addr, replacing any previous value.
func (s *FSStore) Write(addr string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.entryPath(addr)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache shard: %w", err)
	}

	data, err := json.Marshal(fsEnvelope{
		Class:     entry.Class,
		WrittenAt: entry.WrittenAt.UnixNano(),
		Value:     entry.Value,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry at addr; an absent entry is not an error.
func (s *FSStore) Delete(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(addr)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries and leaves an empty store behind.
func (s *FSStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to recreate cache directory: %w", err)
	}
	return nil
}

// Stats walks the store and tallies entries per class. Undecodable files are
// skipped; they read as misses anyway.
func (s *FSStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{EntriesByClass: make(map[string]int)}
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var env fsEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil
		}

		stats.EntriesByClass[env.Class]++
		stats.TotalEntries++
		stats.TotalBytes += int64(len(env.Value))
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to walk cache: %w", err)
	}
	return stats, nil
}

// Close is a no-op for the filesystem store.
func (s *FSStore) Close() error {
	return nil
}
