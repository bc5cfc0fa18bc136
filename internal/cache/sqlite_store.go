package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists entries in a single-table SQLite database. It trades
// the filesystem store's transparency for compactness on large caches.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// initialize creates the entries table.
func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		addr TEXT PRIMARY KEY,
		class TEXT NOT NULL,
		value BLOB NOT NULL,
		written_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_class ON entries(class);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}
	return nil
}

// Read returns the entry at addr.
func (s *SQLiteStore) Read(addr string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry Entry
	var writtenAt int64
	err := s.db.QueryRow(
		"SELECT class, value, written_at FROM entries WHERE addr = ?", addr,
	).Scan(&entry.Class, &entry.Value, &writtenAt)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read cache entry: %w", err)
	}

	entry.WrittenAt = time.Unix(0, writtenAt)
	return entry, nil
}

// Write stores the entry at addr, replacing any previous value.
func (s *SQLiteStore) Write(addr string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO entries (addr, class, value, written_at) VALUES (?, ?, ?, ?)",
		addr, entry.Class, entry.Value, entry.WrittenAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry at addr; an absent entry is not an error.
func (s *SQLiteStore) Delete(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM entries WHERE addr = ?", addr); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Stats tallies entries per class straight from the table.
func (s *SQLiteStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT class, COUNT(*), COALESCE(SUM(LENGTH(value)), 0) FROM entries GROUP BY class",
	)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{EntriesByClass: make(map[string]int)}
	for rows.Next() {
		var class string
		var count int
		var bytes int64
		if err := rows.Scan(&class, &count, &bytes); err != nil {
			return Stats{}, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats.EntriesByClass[class] = count
		stats.TotalEntries += count
		stats.TotalBytes += bytes
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return stats, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
