// Package cache is the persistent artifact cache: a TTL policy over a
// pluggable durable store, keyed by structured cache keys. All cache I/O
// fails open — a broken entry or a broken store reads as a miss, writes are
// best effort, and callers never see a cache error on the hot path.
package cache

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Class selects the expiry policy for an entry. The cache itself is
// class-agnostic; the class is an input at read and write time.
type Class int

const (
	// ClassScan holds codebase-scan results, refreshed daily.
	ClassScan Class = iota
	// ClassGeneration holds generated artifact text, kept for a week.
	ClassGeneration
)

// TTL returns how long entries of this class stay fresh.
func (c Class) TTL() time.Duration {
	if c == ClassScan {
		return 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

func (c Class) String() string {
	if c == ClassScan {
		return "scan"
	}
	return "generation"
}

// Cache applies TTL policy over a Store.
type Cache struct {
	store  Store
	logger *zap.Logger

	// now is swapped out by tests probing the TTL boundary.
	now func() time.Time
}

// New builds a cache over store. A nil logger disables logging.
func New(store Store, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, logger: logger, now: time.Now}
}

// Open builds a cache on the configured backend rooted at dir.
// Backends: "fs" (one JSON file per entry, the default) and "sqlite".
func Open(backend, dir string, logger *zap.Logger) (*Cache, error) {
	var store Store
	var err error
	switch backend {
	case "", "fs":
		store, err = NewFSStore(dir)
	case "sqlite":
		store, err = NewSQLiteStore(filepath.Join(dir, "cache.db"))
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
	if err != nil {
		return nil, err
	}
	return New(store, logger), nil
}

// Get returns the cached value for key, or a miss. An entry older than the
// class TTL is a miss and is lazily pruned; a corrupt or unreadable entry is
// a miss. Get never fails.
func (c *Cache) Get(key Key, class Class) ([]byte, bool) {
	addr := key.Address()
	entry, err := c.store.Read(addr)
	if err != nil {
		return nil, false
	}

	if c.now().Sub(entry.WrittenAt) > class.TTL() {
		if err := c.store.Delete(addr); err != nil {
			c.logger.Debug("cache prune failed",
				zap.String("addr", addr),
				zap.Error(err))
		}
		return nil, false
	}

	return entry.Value, true
}

// Put stores value under key. Write failures are logged and swallowed;
// the worst outcome of a failed write is a future regeneration.
func (c *Cache) Put(key Key, value []byte, class Class) {
	addr := key.Address()
	entry := Entry{
		Class:     class.String(),
		Value:     value,
		WrittenAt: c.now(),
	}
	if err := c.store.Write(addr, entry); err != nil {
		c.logger.Debug("cache write failed",
			zap.String("addr", addr),
			zap.String("class", class.String()),
			zap.Error(err))
	}
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	return c.store.Clear()
}

// Stats reports entry counts per class and total payload bytes.
func (c *Cache) Stats() (Stats, error) {
	return c.store.Stats()
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
