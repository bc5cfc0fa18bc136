package cache

import "time"

// Entry is one stored value with the metadata the TTL policy needs.
type Entry struct {
	Class     string
	Value     []byte
	WrittenAt time.Time
}

// Store is the durable medium behind the cache: bytes addressable by a
// string key, each write stamped with its time and TTL class. Single-key
// operations must be safe under concurrent use.
type Store interface {
	// Read returns the entry at addr; it errors when the entry is absent,
	// corrupt, or unreadable. Callers treat any error as a miss.
	Read(addr string) (Entry, error)

	// Write stores the entry at addr, replacing any previous value.
	Write(addr string, entry Entry) error

	// Delete removes the entry at addr. Deleting an absent entry is not an
	// error.
	Delete(addr string) error

	// Clear removes every entry.
	Clear() error

	// Stats reports what is currently durable, including entries that have
	// expired but not yet been pruned.
	Stats() (Stats, error)

	// Close releases the underlying medium.
	Close() error
}

// Stats summarizes store contents for the operator surface.
type Stats struct {
	EntriesByClass map[string]int
	TotalEntries   int
	TotalBytes     int64
}
