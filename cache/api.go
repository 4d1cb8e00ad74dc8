package cache

import (
	"context"
	"encoding/json"
)

// Cache is a typed two-tier key/value cache.
// All methods are safe for concurrent use by multiple goroutines.
type Cache[K comparable, V any] interface {
	// Insert stores v under k with expiry now+EntryLifetime and mirrors it
	// to the backend, if any. It may evict one other resident entry.
	Insert(k K, v V)

	// Value looks k up in memory, then in the backend. A backend hit is
	// promoted into memory. Expired entries are removed and reported absent.
	Value(k K) (V, bool)

	// Entry is the memory-only lookup: it never reads from or promotes out of
	// the backend. Expired entries are removed and reported absent.
	Entry(k K) (Entry[K, V], bool)

	// Remove deletes k from memory and the backend. Absent keys are a no-op.
	Remove(k K)

	// Get is Value.
	Get(k K) (V, bool)

	// Set is Insert.
	Set(k K, v V)

	// Assign inserts v when ok is true and removes k otherwise, mirroring
	// the comma-ok result of Get.
	Assign(k K, v V, ok bool)

	// GetOrLoad returns the value for k, loading it via Options.Loader on a
	// miss in both tiers. Concurrent loads for the same key are coalesced.
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Keys returns the keys currently resident in memory.
	Keys() []K

	// Len returns the number of entries resident in memory, including
	// expired ones not yet discovered.
	Len() int

	// RemoveAll empties the memory tier and deletes every backend record.
	// It reports whether the backend invalidation succeeded (true without one).
	RemoveAll() bool

	// Close marks the cache closed. Later calls are ignored or miss.
	Close() error

	// MarshalJSON encodes the live entries in insertion order.
	json.Marshaler
}
