// Package cache provides a generic, typed, two-tier key/value cache: a
// bounded in-memory tier with per-entry expiration, optionally mirrored to
// a pluggable persistent Backend (see package disk for the file-based one).
//
// # Design
//
//   - Memory tier: a map[K]*node plus an intrusive list ordered by the
//     eviction policy. FIFO is the default: when Capacity is exceeded the
//     earliest inserted entry is evicted, and reads never refresh an entry's
//     position. policy/lru is available for access-order eviction.
//
//   - Key tracking: the set of resident keys is updated in the same critical
//     section as the store, including for evictions the store performs on
//     its own (the store returns them from put instead of calling back).
//
//   - Expiration: every entry expires at insert time + EntryLifetime.
//     Expiry is lazy; an expired entry is purged, from memory and from the
//     backend, only when a lookup finds it. Memory does not shrink without
//     access.
//
//   - Persistence: Insert mirrors the entry to the Backend; Value falls back
//     to the Backend on a memory miss and promotes a live hit into memory.
//     Backend failures are logged and reported via Metrics.PersistFailure,
//     never returned: the memory tier is authoritative.
//
//   - Serialization: a Cache marshals to a JSON array of its live entries in
//     insertion order; Decode replays them through the insertion path.
//
// # Basic usage
//
//	c := cache.New[string, []string](cache.Options[string, []string]{Capacity: 2})
//	c.Insert("greeting", []string{"hello", "world"})
//	if v, ok := c.Value("greeting"); ok {
//	    _ = v
//	}
//	c.Remove("greeting")
//
// # With a disk tier
//
//	store, err := disk.New[string, []string](disk.Config{})
//	if err != nil {
//	    return err
//	}
//	c := cache.New[string, []string](cache.Options[string, []string]{Backend: store})
//
// # Thread-safety
//
// All methods on Cache are safe for concurrent use. A single mutex guards the
// memory store, the key tracker and the backend calls, so the two in-memory
// structures are never observed out of sync and records for one key are
// written in call order.
package cache
