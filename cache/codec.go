package cache

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// MarshalJSON encodes the live entries as a JSON array ordered by insertion.
// Expired entries are skipped but not purged.
func (c *cache[K, V]) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	return json.Marshal(snapshot)
}

// Decode rebuilds a cache from MarshalJSON output. Every entry is replayed
// through the insertion path, so Capacity and the policy apply exactly as
// for Insert; expirations are kept as encoded. Replay does not write to
// opt.Backend.
func Decode[K comparable, V any](data []byte, opt Options[K, V]) (Cache[K, V], error) {
	var entries []Entry[K, V]
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cache: decode entries: %w", err)
	}
	c := newCache(opt)
	c.mu.Lock()
	for _, e := range entries {
		c.insertLocked(e)
	}
	c.mu.Unlock()
	return c, nil
}

// snapshotLocked resolves every tracked key through the store and keeps the
// live ones, oldest insertion first.
func (c *cache[K, V]) snapshotLocked() []Entry[K, V] {
	now := c.now()
	nodes := make([]*node[K, V], 0, c.keys.len())
	for _, k := range c.keys.snapshot() {
		n, ok := c.store.lookup(k)
		if !ok || !n.entry.Live(now) {
			continue
		}
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *node[K, V]) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]Entry[K, V], len(nodes))
	for i, n := range nodes {
		out[i] = n.entry
	}
	return out
}
