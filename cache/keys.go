package cache

// keyTracker is the authoritative set of keys resident in the memory store.
// The cache updates it in the same critical section as the store, including
// for evictions the store performs on its own.
type keyTracker[K comparable] struct {
	keys map[K]struct{}
}

func newKeyTracker[K comparable]() *keyTracker[K] {
	return &keyTracker[K]{keys: make(map[K]struct{})}
}

func (t *keyTracker[K]) noteInserted(k K) { t.keys[k] = struct{}{} }

func (t *keyTracker[K]) noteRemoved(k K) { delete(t.keys, k) }

func (t *keyTracker[K]) len() int { return len(t.keys) }

// snapshot returns a copy that is safe to iterate while the set changes.
func (t *keyTracker[K]) snapshot() []K {
	out := make([]K, 0, len(t.keys))
	for k := range t.keys {
		out = append(out, k)
	}
	return out
}

func (t *keyTracker[K]) reset() { clear(t.keys) }
