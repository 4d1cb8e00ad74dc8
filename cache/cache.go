package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/tiercache/policy/fifo"
)

var (
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")
	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")
)

// cache composes the memory store, the key tracker and the optional backend.
// mu makes every operation, including its backend calls, one atomic unit,
// so records are written in call order.
type cache[K comparable, V any] struct {
	mu      sync.Mutex
	store   *store[K, V]
	keys    *keyTracker[K]
	backend Backend[K, V] // nil when persistence is disabled

	opt    Options[K, V]
	log    zerolog.Logger
	closed atomic.Bool

	// sf coalesces concurrent loads in GetOrLoad. Flights are named by
	// flights, never by a printed form of the key.
	sf      singleflight.Group
	flights flightNames[K]
}

// New constructs a cache with the provided Options.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	return newCache(opt)
}

func newCache[K comparable, V any](opt Options[K, V]) *cache[K, V] {
	if opt.EntryLifetime <= 0 {
		opt.EntryLifetime = DefaultEntryLifetime
	}
	if opt.Policy == nil {
		opt.Policy = fifo.New[K]()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	log := zerolog.Nop()
	if opt.Logger != nil {
		log = opt.Logger.With().Str("component", "tiercache").Logger()
	}

	return &cache[K, V]{
		store:   newStore[K, V](opt.Capacity, opt.Policy),
		keys:    newKeyTracker[K](),
		backend: opt.Backend,
		opt:     opt,
		log:     log,
	}
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Insert(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.insertLocked(NewEntry(k, v, c.now().Add(c.opt.EntryLifetime)))
	c.persistLocked(k)
}

func (c *cache[K, V]) Value(k K) (V, bool) {
	var zero V
	if c.closed.Load() {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.get(k)
	tier := TierMemory
	if !ok && c.backend != nil {
		if e, ok = c.backend.Read(k); ok {
			tier = TierDisk
		}
	}
	if !ok {
		c.opt.Metrics.Miss()
		return zero, false
	}
	if !e.Live(c.now()) {
		c.expireLocked(e, tier)
		c.opt.Metrics.Miss()
		return zero, false
	}
	if tier == TierDisk {
		c.log.Debug().Str("key", KeyString(k)).Msg("promoting disk entry")
		c.insertLocked(e)
	}
	c.opt.Metrics.Hit(tier)
	return e.value, true
}

func (c *cache[K, V]) Entry(k K) (Entry[K, V], bool) {
	if c.closed.Load() {
		return Entry[K, V]{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.store.lookup(k)
	if !ok {
		return Entry[K, V]{}, false
	}
	if !n.entry.Live(c.now()) {
		c.expireLocked(n.entry, TierMemory)
		return Entry[K, V]{}, false
	}
	return n.entry, true
}

func (c *cache[K, V]) Remove(k K) {
	if c.closed.Load() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(k)
}

func (c *cache[K, V]) Get(k K) (V, bool) { return c.Value(k) }

func (c *cache[K, V]) Set(k K, v V) { c.Insert(k, v) }

func (c *cache[K, V]) Assign(k K, v V, ok bool) {
	if !ok {
		c.Remove(k)
		return
	}
	c.Insert(k, v)
}

// GetOrLoad returns the value for k; on a miss in both tiers it loads via
// Options.Loader, coalescing concurrent loads for the same key. A follower
// whose ctx is cancelled returns ctx.Err() while the leader keeps loading.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	if v, ok := c.Value(k); ok {
		return v, nil
	}
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	name := c.flights.acquire(k)
	defer c.flights.release(k)

	ch := c.sf.DoChan(name, func() (any, error) {
		// double-check after joining the flight
		if v, ok := c.Value(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err != nil {
			return v, err
		}
		c.Insert(k, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys.snapshot()
}

func (c *cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len
}

func (c *cache[K, V]) RemoveAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.reset()
	c.keys.reset()
	c.opt.Metrics.Size(0)
	if c.backend == nil {
		return true
	}
	if !c.backend.DeleteAll() {
		c.log.Warn().Msg("backend invalidation failed")
		c.opt.Metrics.PersistFailure("delete_all")
		return false
	}
	return true
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// ---- helpers (mu held) ----

// insertLocked puts e into memory and keeps the tracker in step with the
// store, including for entries the store evicted to make room.
func (c *cache[K, V]) insertLocked(e Entry[K, V]) {
	evicted := c.store.put(e)
	c.keys.noteInserted(e.key)
	for _, ev := range evicted {
		c.keys.noteRemoved(ev.entry.key)
		c.opt.Metrics.Evict(ev.reason)
		if cb := c.opt.OnEvict; cb != nil {
			cb(ev.entry.key, ev.entry.value, ev.reason)
		}
	}
	c.opt.Metrics.Size(c.store.len)
}

// persistLocked mirrors k to the backend. Failures are logged and counted;
// the memory tier stays authoritative.
func (c *cache[K, V]) persistLocked(k K) {
	if c.backend == nil {
		return
	}
	var snapshot []Entry[K, V]
	if c.opt.PersistSnapshot {
		snapshot = c.snapshotLocked()
	} else if n, ok := c.store.lookup(k); ok {
		snapshot = []Entry[K, V]{n.entry}
	} else {
		return
	}
	if err := c.backend.Save(k, snapshot); err != nil {
		c.log.Warn().Err(err).Str("key", KeyString(k)).Msg("persist entry")
		c.opt.Metrics.PersistFailure("save")
	}
}

// removeLocked is the full removal path: memory, tracker and backend.
func (c *cache[K, V]) removeLocked(k K) {
	c.store.remove(k)
	c.keys.noteRemoved(k)
	c.opt.Metrics.Size(c.store.len)
	if c.backend == nil {
		return
	}
	if !c.backend.Delete(k) {
		c.log.Warn().Str("key", KeyString(k)).Msg("delete persisted entry")
		c.opt.Metrics.PersistFailure("delete")
	}
}

// expireLocked runs the removal path for an entry found expired in tier.
func (c *cache[K, V]) expireLocked(e Entry[K, V], tier Tier) {
	c.removeLocked(e.key)
	if tier == TierMemory {
		c.opt.Metrics.Evict(EvictTTL)
		if cb := c.opt.OnEvict; cb != nil {
			cb(e.key, e.value, EvictTTL)
		}
	}
}

func (c *cache[K, V]) now() time.Time {
	if c.opt.Clock != nil {
		return c.opt.Clock.Now()
	}
	return time.Now()
}
