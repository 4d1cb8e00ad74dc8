package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBrykalov/tiercache/policy"
)

// DefaultEntryLifetime is used when Options.EntryLifetime is not positive.
const DefaultEntryLifetime = 30 * 24 * time.Hour

// EvictReason explains why an entry left the memory tier on its own.
type EvictReason int

const (
	// EvictPolicy: proposed by the active policy on admission.
	EvictPolicy EvictReason = iota
	// EvictTTL: expiration discovered lazily on access.
	EvictTTL
	// EvictCapacity: removed to satisfy the entry count limit.
	EvictCapacity
)

func (r EvictReason) String() string {
	switch r {
	case EvictTTL:
		return "ttl"
	case EvictCapacity:
		return "capacity"
	default:
		return "policy"
	}
}

// Tier identifies which storage tier satisfied a read.
type Tier int

const (
	TierMemory Tier = iota
	TierDisk
)

func (t Tier) String() string {
	if t == TierDisk {
		return "disk"
	}
	return "memory"
}

// Clock provides the current time; useful for deterministic tests.
type Clock interface{ Now() time.Time }

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Options configures the cache. Zero values are safe; defaults are applied
// in New():
//   - EntryLifetime <= 0 => DefaultEntryLifetime
//   - Capacity <= 0      => unbounded
//   - nil Policy         => FIFO
//   - nil Clock          => time.Now
//   - nil Backend        => memory only
//   - nil Metrics        => NoopMetrics
//   - nil Logger         => zerolog.Nop()
type Options[K comparable, V any] struct {
	// EntryLifetime is added to the insertion time to get an entry's expiry.
	EntryLifetime time.Duration

	// Capacity is the maximum number of entries held in memory.
	Capacity int

	// Policy picks which entry to evict when Capacity is exceeded.
	Policy policy.Policy[K]

	// Clock overrides the time source (tests).
	Clock Clock

	// Backend is the optional persistent tier.
	Backend Backend[K, V]

	// PersistSnapshot makes every Insert save the whole live cache under the
	// inserted key's record instead of only the inserted entry.
	PersistSnapshot bool

	// Loader fetches a value on a miss in both tiers. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called under the cache lock for capacity, policy and TTL
	// evictions; keep it lightweight and do not call back into the cache.
	OnEvict func(k K, v V, reason EvictReason)

	Metrics Metrics
	Logger  *zerolog.Logger
}
