package cache

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit(tier Tier)
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
	// PersistFailure is reported when a backend save or delete fails.
	// op is "save", "delete" or "delete_all".
	PersistFailure(op string)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit(Tier)              {}
func (NoopMetrics) Miss()                 {}
func (NoopMetrics) Evict(EvictReason)     {}
func (NoopMetrics) Size(int)              {}
func (NoopMetrics) PersistFailure(string) {}

var _ Metrics = NoopMetrics{}
