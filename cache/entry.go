package cache

import (
	"encoding/json"
	"time"
)

// Entry is an immutable (key, value, expiration) triple.
// Re-inserting a key replaces its Entry; an Entry itself never changes.
type Entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// NewEntry builds an Entry that stays live until expiresAt.
func NewEntry[K comparable, V any](k K, v V, expiresAt time.Time) Entry[K, V] {
	return Entry[K, V]{key: k, value: v, expiresAt: expiresAt}
}

// Key returns the entry key.
func (e Entry[K, V]) Key() K { return e.key }

// Value returns the stored value.
func (e Entry[K, V]) Value() V { return e.value }

// ExpiresAt returns the absolute expiration instant.
func (e Entry[K, V]) ExpiresAt() time.Time { return e.expiresAt }

// Live reports whether the entry is still valid at now (now < expiresAt).
func (e Entry[K, V]) Live(now time.Time) bool { return now.Before(e.expiresAt) }

// entryJSON is the on-disk and serialized shape of an Entry.
type entryJSON[K comparable, V any] struct {
	Key       K         `json:"key"`
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MarshalJSON implements json.Marshaler.
func (e Entry[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON[K, V]{Key: e.key, Value: e.value, ExpiresAt: e.expiresAt})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry[K, V]) UnmarshalJSON(data []byte) error {
	var aux entryJSON[K, V]
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Entry[K, V]{key: aux.Key, value: aux.Value, expiresAt: aux.ExpiresAt}
	return nil
}
