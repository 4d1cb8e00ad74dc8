package cache

import "fmt"

// Backend is the persistent tier. The cache only talks to it through this
// interface, so any store (files, an in-memory double) can sit behind it.
//
// Contract:
//   - Save stores snapshot under a record named after key, overwriting
//     whatever was there.
//   - Read returns the entry for key from its record. A missing, unreadable
//     or corrupt record is reported as absent, never as an error.
//     Expiry is not checked; the cache does that.
//   - Delete succeeds when the record no longer exists, whether or not it
//     existed before.
//   - DeleteAll removes every record and the storage location itself.
type Backend[K comparable, V any] interface {
	Save(key K, snapshot []Entry[K, V]) error
	Read(key K) (Entry[K, V], bool)
	Delete(key K) bool
	DeleteAll() bool
}

// SizeEstimator is implemented by backends that can report their footprint.
type SizeEstimator interface {
	SizeEstimate() (bytes int64, ok bool)
}

// KeyString is the stable string form of a key used to name records.
// fmt.Stringer keys use String(); everything else uses the %#v verb, which
// quotes strings nested in arrays and structs.
func KeyString[K comparable](k K) string {
	switch v := any(k).(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%#v", k)
	}
}
