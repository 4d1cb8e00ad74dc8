package cache

// node is an intrusive doubly linked list element owned by the store.
// It holds the resident Entry alongside list links.
type node[K comparable, V any] struct {
	entry Entry[K, V]

	// Intrusive list links: head is the newest, tail is the eviction candidate.
	prev *node[K, V]
	next *node[K, V]

	// seq is the store's insertion counter at the last put for this key.
	// Serialization orders entries by it so replay keeps FIFO order.
	seq uint64
}

// Key returns the node key (part of policy.Node interface).
func (n *node[K, V]) Key() K { return n.entry.key }
