// Package policy defines the contract between the memory store and its
// eviction policies.
package policy

// Node is the minimal contract a resident entry must satisfy for a policy.
// Policies only need the key; values stay owned by the store.
type Node[K comparable] interface {
	Key() K
}

// Hooks expose O(1) list operations that a policy can use to manipulate
// the store's intrusive newest↔oldest list. Implementations are provided by
// the store.
//
// Concurrency: all hook calls happen under the cache lock.
// Important: hooks manage only the list; the store owns the key->node map.
type Hooks[K comparable] interface {
	// MoveToFront marks the node as the newest.
	MoveToFront(Node[K])
	// PushFront inserts the node as the newest (used on admission).
	PushFront(Node[K])
	// Remove detaches the node from the list (map bookkeeping is done by the store).
	Remove(Node[K])
	// Back returns the current oldest node (or nil if empty).
	Back() Node[K]
	// Len returns the number of resident nodes.
	Len() int
}

// Instance is an eviction policy bound to one store's hooks.
// All methods are invoked under the cache lock.
//
// Semantics:
//   - OnAdd may return an eviction candidate. The store evicts that node
//     and subsequently calls OnRemove for it.
//   - OnGet is called on reads, OnUpdate on re-insertion of a resident key.
//   - OnRemove is a notification to update policy-internal state.
//     The store performs the actual deletion.
//
// When the store is over capacity it evicts Back(), so a policy expresses
// its ordering through the list positions it maintains.
type Instance[K comparable] interface {
	OnAdd(Node[K]) (evict Node[K])
	OnGet(Node[K])
	OnUpdate(Node[K])
	OnRemove(Node[K])
}

// Policy is a factory that creates store-local policy instances.
type Policy[K comparable] interface {
	New(Hooks[K]) Instance[K]
}
