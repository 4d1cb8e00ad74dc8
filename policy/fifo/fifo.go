// Package fifo implements insertion-order (first in, first out) eviction.
package fifo

import "github.com/IvanBrykalov/tiercache/policy"

// fifo keeps nodes in insertion order. Reads never reorder the list, so the
// oldest insertion is always at Back() and is the one the store evicts.
type fifo[K comparable] struct {
	h policy.Hooks[K]
}

type fifoPolicy[K comparable] struct{}

// New returns a Policy factory for FIFO instances. It is the cache default.
func New[K comparable]() policy.Policy[K] { return fifoPolicy[K]{} }

// New implements policy.Policy.
func (fifoPolicy[K]) New(h policy.Hooks[K]) policy.Instance[K] {
	return &fifo[K]{h: h}
}

// OnAdd places the new entry at the newest position.
func (p *fifo[K]) OnAdd(n policy.Node[K]) (evict policy.Node[K]) {
	p.h.PushFront(n)
	return nil
}

// OnGet does nothing: access does not refresh insertion order.
func (p *fifo[K]) OnGet(policy.Node[K]) {}

// OnUpdate treats re-insertion as a fresh insertion.
func (p *fifo[K]) OnUpdate(n policy.Node[K]) { p.h.MoveToFront(n) }

func (p *fifo[K]) OnRemove(policy.Node[K]) {}
