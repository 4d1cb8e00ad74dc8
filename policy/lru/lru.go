// Package lru implements the LRU eviction policy.
package lru

import "github.com/IvanBrykalov/tiercache/policy"

// lru is a classic "move-to-front" Least-Recently-Used policy. Unlike FIFO,
// a read protects an entry from the next capacity eviction.
type lru[K comparable] struct {
	h policy.Hooks[K]
}

type lruPolicy[K comparable] struct{}

// New returns a Policy factory that constructs LRU instances.
func New[K comparable]() policy.Policy[K] { return lruPolicy[K]{} }

// New implements policy.Policy.
func (lruPolicy[K]) New(h policy.Hooks[K]) policy.Instance[K] {
	return &lru[K]{h: h}
}

// OnAdd places the new entry at the front. The store enforces capacity.
func (p *lru[K]) OnAdd(n policy.Node[K]) (evict policy.Node[K]) {
	p.h.PushFront(n)
	return nil
}

// OnGet promotes the entry.
func (p *lru[K]) OnGet(n policy.Node[K]) { p.h.MoveToFront(n) }

// OnUpdate promotes the entry (re-insertion counts as use).
func (p *lru[K]) OnUpdate(n policy.Node[K]) { p.h.MoveToFront(n) }

// OnRemove is a no-op: pure LRU keeps no state of its own.
func (p *lru[K]) OnRemove(policy.Node[K]) {}
