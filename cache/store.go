package cache

import (
	"github.com/IvanBrykalov/tiercache/policy"
)

// eviction describes an entry the store dropped on its own during put.
type eviction[K comparable, V any] struct {
	entry  Entry[K, V]
	reason EvictReason
}

// store is the memory tier: a map for lookups and an intrusive list
// (head=newest, tail=next to evict) ordered by the active policy.
// It is not synchronized; the cache lock guards it.
type store[K comparable, V any] struct {
	m    map[K]*node[K, V]
	head *node[K, V]
	tail *node[K, V]
	len  int
	cap  int // <= 0 means unbounded
	seq  uint64

	factory policy.Policy[K]
	pol     policy.Instance[K]
}

func newStore[K comparable, V any](capacity int, pol policy.Policy[K]) *store[K, V] {
	s := &store[K, V]{
		m:       make(map[K]*node[K, V]),
		cap:     capacity,
		factory: pol,
	}
	s.pol = pol.New(storeHooks[K, V]{s: s})
	return s
}

// put inserts or replaces the entry for e.Key() and returns whatever had to
// be evicted to honour the policy and the capacity.
func (s *store[K, V]) put(e Entry[K, V]) []eviction[K, V] {
	s.seq++
	if n, ok := s.m[e.key]; ok {
		n.entry = e
		n.seq = s.seq
		s.pol.OnUpdate(n)
		return s.enforceLimit(nil)
	}

	n := &node[K, V]{entry: e, seq: s.seq}
	s.m[e.key] = n

	var evicted []eviction[K, V]
	if ev := s.pol.OnAdd(n); ev != nil {
		evicted = append(evicted, s.evict(ev.(*node[K, V]), EvictPolicy))
	}
	return s.enforceLimit(evicted)
}

// get returns the entry and lets the policy observe the access.
// It performs no expiration check.
func (s *store[K, V]) get(k K) (Entry[K, V], bool) {
	n, ok := s.m[k]
	if !ok {
		return Entry[K, V]{}, false
	}
	s.pol.OnGet(n)
	return n.entry, true
}

// lookup is get without notifying the policy.
func (s *store[K, V]) lookup(k K) (*node[K, V], bool) {
	n, ok := s.m[k]
	return n, ok
}

// remove deletes k if present. Absent keys are a no-op.
func (s *store[K, V]) remove(k K) (Entry[K, V], bool) {
	n, ok := s.m[k]
	if !ok {
		return Entry[K, V]{}, false
	}
	s.pol.OnRemove(n)
	s.unlink(n)
	delete(s.m, k)
	return n.entry, true
}

// reset drops every entry and starts a fresh policy instance.
func (s *store[K, V]) reset() {
	s.m = make(map[K]*node[K, V])
	s.head, s.tail = nil, nil
	s.len = 0
	s.pol = s.factory.New(storeHooks[K, V]{s: s})
}

// -------------------- internals --------------------

func (s *store[K, V]) evict(n *node[K, V], reason EvictReason) eviction[K, V] {
	s.pol.OnRemove(n)
	s.unlink(n)
	delete(s.m, n.entry.key)
	return eviction[K, V]{entry: n.entry, reason: reason}
}

// enforceLimit evicts from the tail until the entry count fits.
func (s *store[K, V]) enforceLimit(evicted []eviction[K, V]) []eviction[K, V] {
	if s.cap <= 0 {
		return evicted
	}
	for s.len > s.cap && s.tail != nil {
		evicted = append(evicted, s.evict(s.tail, EvictCapacity))
	}
	return evicted
}

// pushFront links n as the newest node in O(1).
func (s *store[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.len++
}

// moveToFront relinks n as the newest node in O(1).
func (s *store[K, V]) moveToFront(n *node[K, V]) {
	if n == s.head {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

// unlink detaches n from the list and updates the count in O(1).
func (s *store[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
	s.len--
}

// -------------------- policy hooks --------------------

// storeHooks adapts the store's list operations to policy.Hooks.
type storeHooks[K comparable, V any] struct{ s *store[K, V] }

func (h storeHooks[K, V]) MoveToFront(x policy.Node[K]) { h.s.moveToFront(x.(*node[K, V])) }
func (h storeHooks[K, V]) PushFront(x policy.Node[K])   { h.s.pushFront(x.(*node[K, V])) }

// Remove only detaches; map bookkeeping is performed by the store itself.
func (h storeHooks[K, V]) Remove(x policy.Node[K]) { h.s.unlink(x.(*node[K, V])) }

func (h storeHooks[K, V]) Back() policy.Node[K] {
	if h.s.tail == nil {
		return nil
	}
	return h.s.tail
}

func (h storeHooks[K, V]) Len() int { return h.s.len }
