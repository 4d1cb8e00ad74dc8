package cache

import (
	"strconv"
	"sync"
)

// flightNames hands out a distinct singleflight key per cache key while any
// caller is loading it. Distinct keys never share a name, even when they
// print the same.
type flightNames[K comparable] struct {
	mu    sync.Mutex
	seq   uint64
	names map[K]*flightName
}

type flightName struct {
	name string
	refs int
}

func (f *flightNames[K]) acquire(k K) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.names == nil {
		f.names = make(map[K]*flightName)
	}
	n, ok := f.names[k]
	if !ok {
		f.seq++
		n = &flightName{name: strconv.FormatUint(f.seq, 36)}
		f.names[k] = n
	}
	n.refs++
	return n.name
}

// release drops one reference; the name is forgotten with the last one.
func (f *flightNames[K]) release(k K) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.names[k]
	if !ok {
		return
	}
	if n.refs--; n.refs == 0 {
		delete(f.names, k)
	}
}
