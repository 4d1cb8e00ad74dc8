package cache

import (
	"encoding/json"
	"strings"
	"testing"
)

// Fuzz Insert/Value/Remove and the JSON round-trip under arbitrary strings.
// Key and value lengths are capped to keep memory bounded.
func FuzzCache_InsertValueRemove(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12 // 4096
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		b := newMemBackend[string, string]()
		c := New[string, string](Options[string, string]{Capacity: 16, Backend: b})
		t.Cleanup(func() { _ = c.Close() })

		c.Insert(k, v)
		got, ok := c.Value(k)
		if !ok || got != v {
			t.Fatalf("after Insert/Value: want %q, got %q ok=%v", v, got, ok)
		}

		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		d, err := Decode(data, Options[string, string]{})
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got, ok := d.Value(k); !ok || got != v {
			t.Fatalf("after round-trip: want %q, got %q ok=%v", v, got, ok)
		}

		c.Remove(k)
		if _, ok := c.Value(k); ok {
			t.Fatalf("key must be absent after Remove")
		}
		if _, ok := b.Read(k); ok {
			t.Fatalf("record must be absent after Remove")
		}
		c.Remove(k)
		if c.Len() != 0 || len(c.Keys()) != 0 {
			t.Fatalf("cache must be empty, Len=%d", c.Len())
		}
	})
}
