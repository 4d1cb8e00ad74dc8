package disk

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/tiercache/cache"
)

const testRoot = "/caches"

func newTestStore[K comparable, V any](t *testing.T, fs afero.Fs) *Store[K, V] {
	t.Helper()
	s, err := New[K, V](Config{Root: testRoot, Fs: fs})
	require.NoError(t, err)
	return s
}

func entry[V any](k string, v V) cache.Entry[string, V] {
	return cache.NewEntry(k, v, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestStore_Defaults(t *testing.T) {
	s, err := New[string, int](Config{Root: testRoot, Extension: "json", Fs: afero.NewMemMapFs()})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(testRoot, DefaultFolder), s.Dir())
	assert.Equal(t, filepath.Join(testRoot, DefaultFolder, "Greeting.json"), s.Path("Greeting"))
}

func TestStore_SaveRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore[string, []string](t, fs)

	e := entry("Greeting", []string{"Hello", "World"})
	require.NoError(t, s.Save("Greeting", []cache.Entry[string, []string]{e}))

	got, ok := s.Read("Greeting")
	require.True(t, ok)
	assert.Equal(t, e.Value(), got.Value())
	assert.True(t, e.ExpiresAt().Equal(got.ExpiresAt()))

	data, err := afero.ReadFile(fs, s.Path("Greeting"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"key":"Greeting","value":["Hello","World"],"expires_at":"2030-01-01T00:00:00Z"}]`,
		string(data))

	exists, _ := afero.Exists(fs, s.Path("Greeting")+".tmp")
	assert.False(t, exists, "temporary file must be renamed away")
}

func TestStore_ReadPicksOwnKeyFromSnapshot(t *testing.T) {
	s := newTestStore[string, int](t, afero.NewMemMapFs())

	snap := []cache.Entry[string, int]{entry("a", 1), entry("b", 2)}
	require.NoError(t, s.Save("b", snap))

	got, ok := s.Read("b")
	require.True(t, ok)
	assert.Equal(t, 2, got.Value())

	// The record file is named after "b"; "a" has no file of its own.
	_, ok = s.Read("a")
	assert.False(t, ok)
}

func TestStore_ReadMissingAndCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore[string, int](t, fs)

	_, ok := s.Read("missing")
	assert.False(t, ok)

	require.NoError(t, fs.MkdirAll(s.Dir(), 0o750))
	require.NoError(t, afero.WriteFile(fs, s.Path("broken"), []byte("{not json"), 0o600))
	_, ok = s.Read("broken")
	assert.False(t, ok, "corrupt record must read as a miss")

	// A record whose entries do not carry the key is also a miss.
	require.NoError(t, s.Save("other", []cache.Entry[string, int]{entry("elsewhere", 1)}))
	_, ok = s.Read("other")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore[string, int](t, afero.NewMemMapFs())
	require.NoError(t, s.Save("k", []cache.Entry[string, int]{entry("k", 1)}))

	assert.True(t, s.Delete("k"))
	_, ok := s.Read("k")
	assert.False(t, ok)

	assert.True(t, s.Delete("k"), "deleting an absent record succeeds")
}

func TestStore_DeleteAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore[string, int](t, fs)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(k, []cache.Entry[string, int]{entry(k, 1)}))
	}

	assert.True(t, s.DeleteAll())
	exists, err := afero.DirExists(fs, s.Dir())
	require.NoError(t, err)
	assert.False(t, exists, "store directory must be removed")

	assert.True(t, s.DeleteAll(), "DeleteAll on a missing directory succeeds")
}

func TestStore_KeySanitization(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore[string, int](t, fs)

	k := `a/b\c:d`
	require.NoError(t, s.Save(k, []cache.Entry[string, int]{entry(k, 1)}))
	assert.Equal(t, filepath.Join(s.Dir(), "a%2Fb%5Cc%3Ad"+DefaultExtension), s.Path(k))

	got, ok := s.Read(k)
	require.True(t, ok)
	assert.Equal(t, 1, got.Value())

	items, err := afero.ReadDir(fs, s.Dir())
	require.NoError(t, err)
	assert.Len(t, items, 1, "key must not create subdirectories")
}

func TestStore_DistinctKeysDistinctRecords(t *testing.T) {
	s := newTestStore[string, int](t, afero.NewMemMapFs())

	keys := []string{"a/b", "a_b", "a%2Fb", "a b", "a+b"}
	for i, k := range keys {
		require.NoError(t, s.Save(k, []cache.Entry[string, int]{entry(k, i)}))
	}
	paths := make(map[string]string)
	for _, k := range keys {
		p := s.Path(k)
		require.NotContains(t, paths, p, "%q and %q share a record", k, paths[p])
		paths[p] = k
	}

	assert.True(t, s.Delete("a_b"))
	got, ok := s.Read("a/b")
	require.True(t, ok, "deleting a_b must not touch a/b")
	assert.Equal(t, 0, got.Value())
}

func TestStore_NonStringKeys(t *testing.T) {
	s, err := New[[2]string, int](Config{Root: testRoot, Fs: afero.NewMemMapFs()})
	require.NoError(t, err)

	a, b := [2]string{"a", " b"}, [2]string{"a ", "b"}
	assert.NotEqual(t, s.Path(a), s.Path(b))

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(a, []cache.Entry[[2]string, int]{cache.NewEntry(a, 1, exp)}))
	require.NoError(t, s.Save(b, []cache.Entry[[2]string, int]{cache.NewEntry(b, 2, exp)}))

	assert.True(t, s.Delete(b))
	got, ok := s.Read(a)
	require.True(t, ok)
	assert.Equal(t, 1, got.Value())
}

func TestStore_SizeEstimate(t *testing.T) {
	s := newTestStore[string, string](t, afero.NewMemMapFs())

	n, ok := s.SizeEstimate()
	require.True(t, ok)
	assert.Zero(t, n)
	assert.Equal(t, "0 B", s.HumanSize())

	require.NoError(t, s.Save("k", []cache.Entry[string, string]{entry("k", "value")}))
	n, ok = s.SizeEstimate()
	require.True(t, ok)
	assert.Positive(t, n)
	assert.NotEqual(t, "unknown", s.HumanSize())
}

func TestPurgeAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore[string, int](t, fs)
	require.NoError(t, s.Save("k", []cache.Entry[string, int]{entry("k", 1)}))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, "foreign.db"), []byte("x"), 0o600))

	assert.True(t, PurgeAll(Config{Root: testRoot, Fs: fs}))

	items, err := afero.ReadDir(fs, testRoot)
	require.NoError(t, err)
	assert.Empty(t, items, "every item under the root must be removed")

	assert.False(t, PurgeAll(Config{Root: "/nowhere", Fs: fs}), "missing root cannot be listed")
}

func TestStore_BackingCache(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore[string, []string](t, fs)
	opt := cache.Options[string, []string]{Backend: s, Capacity: 1}

	first := cache.New(opt)
	first.Insert("Greeting", []string{"Hello", "World"})
	first.Insert("Other", []string{"x"}) // evicts Greeting from memory only

	_, ok := first.Entry("Greeting")
	assert.False(t, ok)
	v, ok := first.Value("Greeting")
	require.True(t, ok, "capacity eviction must leave the record on disk")
	assert.Equal(t, []string{"Hello", "World"}, v)

	second := cache.New(opt)
	v, ok = second.Value("Other")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, v)

	second.Remove("Other")
	exists, _ := afero.Exists(fs, s.Path("Other"))
	assert.False(t, exists)

	assert.True(t, second.RemoveAll())
	_, ok = first.Value("Greeting")
	assert.True(t, ok, "other instances keep their memory tier")
	_, ok = s.Read("Greeting")
	assert.False(t, ok)
}
