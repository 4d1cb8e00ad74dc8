// Package disk implements cache.Backend on a filesystem: one directory per
// configuration and one JSON record file per cache key.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"net/url"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/IvanBrykalov/tiercache/cache"
)

// Store keeps each record at <Root>/<Folder>/<key><Extension> as a JSON
// array of {key, value, expires_at} objects.
type Store[K comparable, V any] struct {
	fs  afero.Fs
	dir string
	ext string
	log zerolog.Logger
}

// New builds a Store. The directory is created lazily on the first Save.
func New[K comparable, V any](cfg Config) (*Store[K, V], error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Store[K, V]{
		fs:  cfg.Fs,
		dir: filepath.Join(cfg.Root, cfg.Folder),
		ext: cfg.Extension,
		log: cfg.logger(),
	}, nil
}

// Dir returns the directory holding this store's records.
func (s *Store[K, V]) Dir() string { return s.dir }

// Path returns the record file for key.
func (s *Store[K, V]) Path(key K) string {
	return filepath.Join(s.dir, recordName(cache.KeyString(key))+s.ext)
}

// Save overwrites the record for key with snapshot. The write goes to a
// temporary file first and is renamed into place.
func (s *Store[K, V]) Save(key K, snapshot []cache.Entry[K, V]) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("disk: encode record: %w", err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("disk: create directory: %w", err)
	}

	path := s.Path(key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("disk: write record: %w", err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("disk: rename record: %w", err)
	}
	s.log.Debug().Str("path", path).Int("entries", len(snapshot)).Msg("saved record")
	return nil
}

// Read returns the entry for key from its record. Missing and corrupt
// records read as absent.
func (s *Store[K, V]) Read(key K) (cache.Entry[K, V], bool) {
	var zero cache.Entry[K, V]
	path := s.Path(key)

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", path).Msg("read record")
		}
		return zero, false
	}

	var entries []cache.Entry[K, V]
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("corrupt record, treating as miss")
		return zero, false
	}
	for _, e := range entries {
		if e.Key() == key {
			return e, true
		}
	}
	return zero, false
}

// Delete removes the record for key. It reports whether the record is gone.
func (s *Store[K, V]) Delete(key K) bool {
	path := s.Path(key)
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", path).Msg("delete record")
	}
	return !s.exists(path)
}

// DeleteAll removes every record and the store directory.
func (s *Store[K, V]) DeleteAll() bool {
	if err := s.fs.RemoveAll(s.dir); err != nil {
		s.log.Warn().Err(err).Str("dir", s.dir).Msg("delete all records")
		return false
	}
	return !s.exists(s.dir)
}

// SizeEstimate totals the size of the record files. ok is false when the
// directory cannot be walked (a missing directory counts as zero).
func (s *Store[K, V]) SizeEstimate() (int64, bool) {
	if !s.exists(s.dir) {
		return 0, true
	}
	var total int64
	err := afero.Walk(s.fs, s.dir, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			total += fi.Size()
		}
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("dir", s.dir).Msg("size estimate")
		return 0, false
	}
	return total, true
}

// HumanSize renders SizeEstimate for people, e.g. "4.1 kB".
func (s *Store[K, V]) HumanSize() string {
	n, ok := s.SizeEstimate()
	if !ok {
		return "unknown"
	}
	return humanize.Bytes(uint64(n))
}

// exists is conservative: a path that cannot be stat'ed counts as present.
func (s *Store[K, V]) exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return ok || err != nil
}

// recordName makes a key string safe to use as a single path element.
// The escaping is reversible, so distinct keys never share a record.
var recordName = url.QueryEscape

var (
	_ cache.Backend[string, string] = (*Store[string, string])(nil)
	_ cache.SizeEstimator           = (*Store[string, string])(nil)
)
