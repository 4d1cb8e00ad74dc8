package disk

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// PurgeAll deletes everything directly under cfg.Root, not only this
// library's folder. It is best effort: it keeps going past failures and
// reports whether every item was removed.
//
// With an empty Root this is the user's whole cache directory.
func PurgeAll(cfg Config) bool {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return false
	}
	log := cfg.logger()

	items, err := afero.ReadDir(cfg.Fs, cfg.Root)
	if err != nil {
		log.Warn().Err(err).Str("root", cfg.Root).Msg("list caches directory")
		return false
	}

	ok := true
	for _, fi := range items {
		path := filepath.Join(cfg.Root, fi.Name())
		if err := cfg.Fs.RemoveAll(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("purge item")
			ok = false
		}
	}
	log.Info().Str("root", cfg.Root).Int("items", len(items)).Bool("ok", ok).Msg("purged caches directory")
	return ok
}
