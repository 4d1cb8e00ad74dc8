package disk

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	// DefaultFolder groups every record written by this library.
	DefaultFolder = "tiercache"
	// DefaultExtension tags record files.
	DefaultExtension = ".cache"
)

// Config locates the records of a Store. Zero values are safe; defaults
// are applied by New:
//   - Root == ""      => os.UserCacheDir()
//   - Folder == ""    => DefaultFolder
//   - Extension == "" => DefaultExtension
//   - Fs == nil       => the OS filesystem
//   - Logger == nil   => zerolog.Nop()
//
// Stores built from equal configs share their records.
type Config struct {
	// Root is the top-level caches directory. PurgeAll empties it.
	Root string
	// Folder is the subdirectory of Root managed by a Store.
	Folder string
	// Extension is appended to every record name. A missing leading dot is added.
	Extension string

	Fs     afero.Fs
	Logger *zerolog.Logger
}

func (c Config) withDefaults() (Config, error) {
	if c.Root == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return c, fmt.Errorf("disk: resolve user cache dir: %w", err)
		}
		c.Root = dir
	}
	if c.Folder == "" {
		c.Folder = DefaultFolder
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return c, nil
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return c.Logger.With().Str("component", "tiercache.disk").Logger()
}
