// Package logging builds the zerolog loggers used by the tiercache binaries.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// DefaultConfig returns console output at info level.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a zerolog logger writing to w.
func New(w io.Writer, cfg Config) zerolog.Logger {
	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: cfg.TimeFormat}
	}
	return zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// Parse builds a Config from flag values.
func Parse(level, format string) (Config, error) {
	cfg := DefaultConfig()
	if level != "" {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return cfg, fmt.Errorf("log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}
	switch format {
	case "":
	case "json", "console":
		cfg.Format = format
	default:
		return cfg, fmt.Errorf("log format %q: want json or console", format)
	}
	return cfg, nil
}
