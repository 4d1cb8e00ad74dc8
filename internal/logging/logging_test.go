package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse("debug", "json")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	cfg, err = Parse("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = Parse("loud", "")
	assert.Error(t, err)

	_, err = Parse("info", "xml")
	assert.Error(t, err)
}

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: zerolog.WarnLevel, Format: "json"})

	log.Info().Msg("hidden")
	log.Warn().Str("key", "k").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"key":"k"`)
}
