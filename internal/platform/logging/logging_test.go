package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod", "")

	log.Debug("hidden")
	log.Info("offer generated", "offer_id", "of-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "offer generated", line["msg"])
	assert.Equal(t, "of-1", line["offer_id"])
	assert.Equal(t, "eduloan", line["service"])
	assert.Equal(t, "prod", line["env"])
}

func TestNew_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev", "warn")

	log.Info("quiet")
	assert.Empty(t, buf.String())

	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, parseLevel("ERROR", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelDebug, parseLevel("verbose", slog.LevelDebug))
}
