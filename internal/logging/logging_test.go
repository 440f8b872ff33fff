package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", FormatJSON, &buf)
	require.NoError(t, err)

	apiLogger := Component(logger, "api")
	apiLogger.Info().Str("session", "ab12").Msg("session created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "ab12", entry["session"])
	assert.Equal(t, "session created", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", FormatJSON, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("INFO", FormatConsole, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNew_EmptyLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("", "", &buf)
	require.NoError(t, err)

	logger.Debug().Msg("quiet")
	assert.Zero(t, buf.Len())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", FormatJSON, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log format")
}
