package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", "json", &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("component", "fiber").Int("particles", 3).Msg("analyzed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analyzed", entry["message"])
	assert.Equal(t, "fiber", entry["component"])
	assert.Equal(t, 3.0, entry["particles"])
	assert.Contains(t, entry, "time")
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", "console", &buf)
	require.NoError(t, err)
	log.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestBadSettings(t *testing.T) {
	_, err := New("loud", "json", nil)
	assert.Error(t, err)
	_, err = New("info", "xml", nil)
	assert.Error(t, err)
}
