package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsBadLevel(t *testing.T) {
	_, err := Init(Config{Level: "loud", Output: "stderr"})
	require.Error(t, err)
}

func TestInitRejectsBadOutput(t *testing.T) {
	_, err := Init(Config{Level: "info", Output: "printer"})
	require.Error(t, err)
}

func TestInitFileOutput(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	path := filepath.Join(t.TempDir(), "logs", "dirview.log")
	closer, err := Init(Config{Level: "info", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	l := Component("session")
	l.Info().Str("dir", "/photos").Msg("Loaded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "/photos", entry["dir"])
	assert.Equal(t, "Loaded", entry["message"])
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Warn().Int("index", 3).Msg("x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.EqualValues(t, 3, entry["index"])
	assert.Contains(t, entry, "time")
}
