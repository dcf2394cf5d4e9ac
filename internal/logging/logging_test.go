package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "chatty"
	_, _, err := New(cfg)
	assert.Error(t, err)
}

func TestNewRejectsBadFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "xml"
	_, _, err := New(cfg)
	assert.Error(t, err)
}

func TestNewStdout(t *testing.T) {
	logger, closer, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bullscows.log")
	cfg := DefaultConfig()
	cfg.File = path
	cfg.Level = "debug"

	logger, closer, err := New(cfg)
	require.NoError(t, err)

	logger.Debug("room created", slog.String("room_id", "room-1"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "room created", entry["msg"])
	assert.Equal(t, "room-1", entry["room_id"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestHandlerFormats(t *testing.T) {
	var buf bytes.Buffer

	h, err := newHandler(&buf, "text", slog.LevelInfo)
	require.NoError(t, err)
	slog.New(h).Info("hello", slog.String("component", "test"))
	assert.True(t, strings.Contains(buf.String(), "component=test"))

	buf.Reset()
	h, err = newHandler(&buf, "json", slog.LevelWarn)
	require.NoError(t, err)
	logger := slog.New(h)
	logger.Info("filtered")
	assert.Empty(t, buf.String())
	logger.Warn("kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}
