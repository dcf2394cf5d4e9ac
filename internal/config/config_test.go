package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, 24*time.Hour, cfg.Storage.Redis.RoomTTL)
	assert.Equal(t, "bullscows", cfg.Storage.Mongo.Database)
	assert.False(t, cfg.Broadcast.Relay)
	assert.Equal(t, "bullscows:events", cfg.Broadcast.RelayChannel)
	assert.Empty(t, cfg.Broadcast.GlobalEvents)
	assert.Equal(t, 3, cfg.Game.MaxUpdateRetries)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
storage:
  type: redis
  redis:
    url: redis://cache:6379/1
    room_ttl: 2h
broadcast:
  relay: true
  global_events:
    - gameOver
game:
  max_update_retries: 5
log:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.Storage.Redis.URL)
	assert.Equal(t, 2*time.Hour, cfg.Storage.Redis.RoomTTL)
	assert.Equal(t, 10, cfg.Storage.Redis.PoolSize)
	assert.True(t, cfg.Broadcast.Relay)
	assert.Equal(t, []string{"gameOver"}, cfg.Broadcast.GlobalEvents)
	assert.Equal(t, 5, cfg.Game.MaxUpdateRetries)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  type: memory
`)
	t.Setenv("PORT", "7070")
	t.Setenv("STORAGE_TYPE", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DATABASE", "games")
	t.Setenv("BROADCAST_RELAY", "true")
	t.Setenv("BROADCAST_GLOBAL_EVENTS", "gameOver, scoreUpdated,")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FILE", "/tmp/bullscows.log")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, StorageMongo, cfg.Storage.Type)
	assert.Equal(t, "mongodb://db:27017", cfg.Storage.Mongo.URI)
	assert.Equal(t, "games", cfg.Storage.Mongo.Database)
	assert.True(t, cfg.Broadcast.Relay)
	assert.Equal(t, []string{"gameOver", "scoreUpdated"}, cfg.Broadcast.GlobalEvents)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/bullscows.log", cfg.Log.File)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "http://collector:4318", cfg.Tracing.Endpoint)
}

func TestInvalidEnvValues(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		_, err := Load("")
		assert.ErrorContains(t, err, "PORT")
	})
	t.Run("relay", func(t *testing.T) {
		t.Setenv("BROADCAST_RELAY", "maybe")
		_, err := Load("")
		assert.ErrorContains(t, err, "BROADCAST_RELAY")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad storage", func(c *Config) { c.Storage.Type = "sqlite" }, "storage.type"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"no retries", func(c *Config) { c.Game.MaxUpdateRetries = 0 }, "max_update_retries"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad ratio", func(c *Config) { c.Tracing.SampleRatio = 2 }, "sample_ratio"},
		{"mongo without database", func(c *Config) {
			c.Storage.Type = StorageMongo
			c.Storage.Mongo.Database = ""
		}, "storage.mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
