package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

// PathEnv names the environment variable holding the config file path
const PathEnv = "BULLSCOWS_CONFIG"

// Config is the complete server configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Broadcast BroadcastConfig `koanf:"broadcast"`
	Game      GameConfig      `koanf:"game"`
	Log       LogConfig       `koanf:"log"`
	Tracing   TracingConfig   `koanf:"tracing"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

type StorageConfig struct {
	Type  string      `koanf:"type"`
	Redis RedisConfig `koanf:"redis"`
	Mongo MongoConfig `koanf:"mongo"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	RoomTTL      time.Duration `koanf:"room_ttl"`
	GuestTTL     time.Duration `koanf:"guest_ttl"`
}

type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
}

// BroadcastConfig controls event fan-out.
// Relay publishes every event on a Redis channel so other instances sharing
// the store deliver it to their own subscribers.
type BroadcastConfig struct {
	Relay           bool          `koanf:"relay"`
	RelayChannel    string        `koanf:"relay_channel"`
	GlobalEvents    []string      `koanf:"global_events"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

type GameConfig struct {
	MaxUpdateRetries int `koanf:"max_update_retries"`
}

type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	Environment string  `koanf:"environment"`
	Endpoint    string  `koanf:"endpoint"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// Addr returns the listen address for the HTTP server
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the optional YAML file at path, fills in defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	if err := applyEnvOverrides(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment is set
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// defaults always validate
		panic(err)
	}
	return cfg
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "server.host", "0.0.0.0")
	setDefault(k, "server.port", 8080)
	setDefault(k, "server.read_timeout", 15*time.Second)
	setDefault(k, "server.write_timeout", 15*time.Second)
	setDefault(k, "server.idle_timeout", 60*time.Second)
	setDefault(k, "server.shutdown_timeout", 10*time.Second)
	setDefault(k, "server.allowed_origins", []string{"*"})

	setDefault(k, "storage.type", StorageMemory)
	setDefault(k, "storage.redis.url", "redis://localhost:6379/0")
	setDefault(k, "storage.redis.pool_size", 10)
	setDefault(k, "storage.redis.min_idle_conns", 2)
	setDefault(k, "storage.redis.room_ttl", 24*time.Hour)
	setDefault(k, "storage.redis.guest_ttl", 7*24*time.Hour)
	setDefault(k, "storage.mongo.uri", "mongodb://localhost:27017")
	setDefault(k, "storage.mongo.database", "bullscows")
	setDefault(k, "storage.mongo.connect_timeout", 10*time.Second)
	setDefault(k, "storage.mongo.max_pool_size", 50)

	setDefault(k, "broadcast.relay", false)
	setDefault(k, "broadcast.relay_channel", "bullscows:events")
	setDefault(k, "broadcast.global_events", []string{})
	setDefault(k, "broadcast.cleanup_interval", time.Minute)

	setDefault(k, "game.max_update_retries", 3)

	setDefault(k, "log.level", "info")
	setDefault(k, "log.format", "json")
	setDefault(k, "log.file", "")
	setDefault(k, "log.max_size_mb", 100)
	setDefault(k, "log.max_backups", 3)
	setDefault(k, "log.max_age_days", 28)
	setDefault(k, "log.compress", false)

	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.service_name", "bullscows")
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.endpoint", "http://localhost:4318")
	setDefault(k, "tracing.sample_ratio", 1.0)
}

func applyEnvOverrides(k *koanf.Koanf) error {
	if host := getString("HOST", ""); host != "" {
		k.Set("server.host", host)
	}
	port, err := getInt("PORT", 0)
	if err != nil {
		return err
	}
	if port > 0 {
		k.Set("server.port", port)
	}

	if storageType := getString("STORAGE_TYPE", ""); storageType != "" {
		k.Set("storage.type", storageType)
	}
	if redisURL := getString("REDIS_URL", ""); redisURL != "" {
		k.Set("storage.redis.url", redisURL)
	}
	if mongoURI := getString("MONGODB_URI", ""); mongoURI != "" {
		k.Set("storage.mongo.uri", mongoURI)
	}
	if mongoDB := getString("MONGODB_DATABASE", ""); mongoDB != "" {
		k.Set("storage.mongo.database", mongoDB)
	}

	relay, ok, err := getBool("BROADCAST_RELAY")
	if err != nil {
		return err
	}
	if ok {
		k.Set("broadcast.relay", relay)
	}
	if events := getList("BROADCAST_GLOBAL_EVENTS"); events != nil {
		k.Set("broadcast.global_events", events)
	}

	retries, err := getInt("GAME_MAX_UPDATE_RETRIES", 0)
	if err != nil {
		return err
	}
	if retries > 0 {
		k.Set("game.max_update_retries", retries)
	}

	if level := getString("LOG_LEVEL", ""); level != "" {
		k.Set("log.level", level)
	}
	if format := getString("LOG_FORMAT", ""); format != "" {
		k.Set("log.format", format)
	}
	if logFile := getString("LOG_FILE", ""); logFile != "" {
		k.Set("log.file", logFile)
	}

	// Setting an exporter endpoint implies tracing is wanted
	if endpoint := getString("OTEL_EXPORTER_OTLP_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
		k.Set("tracing.enabled", true)
	}
	if service := getString("OTEL_SERVICE_NAME", ""); service != "" {
		k.Set("tracing.service_name", service)
	}

	return nil
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	switch c.Storage.Type {
	case StorageMemory, StorageRedis, StorageMongo:
	default:
		errs = append(errs, fmt.Errorf("storage.type must be one of memory, redis, mongo: got %q", c.Storage.Type))
	}
	if c.Storage.Type == StorageRedis && c.Storage.Redis.URL == "" {
		errs = append(errs, errors.New("storage.redis.url is required for redis storage"))
	}
	if c.Storage.Type == StorageMongo && (c.Storage.Mongo.URI == "" || c.Storage.Mongo.Database == "") {
		errs = append(errs, errors.New("storage.mongo.uri and storage.mongo.database are required for mongo storage"))
	}

	if c.Broadcast.Relay && c.Storage.Redis.URL == "" {
		errs = append(errs, errors.New("broadcast.relay requires storage.redis.url"))
	}

	if c.Game.MaxUpdateRetries < 1 {
		errs = append(errs, fmt.Errorf("game.max_update_retries must be at least 1: got %d", c.Game.MaxUpdateRetries))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format must be json or text: got %q", c.Log.Format))
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be within [0, 1]: got %v", c.Tracing.SampleRatio))
	}

	return errors.Join(errs...)
}
