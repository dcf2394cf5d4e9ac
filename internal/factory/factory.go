package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/config"
	"github.com/mcoot/bullscows/internal/dependencies/clock"
	"github.com/mcoot/bullscows/internal/dependencies/random"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/services/guest"
	"github.com/mcoot/bullscows/internal/services/match"
	"github.com/mcoot/bullscows/internal/services/room"
	"github.com/mcoot/bullscows/internal/services/scoring"
	"github.com/mcoot/bullscows/internal/storage"
	"github.com/mcoot/bullscows/internal/storage/memory"
	mongostorage "github.com/mcoot/bullscows/internal/storage/mongo"
	redisstorage "github.com/mcoot/bullscows/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeMongo  = config.StorageMongo
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Locks   *storage.RoomLocks

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Observability
	Metrics *metrics.Metrics
	Tracer  trace.Tracer

	// Broadcast
	HubManager *broadcast.HubManager
	Relay      *broadcast.Relay
	Emitter    *broadcast.Emitter

	// Services
	ScoringService  *scoring.Service
	RoomController  *room.Controller
	MatchController *match.Controller
	GuestService    *guest.Service

	logger          *slog.Logger
	cleanupInterval time.Duration
	closers         []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Tracer opens spans for controller operations (optional)
	// If nil, a no-op tracer is used
	Tracer trace.Tracer
	// StorageType selects the storage backend ("memory", "redis" or "mongo")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required for redis storage or the relay)
	RedisConfig *redisstorage.Config
	// MongoConfig holds MongoDB connection settings (required if StorageType is "mongo")
	MongoConfig *mongostorage.Config
	// Relay fans events out through Redis pub/sub to other instances
	Relay        bool
	RelayChannel string
	// GlobalEvents lists event types broadcast to every subscriber instead of the room
	GlobalEvents []string
	// RoomConfig holds room controller settings
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
	// CleanupInterval is how often hubs without subscribers are dropped (0 disables)
	CleanupInterval time.Duration
}

// ConfigFrom maps the loaded server configuration onto factory settings
func ConfigFrom(cfg *config.Config, logger *slog.Logger, tracer trace.Tracer) Config {
	redisCfg := redisstorage.Config{
		URL:          cfg.Storage.Redis.URL,
		PoolSize:     cfg.Storage.Redis.PoolSize,
		MinIdleConns: cfg.Storage.Redis.MinIdleConns,
		RoomTTL:      cfg.Storage.Redis.RoomTTL,
		GuestTTL:     cfg.Storage.Redis.GuestTTL,
	}
	mongoCfg := mongostorage.Config{
		URI:               cfg.Storage.Mongo.URI,
		Database:          cfg.Storage.Mongo.Database,
		ConnectionTimeout: cfg.Storage.Mongo.ConnectTimeout,
		MaxPoolSize:       cfg.Storage.Mongo.MaxPoolSize,
	}

	return Config{
		Logger:          logger,
		Tracer:          tracer,
		StorageType:     cfg.Storage.Type,
		RedisConfig:     &redisCfg,
		MongoConfig:     &mongoCfg,
		Relay:           cfg.Broadcast.Relay,
		RelayChannel:    cfg.Broadcast.RelayChannel,
		GlobalEvents:    cfg.Broadcast.GlobalEvents,
		RoomConfig:      room.Config{MaxUpdateRetries: cfg.Game.MaxUpdateRetries},
		CleanupInterval: cfg.Broadcast.CleanupInterval,
	}
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("bullscows")
	}

	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	// Create storage based on type
	var store storage.Storage
	var redisClient *goredis.Client
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		redisClient = redisStore.Client()
	case StorageTypeMongo:
		if cfg.MongoConfig == nil {
			return nil, errors.New("MongoConfig required when StorageType is mongo")
		}
		mongoStore, err := mongostorage.New(ctx, *cfg.MongoConfig)
		if err != nil {
			return nil, err
		}
		store = mongoStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'mongo'")
	}
	closers = append(closers, store.Close)

	// The relay shares the store's Redis client, or dials its own
	if cfg.Relay && redisClient == nil {
		if cfg.RedisConfig == nil {
			closeAll()
			return nil, errors.New("RedisConfig required when Relay is enabled")
		}
		opts, err := goredis.ParseURL(cfg.RedisConfig.URL)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("invalid redis url for relay: %w", err)
		}
		redisClient = goredis.NewClient(opts)
		closers = append(closers, redisClient.Close)
	}

	roomCfg := cfg.RoomConfig
	if roomCfg.MaxUpdateRetries == 0 {
		roomCfg = room.DefaultConfig()
	}

	app := newWithDependencies(store, clock.New(), random.New(), metrics.New(), tracer, roomCfg, cfg.GlobalEvents, logger)
	app.cleanupInterval = cfg.CleanupInterval

	if cfg.Relay {
		app.Relay = broadcast.NewRelay(redisClient, app.HubManager, cfg.RelayChannel, instanceID(), logger)
		app.Emitter = broadcast.NewEmitter(app.Relay, broadcast.NewPolicy(cfg.GlobalEvents), app.Clock, logger, app.Metrics)
		app.wireControllers(roomCfg, logger)
	}

	app.closers = append(closers, app.closers...)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	m *metrics.Metrics,
	tracer trace.Tracer,
	roomCfg room.Config,
	globalEvents []string,
	logger *slog.Logger,
) *App {
	hubManager := broadcast.NewHubManager(logger, m)

	app := &App{
		Storage:        store,
		Locks:          storage.NewRoomLocks(),
		Clock:          clk,
		Random:         rnd,
		Metrics:        m,
		Tracer:         tracer,
		HubManager:     hubManager,
		Emitter:        broadcast.NewEmitter(hubManager, broadcast.NewPolicy(globalEvents), clk, logger, m),
		ScoringService: scoring.New(),
		GuestService:   guest.New(store, clk, rnd, logger),
		logger:         logger,
		closers: []func() error{
			func() error { hubManager.Close(); return nil },
		},
	}
	app.wireControllers(roomCfg, logger)
	return app
}

// wireControllers builds the controllers on top of the current emitter
func (a *App) wireControllers(roomCfg room.Config, logger *slog.Logger) {
	a.RoomController = room.NewController(a.Storage, a.Locks, a.Emitter, a.Clock, a.Random, roomCfg, logger, a.Metrics, a.Tracer)
	a.MatchController = match.NewController(a.RoomController, a.ScoringService, a.Emitter, a.Clock, logger, a.Metrics, a.Tracer)
}

// Run drives background work until ctx is cancelled: the Redis relay
// subscription when enabled and the periodic cleanup of idle hubs.
func (a *App) Run(ctx context.Context) error {
	if a.cleanupInterval > 0 {
		go a.cleanupHubs(ctx)
	}
	if a.Relay == nil {
		<-ctx.Done()
		return nil
	}
	return a.Relay.Run(ctx)
}

func (a *App) cleanupHubs(ctx context.Context) {
	ticker := time.NewTicker(a.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.HubManager.CleanupEmptyHubs()
		}
	}
}

// Close releases the hubs and storage connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
