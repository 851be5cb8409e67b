package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/nickchat/internal/config"
	"github.com/mcoot/nickchat/internal/dependencies/clock"
	"github.com/mcoot/nickchat/internal/metrics"
	"github.com/mcoot/nickchat/internal/services/admin"
	"github.com/mcoot/nickchat/internal/services/chat"
	"github.com/mcoot/nickchat/internal/services/nick"
	"github.com/mcoot/nickchat/internal/storage"
	"github.com/mcoot/nickchat/internal/storage/memory"
	redisstorage "github.com/mcoot/nickchat/internal/storage/redis"
	"github.com/mcoot/nickchat/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeSQLite = string(config.StorageSQLite)
	StorageTypeMemory = string(config.StorageMemory)
	StorageTypeRedis  = string(config.StorageRedis)
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	StorageType string

	// External dependencies
	Clock clock.Clock

	// Services
	NickService  *nick.Service
	ChatService  *chat.Service
	AdminService *admin.Service

	Metrics *metrics.Metrics
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("sqlite", "memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// SQLiteConfig locates the database file (required if StorageType is "sqlite")
	SQLiteConfig *sqlite.Config
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// ConfigFrom maps the process configuration onto factory options
func ConfigFrom(c *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:      logger,
		StorageType: string(c.StorageType),
	}
	switch c.StorageType {
	case config.StorageSQLite:
		cfg.SQLiteConfig = &sqlite.Config{DataDir: c.DataDir, FileName: c.DatabaseFile}
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(ctx, *cfg.SQLiteConfig, logger)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'sqlite', 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New(), logger)
	app.StorageType = storageType
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, logger *slog.Logger) *App {
	return &App{
		Storage:      store,
		StorageType:  StorageTypeMemory,
		Clock:        clk,
		NickService:  nick.New(store, clk, logger),
		ChatService:  chat.New(store, clk, logger),
		AdminService: admin.New(store, logger),
		Metrics:      metrics.New(),
	}
}
