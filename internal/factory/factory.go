package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/jswain/turfsplit/internal/dependencies/clock"
	"github.com/jswain/turfsplit/internal/dependencies/ident"
	"github.com/jswain/turfsplit/internal/services/identity"
	"github.com/jswain/turfsplit/internal/services/payment"
	"github.com/jswain/turfsplit/internal/services/roster"
	"github.com/jswain/turfsplit/internal/storage"
	"github.com/jswain/turfsplit/internal/storage/memory"
	redisstorage "github.com/jswain/turfsplit/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	Ident ident.Generator

	// Services
	IdentityService  *identity.Service
	RosterController *roster.Controller
	PaymentService   *payment.Service
}

// Config holds configuration for the application factory
type Config struct {
	// IdentityConfig holds configuration for the identity service (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
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
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	idgen := ident.New()

	// Use default identity config if not provided
	identityCfg := cfg.IdentityConfig
	if identityCfg.TokenTTL == 0 {
		identityCfg = identity.DefaultConfig()
	}

	return newWithDependencies(store, clk, idgen, identityCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, idgen ident.Generator, identityCfg identity.Config, logger *slog.Logger) *App {
	// Create services
	identityService := identity.New(store, clk, idgen, identityCfg, logger)
	rosterController := roster.NewController(store, clk, idgen, logger)
	paymentService := payment.New(store, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Ident:            idgen,
		IdentityService:  identityService,
		RosterController: rosterController,
		PaymentService:   paymentService,
	}
}
