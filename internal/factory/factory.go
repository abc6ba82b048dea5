package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sala-livre/batepapo/internal/announce"
	"github.com/sala-livre/batepapo/internal/dependencies/clock"
	"github.com/sala-livre/batepapo/internal/services/auth"
	"github.com/sala-livre/batepapo/internal/services/chat"
	"github.com/sala-livre/batepapo/internal/services/gate"
	"github.com/sala-livre/batepapo/internal/services/presence"
	"github.com/sala-livre/batepapo/internal/storage"
	"github.com/sala-livre/batepapo/internal/storage/memory"
	redisstorage "github.com/sala-livre/batepapo/internal/storage/redis"
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

	// Services
	Gate            *gate.Gate
	Announcer       *announce.Announcer
	AuthService     *auth.Service
	PresenceService *presence.Service
	ChatService     *chat.Service
	Reaper          *presence.Reaper
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PresenceTimeout is how long a participant may stay silent before
	// the reaper evicts it (optional, defaults to presence.DefaultTimeout)
	PresenceTimeout time.Duration
	// ReapInterval is how often the reaper sweeps (optional, defaults to
	// presence.DefaultInterval)
	ReapInterval time.Duration
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

	clk := clock.New()

	return newWithDependencies(store, clk, cfg.PresenceTimeout, cfg.ReapInterval, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, timeout, interval time.Duration, logger *slog.Logger) *App {
	gateService := gate.New(store)
	announcer := announce.New(store, logger)
	authService := auth.New()
	presenceService := presence.New(store, gateService, authService, announcer, clk, logger)
	chatService := chat.New(store, gateService, clk, logger)
	reaper := presence.NewReaper(store, authService, announcer, clk, logger, timeout, interval)

	return &App{
		Storage:         store,
		Clock:           clk,
		Gate:            gateService,
		Announcer:       announcer,
		AuthService:     authService,
		PresenceService: presenceService,
		ChatService:     chatService,
		Reaper:          reaper,
	}
}
