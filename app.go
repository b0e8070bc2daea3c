package main

import (
	"fmt"

	"study/internal/config"
	"study/internal/database"
	"study/internal/events"
	"study/internal/flash"
	"study/internal/forms"
	"study/internal/repositories"
	"study/internal/server"
	"study/internal/services"
	"study/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	redisstore "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App bundles the services built from a Config so commands can share them.
type App struct {
	Config   config.Config
	DB       *gorm.DB // nil for the in-memory store
	Accounts *services.AccountService
	Settings *services.SettingsService

	repo      repositories.AccountRepository
	publisher events.Publisher
	logger    *zap.Logger
	closers   []func() error
}

// NewApp opens the account store and the event broker named in cfg.
func NewApp(cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, logger: logger}

	// --- Account store ---
	if cfg.DatabaseDriver == "memory" {
		a.repo = repositories.NewMemoryAccountRepository()
	} else {
		db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		a.closers = append(a.closers, sqlDB.Close)
		a.DB = db
		a.repo = repositories.NewGORMAccountRepository(db)
	}

	// --- Events ---
	publisher, err := a.newPublisher()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.publisher = publisher

	// --- Services ---
	validator := forms.NewValidator()
	a.Accounts = services.NewAccountService(a.repo, validator, a.publisher, logger, cfg.JWTSecret, cfg.TokenTTL)
	a.Settings = services.NewSettingsService(a.repo, validator, a.publisher, logger)

	return a, nil
}

func (a *App) newPublisher() (events.Publisher, error) {
	switch a.Config.EventsBroker {
	case "amqp":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.Config.RabbitMQURL, Queue: a.Config.EventsChannel}, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return events.NewAMQPPublisher(client), nil
	case "redis":
		client, err := newRedisClient(a.Config.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return events.NewRedisPublisher(client, a.Config.EventsChannel), nil
	default:
		return events.Nop{}, nil
	}
}

// Server builds the HTTP app, including the session store for flash messages.
func (a *App) Server() (*fiber.App, error) {
	var storage fiber.Storage
	if a.Config.SessionStorage == "redis" {
		store := redisstore.New(redisstore.Config{URL: a.Config.RedisURL})
		a.closers = append(a.closers, store.Close)
		storage = store
	}

	deps := server.Dependencies{
		Accounts:      a.Accounts,
		Settings:      a.Settings,
		Flash:         flash.New(flash.NewSessionStore(storage, a.Config.CookieSecure)),
		Storage:       storage,
		Logger:        a.logger,
		SecureCookies: a.Config.CookieSecure,
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		deps.DB = sqlDB
	}
	return server.New(deps), nil
}

// Close releases every connection opened by the app, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
