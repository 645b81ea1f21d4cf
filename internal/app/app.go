// Package app wires configuration, logging, storage and services together
// for the command line and bot frontends.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flashdeck/internal/config"
	"flashdeck/internal/generator"
	"flashdeck/internal/repository"
	"flashdeck/internal/repository/memory"
	"flashdeck/internal/repository/migrations"
	"flashdeck/internal/repository/postgres"
	"flashdeck/internal/repository/sqlite"
	"flashdeck/internal/service"

	"go.uber.org/zap"
)

// ErrNoAPIKey is returned when generation is requested without a configured key
var ErrNoAPIKey = errors.New("no generator API key configured; set GEMINI_API_KEY or save one with settings")

// App holds the services shared by every frontend
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Catalog *service.Catalog
	Decks   *service.DeckService
	Cards   *service.CardService
	History *service.HistoryService
	Reviews *service.ReviewService
	Stats   *service.StatsService
	Auth    *service.AuthService

	db *sql.DB
}

// NewLogger builds a production logger at level
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

// New opens the configured storage backend and builds the services over it
func New(cfg *config.Config, logger *zap.Logger, opts ...service.Option) (*App, error) {
	store, db, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	catalog := service.NewCatalog(store, logger, opts...)
	decks := service.NewDeckService(catalog)
	cards := service.NewCardService(catalog)
	history := service.NewHistoryService(catalog)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Decks:   decks,
		Cards:   cards,
		History: history,
		Reviews: service.NewReviewService(cards, history, logger),
		Stats:   service.NewStatsService(decks, cards, logger),
		Auth:    service.NewAuthService(catalog, cfg.BotPassword),
		db:      db,
	}, nil
}

// Generation builds a generation service backed by Gemini. The key from the
// environment wins over the one saved in settings.
func (a *App) Generation(ctx context.Context) (*service.GenerationService, error) {
	key := a.Config.GeminiAPIKey
	if key == "" {
		key = a.History.APIKey()
	}
	if key == "" {
		return nil, ErrNoAPIKey
	}

	gen, err := generator.NewGemini(ctx, key, a.Config.GeminiModel, a.Logger)
	if err != nil {
		return nil, err
	}
	return a.WithGenerator(gen), nil
}

// WithGenerator builds a generation service over gen
func (a *App) WithGenerator(gen generator.Generator) *service.GenerationService {
	return service.NewGenerationService(a.Decks, a.Cards, a.History, gen, a.Logger)
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openStore(cfg *config.Config, logger *zap.Logger) (repository.PartitionStore, *sql.DB, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, data will not survive a restart")
		return memory.NewKVStore(), nil, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Up(db, migrations.SQLite, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("SQLite storage ready", zap.String("path", cfg.SQLitePath))
		return sqlite.NewKVStore(db), db, nil

	case config.DriverPostgres:
		db, err := postgres.Connect(cfg.DSN(), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Up(db, migrations.Postgres, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("PostgreSQL storage ready", zap.String("host", cfg.Database.Host))
		return postgres.NewKVStore(db), db, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}
