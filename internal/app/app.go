package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/celosave/savings/internal/backend"
	"github.com/celosave/savings/internal/config"
	"github.com/celosave/savings/internal/db"
	"github.com/celosave/savings/internal/events"
	"github.com/celosave/savings/internal/repository"
	"github.com/celosave/savings/internal/service"
	"github.com/celosave/savings/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Redis          *redis.Client
	Backend        backend.Backend
	AuthService    *service.AuthService
	SavingsService *service.SavingsService
	ExportService  *service.ExportService

	closeBackend func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &App{Cfg: cfg, DB: database}

	// Repositories
	goalRepository := repository.NewSavingsGoalRepository(database)

	// Backend of record, chosen once from config
	b, closeBackend, err := backend.NewBackend(ctx, cfg, goalRepository)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}
	a.Backend = b
	a.closeBackend = closeBackend

	// Events
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.EventsEnabled() {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = events.NewRedisPublisher(a.Redis, events.DefaultStream)
	}

	// Storage (exports are served inline without it)
	var exportStorage storage.Storage
	if cfg.StorageEnabled() {
		s3Storage, err := storage.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		exportStorage = s3Storage
	}

	// Services
	a.AuthService = service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
	a.SavingsService = service.NewSavingsService(b, publisher, cfg.SnapshotTTL, cfg.OperationTTL)
	a.ExportService = service.NewExportService(a.SavingsService, exportStorage, cfg.S3PresignExpiry)

	slog.Info("app initialized",
		"mode", b.Mode(),
		"db_driver", cfg.DBDriver,
		"events", cfg.EventsEnabled(),
		"storage", cfg.StorageEnabled(),
	)

	return a, nil
}

func (a *App) Close() error {
	if a.closeBackend != nil {
		a.closeBackend()
	}

	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	return errors.Join(errs...)
}
