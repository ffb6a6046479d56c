package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github-repo-crawler/internal/config"
	"github-repo-crawler/internal/github"
	"github-repo-crawler/internal/model"
	"github-repo-crawler/internal/store"
	"github-repo-crawler/internal/syncer"
)

// app holds the process-wide dependencies shared by all commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	dbpool *pgxpool.Pool
	store  *store.Store
}

func setup(ctx context.Context) (*app, error) {
	// Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	dbpool, err := connectDB(ctx, cfg.DBURL, cfg.DBConnectRetries, cfg.DBConnectDelay, github.SleepContext, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established")

	return &app{
		cfg:    cfg,
		logger: logger,
		dbpool: dbpool,
		store:  store.New(dbpool, logger),
	}, nil
}

// close releases the pool. It must run after the last session was recorded.
func (a *app) close() {
	a.dbpool.Close()
}

func (a *app) migrate() error {
	if err := runMigrations(a.cfg.MigrationsPath, a.cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	a.logger.Info("Database migrations applied successfully")
	return nil
}

// newSyncer wires one quota state between the client that writes it and the
// syncer that reads it.
func (a *app) newSyncer() *syncer.Syncer {
	quota := model.NewQuotaState()
	ghClient := github.NewClient(github.Options{
		Token:       a.cfg.GithubToken,
		GraphQLURL:  a.cfg.GraphQLURL,
		Timeout:     a.cfg.RequestTimeout,
		MaxAttempts: a.cfg.MaxRetries,
		RetryDelay:  a.cfg.RetryDelay,
	}, quota, a.logger)

	return syncer.NewSyncer(ghClient, a.store, quota, a.logger, syncer.Options{
		Query:        a.cfg.SearchQuery,
		Target:       a.cfg.TotalRepos,
		PageSize:     a.cfg.PageSize,
		LowWater:     a.cfg.RateLimitLowWater,
		PageDelay:    a.cfg.PageDelay,
		SaveInterval: a.cfg.SaveInterval,
	})
}

func runMigrations(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
