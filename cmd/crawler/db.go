package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github-repo-crawler/internal/github"
)

// connectDB opens the pool and pings it, retrying unreachable databases with
// a linearly growing delay. A malformed URL fails immediately.
func connectDB(ctx context.Context, dbURL string, attempts int, delay time.Duration, sleep github.Sleeper, logger *slog.Logger) (*pgxpool.Pool, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		dbpool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		lastErr = dbpool.Ping(ctx)
		if lastErr == nil {
			return dbpool, nil
		}
		dbpool.Close()

		if attempt == attempts-1 {
			break
		}
		wait := delay * time.Duration(attempt+1)
		logger.Warn("Database connection failed, retrying",
			"attempt", attempt+1, "max_attempts", attempts, "wait", wait.String(), "error", lastErr)
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to reach database after %d attempts: %w", attempts, lastErr)
}
