//go:build integration

// cmd/crawler/integration_test.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github-repo-crawler/internal/database"
	"github-repo-crawler/internal/github"
	"github-repo-crawler/internal/model"
	"github-repo-crawler/internal/store"
	"github-repo-crawler/internal/syncer"
)

func setupTestDatabase(ctx context.Context, t *testing.T) (*pgxpool.Pool, func()) {
	// Start a postgres container
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, runMigrations("file://../../migrations", connStr))

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	teardown := func() {
		dbpool.Close()
		require.NoError(t, pgContainer.Terminate(ctx))
	}

	return dbpool, teardown
}

func node(id int, stars int) map[string]any {
	return map[string]any{
		"id":              fmt.Sprintf("R_%d", id),
		"databaseId":      id,
		"name":            fmt.Sprintf("repo-%d", id),
		"nameWithOwner":   fmt.Sprintf("owner/repo-%d", id),
		"owner":           map[string]any{"login": "owner"},
		"stargazerCount":  stars,
		"forkCount":       1,
		"issues":          map[string]any{"totalCount": 2},
		"createdAt":       "2020-01-01T00:00:00Z",
		"updatedAt":       "2024-01-01T00:00:00Z",
		"isArchived":      false,
		"primaryLanguage": map[string]any{"name": "Go"},
		"diskUsage":       64,
	}
}

// fakeSearchServer serves two pages: ids 1..3 then ids 4..5.
func fakeSearchServer(t *testing.T, stars int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var nodes []map[string]any
		pageInfo := map[string]any{"hasNextPage": true, "endCursor": "c1"}
		if req.Variables["cursor"] == nil {
			nodes = []map[string]any{node(1, stars), node(2, stars), node(3, stars)}
		} else {
			nodes = []map[string]any{node(4, stars), node(5, stars), nil}
			pageInfo = map[string]any{"hasNextPage": false, "endCursor": "c2"}
		}

		w.Header().Set("X-RateLimit-Remaining", "4990")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"search":    map[string]any{"pageInfo": pageInfo, "nodes": nodes},
				"rateLimit": map[string]any{"remaining": 4990, "resetAt": "2030-01-01T00:00:00Z"},
			},
		})
	}))
}

func newIntegrationSyncer(st *store.Store, url string, logger *slog.Logger) *syncer.Syncer {
	quota := model.NewQuotaState()
	client := github.NewClient(github.Options{
		Token:       "test-token",
		GraphQLURL:  url,
		Timeout:     5 * time.Second,
		MaxAttempts: 2,
		RetryDelay:  time.Millisecond,
	}, quota, logger)
	return syncer.NewSyncer(client, st, quota, logger, syncer.Options{
		Query:        "stars:>1",
		Target:       100,
		PageSize:     100,
		LowWater:     100,
		SaveInterval: 2,
	})
}

func TestCrawl_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	st := store.New(dbpool, logger)
	q := database.New(dbpool)

	// --- first run inserts everything ---
	server := fakeSearchServer(t, 10)
	sum, err := newIntegrationSyncer(st, server.URL, logger).Run(ctx)
	server.Close()
	require.NoError(t, err)

	assert.Equal(t, model.StopEndOfStream, sum.StopReason)
	assert.Equal(t, 5, sum.TotalFetched)
	assert.Equal(t, 5, sum.Inserted)
	assert.Equal(t, 1, sum.Dropped)

	count, err := q.CountRepositories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	first, err := q.GetRepository(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "owner/repo-1", first.FullName)
	assert.Equal(t, int32(10), first.StargazersCount)
	assert.Equal(t, "Go", first.Language.String)

	// --- rerun with the same data changes nothing ---
	server = fakeSearchServer(t, 10)
	sum, err = newIntegrationSyncer(st, server.URL, logger).Run(ctx)
	server.Close()
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Inserted)
	assert.Equal(t, 0, sum.Updated)
	assert.Equal(t, 5, sum.Unchanged)

	unchanged, err := q.GetRepository(ctx, 1)
	require.NoError(t, err)
	assert.True(t, unchanged.LastCrawled.Time.Equal(first.LastCrawled.Time))

	// --- star counts move ---
	server = fakeSearchServer(t, 15)
	sum, err = newIntegrationSyncer(st, server.URL, logger).Run(ctx)
	server.Close()
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Updated)

	updated, err := q.GetRepository(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(15), updated.StargazersCount)
	assert.True(t, updated.LastCrawled.Time.After(first.LastCrawled.Time))

	count, err = q.CountRepositories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	sessions, err := q.ListCrawlSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	latest, err := q.GetLatestCrawlSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(5), latest.UpdatedCount)
	assert.Equal(t, "end_of_stream", latest.StopReason)
	assert.Equal(t, int32(4990), latest.RateLimitRemaining.Int32)
	assert.True(t, latest.RateLimitReset.Valid)
}

func TestCrawl_UnauthorizedIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	sum, err := newIntegrationSyncer(store.New(dbpool, logger), server.URL, logger).Run(ctx)

	require.Error(t, err)
	assert.Equal(t, model.StopUnauthorized, sum.StopReason)

	latest, err := database.New(dbpool).GetLatestCrawlSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "unauthorized", latest.StopReason)
	assert.Equal(t, int32(0), latest.TotalFetched)
}

func TestReconcileBatch_RollbackIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	st := store.New(dbpool, logger)
	q := database.New(dbpool)

	// Postgres rejects NUL bytes in text columns, so the second insert fails.
	batch := []model.Repository{
		{GithubID: 101, Name: "ok", FullName: "owner/ok"},
		{GithubID: 102, Name: "bad\x00name", FullName: "owner/bad"},
		{GithubID: 103, Name: "never", FullName: "owner/never"},
	}

	_, err := st.ReconcileBatch(ctx, batch)
	require.Error(t, err)

	count, err := q.CountRepositories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "no record of a failed batch may be committed")

	res, err := st.ReconcileBatch(ctx, []model.Repository{batch[0], batch[2]})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	count, err = q.CountRepositories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
