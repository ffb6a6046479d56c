package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github-repo-crawler/internal/database"
	"github-repo-crawler/internal/model"
)

// BatchResult counts what reconciling one batch did.
type BatchResult struct {
	Inserted  int
	Updated   int
	Unchanged int
	Skipped   int
}

// ReconcileBatch merges a batch of canonical records in one transaction.
// Either every change of the batch is committed or none is.
func (s *Store) ReconcileBatch(ctx context.Context, repos []model.Repository) (BatchResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	res, err := s.reconcileBatch(ctx, database.New(tx), repos)
	if err != nil {
		return BatchResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return BatchResult{}, fmt.Errorf("commit batch transaction: %w", err)
	}
	return res, nil
}

func (s *Store) reconcileBatch(ctx context.Context, q database.Querier, repos []model.Repository) (BatchResult, error) {
	var res BatchResult
	now := s.now().UTC()

	for i := range repos {
		repo := &repos[i]
		if repo.GithubID <= 0 {
			res.Skipped++
			continue
		}

		inserted, updated, err := s.upsertRepository(ctx, q, repo, now)
		if err != nil {
			return BatchResult{}, err
		}
		switch {
		case inserted:
			res.Inserted++
		case updated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}
	return res, nil
}

// upsertRepository creates the repository or refreshes its mutable fields.
// last_crawled only moves when something actually changed.
func (s *Store) upsertRepository(ctx context.Context, q database.Querier, repo *model.Repository, now time.Time) (inserted, updated bool, err error) {
	existing, err := q.GetRepository(ctx, repo.GithubID)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Debug("Repository not found in DB, creating new entry", "github_id", repo.GithubID)
		if _, err := q.CreateRepository(ctx, createParams(repo, now)); err != nil {
			return false, false, fmt.Errorf("create repository %d: %w", repo.GithubID, err)
		}
		return true, false, nil
	} else if err != nil {
		return false, false, fmt.Errorf("get repository %d: %w", repo.GithubID, err)
	}

	params, changed := activityChanges(existing, repo, now)
	if !changed {
		return false, false, nil
	}

	s.logger.Debug("Repository changed, updating activity", "github_id", repo.GithubID,
		"stars_before", existing.StargazersCount, "stars_after", params.StargazersCount)
	if _, err := q.UpdateRepositoryActivity(ctx, params); err != nil {
		return false, false, fmt.Errorf("update repository %d: %w", repo.GithubID, err)
	}
	return false, true, nil
}

// activityChanges compares the mutable fields. A missing incoming update time
// never counts as a change and never clears the stored one.
func activityChanges(existing database.Repository, repo *model.Repository, now time.Time) (database.UpdateRepositoryActivityParams, bool) {
	params := database.UpdateRepositoryActivityParams{
		GithubID:        existing.GithubID,
		StargazersCount: int32(repo.StarsCount),
		UpdatedAt:       existing.UpdatedAt,
		LastCrawled:     pgtype.Timestamptz{Time: now, Valid: true},
	}

	changed := existing.StargazersCount != int32(repo.StarsCount)
	if repo.RepoUpdatedAt != nil {
		if !existing.UpdatedAt.Valid || !existing.UpdatedAt.Time.Equal(*repo.RepoUpdatedAt) {
			params.UpdatedAt = toTimestamptz(repo.RepoUpdatedAt)
			changed = true
		}
	}
	return params, changed
}

func createParams(repo *model.Repository, now time.Time) database.CreateRepositoryParams {
	return database.CreateRepositoryParams{
		GithubID:        repo.GithubID,
		Name:            repo.Name,
		FullName:        repo.FullName,
		OwnerLogin:      repo.OwnerLogin,
		StargazersCount: int32(repo.StarsCount),
		ForksCount:      int32(repo.ForksCount),
		OpenIssuesCount: int32(repo.OpenIssuesCount),
		CreatedAt:       toTimestamptz(repo.RepoCreatedAt),
		UpdatedAt:       toTimestamptz(repo.RepoUpdatedAt),
		Archived:        repo.Archived,
		Language:        toText(repo.Language),
		SizeKb:          int32(repo.SizeKB),
		LastCrawled:     pgtype.Timestamptz{Time: now, Valid: true},
	}
}
