package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github-repo-crawler/internal/database"
	"github-repo-crawler/internal/model"
)

// RecordSession appends the summary of one crawl run.
func (s *Store) RecordSession(ctx context.Context, session model.CrawlSession) error {
	return s.recordSession(ctx, database.New(s.db), session)
}

func (s *Store) recordSession(ctx context.Context, q database.Querier, session model.CrawlSession) error {
	row, err := q.CreateCrawlSession(ctx, database.CreateCrawlSessionParams{
		RunID:              session.RunID,
		TotalFetched:       int32(session.TotalFetched),
		InsertedCount:      int32(session.Inserted),
		UpdatedCount:       int32(session.Updated),
		FailedBatches:      int32(session.FailedBatches),
		StopReason:         string(session.StopReason),
		StartedAt:          pgtype.Timestamptz{Time: session.StartedAt.UTC(), Valid: true},
		FinishedAt:         pgtype.Timestamptz{Time: session.FinishedAt.UTC(), Valid: true},
		RateLimitRemaining: toInt4(session.RateLimitRemaining),
		RateLimitReset:     toTimestamptz(session.RateLimitReset),
	})
	if err != nil {
		return fmt.Errorf("record crawl session %s: %w", session.RunID, err)
	}

	s.logger.Info("Crawl session recorded", "session_id", row.ID, "run_id", session.RunID,
		"total_fetched", session.TotalFetched, "stop_reason", session.StopReason)
	return nil
}
