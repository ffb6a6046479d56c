// internal/store/store.go
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github-repo-crawler/internal/database"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	database.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store persists repositories and crawl sessions through a single handle
// owned by the caller.
type Store struct {
	db     TxBeginner
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Store. The caller keeps ownership of db and closes it after
// the last session has been recorded.
func New(db TxBeginner, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Queries returns a non-transactional querier over the store's handle.
func (s *Store) Queries() database.Querier {
	return database.New(s.db)
}

func toTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func toText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func toInt4(i *int) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true}
}
