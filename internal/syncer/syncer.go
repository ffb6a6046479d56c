// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	custom_errors "github-repo-crawler/internal/errors"
	"github-repo-crawler/internal/github"
	"github-repo-crawler/internal/model"
	"github-repo-crawler/internal/store"
)

const (
	// maxThrottleWait bounds a low-quota pause when the reset time is known.
	maxThrottleWait = 5 * time.Minute
	// unknownResetWait is the low-quota pause when no reset time was observed.
	unknownResetWait = 60 * time.Second
	// finalizeTimeout bounds the session write after the run context is gone.
	finalizeTimeout = 10 * time.Second
)

// PageFetcher fetches one normalized page of search results.
type PageFetcher interface {
	SearchRepositories(ctx context.Context, query, cursor string, first int) (*github.SearchPage, error)
}

// Store persists batches and run summaries.
type Store interface {
	ReconcileBatch(ctx context.Context, repos []model.Repository) (store.BatchResult, error)
	RecordSession(ctx context.Context, session model.CrawlSession) error
}

// Options bound a single crawl run.
type Options struct {
	Query        string
	Target       int
	PageSize     int
	LowWater     int
	PageDelay    time.Duration
	SaveInterval int
}

// Summary describes a finished run. The embedded session is what gets persisted.
type Summary struct {
	model.CrawlSession
	Unchanged int
	Skipped   int
	Dropped   int
	Pages     int
}

// Syncer drives the paginated crawl from the first page to a stop condition.
type Syncer struct {
	fetcher PageFetcher
	store   Store
	quota   *model.QuotaState
	logger  *slog.Logger
	opts    Options

	pacer *rate.Limiter
	sleep github.Sleeper
	now   func() time.Time
}

// NewSyncer creates a new Syncer. quota must be the same object the fetcher updates.
func NewSyncer(fetcher PageFetcher, st Store, quota *model.QuotaState, logger *slog.Logger, opts Options) *Syncer {
	if opts.PageSize <= 0 || opts.PageSize > github.MaxPageSize {
		opts.PageSize = github.MaxPageSize
	}
	return &Syncer{
		fetcher: fetcher,
		store:   st,
		quota:   quota,
		logger:  logger,
		opts:    opts,
		pacer:   rate.NewLimiter(rate.Every(opts.PageDelay), 1),
		sleep:   github.SleepContext,
		now:     time.Now,
	}
}

// Start runs a crawl immediately and then once per interval until ctx is done.
func (s *Syncer) Start(ctx context.Context, interval time.Duration) error {
	s.logger.Info("Starting scheduled crawler", "interval", interval.String(), "target", s.opts.Target)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.runCycle(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				return err
			}
		case <-ctx.Done():
			s.logger.Info("Crawler shutting down", "reason", ctx.Err())
			return nil
		}
	}
}

// runCycle only surfaces errors that make further runs pointless.
func (s *Syncer) runCycle(ctx context.Context) error {
	_, err := s.Run(ctx)
	if errors.Is(err, custom_errors.ErrUnauthorized) {
		return err
	}
	if err != nil {
		s.logger.Error("Crawl run failed", "error", err)
	}
	return nil
}

// Run crawls until the target is reached or the stream ends. A session row is
// written for every run, including interrupted and unauthorized ones. Only
// ErrUnauthorized and unexpected failures are returned as errors; every other
// stop condition is reported through Summary.StopReason.
func (s *Syncer) Run(ctx context.Context) (Summary, error) {
	sum := Summary{CrawlSession: model.CrawlSession{RunID: uuid.New(), StartedAt: s.now().UTC()}}
	logger := s.logger.With("run_id", sum.RunID)
	logger.Info("Starting crawl", "query", s.opts.Query, "target", s.opts.Target, "page_size", s.opts.PageSize)

	err := s.crawl(ctx, logger, &sum)
	s.finalize(ctx, logger, &sum)
	return sum, err
}

func (s *Syncer) crawl(ctx context.Context, logger *slog.Logger, sum *Summary) error {
	cursor := ""
	for sum.TotalFetched < s.opts.Target {
		if err := s.throttle(ctx, logger); err != nil {
			sum.StopReason = model.StopInterrupted
			return nil
		}
		if err := s.pacer.Wait(ctx); err != nil {
			sum.StopReason = model.StopInterrupted
			return nil
		}

		remaining := s.opts.Target - sum.TotalFetched
		page, err := s.fetcher.SearchRepositories(ctx, s.opts.Query, cursor, min(s.opts.PageSize, remaining))
		if err != nil {
			return s.classify(ctx, logger, sum, err)
		}
		sum.Pages++
		sum.Dropped += page.Dropped

		repos := page.Repositories
		if len(repos) == 0 {
			logger.Info("No repositories returned, stopping", "page", sum.Pages, "dropped", page.Dropped)
			sum.StopReason = model.StopEmptyPage
			return nil
		}
		if len(repos) > remaining {
			repos = repos[:remaining]
		}

		// A fetched page is persisted even if the run is being interrupted.
		res, err := s.store.ReconcileBatch(context.WithoutCancel(ctx), repos)
		if err != nil {
			sum.FailedBatches++
			logger.Error("Failed to reconcile batch", "page", sum.Pages, "size", len(repos), "error", err)
		} else {
			sum.Inserted += res.Inserted
			sum.Updated += res.Updated
			sum.Unchanged += res.Unchanged
			sum.Skipped += res.Skipped
		}

		before := sum.TotalFetched
		sum.TotalFetched += len(repos)
		logger.Debug("Page processed", "page", sum.Pages, "size", len(repos), "total", sum.TotalFetched,
			"rate_limit_remaining", s.quota.Remaining)
		if s.opts.SaveInterval > 0 && sum.TotalFetched/s.opts.SaveInterval > before/s.opts.SaveInterval {
			logger.Info("Crawl progress", "total", sum.TotalFetched, "target", s.opts.Target,
				"inserted", sum.Inserted, "updated", sum.Updated, "rate_limit_remaining", s.quota.Remaining)
		}

		if !page.HasNextPage || page.EndCursor == "" {
			sum.StopReason = model.StopEndOfStream
			return nil
		}
		cursor = page.EndCursor
	}

	sum.StopReason = model.StopTargetReached
	return nil
}

// classify maps a fetch error to a stop reason. The exhausted check comes before
// the query failure check because quota-flavored query errors that ran out of
// attempts match both.
func (s *Syncer) classify(ctx context.Context, logger *slog.Logger, sum *Summary, err error) error {
	switch {
	case errors.Is(err, custom_errors.ErrUnauthorized):
		sum.StopReason = model.StopUnauthorized
		logger.Error("GitHub rejected the token, aborting crawl", "error", err)
		return err
	case ctx.Err() != nil:
		sum.StopReason = model.StopInterrupted
		logger.Warn("Crawl interrupted", "reason", ctx.Err())
		return nil
	case errors.Is(err, custom_errors.ErrRetriesExhausted):
		sum.StopReason = model.StopRetriesExhausted
		logger.Error("Giving up on page after retries", "page", sum.Pages+1, "error", err)
		return nil
	case errors.Is(err, custom_errors.ErrQueryFailed):
		sum.StopReason = model.StopQueryFailed
		logger.Error("Search query failed", "page", sum.Pages+1, "error", err)
		return nil
	default:
		sum.StopReason = model.StopQueryFailed
		return fmt.Errorf("fetch page %d: %w", sum.Pages+1, err)
	}
}

// throttleWait reports how long to pause before the next request given the
// current quota.
func (s *Syncer) throttleWait() time.Duration {
	if s.quota.Remaining >= s.opts.LowWater {
		return 0
	}
	if !s.quota.ResetKnown() {
		return unknownResetWait
	}
	wait := s.quota.ResetAt.Sub(s.now())
	if wait <= 0 {
		return 0
	}
	return min(wait, maxThrottleWait)
}

func (s *Syncer) throttle(ctx context.Context, logger *slog.Logger) error {
	wait := s.throttleWait()
	if wait == 0 {
		return nil
	}
	logger.Warn("Rate limit low, pausing", "remaining", s.quota.Remaining, "wait", wait.String())
	return s.sleep(ctx, wait)
}

// finalize records the session with a context that survives cancellation of the run.
func (s *Syncer) finalize(ctx context.Context, logger *slog.Logger, sum *Summary) {
	sum.FinishedAt = s.now().UTC()
	sum.RateLimitRemaining, sum.RateLimitReset = s.quota.Snapshot()

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()
	if err := s.store.RecordSession(wctx, sum.CrawlSession); err != nil {
		logger.Error("Failed to record crawl session", "error", err)
	}

	logger.Info("Crawl finished",
		"stop_reason", sum.StopReason,
		"total", sum.TotalFetched,
		"inserted", sum.Inserted,
		"updated", sum.Updated,
		"unchanged", sum.Unchanged,
		"failed_batches", sum.FailedBatches,
		"dropped", sum.Dropped,
		"pages", sum.Pages,
		"duration", sum.FinishedAt.Sub(sum.StartedAt).String(),
		"rate_limit_remaining", s.quota.Remaining,
	)
}
