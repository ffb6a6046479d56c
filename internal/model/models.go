// internal/model/models.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Repository is the canonical form of one repository node returned by a search page.
// It lives only for the duration of a batch.
type Repository struct {
	GithubID        int64
	Name            string
	FullName        string
	OwnerLogin      string
	StarsCount      int
	ForksCount      int
	OpenIssuesCount int
	RepoCreatedAt   *time.Time
	RepoUpdatedAt   *time.Time
	Archived        bool
	Language        *string
	SizeKB          int
}

// StopReason records why a crawl run ended.
type StopReason string

const (
	StopTargetReached    StopReason = "target_reached"
	StopEndOfStream      StopReason = "end_of_stream"
	StopEmptyPage        StopReason = "empty_page"
	StopRetriesExhausted StopReason = "retries_exhausted"
	StopQueryFailed      StopReason = "query_failed"
	StopInterrupted      StopReason = "interrupted"
	StopUnauthorized     StopReason = "unauthorized"
)

// CrawlSession is the summary written once at the end of every run.
type CrawlSession struct {
	RunID              uuid.UUID
	TotalFetched       int
	Inserted           int
	Updated            int
	FailedBatches      int
	StopReason         StopReason
	StartedAt          time.Time
	FinishedAt         time.Time
	RateLimitRemaining *int
	RateLimitReset     *time.Time
}
