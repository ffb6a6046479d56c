package model

import "time"

// DefaultQuota is the hourly GraphQL point budget of an authenticated token.
const DefaultQuota = 5000

// QuotaState is the last observed rate-limit budget of the remote API.
//
// It has a single writer (the request executor) and is read between requests by
// the pagination driver and at the end of a run by the session tracker. All of
// them run on the same goroutine, so no locking is done.
type QuotaState struct {
	Remaining int
	ResetAt   time.Time

	remainingSeen bool
}

// NewQuotaState assumes a full budget with an unknown reset time.
func NewQuotaState() *QuotaState {
	return &QuotaState{Remaining: DefaultQuota}
}

// ObserveRemaining records a remaining count reported by the API.
func (q *QuotaState) ObserveRemaining(n int) {
	q.Remaining = n
	q.remainingSeen = true
}

// RemainingKnown reports whether Remaining came from a response rather than
// the initial assumption.
func (q *QuotaState) RemainingKnown() bool {
	return q.remainingSeen
}

// ResetKnown reports whether a reset time has been observed.
func (q *QuotaState) ResetKnown() bool {
	return !q.ResetAt.IsZero()
}

// Snapshot returns copies of the observed remaining count and reset time
// suitable for persisting. Either is nil when it was never observed.
func (q *QuotaState) Snapshot() (*int, *time.Time) {
	var remaining *int
	if q.remainingSeen {
		n := q.Remaining
		remaining = &n
	}
	if !q.ResetKnown() {
		return remaining, nil
	}
	reset := q.ResetAt.UTC()
	return remaining, &reset
}
