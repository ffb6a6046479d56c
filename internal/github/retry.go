package github

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// State is a position in the request retry state machine.
type State int

const (
	// Attempting means a request is about to be sent.
	Attempting State = iota
	// Backoff means the attempt failed recoverably; wait and try again.
	Backoff
	// Fatal means the run must stop immediately.
	Fatal
	// Failed means the request is abandoned without further attempts.
	Failed
	// Exhausted means the attempt budget is spent.
	Exhausted
	// Succeeded means a usable payload was received.
	Succeeded
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case Backoff:
		return "backoff"
	case Fatal:
		return "fatal"
	case Failed:
		return "failed"
	case Exhausted:
		return "exhausted"
	case Succeeded:
		return "succeeded"
	}
	return "unknown"
}

const (
	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"
	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"
	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	QueryRateLimitWait   = 60 * time.Second
	DefaultRetryAfter    = 60 * time.Second
	ForbiddenMinWait     = 60 * time.Second
	ForbiddenMaxWait     = time.Hour
	ForbiddenUnknownWait = 5 * time.Minute
)

// Policy bounds the retry loop.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Outcome is everything observed about one attempt.
type Outcome struct {
	StatusCode int
	Header     http.Header
	// Err is a transport failure or an undecodable success body.
	Err error
	// QueryErrors holds GraphQL error messages from a 200 response.
	QueryErrors []string
	// ResetAt is the best known quota reset time, zero when unknown.
	ResetAt time.Time
	Now     time.Time
}

// Decision is the next state and how long to wait before entering it.
type Decision struct {
	State State
	Wait  time.Duration
}

// Decide maps an attempt outcome to the next state. attempt is zero based.
// It performs no I/O.
func Decide(o Outcome, attempt int, p Policy) Decision {
	var d Decision
	switch {
	case o.Err != nil:
		d = Decision{State: Backoff, Wait: p.BaseDelay * time.Duration(attempt+1)}
	case o.StatusCode == http.StatusOK:
		if len(o.QueryErrors) == 0 {
			return Decision{State: Succeeded}
		}
		if !isQuotaMessage(o.QueryErrors) {
			return Decision{State: Failed}
		}
		d = Decision{State: Backoff, Wait: QueryRateLimitWait}
	case o.StatusCode == http.StatusUnauthorized:
		return Decision{State: Fatal}
	case o.StatusCode == http.StatusTooManyRequests:
		d = Decision{State: Backoff, Wait: retryAfter(o.Header)}
	case o.StatusCode == http.StatusForbidden:
		d = Decision{State: Backoff, Wait: forbiddenWait(o.ResetAt, o.Now)}
	default:
		d = Decision{State: Backoff, Wait: p.BaseDelay * time.Duration(attempt+1)}
	}

	if attempt+1 >= p.MaxAttempts {
		return Decision{State: Exhausted}
	}
	return d
}

func isQuotaMessage(messages []string) bool {
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m), "rate limit") {
			return true
		}
	}
	return false
}

func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return DefaultRetryAfter
	}
	v := strings.TrimSpace(h.Get(HeaderRetryAfter))
	if v == "" {
		return DefaultRetryAfter
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return DefaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

func forbiddenWait(resetAt, now time.Time) time.Duration {
	if resetAt.IsZero() {
		return ForbiddenUnknownWait
	}
	wait := resetAt.Sub(now)
	if wait < ForbiddenMinWait {
		return ForbiddenMinWait
	}
	if wait > ForbiddenMaxWait {
		return ForbiddenMaxWait
	}
	return wait
}
