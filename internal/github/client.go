// internal/github/client.go
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "github-repo-crawler/internal/errors"
	"github-repo-crawler/internal/model"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options configures a Client.
type Options struct {
	Token       string
	GraphQLURL  string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	// Sleep defaults to SleepContext.
	Sleep Sleeper
	// Now defaults to time.Now.
	Now func() time.Time
}

// Client executes GraphQL queries against the GitHub API with bounded retries.
// Every response it sees updates the shared quota state.
type Client struct {
	http   *http.Client
	url    string
	quota  *model.QuotaState
	policy Policy
	sleep  Sleeper
	now    func() time.Time
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(opts Options, quota *model.QuotaState, logger *slog.Logger) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: opts.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = opts.Timeout

	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if quota == nil {
		quota = model.NewQuotaState()
	}

	return &Client{
		http:   tc,
		url:    opts.GraphQLURL,
		quota:  quota,
		policy: Policy{MaxAttempts: opts.MaxAttempts, BaseDelay: opts.RetryDelay},
		sleep:  opts.Sleep,
		now:    opts.Now,
		logger: logger,
	}
}

// Quota returns the shared quota state this client writes to.
func (c *Client) Quota() *model.QuotaState {
	return c.quota
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Execute sends one query and decodes its data into out.
//
// Recoverable failures are retried inside. The returned error wraps
// ErrUnauthorized, ErrQueryFailed or ErrRetriesExhausted, or is the context error.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		outcome, attemptErr := c.attempt(ctx, body, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attemptErr != nil {
			lastErr = attemptErr
		}

		decision := Decide(outcome, attempt, c.policy)
		logger := c.logger.With("attempt", attempt+1, "max_attempts", c.policy.MaxAttempts, "status", outcome.StatusCode)

		switch decision.State {
		case Succeeded:
			return nil
		case Fatal:
			logger.Error("GitHub rejected the token", "error", attemptErr)
			return fmt.Errorf("%w: %w", custom_errors.ErrUnauthorized, attemptErr)
		case Failed:
			logger.Error("GraphQL query failed", "error", attemptErr)
			return attemptErr
		case Exhausted:
			logger.Error("Max retries exceeded", "error", lastErr)
			return fmt.Errorf("%w after %d attempts: %w", custom_errors.ErrRetriesExhausted, attempt+1, lastErr)
		case Backoff:
			logger.Warn("Request failed, backing off", "wait", decision.Wait.String(), "error", attemptErr)
			if err := c.sleep(ctx, decision.Wait); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", custom_errors.ErrRetriesExhausted, c.policy.MaxAttempts, lastErr)
}

// attempt performs a single round trip. The returned error describes the failure
// of this attempt, if any; the outcome is what the retry policy decides on.
func (c *Client) attempt(ctx context.Context, body []byte, out any) (Outcome, error) {
	outcome := Outcome{Now: c.now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		outcome.Err = err
		return outcome, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		outcome.Err = err
		outcome.ResetAt = c.quota.ResetAt
		return outcome, err
	}
	defer resp.Body.Close()

	c.updateQuotaFromHeaders(resp.Header)
	outcome.StatusCode = resp.StatusCode
	outcome.Header = resp.Header
	outcome.ResetAt = c.quota.ResetAt

	if resp.StatusCode != http.StatusOK {
		// CheckResponse decodes the error body into a typed go-github error.
		if err := github.CheckResponse(resp); err != nil {
			return outcome, err
		}
		return outcome, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		outcome.Err = fmt.Errorf("decode graphql response: %w", err)
		return outcome, outcome.Err
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		outcome.QueryErrors = messages
		return outcome, &custom_errors.QueryError{Messages: messages}
	}

	if out != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			outcome.Err = fmt.Errorf("decode graphql data: %w", err)
			return outcome, outcome.Err
		}
	}
	return outcome, nil
}

func (c *Client) updateQuotaFromHeaders(h http.Header) {
	if remaining := h.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.quota.ObserveRemaining(val)
		}
	}
	if reset := h.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.quota.ResetAt = time.Unix(val, 0).UTC()
		}
	}
}
