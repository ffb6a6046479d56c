// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the API rejects the token. It aborts the whole run.
	ErrUnauthorized = errors.New("github: unauthorized, check GITHUB_TOKEN")

	// ErrRetriesExhausted is returned when every attempt for one request failed.
	ErrRetriesExhausted = errors.New("github: retries exhausted")

	// ErrQueryFailed is returned when the GraphQL response carries non-quota errors.
	ErrQueryFailed = errors.New("github: query returned errors")
)

// QueryError carries the messages of a GraphQL error response.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("graphql errors: %v", e.Messages)
}

func (e *QueryError) Unwrap() error {
	return ErrQueryFailed
}

// ErrInvalidConfig is returned when a configuration value is missing or out of range.
type ErrInvalidConfig struct {
	Key    string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}
