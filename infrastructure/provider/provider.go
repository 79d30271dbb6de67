// Package provider implements the outbound HTTP clients: trending
// queries (SerpApi), place lookups (Google Places v1) and generative AI
// calls (OpenAI Responses API).
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrNotConfigured indicates the provider has no API key.
var ErrNotConfigured = errors.New("provider not configured")

// ProviderError wraps provider errors with additional context.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a new ProviderError.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		cause:      cause,
	}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.cause != nil {
		return e.operation + ": " + e.message + ": " + e.cause.Error()
	}
	return e.operation + ": " + e.message
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.cause
}

// Operation returns the operation that failed.
func (e *ProviderError) Operation() string { return e.operation }

// StatusCode returns the HTTP status code if available.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// Message returns the error message.
func (e *ProviderError) Message() string { return e.message }

// IsRateLimited returns true if the error is due to rate limiting.
func (e *ProviderError) IsRateLimited() bool {
	return e.statusCode == http.StatusTooManyRequests
}

// retryPolicy drives withRetry. A zero backoffFactor means fixed delay.
type retryPolicy struct {
	maxAttempts   int
	initialDelay  time.Duration
	backoffFactor float64
}

// withRetry executes fn up to policy.maxAttempts times, sleeping between
// attempts. Non-retryable errors return immediately.
func withRetry(ctx context.Context, policy retryPolicy, fn func() error) error {
	delay := policy.initialDelay
	var lastErr error

	for attempt := 1; attempt <= policy.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < policy.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				if policy.backoffFactor > 0 {
					delay = time.Duration(float64(delay) * policy.backoffFactor)
				}
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		switch provErr.StatusCode() {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
