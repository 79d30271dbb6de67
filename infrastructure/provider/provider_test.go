package provider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslist/campuslist/internal/config"
)

func TestClientRetryDelayIsFixed(t *testing.T) {
	trends := NewTrendsClient(config.NewTrendsConfig())
	places := NewPlacesClient(config.NewPlacesConfig())
	ai := NewAIClient(config.NewAIConfig())

	assert.Zero(t, trends.retry.backoffFactor, "trends retries at a fixed delay")
	assert.Zero(t, places.retry.backoffFactor, "places retries at a fixed delay")
	assert.Zero(t, ai.retry.backoffFactor, "ai retries at a fixed delay")
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	policy := retryPolicy{maxAttempts: 3, initialDelay: time.Millisecond}

	attempts := 0
	err := withRetry(context.Background(), policy, func() error {
		attempts++
		return NewProviderError("op", http.StatusServiceUnavailable, "down", nil)
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	policy := retryPolicy{maxAttempts: 3, initialDelay: time.Millisecond}

	attempts := 0
	err := withRetry(context.Background(), policy, func() error {
		attempts++
		return NewProviderError("op", http.StatusBadRequest, "bad input", nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
