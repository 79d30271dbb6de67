package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/campuslist/campuslist/internal/config"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockClient(t *testing.T) *http.Client {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestTrendsClientRisingQueries(t *testing.T) {
	client := mockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://serpapi.com/search.json",
		httpmock.NewStringResponder(200, `{
			"related_queries": {
				"rising": [
					{"query": "mit tuition", "value": "+300%"},
					{"query": "stanford acceptance rate", "value": "+120%"}
				],
				"top": [{"query": "ignored top query"}]
			}
		}`))

	c := NewTrendsClient(
		config.NewTrendsConfig().WithAPIKey("k"),
		WithTrendsHTTPClient(client),
	)

	queries, err := c.RisingQueries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mit tuition", "stanford acceptance rate"}, queries)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["GET https://serpapi.com/search.json"])
}

func TestTrendsClientEmptyWindow(t *testing.T) {
	client := mockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://serpapi.com/search.json",
		httpmock.NewStringResponder(200, `{"related_queries": {"rising": []}}`))

	c := NewTrendsClient(
		config.NewTrendsConfig().WithAPIKey("k"),
		WithTrendsHTTPClient(client),
	)

	queries, err := c.RisingQueries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestTrendsClientUpstreamError(t *testing.T) {
	client := mockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://serpapi.com/search.json",
		httpmock.NewStringResponder(200, `{"error": "Your account has run out of searches."}`))

	c := NewTrendsClient(
		config.NewTrendsConfig().WithAPIKey("k"),
		WithTrendsHTTPClient(client),
	)

	_, err := c.RisingQueries(context.Background())
	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Message(), "run out of searches")
}

func TestTrendsClientRequiresAPIKey(t *testing.T) {
	c := NewTrendsClient(config.NewTrendsConfig())
	_, err := c.RisingQueries(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
