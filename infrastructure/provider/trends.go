package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/campuslist/campuslist/internal/config"
)

const serpAPIEndpoint = "https://serpapi.com/search.json"

// TrendsClient fetches rising related queries from SerpApi Google Trends.
type TrendsClient struct {
	cfg        config.TrendsConfig
	endpoint   string
	httpClient *http.Client
	retry      retryPolicy
}

// TrendsOption is a functional option for TrendsClient.
type TrendsOption func(*TrendsClient)

// WithTrendsEndpoint overrides the SerpApi endpoint (for testing).
func WithTrendsEndpoint(endpoint string) TrendsOption {
	return func(c *TrendsClient) { c.endpoint = endpoint }
}

// WithTrendsHTTPClient overrides the HTTP client.
func WithTrendsHTTPClient(client *http.Client) TrendsOption {
	return func(c *TrendsClient) { c.httpClient = client }
}

// NewTrendsClient creates a TrendsClient.
func NewTrendsClient(cfg config.TrendsConfig, opts ...TrendsOption) *TrendsClient {
	c := &TrendsClient{
		cfg:      cfg,
		endpoint: serpAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: retryPolicy{
			maxAttempts:  3,
			initialDelay: 2 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type relatedQueriesResponse struct {
	RelatedQueries struct {
		Rising []struct {
			Query string `json:"query"`
		} `json:"rising"`
	} `json:"related_queries"`
	Error string `json:"error"`
}

// RisingQueries returns the rising related queries for the configured
// seed query. An empty result is not an error; trends windows are often
// quiet.
func (c *TrendsClient) RisingQueries(ctx context.Context) ([]string, error) {
	if !c.cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: trends api key missing", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("engine", "google_trends")
	params.Set("data_type", "RELATED_QUERIES")
	params.Set("q", c.cfg.Query())
	params.Set("geo", c.cfg.Geo())
	params.Set("cat", c.cfg.Category())
	params.Set("date", c.cfg.DateRange())
	params.Set("tz", strconv.Itoa(c.cfg.TimezoneOffset()))
	params.Set("api_key", c.cfg.APIKey())

	var parsed relatedQueriesResponse
	err := withRetry(ctx, c.retry, func() error {
		body, err := c.get(ctx, c.endpoint+"?"+params.Encode())
		if err != nil {
			return err
		}
		parsed = relatedQueriesResponse{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return NewProviderError("related_queries", 0, "unmarshal response", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if parsed.Error != "" {
		return nil, NewProviderError("related_queries", 0, parsed.Error, nil)
	}

	queries := make([]string, 0, len(parsed.RelatedQueries.Rising))
	for _, r := range parsed.RelatedQueries.Rising {
		if r.Query != "" {
			queries = append(queries, r.Query)
		}
	}
	return queries, nil
}

func (c *TrendsClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewProviderError("related_queries", 0, "create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewProviderError("related_queries", 0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProviderError("related_queries", resp.StatusCode, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError("related_queries", resp.StatusCode, string(body), nil)
	}
	return body, nil
}
