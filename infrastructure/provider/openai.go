package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campuslist/campuslist/internal/config"
)

// AIClient calls the OpenAI Responses API with stored prompt templates.
// The prompts themselves live in the provider dashboard; the client only
// supplies template variables and parses the JSON the model returns.
type AIClient struct {
	cfg        config.AIConfig
	httpClient *http.Client
	retry      retryPolicy
}

// AIOption is a functional option for AIClient.
type AIOption func(*AIClient)

// WithAIHTTPClient overrides the HTTP client.
func WithAIHTTPClient(client *http.Client) AIOption {
	return func(c *AIClient) { c.httpClient = client }
}

// NewAIClient creates an AIClient.
func NewAIClient(cfg config.AIConfig, opts ...AIOption) *AIClient {
	c := &AIClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
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

// IsConfigured reports whether the client has an API key.
func (c *AIClient) IsConfigured() bool { return c.cfg.IsConfigured() }

// RequestPause returns the configured pause between consecutive calls.
func (c *AIClient) RequestPause() time.Duration { return c.cfg.RequestPause() }

type responsesRequest struct {
	Prompt promptRef `json:"prompt"`
}

type promptRef struct {
	ID        string            `json:"id"`
	Version   string            `json:"version,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

type responsesEnvelope struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FetchFacts asks the fact prompt for structured data about the named
// university and returns the parsed JSON object.
func (c *AIClient) FetchFacts(ctx context.Context, universityName string) (map[string]any, error) {
	if c.cfg.FactPromptID() == "" {
		return nil, fmt.Errorf("%w: fact prompt id missing", ErrNotConfigured)
	}
	return c.callPrompt(ctx, "fetch_facts", promptRef{
		ID:      c.cfg.FactPromptID(),
		Version: c.cfg.FactPromptVersion(),
		Variables: map[string]string{
			"university_name": universityName,
		},
	})
}

// FetchScore asks the score prompt to grade a university from its place
// payload and returns the parsed JSON object.
func (c *AIClient) FetchScore(ctx context.Context, placePayload map[string]any) (map[string]any, error) {
	if c.cfg.ScorePromptID() == "" {
		return nil, fmt.Errorf("%w: score prompt id missing", ErrNotConfigured)
	}

	payload, err := json.Marshal(placePayload)
	if err != nil {
		return nil, NewProviderError("fetch_score", 0, "marshal place payload", err)
	}

	return c.callPrompt(ctx, "fetch_score", promptRef{
		ID:      c.cfg.ScorePromptID(),
		Version: c.cfg.ScorePromptVersion(),
		Variables: map[string]string{
			"place_data": string(payload),
		},
	})
}

func (c *AIClient) callPrompt(ctx context.Context, operation string, prompt promptRef) (map[string]any, error) {
	if !c.cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: openai api key missing", ErrNotConfigured)
	}

	var envelope responsesEnvelope
	err := withRetry(ctx, c.retry, func() error {
		body, err := c.post(ctx, operation, responsesRequest{Prompt: prompt})
		if err != nil {
			return err
		}
		envelope = responsesEnvelope{}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return NewProviderError(operation, 0, "unmarshal response", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if envelope.Error.Message != "" {
		return nil, NewProviderError(operation, 0, envelope.Error.Message, nil)
	}

	text, err := extractOutputText(envelope)
	if err != nil {
		return nil, NewProviderError(operation, 0, err.Error(), nil)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &parsed); err != nil {
		return nil, NewProviderError(operation, 0, "model output is not valid JSON", err)
	}
	return parsed, nil
}

func (c *AIClient) post(ctx context.Context, operation string, payload responsesRequest) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewProviderError(operation, 0, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL()+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, NewProviderError(operation, 0, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewProviderError(operation, 0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProviderError(operation, resp.StatusCode, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(operation, resp.StatusCode, string(respBody), nil)
	}
	return respBody, nil
}

// extractOutputText finds the first message item in the output array and
// returns its first content text.
func extractOutputText(envelope responsesEnvelope) (string, error) {
	for _, item := range envelope.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Text != "" {
				return content.Text, nil
			}
		}
	}
	return "", fmt.Errorf("no message output in response")
}

// StripCodeFence removes a surrounding markdown code fence, with or
// without a language tag, from model output.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// The first line may carry a language tag like "json".
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || !strings.ContainsAny(first, "{}[]") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
