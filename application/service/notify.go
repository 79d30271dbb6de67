package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Notifier pings a downstream consumer after a chain run so it can pick
// up fresh data. Delivery is best effort.
type Notifier struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNotifier creates a Notifier. An empty URL disables notification.
func NewNotifier(url string, logger *slog.Logger) *Notifier {
	return &Notifier{
		url: url,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// WithHTTPClient replaces the HTTP client (for testing).
func (n *Notifier) WithHTTPClient(client *http.Client) *Notifier {
	n.httpClient = client
	return n
}

// Enabled reports whether a downstream URL is configured.
func (n *Notifier) Enabled() bool { return n.url != "" }

// Notify pings the downstream endpoint. The request carries no body;
// the POST itself is the signal that fresh data is available.
func (n *Notifier) Notify(ctx context.Context) error {
	if !n.Enabled() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, nil)
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}

	n.logger.Debug("downstream notified", slog.String("url", n.url))
	return nil
}
