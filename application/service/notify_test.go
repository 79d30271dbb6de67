package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifierFixture(t *testing.T, url string) *Notifier {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewNotifier(url, slog.New(slog.NewTextHandler(io.Discard, nil))).WithHTTPClient(client)
}

func TestNotifierPostsWithoutBody(t *testing.T) {
	n := newNotifierFixture(t, "https://downstream.example/refresh")

	var body []byte
	httpmock.RegisterResponder(http.MethodPost, "https://downstream.example/refresh",
		func(req *http.Request) (*http.Response, error) {
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			return httpmock.NewStringResponse(http.StatusNoContent, ""), nil
		})

	require.NoError(t, n.Notify(context.Background()))
	assert.Empty(t, body, "the ping carries no payload")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestNotifierRejectedStatusIsAnError(t *testing.T) {
	n := newNotifierFixture(t, "https://downstream.example/refresh")

	httpmock.RegisterResponder(http.MethodPost, "https://downstream.example/refresh",
		httpmock.NewStringResponder(http.StatusBadGateway, "nope"))

	assert.Error(t, n.Notify(context.Background()))
}

func TestNotifierDisabledWithoutURL(t *testing.T) {
	n := NewNotifier("", slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, n.Enabled())
	assert.NoError(t, n.Notify(context.Background()))
}
