package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKey_NoKeysConfigured_PassesThrough(t *testing.T) {
	handler := APIKey(NewAuthConfigWithKeys(nil))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("no keys configured: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAPIKey_MissingHeader_Rejected(t *testing.T) {
	handler := APIKey(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAPIKey_InvalidKey_Rejected(t *testing.T) {
	handler := APIKey(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("invalid key: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAPIKey_ValidKey_Passes(t *testing.T) {
	handler := APIKey(NewAuthConfigWithKeys([]string{"secret", "other"}))(okHandler())

	for _, key := range []string{"secret", "other"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-API-Key", key)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("valid key %q: status = %d, want %d", key, w.Code, http.StatusOK)
		}
	}
}

func TestNewAuthConfigWithKeys_IgnoresEmptyKeys(t *testing.T) {
	config := NewAuthConfigWithKeys([]string{"", ""})
	if config.Enabled() {
		t.Error("config with only empty keys should be disabled")
	}
}

func TestAPIKeyAuth_Convenience(t *testing.T) {
	handler := APIKeyAuth([]string{"secret"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
