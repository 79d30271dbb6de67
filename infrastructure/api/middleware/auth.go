package middleware

import (
	"net/http"
)

// AuthConfig holds API key authentication configuration.
type AuthConfig struct {
	apiKeys map[string]struct{}
	enabled bool
}

// NewAuthConfig creates an AuthConfig with a single API key. An empty
// key disables authentication.
func NewAuthConfig(apiKey string) AuthConfig {
	if apiKey == "" {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{
		apiKeys: map[string]struct{}{apiKey: {}},
		enabled: true,
	}
}

// NewAuthConfigWithKeys creates an AuthConfig with multiple API keys.
// Empty keys are ignored; with no usable key authentication is disabled.
func NewAuthConfigWithKeys(apiKeys []string) AuthConfig {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{
		apiKeys: keys,
		enabled: true,
	}
}

// Enabled reports whether authentication is enforced.
func (c AuthConfig) Enabled() bool { return c.enabled }

// APIKey returns middleware that requires X-API-Key header
// authentication. With no keys configured all requests pass through.
func APIKey(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				writeUnauthorized(w, "X-API-Key header is required")
				return
			}
			if _, ok := config.apiKeys[key]; !ok {
				writeUnauthorized(w, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyAuth is a convenience wrapper that builds the middleware from a
// slice of keys.
func APIKeyAuth(apiKeys []string) func(http.Handler) http.Handler {
	return APIKey(NewAuthConfigWithKeys(apiKeys))
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"errors":[{"status":"401","title":"Unauthorized","detail":"` + detail + `"}]}`))
}
