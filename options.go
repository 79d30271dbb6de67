package campuslist

import (
	"log/slog"

	"github.com/campuslist/campuslist/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	app    config.AppConfig
	logger *slog.Logger
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		app: config.NewAppConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL("sqlite:///" + path))
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL(dsn))
	}
}

// WithDatabaseURL sets the database URL directly (sqlite:///path or a
// PostgreSQL DSN).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL(url))
	}
}

// WithDataDir sets the data directory for the database and stored media.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDataDir(dir))
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithAPIKeys sets the API keys for HTTP API authentication.
func WithAPIKeys(keys ...string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithAPIKeys(keys))
	}
}

// WithNotifyURL sets the downstream endpoint notified after chain runs.
func WithNotifyURL(url string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithNotifyURL(url))
	}
}

// WithTrendsConfig sets the trends source configuration.
func WithTrendsConfig(t config.TrendsConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithTrendsConfig(t))
	}
}

// WithPlacesConfig sets the place provider configuration.
func WithPlacesConfig(p config.PlacesConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithPlacesConfig(p))
	}
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(a config.AIConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithAIConfig(a))
	}
}

// WithPipelineConfig sets the pipeline tuning configuration.
func WithPipelineConfig(p config.PipelineConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithPipelineConfig(p))
	}
}

// WithChainConfig sets the scheduled chain configuration.
func WithChainConfig(ch config.ChainConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithChainConfig(ch))
	}
}

// WithSchedulerDisabled keeps the chain scheduler from starting.
// Stages can still be run directly through the client.
func WithSchedulerDisabled() Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithChainConfig(c.app.Chain().WithEnabled(false)))
	}
}

// WithConfig replaces the entire application configuration.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.app = cfg
	}
}
