package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfigDefaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, DefaultHost, cfg.Host())
	assert.Equal(t, DefaultPort, cfg.Port())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Contains(t, cfg.DBURL(), "sqlite:///")
	assert.Empty(t, cfg.APIKeys())
	assert.True(t, cfg.Chain().Enabled())
	assert.Equal(t, DefaultChainTimezone, cfg.Chain().Timezone())
	assert.Equal(t, DefaultPhotoLimit, cfg.Pipeline().PhotoLimit())
}

func TestAppConfigApply(t *testing.T) {
	cfg := NewAppConfig().Apply(
		WithHost("127.0.0.1"),
		WithPort(9000),
		WithAPIKeys([]string{"k1", "k2"}),
	)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKeys())
}

func TestWithDataDirUpdatesDefaultDBURL(t *testing.T) {
	cfg := NewAppConfig().Apply(WithDataDir("/tmp/cl"))
	assert.Equal(t, "sqlite:///"+"/tmp/cl/campuslist.db", cfg.DBURL())

	// An explicit DB URL survives a data dir change.
	cfg = NewAppConfig().Apply(
		WithDBURL("postgres://u:p@localhost/cl"),
		WithDataDir("/tmp/cl"),
	)
	assert.Equal(t, "postgres://u:p@localhost/cl", cfg.DBURL())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TRENDS_API_KEY", "serp-key")
	t.Setenv("PLACES_API_KEY", "places-key")
	t.Setenv("OPENAI_FACT_PROMPT_ID", "pmpt_123")
	t.Setenv("CHAIN_WINDOW_START_HOUR", "8")
	t.Setenv("PIPELINE_TRIM_PHRASES", "tuition,admissions")

	env, err := LoadFromEnv()
	require.NoError(t, err)

	cfg := env.ToAppConfig()
	assert.Equal(t, 9999, cfg.Port())
	assert.True(t, cfg.Trends().IsConfigured())
	assert.True(t, cfg.Places().IsConfigured())
	assert.Equal(t, "pmpt_123", cfg.AI().FactPromptID())
	assert.Equal(t, "8", cfg.AI().FactPromptVersion())
	assert.Equal(t, 8, cfg.Chain().WindowStartHour())
	assert.Equal(t, []string{" tuition", " admissions"}, cfg.Pipeline().TrimPhrases())
}

func TestChainEnvConversion(t *testing.T) {
	chain := ChainEnv{
		Enabled:         true,
		IntervalSeconds: 600,
		WindowStartHour: 10,
		WindowEndHour:   18,
		Timezone:        "Europe/London",
		LeaseTTLSeconds: 900,
	}.ToChainConfig()

	assert.Equal(t, 10*time.Minute, chain.Interval())
	assert.Equal(t, 10, chain.WindowStartHour())
	assert.Equal(t, 18, chain.WindowEndHour())
	assert.Equal(t, "Europe/London", chain.Timezone())
	assert.Equal(t, 15*time.Minute, chain.LeaseTTL())
}

func TestParseAPIKeys(t *testing.T) {
	assert.Empty(t, ParseAPIKeys(""))
	assert.Equal(t, []string{"a", "b"}, ParseAPIKeys("a, b,"))
}
