package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g. PLACES_API_KEY).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.campuslist
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/campuslist.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// NotifyURL is the downstream cache-invalidation endpoint.
	// Env: NOTIFY_URL
	NotifyURL string `envconfig:"NOTIFY_URL"`

	// Trends configures the trending-query source.
	Trends TrendsEnv `envconfig:"TRENDS"`

	// Places configures the place-lookup provider.
	Places PlacesEnv `envconfig:"PLACES"`

	// OpenAI configures the generative-AI provider.
	OpenAI OpenAIEnv `envconfig:"OPENAI"`

	// Pipeline tunes the enrichment pipeline.
	Pipeline PipelineEnv `envconfig:"PIPELINE"`

	// Chain configures the scheduled stage chain.
	Chain ChainEnv `envconfig:"CHAIN"`
}

// TrendsEnv holds environment configuration for the trends source.
type TrendsEnv struct {
	// APIKey is the SerpApi key. Env: TRENDS_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Query is the seed query. Env: TRENDS_QUERY (default: university)
	Query string `envconfig:"QUERY" default:"university"`

	// Geo is the geography code. Env: TRENDS_GEO (default: US)
	Geo string `envconfig:"GEO" default:"US"`

	// Category is the trends category code.
	// Env: TRENDS_CATEGORY (default: 958, Colleges & Universities)
	Category string `envconfig:"CATEGORY" default:"958"`

	// DateRange is the trends date range expression.
	// Env: TRENDS_DATE_RANGE (default: now 4-H)
	DateRange string `envconfig:"DATE_RANGE" default:"now 4-H"`

	// TimezoneOffset is the timezone offset in minutes.
	// Env: TRENDS_TIMEZONE_OFFSET (default: 300)
	TimezoneOffset int `envconfig:"TIMEZONE_OFFSET" default:"300"`
}

// PlacesEnv holds environment configuration for the place provider.
type PlacesEnv struct {
	// APIKey is the Places API key. Env: PLACES_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// BaseURL overrides the provider base URL. Env: PLACES_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// MaxCandidates is the text-search candidate limit.
	// Env: PLACES_MAX_CANDIDATES (default: 5)
	MaxCandidates int `envconfig:"MAX_CANDIDATES" default:"5"`

	// PhotoMaxWidth is the maximum requested photo width in pixels.
	// Env: PLACES_PHOTO_MAX_WIDTH (default: 1600)
	PhotoMaxWidth int `envconfig:"PHOTO_MAX_WIDTH" default:"1600"`
}

// OpenAIEnv holds environment configuration for the AI provider.
type OpenAIEnv struct {
	// APIKey is the provider API key. Env: OPENAI_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// BaseURL overrides the provider base URL. Env: OPENAI_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// FactPromptID is the fact prompt template id.
	// Env: OPENAI_FACT_PROMPT_ID
	FactPromptID string `envconfig:"FACT_PROMPT_ID"`

	// FactPromptVersion is the fact prompt version.
	// Env: OPENAI_FACT_PROMPT_VERSION (default: 8)
	FactPromptVersion string `envconfig:"FACT_PROMPT_VERSION" default:"8"`

	// ScorePromptID is the score prompt template id.
	// Env: OPENAI_SCORE_PROMPT_ID
	ScorePromptID string `envconfig:"SCORE_PROMPT_ID"`

	// ScorePromptVersion is the score prompt version.
	// Env: OPENAI_SCORE_PROMPT_VERSION (default: 1)
	ScorePromptVersion string `envconfig:"SCORE_PROMPT_VERSION" default:"1"`

	// RequestPauseSeconds is the fixed delay between AI calls.
	// Env: OPENAI_REQUEST_PAUSE_SECONDS (default: 2)
	RequestPauseSeconds float64 `envconfig:"REQUEST_PAUSE_SECONDS" default:"2"`
}

// PipelineEnv holds environment configuration for pipeline tuning.
type PipelineEnv struct {
	// SkipKeywords is a comma-separated skip substring list.
	// Env: PIPELINE_SKIP_KEYWORDS
	SkipKeywords string `envconfig:"SKIP_KEYWORDS"`

	// TrimPhrases is a comma-separated trim phrase list. A leading space
	// is added to each phrase so only trailing words match.
	// Env: PIPELINE_TRIM_PHRASES
	TrimPhrases string `envconfig:"TRIM_PHRASES"`

	// PhotoLimit caps photos ingested per institution per run.
	// Env: PIPELINE_PHOTO_LIMIT (default: 5)
	PhotoLimit int `envconfig:"PHOTO_LIMIT" default:"5"`

	// FactBatchLimit caps institutions per fact-fill pass.
	// Env: PIPELINE_FACT_BATCH_LIMIT (default: 20)
	FactBatchLimit int `envconfig:"FACT_BATCH_LIMIT" default:"20"`

	// ScoreBatchLimit caps institutions per scoring pass.
	// Env: PIPELINE_SCORE_BATCH_LIMIT (default: 20)
	ScoreBatchLimit int `envconfig:"SCORE_BATCH_LIMIT" default:"20"`

	// DescriptionMaxLen caps generated meta descriptions.
	// Env: PIPELINE_DESCRIPTION_MAX_LEN (default: 300)
	DescriptionMaxLen int `envconfig:"DESCRIPTION_MAX_LEN" default:"300"`
}

// ChainEnv holds environment configuration for the scheduled chain.
type ChainEnv struct {
	// Enabled controls whether the scheduler runs.
	// Env: CHAIN_ENABLED (default: true)
	Enabled bool `envconfig:"ENABLED" default:"true"`

	// IntervalSeconds is the tick interval between chain attempts.
	// Env: CHAIN_INTERVAL_SECONDS (default: 3600)
	IntervalSeconds float64 `envconfig:"INTERVAL_SECONDS" default:"3600"`

	// WindowStartHour is the first hour (inclusive) of the daily window.
	// Env: CHAIN_WINDOW_START_HOUR (default: 9)
	WindowStartHour int `envconfig:"WINDOW_START_HOUR" default:"9"`

	// WindowEndHour is the last hour (exclusive) of the daily window.
	// Env: CHAIN_WINDOW_END_HOUR (default: 21)
	WindowEndHour int `envconfig:"WINDOW_END_HOUR" default:"21"`

	// Timezone is the IANA zone the window is evaluated in.
	// Env: CHAIN_TIMEZONE (default: America/New_York)
	Timezone string `envconfig:"TIMEZONE" default:"America/New_York"`

	// LeaseTTLSeconds is how long a cluster lease is honoured.
	// Env: CHAIN_LEASE_TTL_SECONDS (default: 7200)
	LeaseTTLSeconds float64 `envconfig:"LEASE_TTL_SECONDS" default:"7200"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.NotifyURL != "" {
		cfg = applyOption(cfg, WithNotifyURL(e.NotifyURL))
	}

	cfg = applyOption(cfg, WithTrendsConfig(e.Trends.ToTrendsConfig()))
	cfg = applyOption(cfg, WithPlacesConfig(e.Places.ToPlacesConfig()))
	cfg = applyOption(cfg, WithAIConfig(e.OpenAI.ToAIConfig()))
	cfg = applyOption(cfg, WithPipelineConfig(e.Pipeline.ToPipelineConfig()))
	cfg = applyOption(cfg, WithChainConfig(e.Chain.ToChainConfig()))

	return cfg
}

func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToTrendsConfig converts TrendsEnv to TrendsConfig.
func (t TrendsEnv) ToTrendsConfig() TrendsConfig {
	return NewTrendsConfig().
		WithAPIKey(t.APIKey).
		WithQuery(t.Query).
		WithGeo(t.Geo).
		WithCategory(t.Category).
		WithDateRange(t.DateRange).
		WithTimezoneOffset(t.TimezoneOffset)
}

// ToPlacesConfig converts PlacesEnv to PlacesConfig.
func (p PlacesEnv) ToPlacesConfig() PlacesConfig {
	cfg := NewPlacesConfig().
		WithAPIKey(p.APIKey).
		WithMaxCandidates(p.MaxCandidates).
		WithPhotoMaxWidth(p.PhotoMaxWidth)
	if p.BaseURL != "" {
		cfg = cfg.WithBaseURL(p.BaseURL)
	}
	return cfg
}

// ToAIConfig converts OpenAIEnv to AIConfig.
func (o OpenAIEnv) ToAIConfig() AIConfig {
	cfg := NewAIConfig().
		WithAPIKey(o.APIKey).
		WithFactPrompt(o.FactPromptID, o.FactPromptVersion).
		WithScorePrompt(o.ScorePromptID, o.ScorePromptVersion).
		WithRequestPause(time.Duration(o.RequestPauseSeconds * float64(time.Second)))
	if o.BaseURL != "" {
		cfg = cfg.WithBaseURL(o.BaseURL)
	}
	return cfg
}

// ToPipelineConfig converts PipelineEnv to PipelineConfig.
func (p PipelineEnv) ToPipelineConfig() PipelineConfig {
	cfg := NewPipelineConfig().
		WithPhotoLimit(p.PhotoLimit).
		WithFactBatchLimit(p.FactBatchLimit).
		WithScoreBatchLimit(p.ScoreBatchLimit).
		WithDescriptionMaxLen(p.DescriptionMaxLen)
	if kw := ParseList(p.SkipKeywords); len(kw) > 0 {
		cfg = cfg.WithSkipKeywords(kw)
	}
	if phrases := ParseList(p.TrimPhrases); len(phrases) > 0 {
		for i, ph := range phrases {
			if !strings.HasPrefix(ph, " ") {
				phrases[i] = " " + ph
			}
		}
		cfg = cfg.WithTrimPhrases(phrases)
	}
	return cfg
}

// ToChainConfig converts ChainEnv to ChainConfig.
func (c ChainEnv) ToChainConfig() ChainConfig {
	return NewChainConfig().
		WithEnabled(c.Enabled).
		WithInterval(time.Duration(c.IntervalSeconds * float64(time.Second))).
		WithWindow(c.WindowStartHour, c.WindowEndHour).
		WithTimezone(c.Timezone).
		WithLeaseTTL(time.Duration(c.LeaseTTLSeconds * float64(time.Second)))
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
