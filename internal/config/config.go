// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                 = "0.0.0.0"
	DefaultPort                 = 8080
	DefaultLogLevel             = "INFO"
	DefaultMediaSubdir          = "media"
	DefaultTrendsGeo            = "US"
	DefaultTrendsCategory       = "958" // Colleges & Universities
	DefaultTrendsDateRange      = "now 4-H"
	DefaultTrendsTimezoneOffset = 300
	DefaultPlacesBaseURL        = "https://places.googleapis.com/v1"
	DefaultPlacesMaxCandidates  = 5
	DefaultPlacesPhotoMaxWidth  = 1600
	DefaultOpenAIBaseURL        = "https://api.openai.com/v1"
	DefaultFactPromptVersion    = "8"
	DefaultScorePromptVersion   = "1"
	DefaultRequestPause         = 2 * time.Second
	DefaultPhotoLimit           = 5
	DefaultFactBatchLimit       = 20
	DefaultScoreBatchLimit      = 20
	DefaultDescriptionMaxLen    = 300
	DefaultChainInterval        = time.Hour
	DefaultChainWindowStart     = 9
	DefaultChainWindowEnd       = 21
	DefaultChainTimezone        = "America/New_York"
	DefaultChainLeaseTTL        = 2 * time.Hour
)

// DefaultSkipKeywords are query substrings that mark a trending query as
// navigational rather than informational. Matching queries are never
// resolved and any record created from the exact query is removed.
var DefaultSkipKeywords = []string{
	"login",
	"portal",
	"sign in",
	"signin",
	"email",
	"application status",
}

// DefaultTrimPhrases are stripped from queries when deriving the cache key,
// so "mit tuition" and "mit admissions" collapse to the same institution.
var DefaultTrimPhrases = []string{
	" login",
	" portal",
	" sign in",
	" signin",
	" email",
	" acceptance rate",
	" admissions",
	" admission",
	" application status",
	" application",
	" tuition",
	" ranking",
	" cost",
	" fees",
}

// DefaultDescriptionTemplates feed the meta description generator.
// :name and :type are interpolated.
var DefaultDescriptionTemplates = []string{
	"Explore :name, a leading :type. Discover admissions, tuition, programs, campus life and everything you need to decide if it is the right fit for you.",
	"Thinking about :name? Get the facts on this :type, from acceptance rates and tuition to majors and student life.",
	"Your complete guide to :name: admission requirements, costs, notable programs and campus culture at this :type.",
	"Learn what makes :name stand out. Rankings, enrollment, tuition and more for this :type, all in one place.",
}

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// TrendsConfig configures the trending-query source.
type TrendsConfig struct {
	apiKey         string
	query          string
	geo            string
	category       string
	dateRange      string
	timezoneOffset int
}

// NewTrendsConfig creates a TrendsConfig with defaults.
func NewTrendsConfig() TrendsConfig {
	return TrendsConfig{
		query:          "university",
		geo:            DefaultTrendsGeo,
		category:       DefaultTrendsCategory,
		dateRange:      DefaultTrendsDateRange,
		timezoneOffset: DefaultTrendsTimezoneOffset,
	}
}

// APIKey returns the SerpApi key.
func (t TrendsConfig) APIKey() string { return t.apiKey }

// Query returns the seed query.
func (t TrendsConfig) Query() string { return t.query }

// Geo returns the geography code.
func (t TrendsConfig) Geo() string { return t.geo }

// Category returns the trends category code.
func (t TrendsConfig) Category() string { return t.category }

// DateRange returns the trends date range expression.
func (t TrendsConfig) DateRange() string { return t.dateRange }

// TimezoneOffset returns the timezone offset in minutes.
func (t TrendsConfig) TimezoneOffset() int { return t.timezoneOffset }

// IsConfigured reports whether an API key is present.
func (t TrendsConfig) IsConfigured() bool { return t.apiKey != "" }

// WithAPIKey returns a copy with the API key set.
func (t TrendsConfig) WithAPIKey(key string) TrendsConfig {
	t.apiKey = key
	return t
}

// WithQuery returns a copy with the seed query set.
func (t TrendsConfig) WithQuery(q string) TrendsConfig {
	t.query = q
	return t
}

// WithGeo returns a copy with the geography code set.
func (t TrendsConfig) WithGeo(geo string) TrendsConfig {
	t.geo = geo
	return t
}

// WithCategory returns a copy with the category code set.
func (t TrendsConfig) WithCategory(cat string) TrendsConfig {
	t.category = cat
	return t
}

// WithDateRange returns a copy with the date range set.
func (t TrendsConfig) WithDateRange(r string) TrendsConfig {
	t.dateRange = r
	return t
}

// WithTimezoneOffset returns a copy with the timezone offset set.
func (t TrendsConfig) WithTimezoneOffset(minutes int) TrendsConfig {
	t.timezoneOffset = minutes
	return t
}

// PlacesConfig configures the place-lookup provider.
type PlacesConfig struct {
	apiKey        string
	baseURL       string
	maxCandidates int
	photoMaxWidth int
}

// NewPlacesConfig creates a PlacesConfig with defaults.
func NewPlacesConfig() PlacesConfig {
	return PlacesConfig{
		baseURL:       DefaultPlacesBaseURL,
		maxCandidates: DefaultPlacesMaxCandidates,
		photoMaxWidth: DefaultPlacesPhotoMaxWidth,
	}
}

// APIKey returns the Places API key.
func (p PlacesConfig) APIKey() string { return p.apiKey }

// BaseURL returns the provider base URL.
func (p PlacesConfig) BaseURL() string { return p.baseURL }

// MaxCandidates returns the text-search candidate limit.
func (p PlacesConfig) MaxCandidates() int { return p.maxCandidates }

// PhotoMaxWidth returns the maximum photo width in pixels.
func (p PlacesConfig) PhotoMaxWidth() int { return p.photoMaxWidth }

// IsConfigured reports whether an API key is present.
func (p PlacesConfig) IsConfigured() bool { return p.apiKey != "" }

// WithAPIKey returns a copy with the API key set.
func (p PlacesConfig) WithAPIKey(key string) PlacesConfig {
	p.apiKey = key
	return p
}

// WithBaseURL returns a copy with the base URL set.
func (p PlacesConfig) WithBaseURL(url string) PlacesConfig {
	p.baseURL = url
	return p
}

// WithMaxCandidates returns a copy with the candidate limit set.
func (p PlacesConfig) WithMaxCandidates(n int) PlacesConfig {
	if n > 0 {
		p.maxCandidates = n
	}
	return p
}

// WithPhotoMaxWidth returns a copy with the photo width set.
func (p PlacesConfig) WithPhotoMaxWidth(n int) PlacesConfig {
	if n > 0 {
		p.photoMaxWidth = n
	}
	return p
}

// AIConfig configures the generative-AI provider.
type AIConfig struct {
	apiKey             string
	baseURL            string
	factPromptID       string
	factPromptVersion  string
	scorePromptID      string
	scorePromptVersion string
	requestPause       time.Duration
}

// NewAIConfig creates an AIConfig with defaults.
func NewAIConfig() AIConfig {
	return AIConfig{
		baseURL:            DefaultOpenAIBaseURL,
		factPromptVersion:  DefaultFactPromptVersion,
		scorePromptVersion: DefaultScorePromptVersion,
		requestPause:       DefaultRequestPause,
	}
}

// APIKey returns the provider API key.
func (a AIConfig) APIKey() string { return a.apiKey }

// BaseURL returns the provider base URL.
func (a AIConfig) BaseURL() string { return a.baseURL }

// FactPromptID returns the fact prompt template id.
func (a AIConfig) FactPromptID() string { return a.factPromptID }

// FactPromptVersion returns the fact prompt template version.
func (a AIConfig) FactPromptVersion() string { return a.factPromptVersion }

// ScorePromptID returns the score prompt template id.
func (a AIConfig) ScorePromptID() string { return a.scorePromptID }

// ScorePromptVersion returns the score prompt template version.
func (a AIConfig) ScorePromptVersion() string { return a.scorePromptVersion }

// RequestPause returns the fixed delay inserted between AI calls.
func (a AIConfig) RequestPause() time.Duration { return a.requestPause }

// IsConfigured reports whether an API key is present.
func (a AIConfig) IsConfigured() bool { return a.apiKey != "" }

// WithAPIKey returns a copy with the API key set.
func (a AIConfig) WithAPIKey(key string) AIConfig {
	a.apiKey = key
	return a
}

// WithBaseURL returns a copy with the base URL set.
func (a AIConfig) WithBaseURL(url string) AIConfig {
	a.baseURL = url
	return a
}

// WithFactPrompt returns a copy with the fact prompt id and version set.
func (a AIConfig) WithFactPrompt(id, version string) AIConfig {
	a.factPromptID = id
	if version != "" {
		a.factPromptVersion = version
	}
	return a
}

// WithScorePrompt returns a copy with the score prompt id and version set.
func (a AIConfig) WithScorePrompt(id, version string) AIConfig {
	a.scorePromptID = id
	if version != "" {
		a.scorePromptVersion = version
	}
	return a
}

// WithRequestPause returns a copy with the inter-call pause set.
func (a AIConfig) WithRequestPause(d time.Duration) AIConfig {
	if d >= 0 {
		a.requestPause = d
	}
	return a
}

// PipelineConfig tunes the enrichment pipeline.
type PipelineConfig struct {
	skipKeywords         []string
	trimPhrases          []string
	photoLimit           int
	factBatchLimit       int
	scoreBatchLimit      int
	descriptionTemplates []string
	descriptionMaxLen    int
}

// NewPipelineConfig creates a PipelineConfig with defaults.
func NewPipelineConfig() PipelineConfig {
	return PipelineConfig{
		skipKeywords:         DefaultSkipKeywords,
		trimPhrases:          DefaultTrimPhrases,
		photoLimit:           DefaultPhotoLimit,
		factBatchLimit:       DefaultFactBatchLimit,
		scoreBatchLimit:      DefaultScoreBatchLimit,
		descriptionTemplates: DefaultDescriptionTemplates,
		descriptionMaxLen:    DefaultDescriptionMaxLen,
	}
}

// SkipKeywords returns the configured skip substrings.
func (p PipelineConfig) SkipKeywords() []string {
	return append([]string(nil), p.skipKeywords...)
}

// TrimPhrases returns the configured trim phrases.
func (p PipelineConfig) TrimPhrases() []string {
	return append([]string(nil), p.trimPhrases...)
}

// PhotoLimit returns the per-institution photo ingest limit.
func (p PipelineConfig) PhotoLimit() int { return p.photoLimit }

// FactBatchLimit returns the fact-fill batch size.
func (p PipelineConfig) FactBatchLimit() int { return p.factBatchLimit }

// ScoreBatchLimit returns the scoring batch size.
func (p PipelineConfig) ScoreBatchLimit() int { return p.scoreBatchLimit }

// DescriptionTemplates returns the meta description template set.
func (p PipelineConfig) DescriptionTemplates() []string {
	return append([]string(nil), p.descriptionTemplates...)
}

// DescriptionMaxLen returns the meta description character limit.
func (p PipelineConfig) DescriptionMaxLen() int { return p.descriptionMaxLen }

// WithSkipKeywords returns a copy with the skip substrings replaced.
func (p PipelineConfig) WithSkipKeywords(kw []string) PipelineConfig {
	if len(kw) > 0 {
		p.skipKeywords = append([]string(nil), kw...)
	}
	return p
}

// WithTrimPhrases returns a copy with the trim phrases replaced.
func (p PipelineConfig) WithTrimPhrases(phrases []string) PipelineConfig {
	if len(phrases) > 0 {
		p.trimPhrases = append([]string(nil), phrases...)
	}
	return p
}

// WithPhotoLimit returns a copy with the photo limit set.
func (p PipelineConfig) WithPhotoLimit(n int) PipelineConfig {
	if n >= 0 {
		p.photoLimit = n
	}
	return p
}

// WithFactBatchLimit returns a copy with the fact batch size set.
func (p PipelineConfig) WithFactBatchLimit(n int) PipelineConfig {
	if n > 0 {
		p.factBatchLimit = n
	}
	return p
}

// WithScoreBatchLimit returns a copy with the score batch size set.
func (p PipelineConfig) WithScoreBatchLimit(n int) PipelineConfig {
	if n > 0 {
		p.scoreBatchLimit = n
	}
	return p
}

// WithDescriptionTemplates returns a copy with the template set replaced.
func (p PipelineConfig) WithDescriptionTemplates(ts []string) PipelineConfig {
	if len(ts) > 0 {
		p.descriptionTemplates = append([]string(nil), ts...)
	}
	return p
}

// WithDescriptionMaxLen returns a copy with the description limit set.
func (p PipelineConfig) WithDescriptionMaxLen(n int) PipelineConfig {
	if n > 0 {
		p.descriptionMaxLen = n
	}
	return p
}

// ChainConfig configures the scheduled stage chain.
type ChainConfig struct {
	enabled         bool
	interval        time.Duration
	windowStartHour int
	windowEndHour   int
	timezone        string
	leaseTTL        time.Duration
}

// NewChainConfig creates a ChainConfig with defaults.
func NewChainConfig() ChainConfig {
	return ChainConfig{
		enabled:         true,
		interval:        DefaultChainInterval,
		windowStartHour: DefaultChainWindowStart,
		windowEndHour:   DefaultChainWindowEnd,
		timezone:        DefaultChainTimezone,
		leaseTTL:        DefaultChainLeaseTTL,
	}
}

// Enabled reports whether the scheduler runs at all.
func (c ChainConfig) Enabled() bool { return c.enabled }

// Interval returns the tick interval between chain attempts.
func (c ChainConfig) Interval() time.Duration { return c.interval }

// WindowStartHour returns the first hour (inclusive) of the daily window.
func (c ChainConfig) WindowStartHour() int { return c.windowStartHour }

// WindowEndHour returns the last hour (exclusive) of the daily window.
func (c ChainConfig) WindowEndHour() int { return c.windowEndHour }

// Timezone returns the IANA timezone the window is evaluated in.
func (c ChainConfig) Timezone() string { return c.timezone }

// LeaseTTL returns how long a cluster lease is honoured before it is
// considered abandoned.
func (c ChainConfig) LeaseTTL() time.Duration { return c.leaseTTL }

// WithEnabled returns a copy with the enabled state set.
func (c ChainConfig) WithEnabled(enabled bool) ChainConfig {
	c.enabled = enabled
	return c
}

// WithInterval returns a copy with the tick interval set.
func (c ChainConfig) WithInterval(d time.Duration) ChainConfig {
	if d > 0 {
		c.interval = d
	}
	return c
}

// WithWindow returns a copy with the daily window hours set.
func (c ChainConfig) WithWindow(startHour, endHour int) ChainConfig {
	c.windowStartHour = startHour
	c.windowEndHour = endHour
	return c
}

// WithTimezone returns a copy with the timezone set.
func (c ChainConfig) WithTimezone(tz string) ChainConfig {
	if tz != "" {
		c.timezone = tz
	}
	return c
}

// WithLeaseTTL returns a copy with the lease TTL set.
func (c ChainConfig) WithLeaseTTL(d time.Duration) ChainConfig {
	if d > 0 {
		c.leaseTTL = d
	}
	return c
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host      string
	port      int
	dataDir   string
	dbURL     string
	logLevel  string
	logFormat LogFormat
	apiKeys   []string
	notifyURL string
	trends    TrendsConfig
	places    PlacesConfig
	ai        AIConfig
	pipeline  PipelineConfig
	chain     ChainConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".campuslist"
	}
	return filepath.Join(home, ".campuslist")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:      DefaultHost,
		port:      DefaultPort,
		dataDir:   dataDir,
		dbURL:     "sqlite:///" + filepath.Join(dataDir, "campuslist.db"),
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		apiKeys:   []string{},
		trends:    NewTrendsConfig(),
		places:    NewPlacesConfig(),
		ai:        NewAIConfig(),
		pipeline:  NewPipelineConfig(),
		chain:     NewChainConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// MediaDir returns the directory stored photos live under.
func (c AppConfig) MediaDir() string {
	return filepath.Join(c.dataDir, DefaultMediaSubdir)
}

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// NotifyURL returns the downstream cache-invalidation URL.
func (c AppConfig) NotifyURL() string { return c.notifyURL }

// Trends returns the trends source config.
func (c AppConfig) Trends() TrendsConfig { return c.trends }

// Places returns the place provider config.
func (c AppConfig) Places() PlacesConfig { return c.places }

// AI returns the generative-AI provider config.
func (c AppConfig) AI() AIConfig { return c.ai }

// Pipeline returns the pipeline tuning config.
func (c AppConfig) Pipeline() PipelineConfig { return c.pipeline }

// Chain returns the scheduled chain config.
func (c AppConfig) Chain() ChainConfig { return c.chain }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// EnsureMediaDir creates the media directory if it doesn't exist.
func (c AppConfig) EnsureMediaDir() error {
	return os.MkdirAll(c.MediaDir(), 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		if c.dbURL == "" || strings.Contains(c.dbURL, "campuslist.db") {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "campuslist.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithNotifyURL sets the downstream cache-invalidation URL.
func WithNotifyURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.notifyURL = url }
}

// WithTrendsConfig sets the trends source config.
func WithTrendsConfig(t TrendsConfig) AppConfigOption {
	return func(c *AppConfig) { c.trends = t }
}

// WithPlacesConfig sets the place provider config.
func WithPlacesConfig(p PlacesConfig) AppConfigOption {
	return func(c *AppConfig) { c.places = p }
}

// WithAIConfig sets the AI provider config.
func WithAIConfig(a AIConfig) AppConfigOption {
	return func(c *AppConfig) { c.ai = a }
}

// WithPipelineConfig sets the pipeline tuning config.
func WithPipelineConfig(p PipelineConfig) AppConfigOption {
	return func(c *AppConfig) { c.pipeline = p }
}

// WithChainConfig sets the scheduled chain config.
func WithChainConfig(ch ChainConfig) AppConfigOption {
	return func(c *AppConfig) { c.chain = ch }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes describing the configuration.
// Secrets are shown as presence flags, never as values.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.Bool("trends_configured", c.trends.IsConfigured()),
		slog.Bool("places_configured", c.places.IsConfigured()),
		slog.Bool("ai_configured", c.ai.IsConfigured()),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Bool("chain_enabled", c.chain.Enabled()),
		slog.Duration("chain_interval", c.chain.Interval()),
		slog.String("chain_timezone", c.chain.Timezone()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

// ParseList parses a comma-separated list, trimming whitespace and
// dropping empty entries.
func ParseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
