// Package config provides configuration management for the paper
// analysis service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the paper analysis service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Search contains search source API configurations.
	Search SearchConfig `mapstructure:"search"`
	// AI contains generative-AI provider settings.
	AI AIConfig `mapstructure:"ai"`
	// Bias contains bias analysis settings.
	Bias BiasConfig `mapstructure:"bias"`
	// Analysis contains similarity pipeline settings.
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxUploadBytes caps the size of uploaded documents.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for the metrics endpoint.
	Path string `mapstructure:"path"`
	// Namespace prefixes all metric names.
	Namespace string `mapstructure:"namespace"`
}

// SearchConfig holds search source configurations.
type SearchConfig struct {
	// SemanticScholar contains Semantic Scholar API settings.
	SemanticScholar SemanticScholarConfig `mapstructure:"semantic_scholar"`
	// OpenAlex contains OpenAlex API settings.
	OpenAlex OpenAlexConfig `mapstructure:"openalex"`
	// IEEE contains IEEE Xplore API settings.
	IEEE IEEEConfig `mapstructure:"ieee"`
	// ArXiv contains arXiv API settings.
	ArXiv ArXivConfig `mapstructure:"arxiv"`
	// PaperFinder contains generative fallback source settings.
	PaperFinder PaperFinderConfig `mapstructure:"paper_finder"`
}

// SemanticScholarConfig holds Semantic Scholar settings.
type SemanticScholarConfig struct {
	// Enabled switches this source on.
	Enabled bool `mapstructure:"enabled"`
	// APIKey raises rate limits when set. Loaded from environment only.
	APIKey string `mapstructure:"-"`
	// BaseURL overrides the API base URL, mainly for tests.
	BaseURL string `mapstructure:"base_url"`
	// RateLimit is the client-side requests-per-second cap.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenAlexConfig holds OpenAlex settings.
type OpenAlexConfig struct {
	// Enabled switches this source on.
	Enabled bool `mapstructure:"enabled"`
	// BaseURL overrides the API base URL, mainly for tests.
	BaseURL string `mapstructure:"base_url"`
	// Mailto is the contact address sent for polite-pool access.
	Mailto string `mapstructure:"mailto"`
	// RateLimit is the client-side requests-per-second cap.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// IEEEConfig holds IEEE Xplore settings. The source stays silent without
// an API key.
type IEEEConfig struct {
	// Enabled switches this source on.
	Enabled bool `mapstructure:"enabled"`
	// APIKey is required for any IEEE request. Loaded from environment only.
	APIKey string `mapstructure:"-"`
	// BaseURL overrides the API base URL, mainly for tests.
	BaseURL string `mapstructure:"base_url"`
	// RateLimit is the client-side requests-per-second cap.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ArXivConfig holds arXiv settings.
type ArXivConfig struct {
	// Enabled switches this source on.
	Enabled bool `mapstructure:"enabled"`
	// BaseURL overrides the API base URL, mainly for tests.
	BaseURL string `mapstructure:"base_url"`
	// RateLimit is the client-side requests-per-second cap.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// PaperFinderConfig holds generative fallback source settings.
type PaperFinderConfig struct {
	// Enabled switches the fallback on. It also requires a configured AI
	// provider to actually run.
	Enabled bool `mapstructure:"enabled"`
	// MaxResults caps suggestions requested per fallback invocation.
	MaxResults int `mapstructure:"max_results"`
}

// AIConfig holds generative-AI provider settings. Providers are tried in
// order: Gemini first, OpenRouter as fallback.
type AIConfig struct {
	// Gemini contains Google Gemini settings.
	Gemini GeminiConfig `mapstructure:"gemini"`
	// OpenRouter contains OpenRouter settings.
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
}

// GeminiConfig holds Google Gemini provider settings.
type GeminiConfig struct {
	// APIKey enables the provider. Loaded from environment only.
	APIKey string `mapstructure:"-"`
	// Model is the model identifier.
	Model string `mapstructure:"model"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetries is the retry count for transient failures.
	MaxRetries int `mapstructure:"max_retries"`
}

// OpenRouterConfig holds OpenRouter provider settings.
type OpenRouterConfig struct {
	// APIKey enables the provider. Loaded from environment only.
	APIKey string `mapstructure:"-"`
	// Model is the model identifier.
	Model string `mapstructure:"model"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetries is the retry count for transient failures.
	MaxRetries int `mapstructure:"max_retries"`
}

// BiasConfig holds bias analysis settings.
type BiasConfig struct {
	// Enabled switches bias analysis on.
	Enabled bool `mapstructure:"enabled"`
	// CacheTTL is the lifetime of cached analysis results.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// MaxInputChars caps the text sent to a provider.
	MaxInputChars int `mapstructure:"max_input_chars"`
}

// AnalysisConfig holds similarity pipeline settings.
type AnalysisConfig struct {
	// MaxResultsPerSource caps candidates requested from each source.
	MaxResultsPerSource int `mapstructure:"max_results_per_source"`
	// MinUniqueCandidates triggers the fallback source below this count.
	MinUniqueCandidates int `mapstructure:"min_unique_candidates"`
	// SearchTimeout bounds one round of fan-out searches.
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
}

// Load reads configuration from defaults, an optional config file, and
// environment variables with the PAPERCHECK_ prefix. API keys are read
// exclusively from the environment.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PAPERCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/paper-bias-detection")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment
// variables. These fields are tagged with mapstructure:"-" to prevent
// loading from config files.
func loadSecrets(cfg *Config) {
	cfg.AI.Gemini.APIKey = os.Getenv("PAPERCHECK_AI_GEMINI_API_KEY")
	cfg.AI.OpenRouter.APIKey = os.Getenv("PAPERCHECK_AI_OPENROUTER_API_KEY")
	cfg.Search.SemanticScholar.APIKey = os.Getenv("PAPERCHECK_SEARCH_SEMANTIC_SCHOLAR_API_KEY")
	cfg.Search.IEEE.APIKey = os.Getenv("PAPERCHECK_SEARCH_IEEE_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_upload_bytes", 20*1024*1024)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "paper_analysis")

	// Search source defaults
	v.SetDefault("search.semantic_scholar.enabled", true)
	v.SetDefault("search.semantic_scholar.rate_limit", 1.0)
	v.SetDefault("search.semantic_scholar.timeout", "8s")
	v.SetDefault("search.openalex.enabled", true)
	v.SetDefault("search.openalex.mailto", "research@example.com")
	v.SetDefault("search.openalex.rate_limit", 5.0)
	v.SetDefault("search.openalex.timeout", "8s")
	v.SetDefault("search.ieee.enabled", true)
	v.SetDefault("search.ieee.rate_limit", 1.0)
	v.SetDefault("search.ieee.timeout", "8s")
	v.SetDefault("search.arxiv.enabled", true)
	v.SetDefault("search.arxiv.rate_limit", 1.0)
	v.SetDefault("search.arxiv.timeout", "8s")
	v.SetDefault("search.paper_finder.enabled", true)
	v.SetDefault("search.paper_finder.max_results", 5)

	// AI provider defaults
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini.timeout", "60s")
	v.SetDefault("ai.gemini.max_retries", 2)
	v.SetDefault("ai.openrouter.model", "openai/gpt-oss-120b:free")
	v.SetDefault("ai.openrouter.timeout", "120s")
	v.SetDefault("ai.openrouter.max_retries", 2)

	// Bias analysis defaults
	v.SetDefault("bias.enabled", true)
	v.SetDefault("bias.cache_ttl", "1h")
	v.SetDefault("bias.max_input_chars", 30000)

	// Analysis pipeline defaults
	v.SetDefault("analysis.max_results_per_source", 10)
	v.SetDefault("analysis.min_unique_candidates", 5)
	v.SetDefault("analysis.search_timeout", "15s")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Search.SemanticScholar.RateLimit <= 0 {
		return fmt.Errorf("semantic_scholar rate_limit must be positive")
	}
	if c.Search.OpenAlex.RateLimit <= 0 {
		return fmt.Errorf("openalex rate_limit must be positive")
	}

	if c.Bias.Enabled && c.Bias.MaxInputChars <= 0 {
		return fmt.Errorf("bias max_input_chars must be positive")
	}
	if c.Analysis.MaxResultsPerSource <= 0 {
		return fmt.Errorf("analysis max_results_per_source must be positive")
	}
	if c.Analysis.MinUniqueCandidates < 0 {
		return fmt.Errorf("analysis min_unique_candidates must not be negative")
	}

	return nil
}
