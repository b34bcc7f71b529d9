// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for strategies that make network
// requests.
type HTTPConfig struct {
	// Timeout is the per-call HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// QueryTimeout bounds the whole composite query, covering the
	// literature search and the fan-out combined.
	QueryTimeout time.Duration `json:"query_timeout" yaml:"query_timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BackendConfig configures the remote orchestration backend strategy.
type BackendConfig struct {
	// Enabled controls whether backend delegation is attempted.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// BaseURL is the backend service root (e.g. "http://localhost:8000").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// HealthTimeout bounds the /health probe (default 5s).
	HealthTimeout time.Duration `json:"health_timeout" yaml:"health_timeout"`
}

// FutureHouseConfig configures the direct third-party research API strategy.
type FutureHouseConfig struct {
	// Enabled controls whether direct API calls are attempted.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// BaseURL is the API root.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the bearer token.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// OpenAIConfig configures the language-model substitute strategy, intended
// for development with a real model but without the research API.
type OpenAIConfig struct {
	// APIKey enables the strategy when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (empty means the public API).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the chat model identifier (default "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// MaxTokens caps completion length (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature controls sampling (default 0.1).
	Temperature float32 `json:"temperature" yaml:"temperature"`
}

// StrategiesConfig groups the per-strategy settings. The fixture strategy
// needs no configuration and is always available as the final fallback.
type StrategiesConfig struct {
	OpenAI      OpenAIConfig      `json:"openai" yaml:"openai"`
	Backend     BackendConfig     `json:"backend" yaml:"backend"`
	FutureHouse FutureHouseConfig `json:"futurehouse" yaml:"futurehouse"`
}

// CacheConfig holds settings for the query result cache.
type CacheConfig struct {
	// TTL is how long a completed result stays cached (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// DefaultsConfig holds fallback values applied to queries that omit them.
type DefaultsConfig struct {
	CitationStyle CitationStyle `json:"citation_style" yaml:"citation_style"`
	SynthesisType SynthesisType `json:"synthesis_type" yaml:"synthesis_type"`
	AnalysisDepth AnalysisDepth `json:"analysis_depth" yaml:"analysis_depth"`
	MaxResults    int           `json:"max_results" yaml:"max_results"`
}

// WorkspaceConfig holds settings for workspace persistence.
type WorkspaceConfig struct {
	// DBPath is the SQLite database path (empty selects the in-memory store).
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Config groups all orchestrator configuration.
type Config struct {
	Strategies StrategiesConfig `json:"strategies" yaml:"strategies"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	HTTP       HTTPConfig       `json:"http" yaml:"http"`
	Defaults   DefaultsConfig   `json:"defaults" yaml:"defaults"`
	Workspace  WorkspaceConfig  `json:"workspace" yaml:"workspace"`
}

// DefaultConfig returns a Config with every default applied: fixture-only
// strategies, one-hour cache, 60s per-call and 5m composite timeouts.
func DefaultConfig() Config {
	return Config{
		Strategies: StrategiesConfig{
			OpenAI: OpenAIConfig{
				Model:       "gpt-4o-mini",
				MaxTokens:   2048,
				Temperature: 0.1,
			},
			Backend: BackendConfig{
				HealthTimeout: 5 * time.Second,
			},
		},
		Cache: CacheConfig{TTL: time.Hour},
		HTTP: HTTPConfig{
			Timeout:      60 * time.Second,
			QueryTimeout: 5 * time.Minute,
			UserAgent:    "scholar-engine/0.1",
		},
		Defaults: DefaultsConfig{
			CitationStyle: StyleAPA,
			SynthesisType: SynthesisComprehensive,
			AnalysisDepth: DepthDetailed,
			MaxResults:    50,
		},
	}
}

// Normalize fills zero-valued query fields from the configured defaults and
// returns the result. The input query is not modified.
func (c Config) Normalize(q Query) Query {
	if q.MaxResults <= 0 {
		q.MaxResults = c.Defaults.MaxResults
	}
	if !ValidStyle(q.CitationStyle) {
		q.CitationStyle = c.Defaults.CitationStyle
	}
	if q.SynthesisType == "" {
		q.SynthesisType = c.Defaults.SynthesisType
	}
	if q.AnalysisDepth == "" {
		q.AnalysisDepth = c.Defaults.AnalysisDepth
	}
	return q
}
