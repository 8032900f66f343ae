// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package config loads ArtHistoryNavigator configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. .env File: Optional dotenv file, never overriding variables already set
//  4. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Search sources: upstream adapters (Wikipedia, Internet Archive, the Met,
//     Rijksmuseum, Harvard Art Museums, Cooper Hewitt) and the generative
//     providers (OpenAI, Perplexity)
//  2. Infrastructure: HTTP server, pooled HTTP client, DuckDB catalog, search
//     history store, NATS events
//  3. API & Security: pagination bounds, CORS, inbound rate limiting
//  4. Observability: logging
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	registry := sources.NewRegistry(cfg, client)
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	HTTPClient HTTPClientConfig `koanf:"http_client"`
	Sources    SourcesConfig    `koanf:"sources"`
	Generative GenerativeConfig `koanf:"generative"`
	Details    DetailsConfig    `koanf:"details"`
	History    HistoryConfig    `koanf:"history"`
	Database   DatabaseConfig   `koanf:"database"`
	NATS       NATSConfig       `koanf:"nats"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// APIConfig holds API pagination settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
	MaxQueryLength  int `koanf:"max_query_length"`
}

// SecurityConfig holds inbound request protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// SearchRateLimitReqs caps searches per client per window. Each search
	// fans out to every source, so it is kept below RateLimitReqs.
	SearchRateLimitReqs int `koanf:"search_rate_limit_reqs"`
}

// HTTPClientConfig tunes the single pooled client shared by every adapter.
type HTTPClientConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"`
	UserAgent           string        `koanf:"user_agent"`
}

// SourceConfig configures one upstream search adapter.
type SourceConfig struct {
	// URL is the full search endpoint.
	URL string `koanf:"url"`

	// APIKey is only read by sources that require one.
	APIKey string `koanf:"api_key"`

	// Timeout bounds one call to this source. Range: 1s to 60s.
	Timeout time.Duration `koanf:"timeout"`

	// Limit caps the number of items requested. Range: 1 to 50.
	Limit int `koanf:"limit"`
}

// MetMuseumConfig configures the two-phase Met adapter.
type MetMuseumConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`

	// DetailLimit is how many object IDs from phase 1 get a detail fetch. Range: 1 to 10.
	DetailLimit int `koanf:"detail_limit"`

	// DetailConcurrency bounds in-flight detail fetches.
	DetailConcurrency int `koanf:"detail_concurrency"`
}

// SourcesConfig holds every mandatory search adapter.
type SourcesConfig struct {
	// Enabled lists the source names that are dispatched on every search.
	Enabled []string `koanf:"enabled"`

	// RateLimit is the per-source outbound request rate (requests/second).
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	Wikipedia       SourceConfig    `koanf:"wikipedia"`
	InternetArchive SourceConfig    `koanf:"internet_archive"`
	MetMuseum       MetMuseumConfig `koanf:"met_museum"`
	Rijksmuseum     SourceConfig    `koanf:"rijksmuseum"`
	HarvardArt      SourceConfig    `koanf:"harvard_art_museums"`
	CooperHewitt    SourceConfig    `koanf:"cooper_hewitt"`
}

// ProviderConfig configures one chat-completions provider.
type ProviderConfig struct {
	APIKey    string        `koanf:"api_key"`
	BaseURL   string        `koanf:"base_url"`
	Model     string        `koanf:"model"`
	Timeout   time.Duration `koanf:"timeout"`
	MaxTokens int           `koanf:"max_tokens"`
}

// GenerativeConfig holds the generative adapter settings.
type GenerativeConfig struct {
	// DefaultProvider is used when a request names no provider or an unknown one.
	DefaultProvider string `koanf:"default_provider"`
	SystemPrompt    string `koanf:"system_prompt"`

	OpenAI     ProviderConfig `koanf:"openai"`
	Perplexity ProviderConfig `koanf:"perplexity"`
}

// DetailsConfig configures record detail lookups.
type DetailsConfig struct {
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
	Timeout         time.Duration `koanf:"timeout"`
}

// HistoryConfig selects and configures the search-history counter store.
type HistoryConfig struct {
	// Backend is one of: memory, badger, redis.
	Backend string `koanf:"backend"`

	BadgerPath       string        `koanf:"badger_path"`
	BadgerGCInterval time.Duration `koanf:"badger_gc_interval"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`
}

// DatabaseConfig holds DuckDB settings for the catalog.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default

	// CheckpointInterval is how often the WAL is folded into the file.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// NATSConfig configures search event publishing.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	Subject        string        `koanf:"subject"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// RecommendConfig configures the recommendation helper.
type RecommendConfig struct {
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	TrendingSize    int           `koanf:"trending_size"`
	DefaultLimit    int           `koanf:"default_limit"`
	MaxLimit        int           `koanf:"max_limit"`

	// TagWeight and SourceWeight scale the tag_overlap and source_affinity
	// scores. A zero weight disables that algorithm.
	TagWeight    float64 `koanf:"tag_weight"`
	SourceWeight float64 `koanf:"source_weight"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, optional config file, optional .env
// file and the environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// MaxSourceTimeout returns the largest per-call timeout across the enabled
// search sources and both generative providers.
func (c *Config) MaxSourceTimeout() time.Duration {
	timeouts := []time.Duration{
		c.Sources.Wikipedia.Timeout,
		c.Sources.InternetArchive.Timeout,
		c.Sources.MetMuseum.Timeout,
		c.Sources.Rijksmuseum.Timeout,
		c.Sources.HarvardArt.Timeout,
		c.Sources.CooperHewitt.Timeout,
		c.Generative.OpenAI.Timeout,
		c.Generative.Perplexity.Timeout,
	}

	var maxTimeout time.Duration
	for _, t := range timeouts {
		if t > maxTimeout {
			maxTimeout = t
		}
	}
	return maxTimeout
}

// SourceEnabled reports whether name is listed in sources.enabled.
func (c *Config) SourceEnabled(name string) bool {
	for _, n := range c.Sources.Enabled {
		if n == name {
			return true
		}
	}
	return false
}
