// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/arthistory/config.yaml",
	"/etc/arthistory/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the location of the optional .env file.
const DotEnvPathEnvVar = "DOTENV_PATH"

// Defaults referenced outside this package.
const (
	DefaultSystemPrompt = "You are a helpful assistant that provides information about art and history."
	DefaultPageSize     = 20
)

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         90 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			DefaultPageSize: DefaultPageSize,
			MaxPageSize:     100,
			MaxQueryLength:  500,
		},
		Security: SecurityConfig{
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},

			SearchRateLimitReqs: 20,
		},
		HTTPClient: HTTPClientConfig{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			UserAgent:           "ArtHistoryNavigator/1.0 (+https://github.com/DervinEvolve/ArtHistoryNavigator)",
		},
		Sources: SourcesConfig{
			Enabled: []string{
				"wikipedia",
				"internet_archive",
				"met_museum",
				"rijksmuseum",
				"harvard_art_museums",
				"cooper_hewitt",
			},
			RateLimit: 10,
			RateBurst: 5,
			Wikipedia: SourceConfig{
				URL:     "https://en.wikipedia.org/w/api.php",
				Timeout: 10 * time.Second,
				Limit:   10,
			},
			InternetArchive: SourceConfig{
				URL:     "https://archive.org/advancedsearch.php",
				Timeout: 10 * time.Second,
				Limit:   10,
			},
			MetMuseum: MetMuseumConfig{
				URL:               "https://collectionapi.metmuseum.org/public/collection/v1",
				Timeout:           10 * time.Second,
				DetailLimit:       5,
				DetailConcurrency: 5,
			},
			Rijksmuseum: SourceConfig{
				URL:     "https://www.rijksmuseum.nl/api/en/collection",
				Timeout: 10 * time.Second,
				Limit:   5,
			},
			HarvardArt: SourceConfig{
				URL:     "https://api.harvardartmuseums.org/object",
				Timeout: 10 * time.Second,
				Limit:   5,
			},
			CooperHewitt: SourceConfig{
				URL:     "https://api.collection.cooperhewitt.org/rest/",
				Timeout: 10 * time.Second,
				Limit:   5,
			},
		},
		Generative: GenerativeConfig{
			DefaultProvider: "openai",
			SystemPrompt:    DefaultSystemPrompt,
			OpenAI: ProviderConfig{
				BaseURL:   "https://api.openai.com/v1/",
				Model:     "gpt-3.5-turbo",
				Timeout:   30 * time.Second,
				MaxTokens: 800,
			},
			Perplexity: ProviderConfig{
				BaseURL:   "https://api.perplexity.ai/",
				Model:     "sonar",
				Timeout:   30 * time.Second,
				MaxTokens: 800,
			},
		},
		Details: DetailsConfig{
			CacheTTL:        10 * time.Minute,
			CacheMaxEntries: 1000,
			Timeout:         10 * time.Second,
		},
		History: HistoryConfig{
			Backend:          "memory",
			BadgerPath:       "/data/history",
			BadgerGCInterval: 10 * time.Minute,
			RedisAddr:        "localhost:6379",
			RedisKey:         "arthistory:search_history",
		},
		Database: DatabaseConfig{
			Path:      "/data/arthistory.duckdb",
			MaxMemory: "512MB",
			Threads:   0,

			CheckpointInterval: 5 * time.Minute,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			Subject:        "search.performed",
			ConnectTimeout: 5 * time.Second,
		},
		Recommend: RecommendConfig{
			RefreshInterval: 5 * time.Minute,
			TrendingSize:    20,
			DefaultLimit:    5,
			MaxLimit:        50,
			TagWeight:       1.0,
			SourceWeight:    0.25,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. .env File: loaded into the process environment, existing variables win
//  4. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// OPENAI_API_KEY -> generative.openai.api_key
	// HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads DOTENV_PATH (or ./.env) when present. A missing file is
// not an error; an unreadable or malformed one is.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"sources.enabled",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars always arrive as strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// The API key names match the variables the upstream providers document.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"api_max_query_length":  "api.max_query_length",

	// Security
	"rate_limit_requests":        "security.rate_limit_reqs",
	"rate_limit_window":          "security.rate_limit_window",
	"disable_rate_limit":         "security.rate_limit_disabled",
	"search_rate_limit_requests": "security.search_rate_limit_reqs",
	"cors_origins":               "security.cors_origins",

	// Pooled HTTP client
	"http_client_max_idle_conns":          "http_client.max_idle_conns",
	"http_client_max_idle_conns_per_host": "http_client.max_idle_conns_per_host",
	"http_client_idle_conn_timeout":       "http_client.idle_conn_timeout",
	"http_client_user_agent":              "http_client.user_agent",

	// Sources
	"sources_enabled":    "sources.enabled",
	"sources_rate_limit": "sources.rate_limit",
	"sources_rate_burst": "sources.rate_burst",

	"wikipedia_url":     "sources.wikipedia.url",
	"wikipedia_timeout": "sources.wikipedia.timeout",
	"wikipedia_limit":   "sources.wikipedia.limit",

	"internet_archive_url":     "sources.internet_archive.url",
	"internet_archive_timeout": "sources.internet_archive.timeout",
	"internet_archive_limit":   "sources.internet_archive.limit",

	"met_museum_url":                "sources.met_museum.url",
	"met_museum_timeout":            "sources.met_museum.timeout",
	"met_museum_detail_limit":       "sources.met_museum.detail_limit",
	"met_museum_detail_concurrency": "sources.met_museum.detail_concurrency",

	"rijksmuseum_url":     "sources.rijksmuseum.url",
	"rijksmuseum_api_key": "sources.rijksmuseum.api_key",
	"rijksmuseum_timeout": "sources.rijksmuseum.timeout",
	"rijksmuseum_limit":   "sources.rijksmuseum.limit",

	"harvard_art_museums_url":     "sources.harvard_art_museums.url",
	"harvard_art_museums_api_key": "sources.harvard_art_museums.api_key",
	"harvard_art_museums_timeout": "sources.harvard_art_museums.timeout",
	"harvard_art_museums_limit":   "sources.harvard_art_museums.limit",

	"cooper_hewitt_url":     "sources.cooper_hewitt.url",
	"cooper_hewitt_api_key": "sources.cooper_hewitt.api_key",
	"cooper_hewitt_timeout": "sources.cooper_hewitt.timeout",
	"cooper_hewitt_limit":   "sources.cooper_hewitt.limit",

	// Generative providers
	"generative_provider":      "generative.default_provider",
	"generative_system_prompt": "generative.system_prompt",

	"openai_api_key":    "generative.openai.api_key",
	"openai_base_url":   "generative.openai.base_url",
	"openai_model":      "generative.openai.model",
	"openai_timeout":    "generative.openai.timeout",
	"openai_max_tokens": "generative.openai.max_tokens",

	"perplexity_api_key":    "generative.perplexity.api_key",
	"perplexity_base_url":   "generative.perplexity.base_url",
	"perplexity_model":      "generative.perplexity.model",
	"perplexity_timeout":    "generative.perplexity.timeout",
	"perplexity_max_tokens": "generative.perplexity.max_tokens",

	// Details
	"details_cache_ttl":         "details.cache_ttl",
	"details_cache_max_entries": "details.cache_max_entries",
	"details_timeout":           "details.timeout",

	// History
	"history_backend":            "history.backend",
	"history_badger_path":        "history.badger_path",
	"history_badger_gc_interval": "history.badger_gc_interval",
	"history_redis_addr":         "history.redis_addr",
	"history_redis_password":     "history.redis_password",
	"history_redis_db":           "history.redis_db",
	"history_redis_key":          "history.redis_key",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"duckdb_checkpoint_interval": "database.checkpoint_interval",

	// NATS
	"nats_enabled":         "nats.enabled",
	"nats_url":             "nats.url",
	"nats_subject":         "nats.subject",
	"nats_connect_timeout": "nats.connect_timeout",

	// Recommendations
	"recommend_refresh_interval": "recommend.refresh_interval",
	"recommend_trending_size":    "recommend.trending_size",
	"recommend_default_limit":    "recommend.default_limit",
	"recommend_max_limit":        "recommend.max_limit",
	"recommend_tag_weight":       "recommend.tag_weight",
	"recommend_source_weight":    "recommend.source_weight",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so that unrelated environment
// variables never pollute the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
