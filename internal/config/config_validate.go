// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Per-source bounds.
const (
	minSourceTimeout = 1 * time.Second
	maxSourceTimeout = 60 * time.Second
	minSourceLimit   = 1
	maxSourceLimit   = 50
	minMetDetail     = 1
	maxMetDetail     = 10
)

// Rate limit bounds for inbound requests.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// KnownSources is every name accepted in sources.enabled.
var KnownSources = []string{
	"wikipedia",
	"internet_archive",
	"met_museum",
	"rijksmuseum",
	"harvard_art_museums",
	"cooper_hewitt",
}

var validProviders = map[string]bool{
	"openai":     true,
	"perplexity": true,
}

var validHistoryBackends = map[string]bool{
	"memory": true,
	"badger": true,
	"redis":  true,
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateAPI,
		c.validateSecurity,
		c.validateSources,
		c.validateGenerative,
		c.validateServerTimeout,
		c.validateDetails,
		c.validateHistory,
		c.validateDatabase,
		c.validateNATS,
		c.validateRecommend,
		c.validateLogging,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateServerTimeout runs after the per-source checks so that an
// out-of-range source timeout is reported under its own name.
func (c *Config) validateServerTimeout() error {
	// A search may legitimately run for the slowest source's timeout.
	if c.Server.Timeout <= c.MaxSourceTimeout() {
		return fmt.Errorf("HTTP_TIMEOUT (%v) must exceed the largest source timeout (%v)",
			c.Server.Timeout, c.MaxSourceTimeout())
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be at least 1")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	if c.API.MaxQueryLength < 1 {
		return fmt.Errorf("API_MAX_QUERY_LENGTH must be at least 1")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	if c.Security.SearchRateLimitReqs < 0 || c.Security.SearchRateLimitReqs > c.Security.RateLimitReqs {
		return fmt.Errorf("SEARCH_RATE_LIMIT_REQUESTS must be between 0 and RATE_LIMIT_REQUESTS (%d)", c.Security.RateLimitReqs)
	}
	return nil
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateSources() error {
	known := make(map[string]bool, len(KnownSources))
	for _, name := range KnownSources {
		known[name] = true
	}
	for _, name := range c.Sources.Enabled {
		if !known[name] {
			return fmt.Errorf("SOURCES_ENABLED contains unknown source %q (known: %s)",
				name, strings.Join(KnownSources, ", "))
		}
	}

	if c.Sources.RateLimit <= 0 {
		return fmt.Errorf("SOURCES_RATE_LIMIT must be positive")
	}
	if c.Sources.RateBurst < 1 {
		return fmt.Errorf("SOURCES_RATE_BURST must be at least 1")
	}

	simple := []struct {
		env string
		cfg SourceConfig
	}{
		{"WIKIPEDIA", c.Sources.Wikipedia},
		{"INTERNET_ARCHIVE", c.Sources.InternetArchive},
		{"RIJKSMUSEUM", c.Sources.Rijksmuseum},
		{"HARVARD_ART_MUSEUMS", c.Sources.HarvardArt},
		{"COOPER_HEWITT", c.Sources.CooperHewitt},
	}
	for _, s := range simple {
		if err := validateEndpointURL(s.cfg.URL, s.env+"_URL"); err != nil {
			return err
		}
		if err := validateSourceTimeout(s.cfg.Timeout, s.env+"_TIMEOUT"); err != nil {
			return err
		}
		if s.cfg.Limit < minSourceLimit || s.cfg.Limit > maxSourceLimit {
			return fmt.Errorf("%s_LIMIT must be between %d and %d", s.env, minSourceLimit, maxSourceLimit)
		}
	}

	return c.validateMetMuseum()
}

func (c *Config) validateMetMuseum() error {
	met := c.Sources.MetMuseum
	if err := validateEndpointURL(met.URL, "MET_MUSEUM_URL"); err != nil {
		return err
	}
	if err := validateSourceTimeout(met.Timeout, "MET_MUSEUM_TIMEOUT"); err != nil {
		return err
	}
	if met.DetailLimit < minMetDetail || met.DetailLimit > maxMetDetail {
		return fmt.Errorf("MET_MUSEUM_DETAIL_LIMIT must be between %d and %d", minMetDetail, maxMetDetail)
	}
	if met.DetailConcurrency < 1 {
		return fmt.Errorf("MET_MUSEUM_DETAIL_CONCURRENCY must be at least 1")
	}
	return nil
}

func (c *Config) validateGenerative() error {
	if !validProviders[strings.ToLower(c.Generative.DefaultProvider)] {
		return fmt.Errorf("GENERATIVE_PROVIDER must be one of: openai, perplexity")
	}
	if strings.TrimSpace(c.Generative.SystemPrompt) == "" {
		return fmt.Errorf("GENERATIVE_SYSTEM_PROMPT must not be empty")
	}

	for env, p := range map[string]ProviderConfig{
		"OPENAI":     c.Generative.OpenAI,
		"PERPLEXITY": c.Generative.Perplexity,
	} {
		if err := validateEndpointURL(p.BaseURL, env+"_BASE_URL"); err != nil {
			return err
		}
		if p.Model == "" {
			return fmt.Errorf("%s_MODEL is required", env)
		}
		if err := validateSourceTimeout(p.Timeout, env+"_TIMEOUT"); err != nil {
			return err
		}
		if p.MaxTokens < 1 {
			return fmt.Errorf("%s_MAX_TOKENS must be at least 1", env)
		}
	}
	return nil
}

func (c *Config) validateDetails() error {
	if c.Details.CacheTTL <= 0 {
		return fmt.Errorf("DETAILS_CACHE_TTL must be positive")
	}
	if c.Details.CacheMaxEntries < 0 {
		return fmt.Errorf("DETAILS_CACHE_MAX_ENTRIES must not be negative")
	}
	return validateSourceTimeout(c.Details.Timeout, "DETAILS_TIMEOUT")
}

func (c *Config) validateHistory() error {
	if !validHistoryBackends[c.History.Backend] {
		return fmt.Errorf("HISTORY_BACKEND must be one of: memory, badger, redis")
	}
	switch c.History.Backend {
	case "badger":
		if c.History.BadgerPath == "" {
			return fmt.Errorf("HISTORY_BADGER_PATH is required when HISTORY_BACKEND=badger")
		}
		if c.History.BadgerGCInterval <= 0 {
			return fmt.Errorf("HISTORY_BADGER_GC_INTERVAL must be positive")
		}
	case "redis":
		if c.History.RedisAddr == "" {
			return fmt.Errorf("HISTORY_REDIS_ADDR is required when HISTORY_BACKEND=redis")
		}
		if c.History.RedisKey == "" {
			return fmt.Errorf("HISTORY_REDIS_KEY is required when HISTORY_BACKEND=redis")
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	if c.Database.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("NATS_SUBJECT is required when NATS_ENABLED=true")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.RefreshInterval <= 0 {
		return fmt.Errorf("RECOMMEND_REFRESH_INTERVAL must be positive")
	}
	if c.Recommend.TrendingSize < 1 {
		return fmt.Errorf("RECOMMEND_TRENDING_SIZE must be at least 1")
	}
	if c.Recommend.DefaultLimit < 1 || c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be between 1 and RECOMMEND_MAX_LIMIT (%d)", c.Recommend.MaxLimit)
	}
	if c.Recommend.TagWeight < 0 || c.Recommend.SourceWeight < 0 {
		return fmt.Errorf("RECOMMEND_TAG_WEIGHT and RECOMMEND_SOURCE_WEIGHT must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func validateSourceTimeout(d time.Duration, fieldName string) error {
	if d < minSourceTimeout || d > maxSourceTimeout {
		return fmt.Errorf("%s must be between %v and %v", fieldName, minSourceTimeout, maxSourceTimeout)
	}
	return nil
}

// validateEndpointURL validates an absolute http(s) URL. Unlike a base URL it
// may carry a path and query string.
func validateEndpointURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted
// Supports: nats://, tls://, ws:// and wss:// schemes
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222)")
	}
	return nil
}
