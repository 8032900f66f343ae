// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

// ChiMiddlewareConfig holds inbound limits and CORS settings.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string

	// RateLimitRequests per RateLimitWindow per client IP, across the API.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// SearchRateLimitRequests is a separate, smaller budget for search
	// requests. Zero leaves search under the general limit only.
	SearchRateLimitRequests int
}

// DefaultChiMiddlewareConfig allows no cross-origin callers until configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins:      []string{},
		RateLimitRequests:       100,
		RateLimitWindow:         time.Minute,
		SearchRateLimitRequests: 20,
	}
}

// NewChiMiddlewareFromConfig builds the middleware set from the security section.
func NewChiMiddlewareFromConfig(sec config.SecurityConfig) *ChiMiddleware {
	return NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins:      sec.CORSOrigins,
		RateLimitRequests:       sec.RateLimitReqs,
		RateLimitWindow:         sec.RateLimitWindow,
		RateLimitDisabled:       sec.RateLimitDisabled,
		SearchRateLimitRequests: sec.SearchRateLimitReqs,
	})
}

// ChiMiddleware hands out the router's CORS and rate limiting middleware.
// Limiters are built once so that every route in a group shares counters.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler

	api    func(http.Handler) http.Handler
	health func(http.Handler) http.Handler
	search func(http.Handler) http.Handler
}

// NewChiMiddleware builds the middleware set. A nil cfg uses the defaults.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}

	m := &ChiMiddleware{
		config: cfg,
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "ETag", "X-RateLimit-Remaining"},
			MaxAge:         int((24 * time.Hour).Seconds()),
		}),
	}
	m.api = m.limiter(cfg.RateLimitRequests, "API")
	m.health = m.limiter(cfg.RateLimitRequests*10, "Health check")
	m.search = m.limiter(cfg.SearchRateLimitRequests, "Search")
	return m
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit is the general per-IP limiter for API routes.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.api
}

// RateLimitHealth is a permissive limiter for probes.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.health
}

// RateLimitSearch applies the search budget on top of RateLimit.
func (m *ChiMiddleware) RateLimitSearch() func(http.Handler) http.Handler {
	return m.search
}

func (m *ChiMiddleware) limiter(requests int, what string) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	window := m.config.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", retryAfter)
			respondJSON(w, http.StatusTooManyRequests, &models.APIResponse{
				Status:   "error",
				Metadata: models.Metadata{Timestamp: time.Now().UTC()},
				Error: &models.APIError{
					Code:    "RATE_LIMIT_EXCEEDED",
					Message: what + " rate limit exceeded",
					Details: map[string]interface{}{"limit": requests, "window": window.String()},
				},
			})
		}),
	)
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// APISecurityHeaders adds standard security headers to API responses.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			// Responses only carry JSON; nothing should ever be embedded or executed.
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
