// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package api serves the search envelope, detail lookups and the catalog
// over HTTP using the chi router.
//
// Route groups share one middleware stack: request ID, real IP, panic
// recovery and CORS globally; then rate limiting, security headers and
// Prometheus instrumentation per group. Search carries a second, smaller
// per-IP budget because every search fans out to all sources. /metrics is served by promhttp.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/middleware"
)

// Router sets up HTTP routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Unversioned search path kept for existing clients.
	r.With(
		router.chiMiddleware.RateLimit(),
		router.chiMiddleware.RateLimitSearch(),
		APISecurityHeaders(),
		chiMiddleware(middleware.PrometheusMetrics),
	).Get("/api/search", h.Search)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.With(router.chiMiddleware.RateLimitSearch()).Get("/search", h.Search)
		r.Get("/search/trending", h.Trending)
		r.Get("/details/{source}/{id}", h.Details)
		r.Get("/sources", h.Sources)
		r.Get("/live", h.Live)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Get("/{id}/history", h.ListHistory)
			r.Post("/{id}/history", h.RecordHistory)
			r.Get("/{id}/recommendations", h.Recommendations)
		})

		r.Route("/learning-paths", func(r chi.Router) {
			r.Get("/", h.ListLearningPaths)
			r.Post("/", h.CreateLearningPath)
			r.Get("/{id}", h.GetLearningPath)
			r.Get("/{id}/resources", h.ListLearningPathResources)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.ListResources)
			r.Post("/", h.CreateResource)
			r.Get("/{id}", h.GetResource)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", h.ListCollections)
			r.Post("/", h.CreateCollection)
			r.Get("/{id}", h.GetCollection)
			r.Post("/{id}/resources/{resourceID}", h.AddCollectionResource)
			r.Delete("/{id}/resources/{resourceID}", h.RemoveCollectionResource)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
