// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/details"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
)

// searchErrorMessage is the only text a client sees when a search fails.
const searchErrorMessage = "An error occurred while fetching search results. Please try again later."

// searchError is the body of a failed search.
type searchError struct {
	Error string `json:"error"`
}

// Search handles GET /api/search and /api/v1/search.
//
// The response is the paged envelope itself, not an APIResponse wrapper:
//
//	{"results": {...}, "errors": {...}, "current_page": 1, "total_pages": 2, "total_results": 31}
//
// Source failures are reported in "errors" with status 200. Only a failure
// of the search itself returns 500.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.parseSearchRequest(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	env, err := h.deps.Search.PerformSearch(r.Context(), req.Query, req.Page, req.PageSize, req.Provider)
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("query", sanitizeLogValue(req.Query)).
			Msg("Search failed")
		writeJSON(w, http.StatusInternalServerError, searchError{Error: searchErrorMessage})
		return
	}

	writeJSON(w, http.StatusOK, env)
}

func (h *Handler) parseSearchRequest(r *http.Request) (*SearchRequest, *models.APIError) {
	defaultSize, maxSize, maxQuery := config.DefaultPageSize, 100, 500
	if h.config != nil {
		defaultSize, maxSize, maxQuery = h.config.API.DefaultPageSize, h.config.API.MaxPageSize, h.config.API.MaxQueryLength
	}

	page, ok := getIntParam(r, "page", 1)
	if !ok {
		return nil, invalidParam("page", "page must be an integer")
	}
	pageSize, ok := getIntParam(r, "page_size", defaultSize)
	if !ok {
		return nil, invalidParam("page_size", "page_size must be an integer")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	q := r.URL.Query()
	if len([]rune(q.Get("q"))) > maxQuery {
		return nil, invalidParam("q", fmt.Sprintf("q must be at most %d characters", maxQuery))
	}
	req := &SearchRequest{
		Query:    q.Get("q"),
		Page:     page,
		PageSize: pageSize,
		Provider: q.Get("provider"),
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

// Details handles GET /api/v1/details/{source}/{id}.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Details == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Detail lookups are not available", nil)
		return
	}

	source := sources.Name(chi.URLParam(r, "source"))
	id := chi.URLParam(r, "id")

	d, err := h.deps.Details.Lookup(r.Context(), source, id)
	switch {
	case errors.Is(err, details.ErrUnknownSource):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Unknown source", nil)
	case errors.Is(err, details.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Record not found", nil)
	case err != nil:
		respondError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch record details", err)
	default:
		respondSuccess(w, http.StatusOK, d, start)
	}
}

// sourcesResponse is the body of GET /api/v1/sources.
type sourcesResponse struct {
	Sources         []sources.SourceStatus `json:"sources"`
	DefaultProvider string                 `json:"default_provider"`
	Providers       []string               `json:"providers"`
}

// Sources handles GET /api/v1/sources.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Sources == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Source registry is not available", nil)
		return
	}

	providers := make([]string, 0, len(sources.Providers))
	for _, p := range sources.Providers {
		providers = append(providers, p.String())
	}

	respondSuccess(w, http.StatusOK, sourcesResponse{
		Sources:         h.deps.Sources.Status(),
		DefaultProvider: h.deps.Sources.DefaultProvider().String(),
		Providers:       providers,
	}, start)
}
