// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"context"
	"net/http"
	"time"
)

// parseLimit reads and validates ?limit=. 0 means the engine default.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit, ok := getIntParam(r, "limit", 0)
	if !ok {
		respondValidation(w, invalidParam("limit", "limit must be an integer"))
		return 0, false
	}
	req := LimitRequest{Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return 0, false
	}
	return req.Limit, true
}

// Recommendations handles GET /api/v1/users/{id}/recommendations?limit=.
// Unknown users and users without interests get an empty list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Recommend == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Recommendations are not available", nil)
		return
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	recs, err := h.deps.Recommend.Recommend(ctx, userID, limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
		return
	}
	respondSuccess(w, http.StatusOK, listOf(recs), start)
}

// Trending handles GET /api/v1/search/trending?limit=.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Recommend == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Trending searches are not available", nil)
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	entries, err := h.deps.Recommend.Trending(r.Context(), limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "HISTORY_ERROR", "Failed to load trending searches", err)
		return
	}
	respondSuccess(w, http.StatusOK, listOf(entries), start)
}
