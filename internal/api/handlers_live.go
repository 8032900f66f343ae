// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"net/http"
)

// Live hands the request to the websocket hub.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	if h.deps.Live == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Live search feed is not available", nil)
		return
	}
	h.deps.Live.ServeHTTP(w, r)
}
