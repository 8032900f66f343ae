// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

// Version is reported by the readiness probe. Set at build time.
var Version = "dev"

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles readiness probe requests.
// Returns 503 when the catalog database does not answer a ping. Supervised
// services are listed as "service:<name>" components; a restarting service
// is reported but does not fail the probe.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	components := map[string]string{"search": "ok"}

	status, code := "healthy", http.StatusOK
	if h.deps.Catalog != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.deps.Catalog.Ping(ctx); err != nil {
			components["database"] = "unavailable"
			status, code = "unhealthy", http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	}

	if h.deps.Services != nil {
		for _, svc := range h.deps.Services.Services() {
			state := "ok"
			if svc.Failures > 0 {
				state = fmt.Sprintf("restarted %d times: %s", svc.Failures, svc.LastError)
			}
			components["service:"+svc.Name] = state
		}
	}

	health := models.HealthStatus{
		Status:     status,
		Version:    Version,
		Uptime:     time.Since(h.startTime).Seconds(),
		Components: components,
	}
	if code != http.StatusOK {
		respondJSON(w, code, &models.APIResponse{
			Status:   "error",
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: "SERVICE_UNAVAILABLE", Message: "Service is not ready"},
		})
		return
	}
	respondSuccess(w, http.StatusOK, health, start)
}
