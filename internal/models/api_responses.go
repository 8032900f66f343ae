// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package models

import (
	"time"
)

// APIResponse is the wrapper used by every endpoint except search, which
// returns its envelope unwrapped.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"id": 3, "title": "Dutch Golden Age"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error.
//
// Common codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - NOT_FOUND: record or route does not exist
//   - UPSTREAM_ERROR: a source failed a detail lookup
//   - DATABASE_ERROR: catalog query failure
//   - SEARCH_ERROR: the search itself could not run
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ListResponse wraps a list with its total size.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// HealthStatus is returned by the readiness probe.
type HealthStatus struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Uptime     float64           `json:"uptime_seconds"`
	Components map[string]string `json:"components"`
}
