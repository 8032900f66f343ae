// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package middleware holds the http.HandlerFunc wrappers shared by every API
// route: request ID propagation and Prometheus instrumentation.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

const (
	requestIDHeader = "X-Request-ID"

	// maxRequestIDLength caps IDs accepted from upstream proxies.
	maxRequestIDLength = 128
)

// RequestID echoes a caller-supplied X-Request-ID, or a fresh UUID when the
// header is missing or unusable, and stores it in the logging context along
// with a new correlation ID. Every source adapter call made for the request
// logs with both.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if !acceptableRequestID(id) {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := logging.ContextWithRequestID(r.Context(), id)
		ctx = logging.ContextWithNewCorrelationID(ctx)
		next(w, r.WithContext(ctx))
	}
}

// acceptableRequestID allows non-empty printable ASCII up to the length cap,
// so the ID can be logged and echoed without escaping.
func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}
