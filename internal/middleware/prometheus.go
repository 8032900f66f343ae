// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/metrics"
)

// PrometheusMetrics records request count, latency and in-flight requests.
// The endpoint label is the chi route pattern, so that
// /api/v1/details/wikipedia/123 and /api/v1/details/met_museum/456 share a
// series.
func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		wrapper := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next(wrapper, r)

		metrics.RecordAPIRequest(
			r.Method,
			endpointLabel(r),
			strconv.Itoa(wrapper.statusCode),
			time.Since(start),
		)
	}
}

// unmatchedEndpoint labels requests no route matched. Raw paths would give
// every probe for /wp-admin its own series.
const unmatchedEndpoint = "unmatched"

// endpointLabel is read after the handler ran, when chi has the full pattern.
func endpointLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedEndpoint
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

// WriteHeader captures the status code
func (rw *metricsResponseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack lets websocket upgrades pass through the metrics wrapper. The
// request is recorded with status 101.
func (rw *metricsResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	if !rw.wroteHeader {
		rw.statusCode = http.StatusSwitchingProtocols
		rw.wroteHeader = true
	}
	return h.Hijack()
}
