// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package metrics exposes the Prometheus instrumentation for the aggregator:
// HTTP API traffic, upstream source calls, fan-out latency, circuit breakers,
// the detail cache, the search history store and published events.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of active API requests",
		},
	)

	// Upstream Source Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream source calls by outcome",
		},
		[]string{"source", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream source calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	UpstreamResultCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_result_count",
			Help:    "Number of items returned by a successful upstream call",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"source"},
	)

	FanoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_fanout_duration_seconds",
			Help:    "Wall time of a full search fan-out across all sources",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	FanoutFailedSources = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_fanout_failed_sources",
			Help:    "Number of sources that failed within a single fan-out",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Detail Cache Metrics
	DetailCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detail_cache_hits_total",
			Help: "Total number of detail cache hits",
		},
		[]string{"source"},
	)

	DetailCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detail_cache_misses_total",
			Help: "Total number of detail cache misses",
		},
		[]string{"source"},
	)

	// History Metrics
	HistoryIncrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_history_increments_total",
			Help: "Total number of search history counter increments",
		},
		[]string{"backend", "result"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"subject", "result"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamCall records the outcome of one adapter invocation. items is
// only observed for successful calls.
func RecordUpstreamCall(source, outcome string, duration time.Duration, items int) {
	UpstreamRequestsTotal.WithLabelValues(source, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		UpstreamResultCount.WithLabelValues(source).Observe(float64(items))
	}
}

// RecordFanout records a completed fan-out.
func RecordFanout(duration time.Duration, failed int) {
	FanoutDuration.Observe(duration.Seconds())
	FanoutFailedSources.Observe(float64(failed))
}

// RecordDetailCache records a detail cache lookup.
func RecordDetailCache(source string, hit bool) {
	if hit {
		DetailCacheHits.WithLabelValues(source).Inc()
		return
	}
	DetailCacheMisses.WithLabelValues(source).Inc()
}

// RecordHistoryIncrement records a history store write.
func RecordHistoryIncrement(backend string, err error) {
	HistoryIncrements.WithLabelValues(backend, resultLabel(err)).Inc()
}

// RecordEventPublish records a publish attempt on subject.
func RecordEventPublish(subject string, err error) {
	EventsPublished.WithLabelValues(subject, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
