// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package upstream

import (
	"context"
	"errors"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/metrics"
)

// BreakerSettings tunes a source's circuit breaker.
type BreakerSettings struct {
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state count reset
	Timeout      time.Duration // open to half-open delay
	MinRequests  uint32        // requests needed before tripping is considered
	FailureRatio float64       // trip at or above this ratio
}

// DefaultBreakerSettings returns the breaker defaults used for every source.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Breaker wraps a gobreaker circuit breaker with Prometheus instrumentation.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[struct{}]
	name string
}

// NewBreaker creates a breaker named after the source it protects.
func NewBreaker(name string, s BreakerSettings) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("source", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("source", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: isBreakerSuccess,
	})

	return &Breaker{cb: cb, name: name}
}

// isBreakerSuccess decides which errors count against the upstream. A
// canceled caller or a 404 for a single record says nothing about the
// upstream's health.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return true
	}
	return false
}

// Execute runs fn through the breaker.
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	case IsCircuitOpen(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Debug().Str("source", b.name).Err(err).Msg("Circuit breaker rejected request")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
	}
	return err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
