// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package upstream

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"
)

var (
	// ErrTimeout means the call did not complete within its deadline.
	ErrTimeout = errors.New("upstream timeout")

	// ErrMissingAPIKey means a source that requires a key has none configured.
	// It is returned before any I/O is attempted.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Envelope reasons. Clients only ever see these strings.
const (
	ReasonTimeout       = "timeout"
	ReasonMissingAPIKey = "missing API key"
	ReasonCircuitOpen   = "circuit open"
	ReasonMalformed     = "malformed response"
	ReasonCanceled      = "canceled"
	ReasonFailed        = "request failed"
)

// StatusError is returned for any non-200 upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// DecodeError is returned when an upstream body cannot be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a deadline failure.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCircuitOpen reports whether err was produced by a breaker refusing the call.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Reason maps err to the short, fixed string placed in a search envelope.
// Raw error text never leaves the process.
func Reason(err error) string {
	var (
		statusErr *StatusError
		decodeErr *DecodeError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return ReasonMissingAPIKey
	case IsCircuitOpen(err):
		return ReasonCircuitOpen
	case IsTimeout(err):
		return ReasonTimeout
	case errors.As(err, &statusErr):
		return fmt.Sprintf("upstream returned status %d", statusErr.StatusCode)
	case errors.As(err, &decodeErr):
		return ReasonMalformed
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	default:
		return ReasonFailed
	}
}
