// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Endpoint is one upstream's view of the shared client: the pooled
// *http.Client plus that upstream's own rate limiter and circuit breaker.
// It is safe for concurrent use.
type Endpoint struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *Breaker
}

// EndpointOptions configures NewEndpoint.
type EndpointOptions struct {
	RateLimit float64 // requests per second, <= 0 disables limiting
	RateBurst int
	Breaker   BreakerSettings
}

// NewEndpoint wires client with a limiter and breaker for name.
func NewEndpoint(name string, client *http.Client, opts EndpointOptions) *Endpoint {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Endpoint{
		name:    name,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		breaker: NewBreaker(name, opts.Breaker),
	}
}

// Name returns the upstream name used for metrics and logs.
func (e *Endpoint) Name() string { return e.name }

// Client returns the shared pooled client.
func (e *Endpoint) Client() *http.Client { return e.client }

// BreakerState returns the current circuit breaker state.
func (e *Endpoint) BreakerState() string { return e.breaker.State() }

// Call runs fn after the rate limiter admits it and through the breaker.
// Deadline failures are reported as ErrTimeout.
func (e *Endpoint) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := e.limiter.Wait(ctx); err != nil {
		// Wait fails early when the deadline cannot accommodate the delay.
		if ctx.Err() == nil || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: rate limiter: %w", ErrTimeout, err)
		}
		return ctx.Err()
	}

	err := e.breaker.Execute(func() error { return fn(ctx) })
	if err != nil && !IsTimeout(err) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// Fetch GETs reqURL through Call and returns the 200 body.
func (e *Endpoint) Fetch(ctx context.Context, reqURL string) ([]byte, error) {
	var body []byte
	err := e.Call(ctx, func(ctx context.Context) error {
		var err error
		body, err = Get(ctx, e.client, reqURL)
		return err
	})
	return body, err
}
