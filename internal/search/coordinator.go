// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package search fans a query out to every source adapter, merges the
// outcomes into one envelope and pages it.
//
// The pieces are kept separate so each can be tested alone:
//
//   - Coordinator.Dispatch runs the adapters concurrently and returns one
//     Outcome per source.
//   - Merge turns outcomes into an Envelope.
//   - Paginate windows an Envelope to a page.
//   - Service.PerformSearch chains the three and runs the optional hooks.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/metrics"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// DefaultGrace is added to the largest adapter timeout to form the global
// fan-out deadline.
const DefaultGrace = 250 * time.Millisecond

// Selector picks the adapters for a request.
type Selector interface {
	Select(ctx context.Context, selector string) []sources.Adapter
}

// Coordinator dispatches a query to a set of adapters.
type Coordinator struct {
	selector Selector
	grace    time.Duration
}

// NewCoordinator creates a coordinator over selector. A grace <= 0 uses
// DefaultGrace.
func NewCoordinator(selector Selector, grace time.Duration) *Coordinator {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Coordinator{selector: selector, grace: grace}
}

// Dispatch runs the mandatory adapters plus the generative adapter chosen by
// provider, and returns one outcome per adapter.
func (c *Coordinator) Dispatch(ctx context.Context, query, provider string) map[sources.Name]Outcome {
	return c.DispatchAdapters(ctx, query, c.selector.Select(ctx, provider))
}

// DispatchAdapters runs adapters concurrently. No branch can fail or cancel
// another; every adapter gets a slot in the result, bounded by its own
// timeout and by the global deadline.
func (c *Coordinator) DispatchAdapters(ctx context.Context, query string, adapters []sources.Adapter) map[sources.Name]Outcome {
	start := time.Now()

	var maxTimeout time.Duration
	for _, a := range adapters {
		maxTimeout = max(maxTimeout, a.Timeout())
	}
	if maxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxTimeout+c.grace)
		defer cancel()
	}

	slots := make([]Outcome, len(adapters))
	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			slots[i] = c.run(ctx, a, query)
			return nil
		})
	}
	_ = g.Wait() // branches never return an error

	outcomes := make(map[sources.Name]Outcome, len(adapters))
	failed := 0
	for i, a := range adapters {
		outcomes[a.Name()] = slots[i]
		if slots[i].Failed() {
			failed++
		}
	}

	metrics.RecordFanout(time.Since(start), failed)
	logging.Ctx(ctx).Debug().
		Int("sources", len(adapters)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Fan-out complete")

	return outcomes
}

type searchResult struct {
	items []sources.Item
	err   error
}

// run calls one adapter under its own timeout. The result is abandoned if the
// adapter outlives its deadline.
func (c *Coordinator) run(ctx context.Context, a sources.Adapter, query string) Outcome {
	start := time.Now()
	name := string(a.Name())

	actx := logging.ContextWithSource(ctx, name)
	if t := a.Timeout(); t > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	done := make(chan searchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchResult{err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()
		items, err := a.Search(actx, query)
		done <- searchResult{items: items, err: err}
	}()

	var res searchResult
	select {
	case res = <-done:
	case <-actx.Done():
		res = searchResult{err: fmt.Errorf("%w: %w", upstream.ErrTimeout, actx.Err())}
	}

	if res.err != nil {
		reason := upstream.Reason(res.err)
		if errors.Is(actx.Err(), context.DeadlineExceeded) {
			reason = upstream.ReasonTimeout
		}
		outcome := metrics.OutcomeFailure
		if reason == upstream.ReasonTimeout {
			outcome = metrics.OutcomeTimeout
		}
		metrics.RecordUpstreamCall(name, outcome, time.Since(start), 0)
		logging.Ctx(ctx).Warn().
			Err(res.err).
			Str("source", name).
			Str("reason", reason).
			Msg("Source failed")
		return Failure(reason)
	}

	metrics.RecordUpstreamCall(name, metrics.OutcomeSuccess, time.Since(start), len(res.items))
	return Success(res.items)
}
