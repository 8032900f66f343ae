// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

func TestDispatch_PartialFailure(t *testing.T) {
	t.Parallel()

	a := &fakeAdapter{name: "a", timeout: time.Second, items: 3}
	b := &fakeAdapter{name: "b", timeout: 50 * time.Millisecond, delay: time.Minute}
	c := &fakeAdapter{name: "c", timeout: time.Second}

	c1 := NewCoordinator(staticSet(a, b, c), 10*time.Millisecond)
	env := Merge(c1.Dispatch(context.Background(), "rembrandt", ""))
	paged := Paginate(env, 1, 20)

	if len(paged.Results["a"]) != 3 || len(paged.Results["b"]) != 0 || len(paged.Results["c"]) != 0 {
		t.Errorf("unexpected results: %v", paged.Results)
	}
	if len(paged.Errors) != 1 || paged.Errors["b"] != upstream.ReasonTimeout {
		t.Errorf("errors = %v, want {b: timeout}", paged.Errors)
	}
	if paged.TotalResults != 3 {
		t.Errorf("total_results = %d, want 3", paged.TotalResults)
	}
}

func TestDispatch_TimeoutIsolation(t *testing.T) {
	t.Parallel()

	adapters := []sources.Adapter{
		&fakeAdapter{name: "hung", timeout: 100 * time.Millisecond, hang: true},
		&fakeAdapter{name: "slow", timeout: 200 * time.Millisecond, delay: 50 * time.Millisecond, items: 2},
		&fakeAdapter{name: "fast", timeout: 200 * time.Millisecond, items: 1},
	}
	for i := range 5 {
		adapters = append(adapters, &fakeAdapter{
			name:    sources.Name(fmt.Sprintf("sleepy-%d", i)),
			timeout: 150 * time.Millisecond,
			delay:   time.Minute,
		})
	}

	c := NewCoordinator(staticSet(adapters...), 50*time.Millisecond)

	start := time.Now()
	outcomes := c.DispatchAdapters(context.Background(), "q", adapters)
	elapsed := time.Since(start)

	// Sequential timeouts would take well over a second.
	if elapsed > 600*time.Millisecond {
		t.Errorf("fan-out took %v, expected roughly the largest timeout", elapsed)
	}
	if !outcomes["hung"].Failed() || outcomes["hung"].Reason != upstream.ReasonTimeout {
		t.Errorf("hung outcome = %+v, want timeout failure", outcomes["hung"])
	}
	if outcomes["slow"].Failed() || len(outcomes["slow"].Items) != 2 {
		t.Errorf("slow outcome = %+v, want 2 items", outcomes["slow"])
	}
	if outcomes["fast"].Failed() || len(outcomes["fast"].Items) != 1 {
		t.Errorf("fast outcome = %+v, want 1 item", outcomes["fast"])
	}
	if len(outcomes) != len(adapters) {
		t.Errorf("expected %d outcomes, got %d", len(adapters), len(outcomes))
	}
}

func TestDispatch_ErrorsAndPanics(t *testing.T) {
	t.Parallel()

	adapters := []sources.Adapter{
		&fakeAdapter{name: "nokey", timeout: time.Second, err: fmt.Errorf("rijksmuseum: %w", upstream.ErrMissingAPIKey)},
		&fakeAdapter{name: "status", timeout: time.Second, err: &upstream.StatusError{StatusCode: 502, Body: "<html>secret</html>"}},
		&fakeAdapter{name: "boom", timeout: time.Second, panics: true},
		&fakeAdapter{name: "ok", timeout: time.Second, items: 4},
	}

	outcomes := NewCoordinator(staticSet(), 0).DispatchAdapters(context.Background(), "q", adapters)

	want := map[sources.Name]string{
		"nokey":  upstream.ReasonMissingAPIKey,
		"status": "upstream returned status 502",
		"boom":   upstream.ReasonFailed,
	}
	for name, reason := range want {
		if got := outcomes[name]; !got.Failed() || got.Reason != reason {
			t.Errorf("%s outcome = %+v, want failure %q", name, got, reason)
		}
	}
	if outcomes["ok"].Failed() || len(outcomes["ok"].Items) != 4 {
		t.Errorf("ok outcome = %+v", outcomes["ok"])
	}
}

func TestDispatch_AllFail(t *testing.T) {
	t.Parallel()

	adapters := []sources.Adapter{
		&fakeAdapter{name: "a", timeout: time.Second, err: errors.New("dial tcp: refused")},
		&fakeAdapter{name: "b", timeout: time.Second, err: errors.New("dial tcp: refused")},
	}
	env := Merge(NewCoordinator(staticSet(), 0).DispatchAdapters(context.Background(), "q", adapters))
	paged := Paginate(env, 1, 20)

	if paged.TotalResults != 0 || paged.TotalPages != 0 {
		t.Errorf("totals = %d/%d, want 0/0", paged.TotalResults, paged.TotalPages)
	}
	if len(paged.Results) != 2 || len(paged.Errors) != 2 {
		t.Errorf("every source should have an empty list and an error: %+v", paged)
	}
}

func TestDispatch_EmptyQueryForwarded(t *testing.T) {
	t.Parallel()

	a := &fakeAdapter{name: "a", timeout: time.Second}
	gen := &fakeAdapter{name: sources.OpenAI, timeout: time.Second}
	set := sources.NewStaticRegistry([]sources.Adapter{a},
		map[sources.Provider]sources.Adapter{sources.ProviderOpenAI: gen}, sources.ProviderOpenAI)

	outcomes := NewCoordinator(set, 0).Dispatch(context.Background(), "", "")
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, f := range []*fakeAdapter{a, gen} {
		seen := f.seen()
		if len(seen) != 1 || seen[0] != "" {
			t.Errorf("%s saw queries %q, want one empty query", f.name, seen)
		}
	}
}

func TestDispatch_ProviderSelection(t *testing.T) {
	t.Parallel()

	openai := &fakeAdapter{name: sources.OpenAI, timeout: time.Second, items: 1}
	pplx := &fakeAdapter{name: sources.Perplexity, timeout: time.Second, items: 1}
	set := sources.NewStaticRegistry(nil, map[sources.Provider]sources.Adapter{
		sources.ProviderOpenAI:     openai,
		sources.ProviderPerplexity: pplx,
	}, sources.ProviderOpenAI)
	c := NewCoordinator(set, 0)

	tests := []struct {
		selector string
		want     sources.Name
	}{
		{"perplexity", sources.Perplexity},
		{"openai", sources.OpenAI},
		{"bard", sources.OpenAI},
	}
	for _, tt := range tests {
		outcomes := c.Dispatch(context.Background(), "q", tt.selector)
		if len(outcomes) != 1 {
			t.Fatalf("Dispatch(%q) = %d outcomes, want exactly one generative source", tt.selector, len(outcomes))
		}
		if _, ok := outcomes[tt.want]; !ok {
			t.Errorf("Dispatch(%q) dispatched %v, want %s", tt.selector, outcomes, tt.want)
		}
	}
}
