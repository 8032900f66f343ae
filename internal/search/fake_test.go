// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
)

// fakeAdapter is a scripted adapter for coordinator tests.
type fakeAdapter struct {
	name    sources.Name
	timeout time.Duration
	items   int
	err     error
	delay   time.Duration
	hang    bool // ignore ctx and never return on time
	panics  bool

	mu      sync.Mutex
	queries []string
}

func (f *fakeAdapter) Name() sources.Name { return f.name }

func (f *fakeAdapter) Timeout() time.Duration { return f.timeout }

func (f *fakeAdapter) Search(ctx context.Context, query string) ([]sources.Item, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.panics {
		panic("adapter exploded")
	}
	if f.hang {
		time.Sleep(time.Hour)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return makeItems(f.items), nil
}

func (f *fakeAdapter) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func makeItems(n int) []sources.Item {
	items := make([]sources.Item, n)
	for i := range items {
		items[i] = sources.Item{"index": i, "title": fmt.Sprintf("item %d", i)}
	}
	return items
}

func staticSet(adapters ...sources.Adapter) *sources.StaticRegistry {
	return sources.NewStaticRegistry(adapters, nil, sources.ProviderOpenAI)
}
