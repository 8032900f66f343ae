// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// listAdapter is a single-request adapter: build a URL, GET it, parse a list.
type listAdapter struct {
	name        Name
	cfg         config.SourceConfig
	endpoint    *upstream.Endpoint
	requiresKey bool
	buildURL    func(cfg config.SourceConfig, query string) (string, error)
	parse       func(body []byte) ([]Item, error)
}

func (a *listAdapter) Name() Name { return a.name }

func (a *listAdapter) Timeout() time.Duration { return a.cfg.Timeout }

func (a *listAdapter) BreakerState() string { return a.endpoint.BreakerState() }

func (a *listAdapter) Search(ctx context.Context, query string) ([]Item, error) {
	if a.requiresKey && a.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", a.name, upstream.ErrMissingAPIKey)
	}

	reqURL, err := a.buildURL(a.cfg, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}

	body, err := a.endpoint.Fetch(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}

	items, err := a.parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}
	return capItems(items, a.cfg.Limit), nil
}
