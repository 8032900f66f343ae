// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// MetAdapter searches the Met collection in two phases: a search call that
// returns object IDs, then a bounded wave of per-object detail fetches.
// Detail fetches go through their own endpoint so that a bad wave cannot
// open the search breaker.
type MetAdapter struct {
	cfg      config.MetMuseumConfig
	endpoint *upstream.Endpoint
	objects  *upstream.Endpoint
}

// NewMetMuseum creates the Met collection adapter. objects carries the
// /objects/{id} traffic; nil shares endpoint.
func NewMetMuseum(cfg config.MetMuseumConfig, endpoint, objects *upstream.Endpoint) *MetAdapter {
	if objects == nil {
		objects = endpoint
	}
	return &MetAdapter{cfg: cfg, endpoint: endpoint, objects: objects}
}

// MetObjectBreakerSettings sizes the half-open probe budget to the detail
// wave so that a recovering breaker admits a whole wave.
func MetObjectBreakerSettings(cfg config.MetMuseumConfig) upstream.BreakerSettings {
	s := upstream.DefaultBreakerSettings()
	s.MaxRequests = max(s.MaxRequests, uint32(max(cfg.DetailConcurrency, 0)), uint32(max(cfg.DetailLimit, 0)))
	return s
}

func (a *MetAdapter) Name() Name { return MetMuseum }

func (a *MetAdapter) Timeout() time.Duration { return a.cfg.Timeout }

func (a *MetAdapter) BreakerState() string { return a.endpoint.BreakerState() }

// Search runs phase 1 and then fetches details for the first DetailLimit IDs.
// Only a phase 1 failure fails the source.
func (a *MetAdapter) Search(ctx context.Context, query string) ([]Item, error) {
	searchURL, err := upstream.JoinPath(a.cfg.URL, "search")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MetMuseum, err)
	}
	searchURL, err = upstream.NewRequest(searchURL).Set("q", query).URL()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MetMuseum, err)
	}

	body, err := a.endpoint.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MetMuseum, err)
	}

	ids, err := parseMetSearch(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MetMuseum, err)
	}
	if a.cfg.DetailLimit > 0 && len(ids) > a.cfg.DetailLimit {
		ids = ids[:a.cfg.DetailLimit]
	}
	return a.fetchObjects(ctx, ids), nil
}

// fetchObjects fetches each object concurrently. Every goroutine owns one
// slot, so order follows ids. Failed fetches leave their slot empty.
func (a *MetAdapter) fetchObjects(ctx context.Context, ids []int) []Item {
	slots := make([]Item, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.DetailConcurrency > 0 {
		g.SetLimit(a.cfg.DetailConcurrency)
	}

	for i, id := range ids {
		g.Go(func() error {
			item, err := a.fetchObject(gctx, id)
			if err != nil {
				logging.Ctx(ctx).Debug().
					Err(err).
					Int("object_id", id).
					Msg("Met object detail dropped")
				return nil
			}
			slots[i] = item
			return nil
		})
	}
	_ = g.Wait() // branches never return an error

	items := make([]Item, 0, len(slots))
	for _, item := range slots {
		if item != nil {
			items = append(items, item)
		}
	}
	return items
}

func (a *MetAdapter) fetchObject(ctx context.Context, id int) (Item, error) {
	objectURL, err := upstream.JoinPath(a.cfg.URL, "objects", strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	body, err := a.objects.Fetch(ctx, objectURL)
	if err != nil {
		return nil, err
	}
	return parseMetObject(body)
}

// parseMetSearch extracts objectIDs. Absent or null means no hits.
func parseMetSearch(body []byte) ([]int, error) {
	var resp struct {
		ObjectIDs []int `json:"objectIDs"`
	}
	if err := upstream.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}
	if resp.ObjectIDs == nil {
		return []int{}, nil
	}
	return resp.ObjectIDs, nil
}

// parseMetObject decodes one object body. A body that is not a JSON object
// is malformed.
func parseMetObject(body []byte) (Item, error) {
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &upstream.DecodeError{Err: fmt.Errorf("object body is not a JSON object")}
	}
	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, &upstream.DecodeError{Err: err}
	}
	return item, nil
}
