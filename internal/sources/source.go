// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package sources holds the upstream search adapters: Wikipedia, Internet
// Archive, the Met Museum, Rijksmuseum, Harvard Art Museums, Cooper Hewitt and
// the generative providers.
//
// Every adapter turns a query into a list of source-shaped items. Parsing is
// split into pure functions over the raw response body so that it can be
// tested without a network.
package sources

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// Name identifies a source. It is the key used in search envelopes.
type Name string

// Search sources.
const (
	Wikipedia       Name = "wikipedia"
	InternetArchive Name = "internet_archive"
	MetMuseum       Name = "met_museum"
	Rijksmuseum     Name = "rijksmuseum"
	HarvardArt      Name = "harvard_art_museums"
	CooperHewitt    Name = "cooper_hewitt"
)

// MetMuseumObjects names the Met detail endpoint. It is not a source and
// never appears in an envelope.
const MetMuseumObjects Name = "met_museum_objects"

// Generative sources. The envelope key is the provider's name.
const (
	OpenAI     Name = "openai"
	Perplexity Name = "perplexity"
)

// Item is one upstream record, passed through as the upstream shaped it.
type Item map[string]any

// Adapter searches one upstream.
type Adapter interface {
	Name() Name

	// Timeout bounds a single Search call.
	Timeout() time.Duration

	// Search returns at most the adapter's configured number of items. An
	// upstream that answers without the expected key yields zero items and
	// no error.
	Search(ctx context.Context, query string) ([]Item, error)
}

// BreakerReporter is implemented by adapters that sit behind a circuit breaker.
type BreakerReporter interface {
	BreakerState() string
}

// extractList walks path through nested JSON objects and decodes the array
// found there. A missing or null key at any level means zero hits.
func extractList(body []byte, path ...string) ([]Item, error) {
	raw := json.RawMessage(body)
	for _, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, &upstream.DecodeError{Err: err}
		}
		next, ok := obj[key]
		if !ok || isNull(next) {
			return []Item{}, nil
		}
		raw = next
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &upstream.DecodeError{Err: err}
	}
	return compact(items), nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// compact drops null array elements.
func compact(items []Item) []Item {
	out := items[:0]
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	if out == nil {
		return []Item{}
	}
	return out
}

// capItems truncates items to limit when limit is positive.
func capItems(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
