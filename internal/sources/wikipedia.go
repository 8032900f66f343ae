// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// NewWikipedia creates the MediaWiki full-text search adapter.
func NewWikipedia(cfg config.SourceConfig, endpoint *upstream.Endpoint) Adapter {
	return &listAdapter{
		name:     Wikipedia,
		cfg:      cfg,
		endpoint: endpoint,
		buildURL: func(cfg config.SourceConfig, query string) (string, error) {
			return upstream.NewRequest(cfg.URL).
				Set("action", "query").
				Set("list", "search").
				Set("format", "json").
				Set("srsearch", query).
				SetInt("srlimit", cfg.Limit).
				URL()
		},
		parse: parseWikipedia,
	}
}

// parseWikipedia extracts query.search.
func parseWikipedia(body []byte) ([]Item, error) {
	return extractList(body, "query", "search")
}
