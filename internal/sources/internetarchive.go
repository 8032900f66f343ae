// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// internetArchiveFields are the fl[] fields requested from advancedsearch.
var internetArchiveFields = []string{"identifier", "title", "description", "creator", "date", "mediatype"}

// NewInternetArchive creates the archive.org advanced search adapter.
func NewInternetArchive(cfg config.SourceConfig, endpoint *upstream.Endpoint) Adapter {
	return &listAdapter{
		name:     InternetArchive,
		cfg:      cfg,
		endpoint: endpoint,
		buildURL: func(cfg config.SourceConfig, query string) (string, error) {
			req := upstream.NewRequest(cfg.URL).
				Set("q", query).
				SetInt("rows", cfg.Limit).
				SetInt("page", 1).
				Set("output", "json")
			for _, f := range internetArchiveFields {
				req.Add("fl[]", f)
			}
			return req.URL()
		},
		parse: parseInternetArchive,
	}
}

// parseInternetArchive extracts response.docs.
func parseInternetArchive(body []byte) ([]Item, error) {
	return extractList(body, "response", "docs")
}
