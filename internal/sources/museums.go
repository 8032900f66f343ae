// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// NewRijksmuseum creates the Rijksmuseum collection adapter. It requires
// RIJKSMUSEUM_API_KEY.
func NewRijksmuseum(cfg config.SourceConfig, endpoint *upstream.Endpoint) Adapter {
	return &listAdapter{
		name:        Rijksmuseum,
		cfg:         cfg,
		endpoint:    endpoint,
		requiresKey: true,
		buildURL: func(cfg config.SourceConfig, query string) (string, error) {
			return upstream.NewRequest(cfg.URL).
				Set("key", cfg.APIKey).
				Set("q", query).
				Set("format", "json").
				SetInt("ps", cfg.Limit).
				URL()
		},
		parse: parseRijksmuseum,
	}
}

func parseRijksmuseum(body []byte) ([]Item, error) {
	return extractList(body, "artObjects")
}

// NewHarvardArt creates the Harvard Art Museums object adapter. It requires
// HARVARD_ART_MUSEUMS_API_KEY.
func NewHarvardArt(cfg config.SourceConfig, endpoint *upstream.Endpoint) Adapter {
	return &listAdapter{
		name:        HarvardArt,
		cfg:         cfg,
		endpoint:    endpoint,
		requiresKey: true,
		buildURL: func(cfg config.SourceConfig, query string) (string, error) {
			return upstream.NewRequest(cfg.URL).
				Set("apikey", cfg.APIKey).
				Set("q", query).
				SetInt("size", cfg.Limit).
				URL()
		},
		parse: parseHarvardArt,
	}
}

func parseHarvardArt(body []byte) ([]Item, error) {
	return extractList(body, "records")
}

// NewCooperHewitt creates the Cooper Hewitt collection adapter. It requires
// COOPER_HEWITT_API_KEY.
func NewCooperHewitt(cfg config.SourceConfig, endpoint *upstream.Endpoint) Adapter {
	return &listAdapter{
		name:        CooperHewitt,
		cfg:         cfg,
		endpoint:    endpoint,
		requiresKey: true,
		buildURL: func(cfg config.SourceConfig, query string) (string, error) {
			return upstream.NewRequest(cfg.URL).
				Set("method", "cooperhewitt.search.objects").
				Set("access_token", cfg.APIKey).
				Set("query", query).
				SetInt("page", 1).
				SetInt("per_page", cfg.Limit).
				URL()
		},
		parse: parseCooperHewitt,
	}
}

func parseCooperHewitt(body []byte) ([]Item, error) {
	return extractList(body, "objects")
}
