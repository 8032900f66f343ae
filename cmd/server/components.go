// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package main

import (
	"context"
	"fmt"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/events"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/history"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/search"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// loadConfig loads configuration and initializes the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Version:   version,
	})
	return cfg, nil
}

// searchStack is everything a search needs, from the outbound client to the
// history counter.
type searchStack struct {
	registry  *sources.Registry
	history   history.Store
	publisher *events.Publisher
	service   *search.Service
}

func (s *searchStack) Close() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing NATS publisher")
		}
	}
	if err := s.history.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing history store")
	}
}

// newSearchStack wires the registry, coordinator, history store and optional
// NATS publisher into a search.Service. extra publishers also receive every
// completed search.
func newSearchStack(ctx context.Context, cfg *config.Config, extra ...search.Publisher) (*searchStack, error) {
	client := upstream.NewHTTPClient(cfg.HTTPClient)
	registry := sources.NewRegistry(cfg, client)

	store, err := history.Open(ctx, cfg.History)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	backend := cfg.History.Backend
	if backend == "" {
		backend = history.BackendMemory
	}

	stack := &searchStack{registry: registry, history: store}

	publishers := extra
	if cfg.NATS.Enabled {
		p, err := events.Connect(cfg.NATS)
		if err != nil {
			logging.Warn().Err(err).Str("url", cfg.NATS.URL).Msg("NATS unavailable, search events disabled")
		} else {
			stack.publisher = p
			publishers = append(publishers, p)
		}
	}
	var publisher search.Publisher = events.NoopPublisher{}
	if len(publishers) > 0 {
		publisher = events.Multi(publishers...)
	}

	stack.service = search.NewService(
		search.NewCoordinator(registry, search.DefaultGrace),
		search.WithPageSize(cfg.API.DefaultPageSize),
		search.WithRecorder(history.Instrumented(store, backend)),
		search.WithPublisher(publisher),
	)

	logging.Info().
		Int("mandatory_sources", len(registry.Mandatory())).
		Str("default_provider", registry.DefaultProvider().String()).
		Str("history_backend", backend).
		Bool("nats_events", stack.publisher != nil).
		Msg("Search stack ready")

	return stack, nil
}
