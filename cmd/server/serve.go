// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/api"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/cache"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/database"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/details"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/history"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/recommend"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/supervisor"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/supervisor/services"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/websocket"
)

// runServe starts the HTTP API under the supervisor tree and blocks until ctx
// is canceled.
func runServe(ctx context.Context, _ *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Msg("Starting ArtHistoryNavigator")

	hub := websocket.NewHub(cfg.Security.CORSOrigins)

	stack, err := newSearchStack(ctx, cfg, hub)
	if err != nil {
		return err
	}
	defer stack.Close()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open catalog database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	detailCache := cache.New[*details.Detail](cfg.Details.CacheTTL, cfg.Details.CacheMaxEntries)

	engine := recommend.NewEngine(db, stack.history, cfg.Recommend)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	handler := api.NewHandler(api.Deps{
		Search:    stack.service,
		Details:   newDetailService(cfg, stack.registry, detailCache),
		Sources:   stack.registry,
		Catalog:   db,
		Recommend: engine,
		Live:      hub,
		Services:  tree,
	}, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	// Data layer
	if gc, ok := stack.history.(*history.BadgerStore); ok {
		tree.AddDataService(services.NewBadgerGCService(gc, cfg.History.BadgerGCInterval))
	}
	if cfg.Database.CheckpointInterval > 0 && db.Path() != ":memory:" {
		tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	}

	// Messaging layer
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewTrendingRefreshService(engine, cfg.Recommend.RefreshInterval))

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("ArtHistoryNavigator stopped")
	return nil
}

// newDetailService shares the search adapters' endpoints so detail lookups
// count against the same rate limiters and breakers.
func newDetailService(cfg *config.Config, registry *sources.Registry, c *cache.Cache[*details.Detail]) *details.Service {
	endpoints := make(map[sources.Name]*upstream.Endpoint)
	for _, name := range []sources.Name{sources.Wikipedia, sources.InternetArchive, sources.MetMuseum} {
		if ep := registry.Endpoint(name); ep != nil {
			endpoints[name] = ep
		}
	}

	return details.NewService(details.Options{
		WikipediaURL: cfg.Sources.Wikipedia.URL,
		MetURL:       cfg.Sources.MetMuseum.URL,
		Timeout:      cfg.Details.Timeout,
		Endpoints:    endpoints,
		Client:       upstream.NewHTTPClient(cfg.HTTPClient),
	}, c)
}
