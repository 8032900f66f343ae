// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package services adapts the aggregator's long-lived components to
// suture.Service: the HTTP API, the live search feed and the periodic
// maintenance jobs.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the API server under supervision. When the Serve
// context ends, in-flight searches get shutdownTimeout to finish their fan-out
// before connections are dropped.
//
//	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
	logger          zerolog.Logger
}

// NewHTTPServerService wraps server. A non-positive timeout becomes 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	const name = "http-server"
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            name,
		logger:          logging.WithComponent("supervisor").With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service. A listen failure is returned so suture
// restarts the server; http.ErrServerClosed is not an error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// ctx is already done; draining gets its own deadline.
	start := time.Now()
	drainCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("Draining HTTP connections")
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-listenErr
	h.logger.Info().Dur("drained_in", time.Since(start)).Msg("HTTP server stopped")

	return ctx.Err()
}

func (h *HTTPServerService) String() string {
	return h.name
}
