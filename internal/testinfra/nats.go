// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

//go:build integration

package testinfra

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNATSImage backs the search event publisher tests.
	DefaultNATSImage = "nats:2.10-alpine"

	// DefaultNATSPort is the client port inside the container.
	DefaultNATSPort = "4222"
)

// NATSContainer is a running NATS server.
type NATSContainer struct {
	testcontainers.Container

	// URL is a nats:// URL, ready for config.NATSConfig.URL.
	URL string
}

// NewNATSContainer starts NATS and waits until it is ready for clients.
func NewNATSContainer(ctx context.Context, opts ...Option) (*NATSContainer, error) {
	container, err := startContainer(ctx, DefaultNATSImage, DefaultNATSPort,
		wait.ForLog("Server is ready"), opts)
	if err != nil {
		return nil, err
	}
	addr, err := endpoint(ctx, container, DefaultNATSPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return &NATSContainer{Container: container, URL: "nats://" + addr}, nil
}
