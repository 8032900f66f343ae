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
	// DefaultRedisImage backs the Redis history store tests.
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the port Redis listens on inside the container.
	DefaultRedisPort = "6379"
)

// RedisContainer is a running Redis server.
type RedisContainer struct {
	testcontainers.Container

	// Addr is host:port, ready for history.RedisOptions.Addr.
	Addr string
}

// NewRedisContainer starts Redis and waits until it accepts connections.
func NewRedisContainer(ctx context.Context, opts ...Option) (*RedisContainer, error) {
	container, err := startContainer(ctx, DefaultRedisImage, DefaultRedisPort,
		wait.ForLog("Ready to accept connections"), opts)
	if err != nil {
		return nil, err
	}
	addr, err := endpoint(ctx, container, DefaultRedisPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return &RedisContainer{Container: container, Addr: addr}, nil
}
