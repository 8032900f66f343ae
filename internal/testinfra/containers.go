// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SkipIfNoDocker skips the test when no Docker daemon answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable reports whether `docker info` succeeds within 5s.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// CleanupContainer terminates container and logs, rather than fails, on error.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}

// Option configures a container.
type Option func(*containerConfig)

type containerConfig struct {
	image        string
	startTimeout time.Duration
}

// WithImage overrides the default image.
func WithImage(image string) Option {
	return func(c *containerConfig) {
		c.image = image
	}
}

// WithStartTimeout bounds the wait for the container to become ready.
func WithStartTimeout(timeout time.Duration) Option {
	return func(c *containerConfig) {
		c.startTimeout = timeout
	}
}

// startContainer runs image and waits for port plus the extra strategy.
func startContainer(ctx context.Context, image, port string, ready wait.Strategy, opts []Option) (testcontainers.Container, error) {
	cfg := &containerConfig{
		image:        image,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{port + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(nat.Port(port+"/tcp")),
			ready,
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s container: %w", cfg.image, err)
	}
	return container, nil
}

// endpoint returns host:port for the container's mapped port.
func endpoint(ctx context.Context, container testcontainers.Container, port nat.Port) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}

	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}
	return net.JoinHostPort(host, mapped.Port()), nil
}
