// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package testinfra starts real Redis and NATS servers in Docker for the
// integration tests of the history and events packages.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/history/... ./internal/events/...
//
// Tests call SkipIfNoDocker first so the suite still passes on machines
// without a Docker daemon.
//
//	redis, err := testinfra.NewRedisContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, redis)
//
//	store, err := history.NewRedisStore(ctx, history.RedisOptions{Addr: redis.Addr})
package testinfra
