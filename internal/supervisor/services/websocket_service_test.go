// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*WebSocketHubService)(nil)

type mockHub struct {
	started chan struct{}
	exitNow bool
}

func (m *mockHub) RunWithContext(ctx context.Context) error {
	close(m.started)
	if m.exitNow {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockHub) GetClientCount() int { return 3 }

func TestWebSocketHubService_Serve(t *testing.T) {
	t.Parallel()

	hub := &mockHub{started: make(chan struct{})}
	svc := NewWebSocketHubService(hub)
	if svc.String() != "websocket-hub" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case <-hub.started:
	case <-time.After(time.Second):
		t.Fatal("hub did not start")
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestWebSocketHubService_EarlyExitIsFailure(t *testing.T) {
	t.Parallel()

	hub := &mockHub{started: make(chan struct{}), exitNow: true}
	err := NewWebSocketHubService(hub).Serve(context.Background())

	if !errors.Is(err, errHubStopped) {
		t.Fatalf("Serve() = %v, want errHubStopped", err)
	}
	if want := "websocket-hub: websocket hub stopped unexpectedly (clients=3)"; err.Error() != want {
		t.Errorf("Serve() error = %q, want %q", err.Error(), want)
	}
}
