// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package services

import (
	"context"
	"errors"
	"fmt"
)

// errHubStopped marks a broadcast loop that exited while the tree was running.
var errHubStopped = errors.New("websocket hub stopped unexpectedly")

// LiveFeed is satisfied by *websocket.Hub.
type LiveFeed interface {
	RunWithContext(ctx context.Context) error
	GetClientCount() int
}

// WebSocketHubService runs the live search feed's broadcast loop. Clients are
// disconnected when the loop stops; they reconnect once suture restarts it.
type WebSocketHubService struct {
	hub LiveFeed
}

func NewWebSocketHubService(hub LiveFeed) *WebSocketHubService {
	return &WebSocketHubService{hub: hub}
}

// Serve implements suture.Service. An early return from the hub is reported
// as a failure so it shows up in the tree's service status.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	err := w.hub.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errHubStopped
	}
	return fmt.Errorf("%s: %w (clients=%d)", w, err, w.hub.GetClientCount())
}

func (w *WebSocketHubService) String() string {
	return "websocket-hub"
}
