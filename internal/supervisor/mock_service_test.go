// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// mockService is a controllable suture.Service.
type mockService struct {
	name       string
	startCount atomic.Int32
	stopCount  atomic.Int32
	failCount  atomic.Int32

	mu       sync.Mutex
	maxFails int32
	started  chan struct{}
}

func newMockService(name string) *mockService {
	return &mockService{name: name, started: make(chan struct{}, 16)}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	defer m.stopCount.Add(1)

	select {
	case m.started <- struct{}{}:
	default:
	}

	m.mu.Lock()
	maxFails := m.maxFails
	m.mu.Unlock()

	if maxFails > 0 && m.failCount.Add(1) <= maxFails {
		return errors.New("simulated failure")
	}

	<-ctx.Done()
	return ctx.Err()
}

// setFailCount makes the next n calls to Serve fail immediately.
func (m *mockService) setFailCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFails = int32(n)
}

func (m *mockService) String() string { return m.name }
