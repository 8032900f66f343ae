// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type mockHTTPServer struct {
	listenErr   error
	block       bool
	shutdownErr error

	listenCount   atomic.Int32
	shutdownCount atomic.Int32
	listening     chan struct{}
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		listening: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenCount.Add(1)
	select {
	case m.listening <- struct{}{}:
	default:
	}

	if m.listenErr != nil {
		return m.listenErr
	}
	if m.block {
		<-m.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

func (m *mockHTTPServer) waitListening(t *testing.T) {
	t.Helper()
	select {
	case <-m.listening:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
}

var _ suture.Service = (*HTTPServerService)(nil)

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), timeout)
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout %v: got %v, want 10s", timeout, svc.shutdownTimeout)
		}
	}

	svc := NewHTTPServerService(newMockHTTPServer(), 3*time.Second)
	if svc.shutdownTimeout != 3*time.Second {
		t.Errorf("shutdownTimeout = %v, want 3s", svc.shutdownTimeout)
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q, want http-server", svc.String())
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Parallel()

	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		t.Parallel()

		server := newMockHTTPServer()
		server.block = true
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		server.waitListening(t)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}

		if got := server.shutdownCount.Load(); got != 1 {
			t.Errorf("Shutdown called %d times, want 1", got)
		}
	})

	t.Run("startup failure", func(t *testing.T) {
		t.Parallel()

		bindErr := errors.New("bind: address already in use")
		server := newMockHTTPServer()
		server.listenErr = bindErr

		err := NewHTTPServerService(server, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("expected wrapped bind error, got %v", err)
		}
	})

	t.Run("shutdown failure", func(t *testing.T) {
		t.Parallel()

		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.block = true
		server.shutdownErr = shutdownErr
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		server.waitListening(t)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, shutdownErr) {
				t.Errorf("expected shutdown error, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
	})
}

func TestHTTPServerService_RealServer(t *testing.T) {
	t.Parallel()

	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("real server did not shut down")
	}
}

func TestHTTPServerService_WithSupervisor(t *testing.T) {
	t.Parallel()

	server := newMockHTTPServer()
	server.block = true

	sup := suture.New("test-api-layer", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(NewHTTPServerService(server, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	server.waitListening(t)
	cancel()
	<-errCh

	if server.shutdownCount.Load() < 1 {
		t.Error("Shutdown was not called")
	}
}
