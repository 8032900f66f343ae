// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitStarted(t *testing.T, m *mockService) {
	t.Helper()
	select {
	case <-m.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("service %s did not start", m.name)
	}
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("creates hierarchical supervisor tree", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.Root() == nil {
			t.Error("root supervisor should not be nil")
		}
	})

	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(nil, TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}

		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
		}
		if len(tree.layers) != 3 {
			t.Errorf("expected 3 layers, got %d", len(tree.layers))
		}
	})

	t.Run("tracks services in the order added", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		tree.AddAPIService(newMockService("http-server"))
		tree.AddDataService(newMockService("badger-gc"))

		got := tree.Services()
		want := []ServiceStatus{
			{Name: "http-server", Layer: LayerAPI},
			{Name: "badger-gc", Layer: LayerData},
		}
		if len(got) != len(want) {
			t.Fatalf("Services() = %+v, want %+v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Services()[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("unknown layer panics", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		defer func() {
			if recover() == nil {
				t.Error("Add with an unknown layer should panic")
			}
		}()
		tree.Add(Layer("cache-layer"), newMockService("x"))
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   100 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	data := newMockService("mock-data")
	messaging := newMockService("mock-messaging")
	api := newMockService("mock-api")
	tree.AddDataService(data)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitStarted(t, data)
	waitStarted(t, messaging)
	waitStarted(t, api)

	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop")
	}

	for _, m := range []*mockService{data, messaging, api} {
		if m.stopCount.Load() != m.startCount.Load() {
			t.Errorf("%s: started %d stopped %d", m.name, m.startCount.Load(), m.stopCount.Load())
		}
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("expected all services stopped, got %v", report)
	}
}

func TestSupervisorTreeRestartsFailedService(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	flaky := newMockService("flaky-refresh")
	flaky.setFailCount(2)
	steady := newMockService("steady-http")
	tree.AddMessagingService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(5 * time.Second)
	for flaky.startCount.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("flaky service started %d times, want 3", flaky.startCount.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	// A failure in the messaging layer leaves the API layer alone.
	if got := steady.startCount.Load(); got != 1 {
		t.Errorf("steady service started %d times, want 1", got)
	}

	for _, s := range tree.Services() {
		switch s.Name {
		case "flaky-refresh":
			if s.Failures != 2 || s.LastError != "simulated failure" {
				t.Errorf("flaky status = %+v, want 2 failures with last error", s)
			}
		case "steady-http":
			if s.Failures != 0 {
				t.Errorf("steady status = %+v, want no failures", s)
			}
		}
	}

	cancel()
	<-errCh
}
