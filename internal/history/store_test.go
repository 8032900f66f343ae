// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package history

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/metrics"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}

	mr := miniredis.RunT(t)
	redisStore, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}

	stores := map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendBadger: badgerStore,
		BackendRedis:  redisStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStores_CountAndTop(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, q := range []string{"Monet", " monet ", "MONET", "van gogh", "Van Gogh", "klimt", "", "   "} {
				if err := s.Increment(ctx, q); err != nil {
					t.Fatalf("Increment(%q) error = %v", q, err)
				}
			}

			count, err := s.Count(ctx, "Monet")
			if err != nil || count != 3 {
				t.Errorf("Count(Monet) = %d, %v; want 3", count, err)
			}
			if count, _ := s.Count(ctx, "rothko"); count != 0 {
				t.Errorf("Count(rothko) = %d, want 0", count)
			}
			if count, _ := s.Count(ctx, ""); count != 0 {
				t.Errorf("empty query should not be counted, got %d", count)
			}

			top, err := s.Top(ctx, 2)
			if err != nil {
				t.Fatalf("Top() error = %v", err)
			}
			want := []Entry{{"monet", 3}, {"van gogh", 2}}
			if len(top) != len(want) {
				t.Fatalf("Top(2) = %v, want %v", top, want)
			}
			for i := range want {
				if top[i] != want[i] {
					t.Errorf("Top(2)[%d] = %v, want %v", i, top[i], want[i])
				}
			}

			if top, _ := s.Top(ctx, 0); len(top) != 0 {
				t.Errorf("Top(0) = %v, want empty", top)
			}
		})
	}
}

func TestStores_ConcurrentIncrement(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for range 20 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := s.Increment(ctx, "hokusai"); err != nil {
						t.Errorf("Increment() error = %v", err)
					}
				}()
			}
			wg.Wait()

			if count, _ := s.Count(ctx, "hokusai"); count != 20 {
				t.Errorf("Count(hokusai) = %d, want 20", count)
			}
		})
	}
}

func TestTopTiesOrderedByQuery(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()
	for _, q := range []string{"b", "c", "a"} {
		_ = s.Increment(ctx, q)
	}

	top, _ := s.Top(ctx, 3)
	for i, want := range []string{"a", "b", "c"} {
		if top[i].Query != want {
			t.Errorf("Top[%d] = %s, want %s", i, top[i].Query, want)
		}
	}
}

func TestBadgerStore_Closed(t *testing.T) {
	t.Parallel()

	s, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() in memory mode error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := s.Increment(context.Background(), "x"); err != ErrClosed {
		t.Errorf("Increment after close = %v, want ErrClosed", err)
	}
}

func TestBadgerStore_Persists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	_ = s.Increment(ctx, "Caravaggio")
	_ = s.Increment(ctx, "caravaggio")
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = OpenBadgerStore(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	if count, _ := s.Count(ctx, "caravaggio"); count != 2 {
		t.Errorf("Count after reopen = %d, want 2", count)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s, err := Open(ctx, config.HistoryConfig{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	mr := miniredis.RunT(t)
	s, err = Open(ctx, config.HistoryConfig{Backend: BackendRedis, RedisAddr: mr.Addr(), RedisKey: "test:history"})
	if err != nil {
		t.Fatalf("Open(redis) error = %v", err)
	}
	defer s.Close()
	_ = s.Increment(ctx, "Turner")
	if members, err := mr.ZMembers("test:history"); err != nil || len(members) != 1 || members[0] != "turner" {
		t.Errorf("redis members = %v, %v", members, err)
	}

	if _, err := Open(ctx, config.HistoryConfig{Backend: "etcd"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestInstrumented(t *testing.T) {
	t.Parallel()

	s := Instrumented(NewMemoryStore(), "memory-instrumented-test")
	before := testutil.ToFloat64(metrics.HistoryIncrements.WithLabelValues("memory-instrumented-test", "success"))

	_ = s.Increment(context.Background(), "x")
	_ = s.Increment(context.Background(), "y")

	after := testutil.ToFloat64(metrics.HistoryIncrements.WithLabelValues("memory-instrumented-test", "success"))
	if after-before != 2 {
		t.Errorf("expected 2 recorded increments, got %v", after-before)
	}
}
