// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package history counts how often each search query is run.
//
// Three backends implement Store:
//
//   - memory: a mutex-guarded map, lost on restart
//   - badger: an embedded BadgerDB keyspace, one counter per query
//   - redis: a sorted set shared between instances
//
// Queries are normalized before counting (trimmed, lower-cased). Empty
// queries are accepted and ignored.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/metrics"
)

// Backend names accepted by history.backend.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Entry is one query and how many times it was searched.
type Entry struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Store is a search-history counter.
type Store interface {
	// Increment adds one to query's count.
	Increment(ctx context.Context, query string) error

	// Count returns query's count, 0 if never seen.
	Count(ctx context.Context, query string) (int64, error)

	// Top returns the n most searched queries, highest first. Ties are
	// ordered by query.
	Top(ctx context.Context, n int) ([]Entry, error)

	Close() error
}

// Normalize trims and lower-cases a query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendBadger:
		return OpenBadgerStore(cfg.BadgerPath)
	case BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// Instrumented wraps s so that every Increment is counted in metrics.
func Instrumented(s Store, backend string) Store {
	return &instrumentedStore{Store: s, backend: backend}
}

type instrumentedStore struct {
	Store
	backend string
}

func (s *instrumentedStore) Increment(ctx context.Context, query string) error {
	err := s.Store.Increment(ctx, query)
	metrics.RecordHistoryIncrement(s.backend, err)
	return err
}

// sortEntries orders by count descending, then query ascending, and keeps n.
func sortEntries(entries []Entry, n int) []Entry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Query < entries[j].Query
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
