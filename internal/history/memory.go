// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package history

import (
	"context"
	"sync"
)

// MemoryStore keeps counts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[string]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int64)}
}

func (s *MemoryStore) Increment(_ context.Context, query string) error {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	s.mu.Lock()
	s.counts[q]++
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Count(_ context.Context, query string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[Normalize(query)], nil
}

func (s *MemoryStore) Top(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.counts))
	for q, c := range s.counts {
		entries = append(entries, Entry{Query: q, Count: c})
	}
	s.mu.RUnlock()
	return sortEntries(entries, n), nil
}

func (s *MemoryStore) Close() error { return nil }
