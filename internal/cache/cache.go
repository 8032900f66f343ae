// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package cache is the typed, size-bounded TTL cache in front of record detail
// lookups. Storage and expiry come from golang-lru's expirable LRU; concurrent
// misses for the same key are collapsed into one upstream call with
// singleflight.
//
//	c := cache.New[*details.Detail](10*time.Minute, 1000)
//	d, cached, err := c.GetOrLoad(ctx, "met_museum:436535", func(ctx context.Context) (*details.Detail, error) {
//	    return fetch(ctx)
//	})
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a missing key.
type Loader[V any] func(ctx context.Context) (V, error)

// Stats is a snapshot of cache activity since creation.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// HitRate returns hits as a percentage of lookups, or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache maps string keys to values of type V. Entries expire ttl after they
// were stored; when maxEntries is reached the least recently used entry goes.
type Cache[V any] struct {
	lru   *expirable.LRU[string, V]
	group singleflight.Group

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache. maxEntries of 0 means unbounded; ttl of 0 means
// entries never expire.
func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	c := &Cache[V]{}
	c.lru = expirable.NewLRU[string, V](maxEntries, func(string, V) {
		c.evictions.Add(1)
	}, ttl)
	return c
}

// Get returns the live value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores v under key with the cache's TTL.
func (c *Cache[V]) Set(key string, v V) {
	c.lru.Add(key, v)
}

// Delete drops key if present.
func (c *Cache[V]) Delete(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

// Len counts stored entries, including expired ones not yet swept.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// GetOrLoad returns the cached value for key or runs load once for all
// concurrent callers asking for the same key. cached reports whether the value
// came from the cache. Errors are not cached.
//
// load runs detached from the caller's cancellation so that one caller giving
// up does not fail the others; a caller whose ctx ends stops waiting and gets
// ctx.Err(). Bound load with its own timeout.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load Loader[V]) (v V, cached bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return v, false, res.Err
		}
		if res.Val == nil {
			return v, false, nil
		}
		loaded, ok := res.Val.(V)
		if !ok {
			return v, false, fmt.Errorf("cache: loader for %q returned %T", key, res.Val)
		}
		return loaded, false, nil
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// Stats returns a snapshot of hit, miss and eviction counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.lru.Len(),
	}
}
