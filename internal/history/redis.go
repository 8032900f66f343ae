// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the sorted set holding the counts.
const DefaultRedisKey = "arthistory:search_history"

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps counts as scores in one sorted set.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := opts.Key
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Increment(ctx context.Context, query string) error {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	if err := s.client.ZIncrBy(ctx, s.key, 1, q).Err(); err != nil {
		return fmt.Errorf("increment %q: %w", q, err)
	}
	return nil
}

func (s *RedisStore) Count(ctx context.Context, query string) (int64, error) {
	score, err := s.client.ZScore(ctx, s.key, Normalize(query)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return int64(score), nil
}

func (s *RedisStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	// The whole set is read so ties at the cut-off are ordered by query.
	zs, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("top: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Query: member, Count: int64(z.Score)})
	}
	return sortEntries(entries, n), nil
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
