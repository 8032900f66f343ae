// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package history

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

const badgerKeyPrefix = "history:query:"

// maxConflictRetries bounds Increment retries on transaction conflicts.
const maxConflictRetries = 10

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// BadgerStore keeps one big-endian uint64 counter per query.
type BadgerStore struct {
	db     *badger.DB
	closed atomic.Bool

	// writeMu serializes read-modify-write increments within this process.
	writeMu sync.Mutex
}

// OpenBadgerStore opens (or creates) a store at path. An empty path opens an
// in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", path).
		Bool("in_memory", path == "").
		Msg("Search history store opened")
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Increment(_ context.Context, query string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	q := Normalize(query)
	if q == "" {
		return nil
	}
	key := []byte(badgerKeyPrefix + q)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for attempt := 0; ; attempt++ {
		err := s.db.Update(func(txn *badger.Txn) error {
			current, err := readCounter(txn, key)
			if err != nil {
				return err
			}
			return txn.Set(key, encodeCounter(current+1))
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return fmt.Errorf("increment %q: %w", q, err)
		}
		return nil
	}
}

func (s *BadgerStore) Count(_ context.Context, query string) (int64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		count, err = readCounter(txn, []byte(badgerKeyPrefix+Normalize(query)))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

func (s *BadgerStore) Top(_ context.Context, n int) ([]Entry, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if n <= 0 {
		return []Entry{}, nil
	}

	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			query := string(item.Key()[len(badgerKeyPrefix):])
			err := item.Value(func(val []byte) error {
				entries = append(entries, Entry{Query: query, Count: decodeCounter(val)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("top: %w", err)
	}
	if entries == nil {
		return []Entry{}, nil
	}
	return sortEntries(entries, n), nil
}

// RunGC reclaims value-log space until there is nothing left to rewrite.
func (s *BadgerStore) RunGC() error {
	if s.closed.Load() {
		return ErrClosed
	}
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Search history store closed")
	return nil
}

func readCounter(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var count int64
	err = item.Value(func(val []byte) error {
		count = decodeCounter(val)
		return nil
	})
	return count, err
}

func encodeCounter(n int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf
}

func decodeCounter(val []byte) int64 {
	if len(val) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(val))
}
