// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

// Task is one unit of periodic work.
type Task func(ctx context.Context) error

// PeriodicConfig controls a PeriodicService.
type PeriodicConfig struct {
	// Interval between runs. Non-positive means one hour.
	Interval time.Duration

	// RunOnStart runs the task once before the first tick.
	RunOnStart bool

	// Timeout bounds a single run. Zero means no bound beyond the Serve context.
	Timeout time.Duration
}

// PeriodicService runs a Task on a ticker until its context is canceled.
// Task errors are logged and do not stop the loop; a panic is left to suture.
type PeriodicService struct {
	name   string
	task   Task
	config PeriodicConfig
	logger zerolog.Logger
}

// NewPeriodicService creates a supervised ticker loop named name.
func NewPeriodicService(name string, task Task, cfg PeriodicConfig) *PeriodicService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &PeriodicService{
		name:   name,
		task:   task,
		config: cfg,
		logger: logging.WithComponent("supervisor").With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_start", s.config.RunOnStart).
		Dur("interval", s.config.Interval).
		Msg("periodic service starting")

	if s.config.RunOnStart {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("periodic service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(ctx context.Context) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.task(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("periodic task failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task complete")
}

func (s *PeriodicService) String() string {
	return s.name
}

// Refresher reloads a cached view. Satisfied by *recommend.Engine.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// NewTrendingRefreshService reloads the trending list every interval,
// starting immediately so the first request finds a warm cache.
func NewTrendingRefreshService(r Refresher, interval time.Duration) *PeriodicService {
	return NewPeriodicService("trending-refresh", r.Refresh, PeriodicConfig{
		Interval:   interval,
		RunOnStart: true,
		Timeout:    30 * time.Second,
	})
}

// GarbageCollector reclaims store space. Satisfied by *history.BadgerStore.
type GarbageCollector interface {
	RunGC() error
}

// NewBadgerGCService runs value-log GC on the history store every interval.
func NewBadgerGCService(gc GarbageCollector, interval time.Duration) *PeriodicService {
	return NewPeriodicService("badger-gc", func(context.Context) error {
		return gc.RunGC()
	}, PeriodicConfig{Interval: interval})
}

// Checkpointer flushes a write-ahead log. Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// NewCheckpointService checkpoints the catalog database every interval.
func NewCheckpointService(c Checkpointer, interval time.Duration) *PeriodicService {
	return NewPeriodicService("duckdb-checkpoint", c.Checkpoint, PeriodicConfig{
		Interval: interval,
		Timeout:  time.Minute,
	})
}
