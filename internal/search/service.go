// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package search

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
)

// ErrNoSources is returned when no adapter is registered for a request.
var ErrNoSources = errors.New("no search sources registered")

// Recorder counts searches. history.Store satisfies it.
type Recorder interface {
	Increment(ctx context.Context, query string) error
}

// Publisher announces a completed search.
type Publisher interface {
	PublishSearch(ctx context.Context, s Summary)
}

// Summary describes a completed search for publishers.
type Summary struct {
	Query         string
	Provider      string
	Page          int
	TotalResults  int
	FailedSources []string
	Timestamp     time.Time
}

// Dispatcher is the fan-out step of a search.
type Dispatcher interface {
	Dispatch(ctx context.Context, query, provider string) map[sources.Name]Outcome
}

// Service performs paged searches.
type Service struct {
	dispatcher Dispatcher
	pageSize   int
	recorder   Recorder
	publisher  Publisher
}

// Option configures a Service.
type Option func(*Service)

// WithPageSize sets the page size used when a request passes none.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRecorder counts every search in r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithPublisher announces every search on p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// NewService creates a search service.
func NewService(d Dispatcher, opts ...Option) *Service {
	s := &Service{dispatcher: d, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PerformSearch dispatches query, merges and pages the outcomes. A pageSize
// below 1 uses the service default. Source failures are reported inside the
// envelope; an error is only returned when the search itself could not run.
func (s *Service) PerformSearch(ctx context.Context, query string, page, pageSize int, provider string) (*PagedEnvelope, error) {
	if pageSize < 1 {
		pageSize = s.pageSize
	}

	outcomes := s.dispatcher.Dispatch(ctx, query, provider)
	if len(outcomes) == 0 {
		return nil, ErrNoSources
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env := Merge(outcomes)
	paged := Paginate(env, page, pageSize)

	if s.recorder != nil {
		if err := s.recorder.Increment(ctx, query); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to record search history")
		}
	}

	if s.publisher != nil {
		failed := make([]string, 0, len(env.Errors))
		for _, name := range env.FailedSources() {
			failed = append(failed, string(name))
		}
		sort.Strings(failed)
		s.publisher.PublishSearch(ctx, Summary{
			Query:         query,
			Provider:      generativeSource(outcomes, provider),
			Page:          paged.CurrentPage,
			TotalResults:  paged.TotalResults,
			FailedSources: failed,
			Timestamp:     time.Now().UTC(),
		})
	}

	return &paged, nil
}

// generativeSource returns the generative provider that was dispatched, or
// the raw selector when none was.
func generativeSource(outcomes map[sources.Name]Outcome, selector string) string {
	for _, p := range sources.Providers {
		if _, ok := outcomes[p.Source()]; ok {
			return p.String()
		}
	}
	return selector
}
