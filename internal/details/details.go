// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package details looks up a single record from a search source and renders
// it as JSON-friendly fields. Wikipedia articles are cleaned up with goquery
// and converted to Markdown.
package details

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/cache"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/metrics"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// DefaultArchiveMetadataURL is the Internet Archive item metadata endpoint.
const DefaultArchiveMetadataURL = "https://archive.org/metadata"

// archiveDetailsURL is the public page for an archive item.
const archiveDetailsURL = "https://archive.org/details"

var (
	// ErrUnknownSource is returned for sources without a detail lookup.
	ErrUnknownSource = errors.New("unknown detail source")

	// ErrNotFound is returned when the upstream has no such record.
	ErrNotFound = errors.New("record not found")
)

// Detail is one record rendered for display.
type Detail struct {
	Source   sources.Name      `json:"source"`
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Summary  string            `json:"summary,omitempty"`
	Content  string            `json:"content,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	ImageURL string            `json:"image_url,omitempty"`
	URL      string            `json:"url,omitempty"`
}

// Options configures a Service.
type Options struct {
	WikipediaURL       string
	ArchiveMetadataURL string
	MetURL             string
	Timeout            time.Duration

	// Endpoints reuses the search adapters' limiter and breaker per source.
	// Sources missing here get their own endpoint on Client.
	Endpoints map[sources.Name]*upstream.Endpoint
	Client    *http.Client
}

type lookupFunc func(ctx context.Context, id string) (*Detail, error)

// Service resolves detail lookups and caches the results.
type Service struct {
	cache   *cache.Cache[*Detail]
	timeout time.Duration
	lookups map[sources.Name]lookupFunc
}

// NewService wires the Wikipedia, Internet Archive and Met lookups. c may be
// nil to disable caching.
func NewService(opts Options, c *cache.Cache[*Detail]) *Service {
	if opts.ArchiveMetadataURL == "" {
		opts.ArchiveMetadataURL = DefaultArchiveMetadataURL
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	endpoint := func(name sources.Name) *upstream.Endpoint {
		if ep, ok := opts.Endpoints[name]; ok && ep != nil {
			return ep
		}
		return upstream.NewEndpoint(string(name)+"_details", opts.Client, upstream.EndpointOptions{
			Breaker: upstream.DefaultBreakerSettings(),
		})
	}

	wiki := &wikipediaLookup{baseURL: opts.WikipediaURL, endpoint: endpoint(sources.Wikipedia), converter: newMarkdownConverter()}
	archive := &archiveLookup{baseURL: opts.ArchiveMetadataURL, endpoint: endpoint(sources.InternetArchive)}
	met := &metLookup{baseURL: opts.MetURL, endpoint: endpoint(sources.MetMuseum)}

	return &Service{
		cache:   c,
		timeout: opts.Timeout,
		lookups: map[sources.Name]lookupFunc{
			sources.Wikipedia:       wiki.lookup,
			sources.InternetArchive: archive.lookup,
			sources.MetMuseum:       met.lookup,
		},
	}
}

// Supported reports whether source has a detail lookup.
func (s *Service) Supported(source sources.Name) bool {
	_, ok := s.lookups[source]
	return ok
}

// Lookup fetches one record. Cached results are returned without I/O, and
// concurrent lookups of the same record share one upstream request.
func (s *Service) Lookup(ctx context.Context, source sources.Name, id string) (*Detail, error) {
	lookup, ok := s.lookups[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	fetch := func(ctx context.Context) (*Detail, error) {
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		d, err := lookup(ctx, id)
		if err != nil {
			var statusErr *upstream.StatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, source, id)
			}
			return nil, fmt.Errorf("%s detail %s: %w", source, id, err)
		}
		logging.Ctx(ctx).Debug().
			Str("source", string(source)).
			Str("id", id).
			Msg("Detail fetched")
		return d, nil
	}

	if s.cache == nil {
		return fetch(ctx)
	}
	d, cached, err := s.cache.GetOrLoad(ctx, string(source)+":"+id, fetch)
	metrics.RecordDetailCache(string(source), cached)
	return d, err
}
