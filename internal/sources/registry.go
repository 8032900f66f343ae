// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"context"
	"net/http"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// Registry holds the adapters built from configuration. It is read-only after
// NewRegistry and safe for concurrent use.
type Registry struct {
	mandatory       []Adapter
	generative      map[Provider]*GenerativeAdapter
	defaultProvider Provider
	endpoints       map[Name]*upstream.Endpoint
}

// NewRegistry wires every enabled source and both generative providers onto
// the shared client. Each source gets its own limiter and breaker.
func NewRegistry(cfg *config.Config, client *http.Client) *Registry {
	opts := upstream.EndpointOptions{
		RateLimit: cfg.Sources.RateLimit,
		RateBurst: cfg.Sources.RateBurst,
		Breaker:   upstream.DefaultBreakerSettings(),
	}

	r := &Registry{
		generative: make(map[Provider]*GenerativeAdapter, len(Providers)),
		endpoints:  make(map[Name]*upstream.Endpoint),
	}
	endpoint := func(name Name) *upstream.Endpoint {
		ep := upstream.NewEndpoint(string(name), client, opts)
		r.endpoints[name] = ep
		return ep
	}

	s := cfg.Sources
	metObjects := func() *upstream.Endpoint {
		o := opts
		o.Breaker = MetObjectBreakerSettings(s.MetMuseum)
		ep := upstream.NewEndpoint(string(MetMuseumObjects), client, o)
		r.endpoints[MetMuseumObjects] = ep
		return ep
	}
	builders := []struct {
		name  Name
		build func() Adapter
	}{
		{Wikipedia, func() Adapter { return NewWikipedia(s.Wikipedia, endpoint(Wikipedia)) }},
		{InternetArchive, func() Adapter { return NewInternetArchive(s.InternetArchive, endpoint(InternetArchive)) }},
		{MetMuseum, func() Adapter { return NewMetMuseum(s.MetMuseum, endpoint(MetMuseum), metObjects()) }},
		{Rijksmuseum, func() Adapter { return NewRijksmuseum(s.Rijksmuseum, endpoint(Rijksmuseum)) }},
		{HarvardArt, func() Adapter { return NewHarvardArt(s.HarvardArt, endpoint(HarvardArt)) }},
		{CooperHewitt, func() Adapter { return NewCooperHewitt(s.CooperHewitt, endpoint(CooperHewitt)) }},
	}
	for _, b := range builders {
		if cfg.SourceEnabled(string(b.name)) {
			r.mandatory = append(r.mandatory, b.build())
		}
	}

	g := cfg.Generative
	r.generative[ProviderOpenAI] = NewGenerative(ProviderOpenAI, g.OpenAI, g.SystemPrompt, endpoint(OpenAI))
	r.generative[ProviderPerplexity] = NewGenerative(ProviderPerplexity, g.Perplexity, g.SystemPrompt, endpoint(Perplexity))

	r.defaultProvider, _ = ParseProvider(g.DefaultProvider)
	return r
}

// NewStaticRegistry builds a registry from ready-made adapters.
func NewStaticRegistry(mandatory []Adapter, generative map[Provider]Adapter, defaultProvider Provider) *StaticRegistry {
	return &StaticRegistry{mandatory: mandatory, generative: generative, defaultProvider: defaultProvider}
}

// Mandatory returns the adapters dispatched on every search.
func (r *Registry) Mandatory() []Adapter { return r.mandatory }

// Generative returns the adapter for p.
func (r *Registry) Generative(p Provider) Adapter {
	if g, ok := r.generative[p]; ok {
		return g
	}
	return nil
}

// DefaultProvider is used when the selector is empty or unknown.
func (r *Registry) DefaultProvider() Provider { return r.defaultProvider }

// Select returns the mandatory adapters plus the generative adapter chosen by
// selector.
func (r *Registry) Select(ctx context.Context, selector string) []Adapter {
	return selectAdapters(ctx, r, selector)
}

// Endpoint returns the endpoint wired for name, or nil.
func (r *Registry) Endpoint(name Name) *upstream.Endpoint { return r.endpoints[name] }

// Status reports every wired source with its breaker state.
func (r *Registry) Status() []SourceStatus {
	var out []SourceStatus
	for _, a := range r.mandatory {
		out = append(out, statusOf(a, false))
	}
	for _, p := range Providers {
		out = append(out, statusOf(r.generative[p], true))
	}
	return out
}

// SourceStatus describes one wired source.
type SourceStatus struct {
	Name       Name   `json:"name"`
	Generative bool   `json:"generative"`
	Breaker    string `json:"breaker_state,omitempty"`
}

func statusOf(a Adapter, generative bool) SourceStatus {
	st := SourceStatus{Name: a.Name(), Generative: generative}
	if br, ok := a.(BreakerReporter); ok {
		st.Breaker = br.BreakerState()
	}
	return st
}

// Set is the view of a registry that search dispatch needs.
type Set interface {
	Mandatory() []Adapter
	Generative(p Provider) Adapter
	DefaultProvider() Provider
}

// StaticRegistry is a Set over fixed adapters.
type StaticRegistry struct {
	mandatory       []Adapter
	generative      map[Provider]Adapter
	defaultProvider Provider
}

func (r *StaticRegistry) Mandatory() []Adapter { return r.mandatory }

func (r *StaticRegistry) Generative(p Provider) Adapter { return r.generative[p] }

func (r *StaticRegistry) DefaultProvider() Provider { return r.defaultProvider }

// Select returns the mandatory adapters plus the generative adapter chosen by
// selector.
func (r *StaticRegistry) Select(ctx context.Context, selector string) []Adapter {
	return selectAdapters(ctx, r, selector)
}

func selectAdapters(ctx context.Context, s Set, selector string) []Adapter {
	mandatory := s.Mandatory()
	out := make([]Adapter, 0, len(mandatory)+1)
	out = append(out, mandatory...)
	if g := s.Generative(ResolveProvider(ctx, selector, s.DefaultProvider())); g != nil {
		out = append(out, g)
	}
	return out
}
