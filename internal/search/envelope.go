// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package search

import (
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
)

// Outcome is one adapter's result for a request: either a list of items or a
// failure reason, never both.
type Outcome struct {
	Items  []sources.Item
	Reason string
	failed bool
}

// Success returns an outcome carrying items.
func Success(items []sources.Item) Outcome {
	return Outcome{Items: items}
}

// Failure returns an outcome carrying a short, client-safe reason.
func Failure(reason string) Outcome {
	return Outcome{Reason: reason, failed: true}
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool { return o.failed }

// Envelope is the merged result of one fan-out.
type Envelope struct {
	Results map[sources.Name][]sources.Item `json:"results"`
	Errors  map[sources.Name]string         `json:"errors"`
}

// PagedEnvelope is an Envelope windowed to one page.
type PagedEnvelope struct {
	Results      map[sources.Name][]sources.Item `json:"results"`
	Errors       map[sources.Name]string         `json:"errors"`
	CurrentPage  int                             `json:"current_page"`
	TotalPages   int                             `json:"total_pages"`
	TotalResults int                             `json:"total_results"`
}

// Merge builds the envelope. Every source in outcomes appears in Results;
// failed sources get an empty list plus an Errors entry.
func Merge(outcomes map[sources.Name]Outcome) Envelope {
	env := Envelope{
		Results: make(map[sources.Name][]sources.Item, len(outcomes)),
		Errors:  make(map[sources.Name]string),
	}
	for name, o := range outcomes {
		if o.Failed() {
			env.Results[name] = []sources.Item{}
			env.Errors[name] = o.Reason
			continue
		}
		items := o.Items
		if items == nil {
			items = []sources.Item{}
		}
		env.Results[name] = items
	}
	return env
}

// FailedSources returns the names with an error entry.
func (e Envelope) FailedSources() []sources.Name {
	names := make([]sources.Name, 0, len(e.Errors))
	for name := range e.Errors {
		names = append(names, name)
	}
	return names
}
