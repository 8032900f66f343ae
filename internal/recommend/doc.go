// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package recommend suggests catalog resources to a user and keeps the list
// of trending searches.
//
// # Personal recommendations
//
// A user's interest profile is built from the tags on their learning paths
// and on the resources in their history. Every tagged resource the user has
// not seen is a candidate. Each registered Algorithm scores the candidate
// against the profile and the engine sums the weighted scores:
//
//   - tag_overlap: number of candidate tags the profile contains
//   - source_affinity: share of the user's history from the candidate's source
//
// Candidates with no tag in common with the profile are dropped. Ties are
// broken by resource ID so results are deterministic.
//
// # Trending
//
// Trending searches come from the history store's Top and are cached
// between refreshes. A supervised service calls Refresh on an interval.
//
// # Usage
//
//	engine := recommend.NewEngine(db, historyStore, cfg.Recommend)
//	recs, err := engine.Recommend(ctx, userID, 10)
package recommend
