// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/database"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/history"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

// DataProvider reads the catalog. *database.DB implements it.
type DataProvider interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUserLearningPaths(ctx context.Context, userID int64) ([]models.LearningPath, error)
	ListUserResources(ctx context.Context, userID int64) ([]models.UserResource, error)
	ListResourcesWithTags(ctx context.Context) ([]models.Resource, error)
}

// TrendingSource supplies the most frequent searches. history.Store
// implements it.
type TrendingSource interface {
	Top(ctx context.Context, n int) ([]history.Entry, error)
}

// Recommendation is a scored resource.
type Recommendation struct {
	Resource    models.Resource    `json:"resource"`
	Score       float64            `json:"score"`
	MatchedTags []string           `json:"matched_tags"`
	Scores      map[string]float64 `json:"scores"`
}

type weightedAlgorithm struct {
	alg    Algorithm
	weight float64
}

// Engine produces recommendations and caches trending searches. It is safe
// for concurrent use.
type Engine struct {
	data     DataProvider
	trending TrendingSource
	cfg      config.RecommendConfig

	algMu      sync.RWMutex
	algorithms []weightedAlgorithm

	trendMu     sync.RWMutex
	trendCache  []history.Entry
	refreshedAt time.Time
}

// NewEngine creates an engine with tag_overlap and source_affinity
// registered at the configured weights.
func NewEngine(data DataProvider, trending TrendingSource, cfg config.RecommendConfig) *Engine {
	e := &Engine{data: data, trending: trending, cfg: cfg}
	e.RegisterAlgorithm(TagOverlap{}, cfg.TagWeight)
	e.RegisterAlgorithm(SourceAffinity{}, cfg.SourceWeight)
	return e
}

// RegisterAlgorithm adds alg to the ensemble. Non-positive weights are
// ignored.
func (e *Engine) RegisterAlgorithm(alg Algorithm, weight float64) {
	if weight <= 0 {
		return
	}
	e.algMu.Lock()
	defer e.algMu.Unlock()
	e.algorithms = append(e.algorithms, weightedAlgorithm{alg: alg, weight: weight})
}

// Algorithms returns the registered algorithm names and weights.
func (e *Engine) Algorithms() map[string]float64 {
	e.algMu.RLock()
	defer e.algMu.RUnlock()
	out := make(map[string]float64, len(e.algorithms))
	for _, wa := range e.algorithms {
		out[wa.alg.Name()] = wa.weight
	}
	return out
}

// ClampLimit applies the configured default and maximum to a requested limit.
func (e *Engine) ClampLimit(limit int) int {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if e.cfg.MaxLimit > 0 && limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}
	return limit
}

// Recommend returns up to limit unseen resources for userID, best first.
// An unknown user or a user without interests gets an empty list.
func (e *Engine) Recommend(ctx context.Context, userID int64, limit int) ([]Recommendation, error) {
	limit = e.ClampLimit(limit)

	profile, err := e.BuildProfile(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return []Recommendation{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !profile.HasInterests() {
		return []Recommendation{}, nil
	}

	candidates, err := e.data.ListResourcesWithTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	e.algMu.RLock()
	algorithms := append([]weightedAlgorithm(nil), e.algorithms...)
	e.algMu.RUnlock()

	recs := make([]Recommendation, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		if profile.Seen[r.ID] {
			continue
		}
		matched := profile.matchedTags(r)
		if len(matched) == 0 {
			continue
		}
		rec := Recommendation{Resource: *r, MatchedTags: matched, Scores: make(map[string]float64, len(algorithms))}
		for _, wa := range algorithms {
			s := wa.alg.Score(profile, r)
			rec.Scores[wa.alg.Name()] = s
			rec.Score += wa.weight * s
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Resource.ID < recs[j].Resource.ID
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}

	logging.Ctx(ctx).Debug().
		Int64("user_id", userID).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Msg("Recommendations computed")
	return recs, nil
}

// BuildProfile collects a user's interests from their learning paths and
// history.
func (e *Engine) BuildProfile(ctx context.Context, userID int64) (*Profile, error) {
	if _, err := e.data.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	paths, err := e.data.ListUserLearningPaths(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list learning paths: %w", err)
	}
	viewed, err := e.data.ListUserResources(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	p := newProfile(userID)
	for _, path := range paths {
		p.addTags(path.Tags)
	}
	for _, ur := range viewed {
		p.Seen[ur.ResourceID] = true
		p.Views++
		if ur.Resource == nil {
			continue
		}
		p.addTags(ur.Resource.Tags)
		if ur.Resource.Source != "" {
			p.Sources[ur.Resource.Source]++
		}
	}
	return p, nil
}

// Refresh reloads the trending cache from the history store.
func (e *Engine) Refresh(ctx context.Context) error {
	if e.trending == nil {
		return nil
	}
	entries, err := e.trending.Top(ctx, e.cfg.TrendingSize)
	if err != nil {
		return fmt.Errorf("refresh trending: %w", err)
	}

	e.trendMu.Lock()
	e.trendCache = entries
	e.refreshedAt = time.Now()
	e.trendMu.Unlock()
	return nil
}

// RefreshedAt returns when the trending cache was last loaded.
func (e *Engine) RefreshedAt() time.Time {
	e.trendMu.RLock()
	defer e.trendMu.RUnlock()
	return e.refreshedAt
}

// Trending returns up to limit cached trending searches. The cache is
// loaded on first use.
func (e *Engine) Trending(ctx context.Context, limit int) ([]history.Entry, error) {
	if e.RefreshedAt().IsZero() {
		if err := e.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	limit = e.ClampLimit(limit)

	e.trendMu.RLock()
	defer e.trendMu.RUnlock()
	n := min(limit, len(e.trendCache))
	out := make([]history.Entry, n)
	copy(out, e.trendCache[:n])
	return out, nil
}
