// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/details"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/history"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/recommend"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/search"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/supervisor"
)

// Searcher runs a paged search. *search.Service implements it.
type Searcher interface {
	PerformSearch(ctx context.Context, query string, page, pageSize int, provider string) (*search.PagedEnvelope, error)
}

// DetailService looks up one record. *details.Service implements it.
type DetailService interface {
	Lookup(ctx context.Context, source sources.Name, id string) (*details.Detail, error)
}

// SourceRegistry reports wired sources. *sources.Registry implements it.
type SourceRegistry interface {
	Status() []sources.SourceStatus
	DefaultProvider() sources.Provider
}

// Catalog is the persistence surface. *database.DB implements it.
type Catalog interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)

	CreateLearningPath(ctx context.Context, p *models.LearningPath) error
	GetLearningPath(ctx context.Context, id int64) (*models.LearningPath, error)
	ListLearningPaths(ctx context.Context) ([]models.LearningPath, error)

	CreateResource(ctx context.Context, r *models.Resource) error
	GetResource(ctx context.Context, id int64) (*models.Resource, error)
	ListResources(ctx context.Context) ([]models.Resource, error)
	ListResourcesByPath(ctx context.Context, pathID int64) ([]models.Resource, error)

	CreateCollection(ctx context.Context, c *models.Collection) error
	GetCollection(ctx context.Context, id int64) (*models.Collection, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	AddResourceToCollection(ctx context.Context, collectionID, resourceID int64) error
	RemoveResourceFromCollection(ctx context.Context, collectionID, resourceID int64) error

	RecordUserResource(ctx context.Context, userID, resourceID int64) error
	ListUserResources(ctx context.Context, userID int64) ([]models.UserResource, error)
}

// Recommender serves personal recommendations and trending searches.
// *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, userID int64, limit int) ([]recommend.Recommendation, error)
	Trending(ctx context.Context, limit int) ([]history.Entry, error)
}

// ServiceReporter lists supervised background services.
// *supervisor.SupervisorTree implements it.
type ServiceReporter interface {
	Services() []supervisor.ServiceStatus
}

// Deps holds the handler's collaborators. Search is required; a nil
// dependency disables its routes with 503.
type Deps struct {
	Search    Searcher
	Details   DetailService
	Sources   SourceRegistry
	Catalog   Catalog
	Recommend Recommender

	// Live upgrades GET /api/v1/live to the search activity websocket.
	Live http.Handler

	// Services adds supervised service state to the readiness probe.
	Services ServiceReporter
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_search.go: search, details, sources
//   - handlers_catalog.go: users, learning paths, resources, collections, history
//   - handlers_recommend.go: recommendations and trending
//   - handlers_health.go: liveness and readiness
//   - handlers_live.go: search activity websocket
type Handler struct {
	deps      Deps
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps, cfg *config.Config) *Handler {
	return &Handler{
		deps:      deps,
		config:    cfg,
		startTime: time.Now(),
	}
}

// requestTimeout bounds non-search handlers.
const requestTimeout = 10 * time.Second
