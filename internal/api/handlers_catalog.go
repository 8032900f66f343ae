// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/database"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

// catalogContext bounds a catalog request.
func catalogContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

// respondCatalogError maps database errors onto HTTP statuses.
func respondCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	case errors.Is(err, database.ErrConflict):
		respondError(w, r, http.StatusConflict, "CONFLICT", "Already exists", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Database query failed", err)
	}
}

// requireCatalog writes 503 and returns false when no catalog is wired.
func (h *Handler) requireCatalog(w http.ResponseWriter, r *http.Request) bool {
	if h.deps.Catalog == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Catalog is not available", nil)
		return false
	}
	return true
}

// decodeAndValidate reads a JSON body into v and validates it. It writes the
// 400 itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeJSONBody(w, r, v); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return false
	}
	if apiErr := validateRequest(v); apiErr != nil {
		respondValidation(w, apiErr)
		return false
	}
	return true
}

// pathID parses the named chi URL parameter. It writes the 400 itself.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := parseIDParam(chi.URLParam(r, name))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_ID", "Invalid "+name, nil)
	}
	return id, ok
}

func listOf[T any](items []T) models.ListResponse[T] {
	return models.ListResponse[T]{Items: items, Total: len(items)}
}

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	u := &models.User{Username: strings.TrimSpace(req.Username), Email: req.Email}
	if err := h.deps.Catalog.CreateUser(ctx, u); err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, u, start)
}

// GetUser handles GET /api/v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	u, err := h.deps.Catalog.GetUser(ctx, id)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, u, start)
}

// CreateLearningPath handles POST /api/v1/learning-paths.
func (h *Handler) CreateLearningPath(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	var req CreateLearningPathRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	p := &models.LearningPath{
		UserID:      req.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tags:        req.Tags,
	}
	if err := h.deps.Catalog.CreateLearningPath(ctx, p); err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, p, start)
}

// GetLearningPath handles GET /api/v1/learning-paths/{id}.
func (h *Handler) GetLearningPath(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	p, err := h.deps.Catalog.GetLearningPath(ctx, id)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, p, start)
}

// ListLearningPaths handles GET /api/v1/learning-paths.
func (h *Handler) ListLearningPaths(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	paths, err := h.deps.Catalog.ListLearningPaths(ctx)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, listOf(paths), start)
}

// ListLearningPathResources handles GET /api/v1/learning-paths/{id}/resources.
func (h *Handler) ListLearningPathResources(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	resources, err := h.deps.Catalog.ListResourcesByPath(ctx, id)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, listOf(resources), start)
}

// CreateResource handles POST /api/v1/resources.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	var req CreateResourceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	res := &models.Resource{
		Title:          strings.TrimSpace(req.Title),
		URL:            req.URL,
		Source:         req.Source,
		Tags:           req.Tags,
		LearningPathID: req.LearningPathID,
	}
	if err := h.deps.Catalog.CreateResource(ctx, res); err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, res, start)
}

// GetResource handles GET /api/v1/resources/{id}.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	res, err := h.deps.Catalog.GetResource(ctx, id)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, res, start)
}

// ListResources handles GET /api/v1/resources.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	resources, err := h.deps.Catalog.ListResources(ctx)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, listOf(resources), start)
}

// CreateCollection handles POST /api/v1/collections.
func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	var req CreateCollectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	c := &models.Collection{Title: strings.TrimSpace(req.Title), Description: req.Description}
	if err := h.deps.Catalog.CreateCollection(ctx, c); err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, c, start)
}

// GetCollection handles GET /api/v1/collections/{id}.
func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	c, err := h.deps.Catalog.GetCollection(ctx, id)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, c, start)
}

// ListCollections handles GET /api/v1/collections.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	collections, err := h.deps.Catalog.ListCollections(ctx)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, listOf(collections), start)
}

// AddCollectionResource handles POST /api/v1/collections/{id}/resources/{resourceID}.
func (h *Handler) AddCollectionResource(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalog(w, r) {
		return
	}
	h.changeCollection(w, r, h.deps.Catalog.AddResourceToCollection)
}

// RemoveCollectionResource handles DELETE /api/v1/collections/{id}/resources/{resourceID}.
func (h *Handler) RemoveCollectionResource(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalog(w, r) {
		return
	}
	h.changeCollection(w, r, h.deps.Catalog.RemoveResourceFromCollection)
}

func (h *Handler) changeCollection(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, collectionID, resourceID int64) error) {
	collectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resourceID, ok := pathID(w, r, "resourceID")
	if !ok {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	if err := change(ctx, collectionID, resourceID); err != nil {
		respondCatalogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordHistory handles POST /api/v1/users/{id}/history.
func (h *Handler) RecordHistory(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalog(w, r) {
		return
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req RecordHistoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	if err := h.deps.Catalog.RecordUserResource(ctx, userID, req.ResourceID); err != nil {
		respondCatalogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListHistory handles GET /api/v1/users/{id}/history.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireCatalog(w, r) {
		return
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := catalogContext(r)
	defer cancel()

	if _, err := h.deps.Catalog.GetUser(ctx, userID); err != nil {
		respondCatalogError(w, r, err)
		return
	}
	history, err := h.deps.Catalog.ListUserResources(ctx, userID)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, listOf(history), start)
}
