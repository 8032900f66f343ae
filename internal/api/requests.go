// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

// Request structs validated with go-playground/validator tags. Query
// parameters use the `query` tag and bodies the `json` tag so that error
// messages name the field the client sent.

// SearchRequest is the validated query of /api/search. Query may be empty;
// it is forwarded to every source verbatim. Its length and the page size
// ceiling come from the api config section.
type SearchRequest struct {
	Query    string `query:"q"`
	Page     int    `query:"page" validate:"min=1"`
	PageSize int    `query:"page_size" validate:"min=1"`
	Provider string `query:"provider" validate:"max=64"`
}

// LimitRequest validates ?limit= on list endpoints.
type LimitRequest struct {
	Limit int `query:"limit" validate:"min=0,max=1000"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// CreateLearningPathRequest is the body of POST /learning-paths.
type CreateLearningPathRequest struct {
	UserID      *int64 `json:"user_id" validate:"omitempty,min=1"`
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Tags        string `json:"tags" validate:"omitempty,max=500,taglist"`
}

// CreateResourceRequest is the body of POST /resources.
type CreateResourceRequest struct {
	Title          string `json:"title" validate:"required,notblank,max=300"`
	URL            string `json:"url" validate:"required,url,max=2048"`
	Source         string `json:"source" validate:"omitempty,sourcename"`
	Tags           string `json:"tags" validate:"omitempty,max=500,taglist"`
	LearningPathID *int64 `json:"learning_path_id" validate:"omitempty,min=1"`
}

// CreateCollectionRequest is the body of POST /collections.
type CreateCollectionRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// RecordHistoryRequest is the body of POST /users/{id}/history.
type RecordHistoryRequest struct {
	ResourceID int64 `json:"resource_id" validate:"required,min=1"`
}
