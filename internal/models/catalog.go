// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package models

import (
	"strings"
	"time"
)

// User owns learning paths and a browsing history.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LearningPath is an ordered study topic. Tags feed recommendations.
type LearningPath struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"user_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Resource is a saved link, usually to a search result.
type Resource struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Source         string    `json:"source,omitempty"`
	Tags           string    `json:"tags"`
	LearningPathID *int64    `json:"learning_path_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Collection groups resources.
type Collection struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Resources   []Resource `json:"resources,omitempty"`
}

// UserResource is one entry in a user's browsing history.
type UserResource struct {
	UserID     int64     `json:"user_id"`
	ResourceID int64     `json:"resource_id"`
	ViewedAt   time.Time `json:"viewed_at"`
	Resource   *Resource `json:"resource,omitempty"`
}

// SplitTags turns a comma-separated tag list into trimmed, lower-cased,
// non-empty tags.
func SplitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
