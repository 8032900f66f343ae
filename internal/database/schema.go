// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaStatements create the catalog. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS learning_paths_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS resources_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS collections_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS learning_paths (
		id BIGINT PRIMARY KEY DEFAULT nextval('learning_paths_id_seq'),
		user_id BIGINT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS resources (
		id BIGINT PRIMARY KEY DEFAULT nextval('resources_id_seq'),
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		learning_path_id BIGINT,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS collections (
		id BIGINT PRIMARY KEY DEFAULT nextval('collections_id_seq'),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS collection_resources (
		collection_id BIGINT NOT NULL,
		resource_id BIGINT NOT NULL,
		added_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (collection_id, resource_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_resources (
		user_id BIGINT NOT NULL,
		resource_id BIGINT NOT NULL,
		viewed_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (user_id, resource_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_learning_paths_user ON learning_paths(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_path ON resources(learning_path_id)`,
}

// schemaContext returns a context with a timeout suitable for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
