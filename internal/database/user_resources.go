// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package database

import (
	"context"
	"fmt"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

// RecordUserResource appends a resource to a user's history. Recording the
// same resource again is a no-op. Both rows must exist.
func (db *DB) RecordUserResource(ctx context.Context, userID, resourceID int64) error {
	if _, err := db.GetUser(ctx, userID); err != nil {
		return err
	}
	if _, err := db.GetResource(ctx, resourceID); err != nil {
		return err
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_resources (user_id, resource_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, resourceID)
	if err != nil {
		return fmt.Errorf("record history for user %d: %w", userID, err)
	}
	return nil
}

// ListUserResources returns a user's history, oldest first.
func (db *DB) ListUserResources(ctx context.Context, userID int64) ([]models.UserResource, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT ur.user_id, ur.viewed_at, `+resourceColumns+`
		FROM user_resources ur
		JOIN resources r ON r.id = ur.resource_id
		WHERE ur.user_id = ?
		ORDER BY ur.viewed_at, r.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list history for user %d: %w", userID, err)
	}
	defer closeWithLog(rows, "history rows")

	history := []models.UserResource{}
	for rows.Next() {
		var ur models.UserResource
		r, err := scanResource(prefixScanner{rows: rows, prefix: []any{&ur.UserID, &ur.ViewedAt}})
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		ur.ResourceID = r.ID
		ur.Resource = r
		history = append(history, ur)
	}
	return history, rows.Err()
}

// prefixScanner scans leading columns into prefix before the caller's
// destinations.
type prefixScanner struct {
	rows   scanner
	prefix []any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append(p.prefix, dest...)...)
}
