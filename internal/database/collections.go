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

// CreateCollection inserts c and fills in its ID and creation time.
func (db *DB) CreateCollection(ctx context.Context, c *models.Collection) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO collections (title, description) VALUES (?, ?) RETURNING id, created_at`,
		c.Title, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// GetCollection returns the collection with id and its resources.
func (db *DB) GetCollection(ctx context.Context, id int64) (*models.Collection, error) {
	var c models.Collection
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, created_at FROM collections WHERE id = ?`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "collection", id)
	}

	c.Resources, err = db.queryResources(ctx,
		`SELECT `+resourceColumns+`
		FROM resources r
		JOIN collection_resources cr ON cr.resource_id = r.id
		WHERE cr.collection_id = ?
		ORDER BY cr.added_at, r.id`, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCollections returns every collection without its resources.
func (db *DB) ListCollections(ctx context.Context) ([]models.Collection, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, created_at FROM collections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer closeWithLog(rows, "collection rows")

	collections := []models.Collection{}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// AddResourceToCollection links a resource. Adding it twice is a no-op.
func (db *DB) AddResourceToCollection(ctx context.Context, collectionID, resourceID int64) error {
	if err := db.requireCollectionAndResource(ctx, collectionID, resourceID); err != nil {
		return err
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO collection_resources (collection_id, resource_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		collectionID, resourceID)
	if err != nil {
		return fmt.Errorf("add resource %d to collection %d: %w", resourceID, collectionID, err)
	}
	return nil
}

// RemoveResourceFromCollection unlinks a resource. ErrNotFound is returned
// when it was not linked.
func (db *DB) RemoveResourceFromCollection(ctx context.Context, collectionID, resourceID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM collection_resources WHERE collection_id = ? AND resource_id = ?`,
		collectionID, resourceID)
	if err != nil {
		return fmt.Errorf("remove resource %d from collection %d: %w", resourceID, collectionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove resource %d from collection %d: %w", resourceID, collectionID, err)
	}
	if n == 0 {
		return fmt.Errorf("resource %d in collection %d: %w", resourceID, collectionID, ErrNotFound)
	}
	return nil
}

func (db *DB) requireCollectionAndResource(ctx context.Context, collectionID, resourceID int64) error {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM collections WHERE id = ?)`, collectionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check collection %d: %w", collectionID, err)
	}
	if !exists {
		return fmt.Errorf("collection %d: %w", collectionID, ErrNotFound)
	}
	if _, err := db.GetResource(ctx, resourceID); err != nil {
		return err
	}
	return nil
}
