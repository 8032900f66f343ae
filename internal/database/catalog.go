// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

// CreateUser inserts u and fills in its ID and creation time.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, email) VALUES (?, ?) RETURNING id, created_at`,
		u.Username, u.Email,
	).Scan(&u.ID, &u.CreatedAt)
	if isConstraintViolation(err) {
		return fmt.Errorf("user %q: %w", u.Username, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser returns the user with id.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

// CreateLearningPath inserts p and fills in its ID and creation time.
func (db *DB) CreateLearningPath(ctx context.Context, p *models.LearningPath) error {
	if p.UserID != nil {
		if _, err := db.GetUser(ctx, *p.UserID); err != nil {
			return err
		}
	}
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO learning_paths (user_id, title, description, tags) VALUES (?, ?, ?, ?) RETURNING id, created_at`,
		nullInt64(p.UserID), p.Title, p.Description, p.Tags,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create learning path: %w", err)
	}
	return nil
}

const learningPathColumns = `id, user_id, title, description, tags, created_at`

// GetLearningPath returns the learning path with id.
func (db *DB) GetLearningPath(ctx context.Context, id int64) (*models.LearningPath, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+learningPathColumns+` FROM learning_paths WHERE id = ?`, id)
	p, err := scanLearningPath(row)
	if err != nil {
		return nil, notFound(err, "learning path", id)
	}
	return p, nil
}

// ListLearningPaths returns every learning path ordered by ID.
func (db *DB) ListLearningPaths(ctx context.Context) ([]models.LearningPath, error) {
	return db.queryLearningPaths(ctx, `SELECT `+learningPathColumns+` FROM learning_paths ORDER BY id`)
}

// ListUserLearningPaths returns the learning paths owned by userID.
func (db *DB) ListUserLearningPaths(ctx context.Context, userID int64) ([]models.LearningPath, error) {
	return db.queryLearningPaths(ctx,
		`SELECT `+learningPathColumns+` FROM learning_paths WHERE user_id = ? ORDER BY id`, userID)
}

func (db *DB) queryLearningPaths(ctx context.Context, query string, args ...any) ([]models.LearningPath, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list learning paths: %w", err)
	}
	defer closeWithLog(rows, "learning path rows")

	paths := []models.LearningPath{}
	for rows.Next() {
		p, err := scanLearningPath(rows)
		if err != nil {
			return nil, fmt.Errorf("scan learning path: %w", err)
		}
		paths = append(paths, *p)
	}
	return paths, rows.Err()
}

// CreateResource inserts r and fills in its ID and creation time.
func (db *DB) CreateResource(ctx context.Context, r *models.Resource) error {
	if r.LearningPathID != nil {
		if _, err := db.GetLearningPath(ctx, *r.LearningPathID); err != nil {
			return err
		}
	}
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO resources (title, url, source, tags, learning_path_id) VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		r.Title, r.URL, r.Source, r.Tags, nullInt64(r.LearningPathID),
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

const resourceColumns = `r.id, r.title, r.url, r.source, r.tags, r.learning_path_id, r.created_at`

// GetResource returns the resource with id.
func (db *DB) GetResource(ctx context.Context, id int64) (*models.Resource, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resources r WHERE r.id = ?`, id)
	r, err := scanResource(row)
	if err != nil {
		return nil, notFound(err, "resource", id)
	}
	return r, nil
}

// ListResources returns every resource ordered by ID.
func (db *DB) ListResources(ctx context.Context) ([]models.Resource, error) {
	return db.queryResources(ctx, `SELECT `+resourceColumns+` FROM resources r ORDER BY r.id`)
}

// ListResourcesByPath returns the resources attached to a learning path.
func (db *DB) ListResourcesByPath(ctx context.Context, pathID int64) ([]models.Resource, error) {
	if _, err := db.GetLearningPath(ctx, pathID); err != nil {
		return nil, err
	}
	return db.queryResources(ctx,
		`SELECT `+resourceColumns+` FROM resources r WHERE r.learning_path_id = ? ORDER BY r.id`, pathID)
}

// ListResourcesWithTags returns every resource that carries at least one tag.
func (db *DB) ListResourcesWithTags(ctx context.Context) ([]models.Resource, error) {
	return db.queryResources(ctx,
		`SELECT `+resourceColumns+` FROM resources r WHERE trim(r.tags) <> '' ORDER BY r.id`)
}

func (db *DB) queryResources(ctx context.Context, query string, args ...any) ([]models.Resource, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer closeWithLog(rows, "resource rows")

	resources := []models.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, *r)
	}
	return resources, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLearningPath(s scanner) (*models.LearningPath, error) {
	var (
		p      models.LearningPath
		userID sql.NullInt64
	)
	if err := s.Scan(&p.ID, &userID, &p.Title, &p.Description, &p.Tags, &p.CreatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		p.UserID = &userID.Int64
	}
	return &p, nil
}

func scanResource(s scanner) (*models.Resource, error) {
	var (
		r      models.Resource
		pathID sql.NullInt64
	)
	if err := s.Scan(&r.ID, &r.Title, &r.URL, &r.Source, &r.Tags, &pathID, &r.CreatedAt); err != nil {
		return nil, err
	}
	if pathID.Valid {
		r.LearningPathID = &pathID.Int64
	}
	return &r, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
