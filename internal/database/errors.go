// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("already exists")
)

// notFound maps sql.ErrNoRows onto ErrNotFound for kind/id.
func notFound(err error, kind string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("get %s %d: %w", kind, id, err)
}

// isConstraintViolation checks if an error is a DuckDB constraint violation.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Constraint Error") || strings.Contains(msg, "Duplicate key")
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
