// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package database stores the catalog in DuckDB: users, learning paths,
// resources, collections and each user's browsing history.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	path string
}

// New opens the database at cfg.Path and creates the schema. An empty path
// or ":memory:" opens an in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}
	if path != memoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", dsn(path, cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(max(2, runtime.NumCPU()/2))
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{conn: conn, path: path}
	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logging.Info().Str("path", path).Msg("Catalog database opened")
	return db, nil
}

const memoryPath = ":memory:"

// dsn builds the DuckDB connection string. Extension autoloading is off so
// the server never downloads code at runtime.
func dsn(path string, cfg *config.DatabaseConfig) string {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	params := url.Values{}
	params.Set("access_mode", "read_write")
	params.Set("threads", strconv.Itoa(threads))
	params.Set("autoinstall_known_extensions", "false")
	params.Set("autoload_known_extensions", "false")
	if cfg.MaxMemory != "" {
		params.Set("max_memory", cfg.MaxMemory)
	}
	return path + "?" + params.Encode()
}

// Conn returns the underlying SQL connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database path.
func (db *DB) Path() string {
	return db.path
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return errors.New("database is closed")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint folds the WAL into the database file. In-memory databases have
// nothing to flush.
func (db *DB) Checkpoint(ctx context.Context) error {
	if db.path == memoryPath {
		return nil
	}
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// Close checkpoints and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Str("path", db.path).Msg("Final checkpoint failed")
	}
	return db.conn.Close()
}
