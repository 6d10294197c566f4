// Package database provides the SQLite connection used by the price history
// store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection with production-grade configuration
type DB struct {
	conn *sql.DB
	path string
	name string // Database name for logging
}

// Config holds database configuration
type Config struct {
	Path string
	Name string // Friendly name for logging (e.g., "history")
}

// New creates a new database connection with WAL mode and a tuned pool.
// `file:` URIs are passed through untouched; they are used for in-memory
// databases in tests.
func New(cfg Config) (*DB, error) {
	if !strings.HasPrefix(cfg.Path, "file:") {
		absPath, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		cfg.Path = absPath
	}

	conn, err := sql.Open("sqlite", buildConnectionString(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(24 * time.Hour)
	conn.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{conn: conn, path: cfg.Path, name: cfg.Name}, nil
}

// buildConnectionString creates the SQLite connection string with PRAGMAs.
func buildConnectionString(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	connStr := path + sep + "_pragma=journal_mode(WAL)"
	connStr += "&_pragma=synchronous(NORMAL)"
	connStr += "&_pragma=temp_store(MEMORY)"
	connStr += "&_pragma=foreign_keys(1)"
	connStr += "&_pragma=cache_size(-64000)" // 64MB cache (negative = KB)
	return connStr
}

// Conn returns the underlying sql.DB connection.
func (db *DB) Conn() *sql.DB { return db.conn }

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Close closes the database connection.
func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database %s: %w", db.name, err)
	}
	return nil
}
