// Package storage persists campus data in SQLite and exposes typed
// repositories over it.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// startupPragmas are applied in order on every fresh connection pool.
// WAL keeps readers unblocked during seeding, the busy timeout covers
// concurrent writes, and NORMAL sync is safe under WAL.
var startupPragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=30000",
	"PRAGMA foreign_keys=ON",
	"PRAGMA synchronous=NORMAL",
}

// DB owns the SQLite connection pool and schema.
type DB struct {
	conn    *sql.DB
	path    string
	metrics MetricsRecorder
}

// MetricsRecorder receives data integrity observations found while reading.
type MetricsRecorder interface {
	RecordStoreIntegrityIssue(issueType string)
}

// New opens (creating if needed) the SQLite store at dbPath and
// initializes the schema.
func New(dbPath string) (*DB, error) {
	if err := ensureParentDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	for _, pragma := range startupPragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	if err := InitSchema(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

func ensureParentDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn exposes the raw pool for operations the repositories do not cover,
// like VACUUM INTO during backups.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Exec runs a statement that returns no rows.
func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// SetMetrics attaches the integrity-issue recorder. Reads made before this
// call simply go unrecorded.
func (db *DB) SetMetrics(recorder MetricsRecorder) {
	db.metrics = recorder
}

// NewTestDB returns an isolated in-memory store for tests.
func NewTestDB() (*DB, error) {
	return New(":memory:")
}
