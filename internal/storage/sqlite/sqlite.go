// Package sqlite implements the storage interface using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"

	// Import SQLite driver
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	closed atomic.Bool // Tracks whether Close() has been called
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	// Convert :memory: to shared memory URL for consistent behavior across connections
	// SQLite creates separate in-memory databases for each connection to ":memory:",
	// but "file::memory:?cache=shared" creates a shared in-memory database.
	dbPath := path
	if path == ":memory:" {
		dbPath = "file::memory:?cache=shared"
	}

	// Ensure directory exists (skip for memory databases)
	if !strings.Contains(dbPath, ":memory:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency and busy timeout for parallel writes
	// _pragma=journal_mode(WAL) enables Write-Ahead Logging
	// _pragma=foreign_keys(ON) enforces foreign key constraints
	// _pragma=busy_timeout(30000) means wait up to 30 seconds for locks instead of failing immediately
	// _time_format=sqlite enables automatic parsing of DATETIME columns to time.Time
	connStr := dbPath
	if strings.Contains(dbPath, "?") {
		connStr += "&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	} else {
		connStr += "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Convert to absolute path for consistency
	absPath := path
	if !strings.Contains(path, ":memory:") {
		if abs, err := filepath.Abs(path); err == nil {
			absPath = abs
		}
	}

	return &SQLiteStorage{db: db, dbPath: absPath}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// UnderlyingDB returns the underlying *sql.DB connection
func (s *SQLiteStorage) UnderlyingDB() *sql.DB {
	return s.db
}

// GetModuleVersion returns the stored version row for a module, or nil
// if the module has never been synced.
func (s *SQLiteStorage) GetModuleVersion(ctx context.Context, module string) (*types.ModuleVersion, error) {
	var mv types.ModuleVersion
	err := s.db.QueryRowContext(ctx, `
		SELECT module, version, last_synced_at FROM module_versions WHERE module = ?
	`, module).Scan(&mv.Module, &mv.Version, &mv.LastSyncedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module version: %w", err)
	}
	return &mv, nil
}

// UpsertModuleVersion inserts or updates the version row for a module
func (s *SQLiteStorage) UpsertModuleVersion(ctx context.Context, module string, version int64, syncedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO module_versions (module, version, last_synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT (module) DO UPDATE SET version = excluded.version, last_synced_at = excluded.last_synced_at
	`, module, version, syncedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert module version: %w", err)
	}
	return nil
}

// GetAllModuleVersions returns every stored module version row
func (s *SQLiteStorage) GetAllModuleVersions(ctx context.Context) ([]*types.ModuleVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module, version, last_synced_at FROM module_versions ORDER BY module
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query module versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []*types.ModuleVersion
	for rows.Next() {
		var mv types.ModuleVersion
		if err := rows.Scan(&mv.Module, &mv.Version, &mv.LastSyncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan module version: %w", err)
		}
		versions = append(versions, &mv)
	}
	return versions, rows.Err()
}

// SetMetadata stores an internal key-value pair
func (s *SQLiteStorage) SetMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}

// GetMetadata returns an internal value, or "" if the key is absent
func (s *SQLiteStorage) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

// GetStatistics returns aggregate active/inactive counts per entity kind
func (s *SQLiteStorage) GetStatistics(ctx context.Context) (*types.Statistics, error) {
	stats := &types.Statistics{}
	counts := []struct {
		table    string
		active   *int
		inactive *int
	}{
		{"track_categories", &stats.ActiveCategories, &stats.InactiveCategories},
		{"track_items", &stats.ActiveItems, &stats.InactiveItems},
		{"track_questions", &stats.ActiveQuestions, &stats.InactiveQuestions},
		{"track_response_options", &stats.ActiveOptions, &stats.InactiveOptions},
	}

	for _, c := range counts {
		query := fmt.Sprintf(`
			SELECT
				COUNT(CASE WHEN status = 'active' THEN 1 END),
				COUNT(CASE WHEN status = 'inactive' THEN 1 END)
			FROM %s
		`, c.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(c.active, c.inactive); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return stats, nil
}
