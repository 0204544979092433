package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteMedium implements Medium as a key-value table in a local SQLite database.
type SQLiteMedium struct {
	db *sqlx.DB
}

// NewSQLiteMedium opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteMedium(dbPath string) (*SQLiteMedium, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	m := &SQLiteMedium{db: db}
	if err := m.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return m, nil
}

// Close closes the underlying database connection.
func (m *SQLiteMedium) Close() error {
	return m.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (m *SQLiteMedium) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := m.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = m.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, mig := range migrations {
		if mig.version <= currentVersion {
			continue
		}
		if _, err := m.db.Exec(mig.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", mig.version, err)
		}
	}

	return nil
}

// Get returns the stored value for key. ok is false if the key was never set.
func (m *SQLiteMedium) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.GetContext(ctx, &value, "SELECT value FROM collections WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting key %s: %w", key, err)
	}
	return value, true, nil
}

// Set replaces the value stored under key in a single statement.
func (m *SQLiteMedium) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO collections (key, value, updated_at) VALUES (?, ?, ?)",
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting key %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in alphabetical order.
func (m *SQLiteMedium) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := m.db.SelectContext(ctx, &keys, "SELECT key FROM collections ORDER BY key"); err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	return keys, nil
}
