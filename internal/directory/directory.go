// Package directory persists the append-only collection of accounts
// created through this client, backing the admin view.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tempbox/tempbox/internal/model"
)

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	secret     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_created_at ON accounts(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

// Store is the SQLite-backed account directory.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the directory database at dbPath, enables WAL
// mode, and applies any pending migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening directory db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Append inserts a new account record. A missing ID is assigned a UUID;
// a missing timestamp is set to now.
func (s *Store) Append(ctx context.Context, rec model.AccountRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, secret, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Email, rec.Secret, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("appending account record: %w", err)
	}

	return nil
}

// List returns every account record, most recent first.
func (s *Store) List(ctx context.Context) ([]model.AccountRecord, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, email, secret, created_at FROM accounts ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying account records: %w", err)
	}
	defer rows.Close()

	var records []model.AccountRecord
	for rows.Next() {
		var rec model.AccountRecord
		if err := rows.StructScan(&rec); err != nil {
			return nil, fmt.Errorf("scanning account record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
