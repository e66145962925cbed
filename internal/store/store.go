package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS accounts (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL UNIQUE,
		contact_name  TEXT NOT NULL DEFAULT '',
		contact_email TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'active',
		external_id   TEXT NOT NULL DEFAULT '',
		notes         TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS projects (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id       INTEGER REFERENCES accounts(id),
		name             TEXT NOT NULL UNIQUE,
		billing_type     TEXT NOT NULL DEFAULT 'hourly',
		hourly_rate      REAL NOT NULL DEFAULT 0,
		retainer_monthly REAL NOT NULL DEFAULT 0,
		is_internal      INTEGER NOT NULL DEFAULT 0,
		archived         INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS team_members (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL UNIQUE,
		role        TEXT NOT NULL DEFAULT '',
		hourly_rate REAL NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'active',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id  INTEGER NOT NULL REFERENCES projects(id),
		member_id   INTEGER REFERENCES team_members(id),
		title       TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'todo',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id      INTEGER NOT NULL REFERENCES projects(id),
		member_id       INTEGER NOT NULL REFERENCES team_members(id),
		task_id         INTEGER REFERENCES tasks(id),
		entry_date      TEXT NOT NULL,
		hours           REAL NOT NULL DEFAULT 0,
		billable        INTEGER NOT NULL DEFAULT 1,
		client_billed   INTEGER NOT NULL DEFAULT 0,
		contractor_paid INTEGER NOT NULL DEFAULT 0,
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_entries_project ON time_entries(project_id);
	CREATE INDEX IF NOT EXISTS idx_entries_member  ON time_entries(member_id);
	CREATE INDEX IF NOT EXISTS idx_entries_date    ON time_entries(entry_date);

	CREATE TABLE IF NOT EXISTS invoices (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		number       TEXT NOT NULL UNIQUE,
		account_id   INTEGER NOT NULL REFERENCES accounts(id),
		period_start TEXT NOT NULL,
		period_end   TEXT NOT NULL,
		subtotal     REAL NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT 'draft',
		external_id  TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS invoice_lines (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_id  INTEGER NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
		project_id  INTEGER NOT NULL REFERENCES projects(id),
		description TEXT NOT NULL DEFAULT '',
		hours       REAL NOT NULL DEFAULT 0,
		rate        REAL NOT NULL DEFAULT 0,
		amount      REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('currency',           'USD'),
		('week_start',         'monday'),
		('default_range_days', '30'),
		('invoice_prefix',     'HD');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/agencyhub/agencyhub.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "agencyhub", "agencyhub.db"), nil
}
