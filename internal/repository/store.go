// Package repository persists processed invoice records. Storage is a
// single SQLite file; the schema is created on open.
package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
	id                          TEXT PRIMARY KEY,
	batch_id                    TEXT NOT NULL,
	filename                    TEXT NOT NULL,
	source_path                 TEXT NOT NULL,
	period_start                TEXT,
	period_end                  TEXT,
	electricity_cost            REAL,
	gas_cost                    REAL,
	vat                         REAL,
	total_charges               REAL,
	direct_debit                REAL,
	starting_balance            REAL,
	closing_balance             REAL,
	electricity_kwh             REAL,
	gas_kwh                     REAL,
	electricity_unit_rate       REAL,
	gas_unit_rate               REAL,
	electricity_standing_charge REAL,
	gas_standing_charge         REAL,
	created_at                  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_invoices_batch ON invoices(batch_id);
`

// Store is the SQLite-backed invoice store.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore opens (creating if needed) the database at dbPath.
func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, common.NewAppError("DB_OPEN_ERROR", "opening database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, common.NewAppError("DB_MIGRATE_ERROR", "creating schema", err)
	}

	logger.Info("repository.open", "path", dbPath)
	return &Store{db: db, path: dbPath, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
