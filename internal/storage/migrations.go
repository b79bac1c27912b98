package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects. Failing to reach it is fatal.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Decode cache",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS decoded_vins (
					vin TEXT PRIMARY KEY,
					make TEXT NOT NULL DEFAULT '',
					model TEXT NOT NULL DEFAULT '',
					vehicle_type TEXT NOT NULL DEFAULT '',
					gvwr TEXT NOT NULL DEFAULT '',
					body_class TEXT NOT NULL DEFAULT '',
					model_year TEXT NOT NULL DEFAULT '',
					error_code TEXT NOT NULL DEFAULT '',
					error_text TEXT NOT NULL DEFAULT '',
					fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Run history",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_file TEXT NOT NULL,
					total_rows INTEGER NOT NULL DEFAULT 0,
					decoded INTEGER NOT NULL DEFAULT 0,
					decode_misses INTEGER NOT NULL DEFAULT 0,
					failed_batches INTEGER NOT NULL DEFAULT 0,
					started_at DATETIME,
					completed_at DATETIME
				)`)
			return err
		},
	},
}

// Migrate brings the schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Debug("Applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
