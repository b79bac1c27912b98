// Package storage persists decode results and run history in SQLite so
// repeat submissions resolve locally instead of re-calling the decoding
// service.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the decode cache and run history.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance and brings the
// schema up to date.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{db: db, dbPath: dbPath}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// LookupDecoded returns cached decode results for the given normalized
// VINs. VINs without a cached row are simply absent from the map.
func (s *SQLiteStorage) LookupDecoded(ctx context.Context, vins []string) (map[string]model.DecodedVehicle, error) {
	results := make(map[string]model.DecodedVehicle, len(vins))
	if len(vins) == 0 {
		return results, nil
	}

	query := `SELECT vin, make, model, vehicle_type, gvwr, body_class, model_year, error_code, error_text
		FROM decoded_vins WHERE vin IN (?` + strings.Repeat(",?", len(vins)-1) + `)`

	args := make([]any, len(vins))
	for i, v := range vins {
		args[i] = v
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decode cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var d model.DecodedVehicle
		if err := rows.Scan(&d.VIN, &d.Make, &d.Model, &d.VehicleType, &d.GVWR,
			&d.BodyClass, &d.ModelYear, &d.ErrorCode, &d.ErrorText); err != nil {
			return nil, fmt.Errorf("failed to scan cached decode: %w", err)
		}
		results[d.VIN] = d
	}

	return results, rows.Err()
}

// StoreDecoded upserts decode results into the cache.
func (s *SQLiteStorage) StoreDecoded(ctx context.Context, decoded []model.DecodedVehicle) error {
	if len(decoded) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decoded_vins (vin, make, model, vehicle_type, gvwr, body_class, model_year, error_code, error_text, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(vin) DO UPDATE SET
			make = excluded.make,
			model = excluded.model,
			vehicle_type = excluded.vehicle_type,
			gvwr = excluded.gvwr,
			body_class = excluded.body_class,
			model_year = excluded.model_year,
			error_code = excluded.error_code,
			error_text = excluded.error_text,
			fetched_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range decoded {
		if d.VIN == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, d.VIN, d.Make, d.Model, d.VehicleType,
			d.GVWR, d.BodyClass, d.ModelYear, d.ErrorCode, d.ErrorText); err != nil {
			return fmt.Errorf("failed to cache decode for %s: %w", d.VIN, err)
		}
	}

	return tx.Commit()
}

// RunSummary records one pipeline execution for operator review.
type RunSummary struct {
	SourceFile    string
	TotalRows     int
	Decoded       int
	DecodeMisses  int
	FailedBatches int
	StartedAt     time.Time
	CompletedAt   time.Time
}

// RecordRun appends a run to the history.
func (s *SQLiteStorage) RecordRun(ctx context.Context, run RunSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (source_file, total_rows, decoded, decode_misses, failed_batches, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.SourceFile, run.TotalRows, run.Decoded, run.DecodeMisses,
		run.FailedBatches, run.StartedAt, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_file, total_rows, decoded, decode_misses, failed_batches, started_at, completed_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.SourceFile, &run.TotalRows, &run.Decoded,
			&run.DecodeMisses, &run.FailedBatches, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
