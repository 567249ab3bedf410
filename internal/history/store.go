// Package history persists processing run summaries in PostgreSQL.
package history

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/cardhub/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements core.HistoryStore on top of a pgx connection.
type Store struct {
	db DBTX
}

var _ core.HistoryStore = (*Store)(nil)

// New creates a Store.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the history table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

const insertRunSQL = `INSERT INTO processing_history (
	id, file_name, total_rows, valid_rows, fixed_rows, error_rows,
	duplicates_found, card_provider, export_format, processing_time_ms,
	validation_report, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// SaveRun inserts a run summary.
func (s *Store) SaveRun(ctx context.Context, e core.HistoryEntry) error {
	id := toPgUUID(e.ID)
	if !id.Valid {
		return fmt.Errorf("save run: invalid id %q", e.ID)
	}

	report, err := json.Marshal(e.Report)
	if err != nil {
		return fmt.Errorf("encode validation report: %w", err)
	}

	_, err = s.db.Exec(ctx, insertRunSQL,
		id,
		e.FileName,
		e.TotalRows,
		e.ValidRows,
		e.FixedRows,
		e.ErrorRows,
		e.DuplicatesFound,
		toPgText(e.CardProvider),
		toPgText(e.ExportFormat),
		e.ProcessingTimeMS,
		report,
		pgtype.Timestamptz{Time: e.CreatedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", e.ID, err)
	}
	return nil
}

// RecordExport stores the most recent export format of a run.
func (s *Store) RecordExport(ctx context.Context, runID string, format core.ExportFormat) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE processing_history SET export_format = $2 WHERE id = $1",
		toPgUUID(runID), string(format),
	)
	if err != nil {
		return fmt.Errorf("record export for %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return nil
}

const selectRunsSQL = `SELECT id, file_name, total_rows, valid_rows, fixed_rows, error_rows,
	duplicates_found, card_provider, export_format, processing_time_ms,
	validation_report, created_at
	FROM processing_history ORDER BY created_at DESC LIMIT $1`

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	rows, err := s.db.Query(ctx, selectRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	entries := make([]core.HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return entries, nil
}

// DeleteRun removes a single run.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	id := toPgUUID(runID)
	if !id.Valid {
		return fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}

	tag, err := s.db.Exec(ctx, "DELETE FROM processing_history WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return nil
}

// PurgeRuns deletes runs created before the cutoff and returns how many were removed.
func (s *Store) PurgeRuns(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM processing_history WHERE created_at < $1",
		pgtype.Timestamptz{Time: before, Valid: true},
	)
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanEntry scans one processing_history row.
func scanEntry(row pgx.Row) (core.HistoryEntry, error) {
	var (
		id           pgtype.UUID
		cardProvider pgtype.Text
		exportFormat pgtype.Text
		report       []byte
		createdAt    pgtype.Timestamptz
		e            core.HistoryEntry
	)

	err := row.Scan(
		&id, &e.FileName, &e.TotalRows, &e.ValidRows, &e.FixedRows, &e.ErrorRows,
		&e.DuplicatesFound, &cardProvider, &exportFormat, &e.ProcessingTimeMS,
		&report, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.HistoryEntry{}, core.ErrRunNotFound
	}
	if err != nil {
		return core.HistoryEntry{}, fmt.Errorf("scan run: %w", err)
	}

	e.ID = fromPgUUID(id)
	e.CardProvider = fromPgText(cardProvider)
	e.ExportFormat = fromPgText(exportFormat)
	e.CreatedAt = createdAt.Time

	if len(report) > 0 {
		if err := json.Unmarshal(report, &e.Report); err != nil {
			return core.HistoryEntry{}, fmt.Errorf("decode validation report for %s: %w", e.ID, err)
		}
	}

	return e, nil
}
