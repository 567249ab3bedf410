package history

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/cardhub/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// ============================================================================
// Fakes
// ============================================================================

type execCall struct {
	sql  string
	args []any
}

// fakeDB records Exec calls and serves canned rows.
type fakeDB struct {
	execs   []execCall
	execTag string
	execErr error
	rows    [][]any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(f.execTag), f.execErr
}

func (f *fakeDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return &fakeRows{rows: f.rows, pos: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if len(f.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{values: f.rows[0]}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.pos], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.rows[r.pos], dest)
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(values[i]))
	}
	return nil
}

const runID = "6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f"

func historyRow(t *testing.T, provider string, createdAt time.Time) []any {
	t.Helper()
	report, err := json.Marshal(core.ValidationReport{TotalIssues: 3, FixedIssues: 2, Errors: 1})
	if err != nil {
		t.Fatal(err)
	}
	return []any{
		toPgUUID(runID), "july.csv", 10, 9, 4, 1,
		2, toPgText(provider), pgtype.Text{}, int64(42),
		report, pgtype.Timestamptz{Time: createdAt, Valid: true},
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestStore_SaveRun(t *testing.T) {
	db := &fakeDB{execTag: "INSERT 0 1"}
	store := New(db)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := store.SaveRun(context.Background(), core.HistoryEntry{
		ID:               runID,
		FileName:         "july.csv",
		TotalRows:        10,
		CardProvider:     "amex",
		ProcessingTimeMS: 42,
		Report:           core.ValidationReport{TotalIssues: 1, Errors: 1},
		CreatedAt:        created,
	})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if len(db.execs) != 1 {
		t.Fatalf("execs = %d, want 1", len(db.execs))
	}
	args := db.execs[0].args
	if len(args) != 12 {
		t.Fatalf("args = %d, want 12", len(args))
	}
	if got := args[0].(pgtype.UUID); fromPgUUID(got) != runID {
		t.Errorf("id arg = %v", got)
	}
	if got := args[7].(pgtype.Text); got.String != "amex" || !got.Valid {
		t.Errorf("card_provider arg = %+v", got)
	}
	if got := args[8].(pgtype.Text); got.Valid {
		t.Errorf("export_format should be NULL, got %+v", got)
	}
	if got := string(args[10].([]byte)); !strings.Contains(got, `"totalIssues":1`) {
		t.Errorf("report arg = %s", got)
	}
	if got := args[11].(pgtype.Timestamptz); !got.Time.Equal(created) {
		t.Errorf("created_at arg = %v", got.Time)
	}
}

func TestStore_SaveRun_InvalidID(t *testing.T) {
	db := &fakeDB{}
	if err := New(db).SaveRun(context.Background(), core.HistoryEntry{ID: "not-a-uuid"}); err == nil {
		t.Error("expected error for invalid id")
	}
	if len(db.execs) != 0 {
		t.Error("invalid id reached the database")
	}
}

func TestStore_RecordExport(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr error
	}{
		{"updated", "UPDATE 1", nil},
		{"missing run", "UPDATE 0", core.ErrRunNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{execTag: tt.tag}
			err := New(db).RecordExport(context.Background(), runID, core.FormatXero)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RecordExport = %v, want %v", err, tt.wantErr)
			}
			if got := db.execs[0].args[1]; got != "xero" {
				t.Errorf("format arg = %v, want xero", got)
			}
		})
	}
}

func TestStore_ListRuns(t *testing.T) {
	newer := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{rows: [][]any{
		historyRow(t, "amex", newer),
		historyRow(t, "", newer.Add(-time.Hour)),
	}}

	entries, err := New(db).ListRuns(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	e := entries[0]
	if e.ID != runID || e.FileName != "july.csv" || e.TotalRows != 10 || e.DuplicatesFound != 2 {
		t.Errorf("entry = %+v", e)
	}
	if e.CardProvider != "amex" || e.ExportFormat != "" {
		t.Errorf("provider/format = %q/%q", e.CardProvider, e.ExportFormat)
	}
	if e.Report.TotalIssues != 3 || e.Report.Errors != 1 {
		t.Errorf("Report = %+v", e.Report)
	}
	if !e.CreatedAt.Equal(newer) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, newer)
	}
	if entries[1].CardProvider != "" {
		t.Errorf("NULL provider = %q, want empty", entries[1].CardProvider)
	}
}

func TestScanEntry_NoRows(t *testing.T) {
	db := &fakeDB{}
	_, err := scanEntry(db.QueryRow(context.Background(), selectRunsSQL))
	if !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("scanEntry = %v, want ErrRunNotFound", err)
	}
}

func TestStore_DeleteRun(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		tag     string
		wantErr error
		execs   int
	}{
		{"deleted", runID, "DELETE 1", nil, 1},
		{"missing", runID, "DELETE 0", core.ErrRunNotFound, 1},
		{"malformed id", "abc", "", core.ErrRunNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{execTag: tt.tag}
			err := New(db).DeleteRun(context.Background(), tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeleteRun = %v, want %v", err, tt.wantErr)
			}
			if len(db.execs) != tt.execs {
				t.Errorf("execs = %d, want %d", len(db.execs), tt.execs)
			}
		})
	}
}

func TestStore_PurgeRuns(t *testing.T) {
	db := &fakeDB{execTag: "DELETE 7"}
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := New(db).PurgeRuns(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("PurgeRuns: %v", err)
	}
	if n != 7 {
		t.Errorf("purged = %d, want 7", n)
	}
	if got := db.execs[0].args[0].(pgtype.Timestamptz); !got.Time.Equal(cutoff) {
		t.Errorf("cutoff arg = %v", got.Time)
	}
}

func TestStore_ExecErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	db := &fakeDB{execErr: boom}

	if _, err := New(db).PurgeRuns(context.Background(), time.Now()); !errors.Is(err, boom) {
		t.Errorf("PurgeRuns = %v, want wrapped %v", err, boom)
	}
	if err := New(db).EnsureSchema(context.Background()); !errors.Is(err, boom) {
		t.Errorf("EnsureSchema = %v, want wrapped %v", err, boom)
	}
}

func TestEnsureSchema_CreatesTable(t *testing.T) {
	db := &fakeDB{}
	if err := New(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if !strings.Contains(db.execs[0].sql, "CREATE TABLE IF NOT EXISTS processing_history") {
		t.Errorf("schema sql = %s", db.execs[0].sql)
	}
}

func TestConvert(t *testing.T) {
	if toPgText("").Valid {
		t.Error(`toPgText("") should be NULL`)
	}
	if got := fromPgText(toPgText("amex")); got != "amex" {
		t.Errorf("text round trip = %q", got)
	}
	if toPgUUID("nope").Valid {
		t.Error("toPgUUID(invalid) should be NULL")
	}
	if got := fromPgUUID(toPgUUID(runID)); got != runID {
		t.Errorf("uuid round trip = %q", got)
	}
	if got := fromPgUUID(pgtype.UUID{}); got != "" {
		t.Errorf("fromPgUUID(NULL) = %q", got)
	}
}
