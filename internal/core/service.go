package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultResultTTL is how long a processed result stays available for export.
const DefaultResultTTL = 30 * time.Minute

// History listing bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryEntry is the persisted summary of one run.
type HistoryEntry struct {
	ID               string           `json:"id"`
	FileName         string           `json:"file_name"`
	TotalRows        int              `json:"total_rows"`
	ValidRows        int              `json:"valid_rows"`
	FixedRows        int              `json:"fixed_rows"`
	ErrorRows        int              `json:"error_rows"`
	DuplicatesFound  int              `json:"duplicates_found"`
	CardProvider     string           `json:"card_provider"`
	ExportFormat     string           `json:"export_format,omitempty"`
	ProcessingTimeMS int64            `json:"processing_time_ms"`
	Report           ValidationReport `json:"validation_report"`
	CreatedAt        time.Time        `json:"created_at"`
}

// NewHistoryEntry summarizes result for persistence.
func NewHistoryEntry(runID string, result *ProcessingResult, createdAt time.Time) HistoryEntry {
	return HistoryEntry{
		ID:               runID,
		FileName:         result.FileName,
		TotalRows:        result.TotalRows,
		ValidRows:        result.ValidRows,
		FixedRows:        result.FixedRows,
		ErrorRows:        result.ErrorRows,
		DuplicatesFound:  len(result.Duplicates),
		CardProvider:     result.ProviderID,
		ProcessingTimeMS: result.Elapsed.Milliseconds(),
		Report:           result.Report,
		CreatedAt:        createdAt,
	}
}

// HistoryStore persists run summaries.
type HistoryStore interface {
	SaveRun(ctx context.Context, entry HistoryEntry) error
	RecordExport(ctx context.Context, runID string, format ExportFormat) error
	ListRuns(ctx context.Context, limit int) ([]HistoryEntry, error)
	DeleteRun(ctx context.Context, runID string) error
	PurgeRuns(ctx context.Context, before time.Time) (int64, error)
}

// ServiceConfig holds service limits. Zero values select defaults.
type ServiceConfig struct {
	MaxFileSize   int64         // Bytes; 0 disables the check
	MaxConcurrent int           // Simultaneous runs
	MaxWait       time.Duration // How long a run waits for a slot
	ResultTTL     time.Duration // How long results stay exportable
}

// Run is a processed file held for export.
type Run struct {
	ID          string            `json:"id"`
	ProcessedAt time.Time         `json:"processed_at"`
	Result      *ProcessingResult `json:"-"`
}

// Service wraps the Engine with concurrency limits, a result cache and history.
type Service struct {
	engine  *Engine
	limiter *RunLimiter
	history HistoryStore
	cfg     ServiceConfig

	mu   sync.RWMutex
	runs map[string]*Run

	now func() time.Time
}

// NewService creates a Service. history may be nil to disable persistence.
func NewService(engine *Engine, history HistoryStore, cfg ServiceConfig) *Service {
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = DefaultResultTTL
	}
	return &Service{
		engine:  engine,
		limiter: NewRunLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		history: history,
		cfg:     cfg,
		runs:    make(map[string]*Run),
		now:     time.Now,
	}
}

// Providers returns the registry's profiles in order.
func (s *Service) Providers() []CardProvider {
	return s.engine.Registry().All()
}

// HistoryEnabled reports whether runs are persisted.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// Process reads a file, runs the engine and caches the result.
// Reading and processing both count against the concurrency limit.
func (s *Service) Process(ctx context.Context, fileName string, r io.Reader, providerID string) (*Run, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	table, err := LoadTable(fileName, r, s.cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	result, err := s.engine.ProcessTable(ctx, fileName, table, providerID)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", fileName, err)
	}

	run := &Run{
		ID:          uuid.New().String(),
		ProcessedAt: s.now(),
		Result:      result,
	}
	s.store(run)

	if s.history != nil {
		entry := NewHistoryEntry(run.ID, result, run.ProcessedAt)
		if err := s.history.SaveRun(ctx, entry); err != nil {
			slog.Warn("save run history failed", "run_id", run.ID, "error", err)
		}
	}

	slog.Info("file processed",
		"run_id", run.ID,
		"file", fileName,
		"provider", result.ProviderID,
		"rows", result.TotalRows,
		"valid", result.ValidRows,
		"fixed", result.FixedRows,
		"errors", result.ErrorRows,
		"duplicates", len(result.Duplicates),
		"duration_ms", result.Elapsed.Milliseconds(),
	)

	return run, nil
}

// store caches run until the result TTL elapses.
func (s *Service) store(run *Run) {
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	time.AfterFunc(s.cfg.ResultTTL, func() {
		s.mu.Lock()
		delete(s.runs, run.ID)
		s.mu.Unlock()
	})
}

// Run returns a cached run.
func (s *Service) Run(id string) (*Run, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// ExportFile is a rendered download.
type ExportFile struct {
	Name    string
	Content string
}

// Export renders a cached run in format and records the export in history.
func (s *Service) Export(ctx context.Context, runID, format string) (ExportFile, error) {
	f, err := ParseExportFormat(format)
	if err != nil {
		return ExportFile{}, err
	}

	run, err := s.Run(runID)
	if err != nil {
		return ExportFile{}, err
	}

	content, err := Export(run.Result, f, s.now())
	if err != nil {
		return ExportFile{}, err
	}

	if s.history != nil {
		if err := s.history.RecordExport(ctx, runID, f); err != nil {
			slog.Warn("record export failed", "run_id", runID, "format", f, "error", err)
		}
	}

	return ExportFile{
		Name:    ExportFileName(run.Result.FileName, f),
		Content: content,
	}, nil
}

// History lists the most recent runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	entries, err := s.history.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// DeleteHistory removes one persisted run.
func (s *Service) DeleteHistory(ctx context.Context, runID string) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}
	return s.history.DeleteRun(ctx, runID)
}

// PurgeHistory deletes runs older than retention.
func (s *Service) PurgeHistory(ctx context.Context, retention time.Duration) (int64, error) {
	if s.history == nil {
		return 0, ErrHistoryDisabled
	}
	return s.history.PurgeRuns(ctx, s.now().Add(-retention))
}

// Status reports limiter usage.
func (s *Service) Status() LimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until in-flight runs finish or ctx ends.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
