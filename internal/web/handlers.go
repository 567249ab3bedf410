package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/cardhub/internal/core"
	"github.com/JonMunkholm/cardhub/internal/logging"
	"github.com/go-chi/chi/v5"
)

// Multipart parsing bounds. The body may exceed the file limit by the size of
// the form envelope; the file itself is checked by the service.
const (
	multipartOverhead = 1 << 20
	multipartMemory   = 10 << 20
)

type providerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type runResponse struct {
	ID               string                 `json:"id"`
	ProcessedAt      time.Time              `json:"processedAt"`
	ProcessingTimeMS int64                  `json:"processingTime"`
	Result           *core.ProcessingResult `json:"result"`
}

func newRunResponse(run *core.Run) runResponse {
	return runResponse{
		ID:               run.ID,
		ProcessedAt:      run.ProcessedAt,
		ProcessingTimeMS: run.Result.Elapsed.Milliseconds(),
		Result:           run.Result,
	}
}

type statusResponse struct {
	Limiter        core.LimiterStatus `json:"limiter"`
	HistoryEnabled bool               `json:"history_enabled"`
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListProviders lists provider profiles in registry order.
func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	providers := s.service.Providers()
	resp := make([]providerResponse, 0, len(providers))
	for _, p := range providers {
		resp = append(resp, providerResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleProcess accepts a multipart "file" and optional "provider" and
// returns the processed run.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Processing.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err))
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer file.Close()

	run, err := s.service.Process(r.Context(), header.Filename, file, r.FormValue("provider"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "run_id", run.ID).Debug("run created", "file", header.Filename)
	writeJSON(w, http.StatusCreated, newRunResponse(run))
}

// handleGetRun returns a cached run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.Run(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRunResponse(run))
}

// handleExport streams a cached run as a CSV attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	format := chi.URLParam(r, "format")

	file, err := s.service.Export(r.Context(), runID, format)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "run_id", runID).Info("export downloaded", "format", format)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.Name))
	_, _ = w.Write([]byte(file.Content))
}

// handleHistory lists recent runs, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultHistoryLimit)

	entries, err := s.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": entries})
}

// handleDeleteHistory removes one persisted run.
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteHistory(r.Context(), chi.URLParam(r, "runID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStatus reports processing capacity.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Limiter:        s.service.Status(),
		HistoryEnabled: s.service.HistoryEnabled(),
	})
}
