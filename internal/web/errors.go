package web

// errors.go provides unified error responses for the API.
//
// Every failure is logged server-side with the technical error and request ID,
// then returned to the client as a core.UserMessage with its support code.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/cardhub/internal/core"
	"github.com/JonMunkholm/cardhub/internal/logging"
)

// errRateLimited maps to RATE001 through the core error patterns.
var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// statusMappings pairs sentinel errors with HTTP statuses, first match wins.
var statusMappings = []struct {
	target error
	status int
}{
	{core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{core.ErrInputUnreadable, http.StatusBadRequest},
	{core.ErrNoFile, http.StatusBadRequest},
	{core.ErrUnsupportedFile, http.StatusUnsupportedMediaType},
	{core.ErrUnknownFormat, http.StatusBadRequest},
	{core.ErrRunNotFound, http.StatusNotFound},
	{core.ErrTooManyRuns, http.StatusServiceUnavailable},
	{core.ErrHistoryDisabled, http.StatusServiceUnavailable},
	{errRateLimited, http.StatusTooManyRequests},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
	{context.Canceled, http.StatusRequestTimeout},
}

// statusFor returns the HTTP status for err.
func statusFor(err error) int {
	for _, m := range statusMappings {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes its user-facing form.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	writeJSON(w, status, ErrorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	})
}

// writeJSON encodes v as the response body with the given status.
// Encoding errors are only logged since the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
