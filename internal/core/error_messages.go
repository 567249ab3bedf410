package core

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// # Error Codes Reference
//
// File errors (FILE001-FILE099):
//
//	FILE001 - File exceeds the configured size limit
//	FILE002 - File could not be read or decoded
//	FILE003 - No file was provided
//	FILE004 - File type is not supported
//
// Run errors (RUN001-RUN099):
//
//	RUN001 - Too many files are being processed
//	RUN002 - Run not found (never existed or expired from the cache)
//	RUN003 - Processing history is not enabled
//
// Export errors (EXP001-EXP099):
//
//	EXP001 - Unknown export format
//
// Provider errors (PRV001-PRV099):
//
//	PRV001 - Provider profile already registered
//	PRV002 - Provider file is invalid
//
// Request errors:
//
//	UPL004  - Request was cancelled
//	UPL005  - Request timed out
//	RATE001 - Too many requests
//
// ERR000 is the fallback; check the application log for the technical error.
//
// Sentinel errors are matched with errors.Is first. Otherwise the error text
// is searched case-insensitively; the first matching pattern wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFile is returned when a request carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrUnsupportedFile is returned for file types the readers cannot handle.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrRunNotFound is returned when a run id is unknown or its result expired.
	ErrRunNotFound = errors.New("run not found")

	// ErrHistoryDisabled is returned by history operations when no store is configured.
	ErrHistoryDisabled = errors.New("history is not enabled")

	// ErrInvalidProviderFile is returned when a provider file cannot be loaded.
	ErrInvalidProviderFile = errors.New("invalid provider file")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type sentinelMapping struct {
	target error
	msg    UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var sentinelMappings = []sentinelMapping{
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Split the statement into smaller files",
		Code:    "FILE001",
	}},
	{ErrInputUnreadable, UserMessage{
		Message: "File could not be read",
		Action:  "Export the statement again as CSV or XLSX and retry",
		Code:    "FILE002",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select a statement file to upload",
		Code:    "FILE003",
	}},
	{ErrUnsupportedFile, UserMessage{
		Message: "File type is not supported",
		Action:  "Upload a .csv or .xlsx statement export",
		Code:    "FILE004",
	}},
	{ErrTooManyRuns, UserMessage{
		Message: "System is busy processing other files",
		Action:  "Please wait a moment and try again",
		Code:    "RUN001",
	}},
	{ErrRunNotFound, UserMessage{
		Message: "Processing result not found",
		Action:  "The result may have expired. Please process the file again",
		Code:    "RUN002",
	}},
	{ErrHistoryDisabled, UserMessage{
		Message: "Processing history is not available",
		Action:  "Configure a database to keep processing history",
		Code:    "RUN003",
	}},
	{ErrUnknownFormat, UserMessage{
		Message: "Unknown export format",
		Action:  "Choose quickbooks, xero or report",
		Code:    "EXP001",
	}},
	{ErrDuplicateProvider, UserMessage{
		Message: "A provider with this id already exists",
		Action:  "Give the custom provider a unique id",
		Code:    "PRV001",
	}},
	{ErrInvalidProviderFile, UserMessage{
		Message: "Provider file could not be loaded",
		Action:  "Check the provider file for YAML syntax errors and missing ids",
		Code:    "PRV002",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},
}

// errorPatterns catch errors that crossed a boundary as plain text.
var errorPatterns = []errorPattern{
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{"request body too large", UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Split the statement into smaller files",
		Code:    "FILE001",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, m := range sentinelMappings {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
