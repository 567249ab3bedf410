package core

import (
	"time"
)

// FieldKind is the semantic role of a column.
type FieldKind string

const (
	KindDate      FieldKind = "date"
	KindAmount    FieldKind = "amount"
	KindMerchant  FieldKind = "merchant"
	KindCategory  FieldKind = "category"
	KindReference FieldKind = "reference"
	KindOther     FieldKind = "other"
)

// Severity classifies an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityFixed   Severity = "fixed"
)

// RawTable is the parsed, un-normalized content of a file.
// Rows may be shorter than Headers; missing trailing cells read as "".
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at (row, col), or "" if the row is too short.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// NormalizationOutcome is the result of running one normalizer over one cell.
type NormalizationOutcome struct {
	Value   string // Canonical value (or the cleaned input if nothing matched)
	Changed bool   // True if Value differs from the trimmed input
	Rule    string // Human-readable description of the applied rule
	Format  string // Source format recognized by the date normalizer
}

// Issue is a problem or fix recorded against a row.
type Issue struct {
	Field         string   `json:"field"`
	Severity      Severity `json:"type"`
	Message       string   `json:"message"`
	OriginalValue string   `json:"originalValue,omitempty"`
	FixedValue    string   `json:"fixedValue,omitempty"`
	Rule          string   `json:"rule,omitempty"`
}

// ProcessedRow is a normalized data row.
// Values is aligned with the run's headers.
type ProcessedRow struct {
	Index     int      `json:"-"`             // 0-based position in the file's data rows
	RowNumber int      `json:"originalIndex"` // 1-based
	Headers   []string `json:"-"`
	Values    []string `json:"values"`
	Issues    []Issue  `json:"issues"`
	IsValid   bool     `json:"isValid"`
}

// Get returns the normalized value of the first column named header.
func (r ProcessedRow) Get(header string) (string, bool) {
	for i, h := range r.Headers {
		if h == header && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return "", false
}

// HasSeverity reports whether any issue on the row has the given severity.
func (r ProcessedRow) HasSeverity(sev Severity) bool {
	for _, is := range r.Issues {
		if is.Severity == sev {
			return true
		}
	}
	return false
}

// FixRecord is one automatic normalization listed in the report.
type FixRecord struct {
	Row      int       `json:"row"`
	Field    string    `json:"field"`
	Kind     FieldKind `json:"type"`
	Original string    `json:"original"`
	Fixed    string    `json:"fixed"`
	Rule     string    `json:"rule"`
}

// ErrorRecord is one rejected cell listed in the report.
type ErrorRecord struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationReport aggregates every Issue of a run.
type ValidationReport struct {
	TotalIssues int           `json:"totalIssues"`
	FixedIssues int           `json:"fixedIssues"`
	Errors      int           `json:"errors"`
	Warnings    int           `json:"warnings"`
	Fixes       []FixRecord   `json:"fixes"`
	ErrorList   []ErrorRecord `json:"errors_list"`
}

// ProcessingResult is the complete output of one engine run.
type ProcessingResult struct {
	FileName   string           `json:"fileName"`
	TotalRows  int              `json:"totalRows"`
	ValidRows  int              `json:"validRows"`
	FixedRows  int              `json:"fixedRows"`
	ErrorRows  int              `json:"errorRows"`
	Rows       []ProcessedRow   `json:"rows"`
	Headers    []string         `json:"headers"`
	Duplicates []int            `json:"duplicates"` // 0-based row indices, in row order
	Elapsed    time.Duration    `json:"-"`
	ProviderID string           `json:"cardProvider"`
	Report     ValidationReport `json:"validationReport"`
}

// IsDuplicate reports whether the row at index was flagged as a duplicate.
func (r *ProcessingResult) IsDuplicate(index int) bool {
	for _, d := range r.Duplicates {
		if d == index {
			return true
		}
		if d > index {
			return false
		}
	}
	return false
}
