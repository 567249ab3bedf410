package core

// export.go encodes a ProcessingResult into the downstream CSV layouts.
//
// Lines are assembled by hand rather than through encoding/csv: consumers of
// these files expect merchant and report text columns to be quoted on every
// row, while encoding/csv only quotes when a value requires it.

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ExportFormat names a download layout.
type ExportFormat string

const (
	FormatQuickBooks ExportFormat = "quickbooks"
	FormatXero       ExportFormat = "xero"
	FormatReport     ExportFormat = "report"
)

// ErrUnknownFormat is returned for an export format that is not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// QuickBooksAccount is the fixed Account column of the QuickBooks layout.
const QuickBooksAccount = "Credit Card"

var (
	quickBooksHeader = "Date,Description,Amount,Account"
	xeroHeader       = "*Date,*Amount,Description,Reference"
)

// ExportFormats lists every supported format.
func ExportFormats() []ExportFormat {
	return []ExportFormat{FormatQuickBooks, FormatXero, FormatReport}
}

// ParseExportFormat validates a format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatQuickBooks, FormatXero, FormatReport:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Export renders result in format. processedAt stamps the validation report.
func Export(result *ProcessingResult, format ExportFormat, processedAt time.Time) (string, error) {
	switch format {
	case FormatQuickBooks:
		return ExportQuickBooks(result), nil
	case FormatXero:
		return ExportXero(result), nil
	case FormatReport:
		return ExportValidationReport(result, processedAt), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ExportFileName derives the download name: the source name without a
// trailing ".csv" or ".xlsx", then "_<format>.csv".
func ExportFileName(fileName string, format ExportFormat) string {
	base := fileName
	switch ext := filepath.Ext(base); strings.ToLower(ext) {
	case ".csv", ".xlsx":
		base = strings.TrimSuffix(base, ext)
	}
	return fmt.Sprintf("%s_%s.csv", base, format)
}

// exportColumns are the positions of the date, merchant and amount columns,
// -1 when absent.
type exportColumns struct {
	date, merchant, amount int
}

// locateExportColumns picks the first header, in order, containing each
// keyword group.
func locateExportColumns(headers []string) exportColumns {
	cols := exportColumns{date: -1, merchant: -1, amount: -1}
	for i, h := range headers {
		lower := strings.ToLower(h)
		if cols.date < 0 && strings.Contains(lower, "date") {
			cols.date = i
		}
		if cols.merchant < 0 && containsAny(lower, []string{"description", "merchant", "payee"}) {
			cols.merchant = i
		}
		if cols.amount < 0 && containsAny(lower, []string{"amount", "debit", "credit"}) {
			cols.amount = i
		}
	}
	return cols
}

func valueAt(row ProcessedRow, col int) string {
	if col < 0 || col >= len(row.Values) {
		return ""
	}
	return row.Values[col]
}

// quote wraps s in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportQuickBooks renders valid rows in the QuickBooks bank-import layout.
func ExportQuickBooks(result *ProcessingResult) string {
	cols := locateExportColumns(result.Headers)
	lines := []string{quickBooksHeader}

	for _, row := range result.Rows {
		if !row.IsValid {
			continue
		}
		lines = append(lines, strings.Join([]string{
			valueAt(row, cols.date),
			quote(valueAt(row, cols.merchant)),
			valueAt(row, cols.amount),
			QuickBooksAccount,
		}, ","))
	}

	return strings.Join(lines, "\n")
}

// ExportXero renders valid rows in the Xero statement-import layout.
// Reference is always empty.
func ExportXero(result *ProcessingResult) string {
	cols := locateExportColumns(result.Headers)
	lines := []string{xeroHeader}

	for _, row := range result.Rows {
		if !row.IsValid {
			continue
		}
		lines = append(lines, strings.Join([]string{
			valueAt(row, cols.date),
			valueAt(row, cols.amount),
			quote(valueAt(row, cols.merchant)),
			"",
		}, ","))
	}

	return strings.Join(lines, "\n")
}

// ExportValidationReport renders the summary, fix list and error list.
func ExportValidationReport(result *ProcessingResult, processedAt time.Time) string {
	provider := result.ProviderID
	if provider == "" {
		provider = "Auto-detected"
	}

	lines := []string{
		"CardHub Validation Report",
		"File: " + result.FileName,
		"Processed: " + processedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"Card Provider: " + provider,
		"",
		"Summary",
		"Total Rows," + strconv.Itoa(result.TotalRows),
		"Valid Rows," + strconv.Itoa(result.ValidRows),
		"Rows with Fixes," + strconv.Itoa(result.FixedRows),
		"Rows with Errors," + strconv.Itoa(result.ErrorRows),
		"Duplicates Found," + strconv.Itoa(len(result.Duplicates)),
		"",
		"Fixes Applied",
		"Row,Field,Type,Original Value,Fixed Value,Rule Applied",
	}

	for _, fix := range result.Report.Fixes {
		lines = append(lines, strings.Join([]string{
			strconv.Itoa(fix.Row),
			quote(fix.Field),
			string(fix.Kind),
			quote(fix.Original),
			quote(fix.Fixed),
			quote(fix.Rule),
		}, ","))
	}

	lines = append(lines, "", "Errors", "Row,Field,Error Message")

	for _, e := range result.Report.ErrorList {
		lines = append(lines, strings.Join([]string{
			strconv.Itoa(e.Row),
			quote(e.Field),
			quote(e.Message),
		}, ","))
	}

	return strings.Join(lines, "\n")
}
