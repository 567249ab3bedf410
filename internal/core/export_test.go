package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func exportFixture(t *testing.T) *ProcessingResult {
	t.Helper()
	input := strings.Join([]string{
		"Transaction Date,Description,Amount,Category",
		"12/31/23,AMZN MKTP US*2X,\"$1,234.50\",Supplies",
		"01/02/24,Joe's \"Best\" Diner,(12.00),Meals",
		"01/03/24,Widget Co,,Supplies",
	}, "\n")

	result, err := NewEngine(DefaultRegistry(), 2).Process(context.Background(), "statement.csv", input, "")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return result
}

func TestExportQuickBooks(t *testing.T) {
	got := ExportQuickBooks(exportFixture(t))

	want := strings.Join([]string{
		"Date,Description,Amount,Account",
		`2023-12-31,"Amazon Marketplace",1234.50,Credit Card`,
		`2024-01-02,"Joe's Best Diner",-12.00,Credit Card`,
	}, "\n")
	if got != want {
		t.Errorf("ExportQuickBooks =\n%s\nwant\n%s", got, want)
	}
}

func TestExportXero(t *testing.T) {
	got := ExportXero(exportFixture(t))

	want := strings.Join([]string{
		"*Date,*Amount,Description,Reference",
		`2023-12-31,1234.50,"Amazon Marketplace",`,
		`2024-01-02,-12.00,"Joe's Best Diner",`,
	}, "\n")
	if got != want {
		t.Errorf("ExportXero =\n%s\nwant\n%s", got, want)
	}
}

func TestExport_QuotesEmbeddedQuotes(t *testing.T) {
	result := &ProcessingResult{
		Headers: []string{"Date", "Payee", "Debit"},
		Rows: []ProcessedRow{{
			Values:  []string{"2024-01-05", `The "Best" Shop`, "9.99"},
			IsValid: true,
		}},
	}

	lines := strings.Split(ExportQuickBooks(result), "\n")
	if want := `2024-01-05,"The ""Best"" Shop",9.99,Credit Card`; lines[1] != want {
		t.Errorf("row = %s, want %s", lines[1], want)
	}
}

func TestExport_FirstMatchingColumnWins(t *testing.T) {
	result := &ProcessingResult{
		Headers: []string{"Post Date", "Transaction Date", "Merchant", "Description", "Debit", "Credit"},
		Rows: []ProcessedRow{{
			Values:  []string{"2024-01-01", "2024-01-02", "First", "Second", "5.00", "6.00"},
			IsValid: true,
		}},
	}

	lines := strings.Split(ExportXero(result), "\n")
	if want := `2024-01-01,5.00,"First",`; lines[1] != want {
		t.Errorf("row = %s, want %s", lines[1], want)
	}
}

func TestExport_MissingColumnsRenderEmpty(t *testing.T) {
	result := &ProcessingResult{
		Headers: []string{"Notes"},
		Rows:    []ProcessedRow{{Values: []string{"x"}, IsValid: true}},
	}

	lines := strings.Split(ExportQuickBooks(result), "\n")
	if want := `,"",,Credit Card`; lines[1] != want {
		t.Errorf("row = %s, want %s", lines[1], want)
	}
}

func TestExportValidationReport(t *testing.T) {
	result := exportFixture(t)
	processedAt := time.Date(2024, 2, 3, 4, 5, 6, 789_000_000, time.UTC)

	got := ExportValidationReport(result, processedAt)
	lines := strings.Split(got, "\n")

	wantPrefix := []string{
		"CardHub Validation Report",
		"File: statement.csv",
		"Processed: 2024-02-03T04:05:06.789Z",
		"Card Provider: " + result.ProviderID,
		"",
		"Summary",
		"Total Rows,3",
		"Valid Rows,2",
		"Rows with Fixes,3",
		"Rows with Errors,1",
		"Duplicates Found,0",
		"",
		"Fixes Applied",
		"Row,Field,Type,Original Value,Fixed Value,Rule Applied",
		`1,"Transaction Date",date,"12/31/23","2023-12-31","Converted from MM/DD/YY to ISO format"`,
	}
	if len(lines) < len(wantPrefix) {
		t.Fatalf("report has %d lines, want at least %d:\n%s", len(lines), len(wantPrefix), got)
	}
	for i, want := range wantPrefix {
		if lines[i] != want {
			t.Fatalf("line %d = %q, want %q\nfull report:\n%s", i, lines[i], want, got)
		}
	}

	wantSuffix := []string{
		"",
		"Errors",
		"Row,Field,Error Message",
		`3,"Amount","Missing required field"`,
	}
	tail := lines[len(lines)-len(wantSuffix):]
	for i, want := range wantSuffix {
		if tail[i] != want {
			t.Errorf("tail line %d = %q, want %q", i, tail[i], want)
		}
	}
}

func TestExportValidationReport_EmptyProvider(t *testing.T) {
	got := ExportValidationReport(&ProcessingResult{FileName: "x.csv"}, time.Unix(0, 0))
	if !strings.Contains(got, "Card Provider: Auto-detected\n") {
		t.Errorf("report missing Auto-detected provider line:\n%s", got)
	}
	if !strings.HasSuffix(got, "Row,Field,Error Message") {
		t.Errorf("empty report should end with the error table header:\n%s", got)
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		fileName string
		format   ExportFormat
		want     string
	}{
		{"statement.csv", FormatQuickBooks, "statement_quickbooks.csv"},
		{"statement.CSV", FormatXero, "statement_xero.csv"},
		{"statement.xlsx", FormatReport, "statement_report.csv"},
		{"archive.tar.gz", FormatXero, "archive.tar.gz_xero.csv"},
		{"statement", FormatXero, "statement_xero.csv"},
	}
	for _, tt := range tests {
		if got := ExportFileName(tt.fileName, tt.format); got != tt.want {
			t.Errorf("ExportFileName(%q, %q) = %q, want %q", tt.fileName, tt.format, got, tt.want)
		}
	}
}

func TestParseExportFormat(t *testing.T) {
	for _, f := range ExportFormats() {
		got, err := ParseExportFormat(" " + strings.ToUpper(string(f)) + " ")
		if err != nil || got != f {
			t.Errorf("ParseExportFormat(%q) = %q, %v", f, got, err)
		}
	}

	if _, err := ParseExportFormat("ofx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseExportFormat(ofx) = %v, want ErrUnknownFormat", err)
	}
	if _, err := Export(&ProcessingResult{}, "ofx", time.Now()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Export(ofx) = %v, want ErrUnknownFormat", err)
	}
}
