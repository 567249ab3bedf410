package core

import (
	"fmt"
	"strings"
)

// BuildReport aggregates the issues of rows in row-then-column order.
// Each fixed issue yields a FixRecord and each error an ErrorRecord.
// kinds maps a header to its classification for the fix list.
func BuildReport(rows []ProcessedRow, kinds map[string]FieldKind) ValidationReport {
	report := ValidationReport{
		Fixes:     []FixRecord{},
		ErrorList: []ErrorRecord{},
	}

	for _, row := range rows {
		for _, is := range row.Issues {
			report.TotalIssues++

			switch is.Severity {
			case SeverityFixed:
				report.FixedIssues++
				report.Fixes = append(report.Fixes, FixRecord{
					Row:      row.RowNumber,
					Field:    is.Field,
					Kind:     kinds[is.Field],
					Original: is.OriginalValue,
					Fixed:    is.FixedValue,
					Rule:     is.Rule,
				})
			case SeverityError:
				report.Errors++
				report.ErrorList = append(report.ErrorList, ErrorRecord{
					Row:     row.RowNumber,
					Field:   is.Field,
					Message: errorListMessage(is.Message),
				})
			case SeverityWarning:
				report.Warnings++
			}
		}
	}

	return report
}

// Reconcile checks that the report's counts equal the per-row issue totals.
func (r ValidationReport) Reconcile(rows []ProcessedRow) error {
	var total, fixed, errs, warnings int
	for _, row := range rows {
		for _, is := range row.Issues {
			total++
			switch is.Severity {
			case SeverityFixed:
				fixed++
			case SeverityError:
				errs++
			case SeverityWarning:
				warnings++
			}
		}
	}

	switch {
	case r.TotalIssues != total:
		return fmt.Errorf("total issues = %d, rows carry %d", r.TotalIssues, total)
	case r.FixedIssues != fixed || len(r.Fixes) != fixed:
		return fmt.Errorf("fixed issues = %d (%d listed), rows carry %d", r.FixedIssues, len(r.Fixes), fixed)
	case r.Errors != errs || len(r.ErrorList) != errs:
		return fmt.Errorf("errors = %d (%d listed), rows carry %d", r.Errors, len(r.ErrorList), errs)
	case r.Warnings != warnings:
		return fmt.Errorf("warnings = %d, rows carry %d", r.Warnings, warnings)
	}
	return nil
}

// errorListMessage drops the field suffix from missing-field messages;
// the error list carries the field in its own column.
func errorListMessage(msg string) string {
	if strings.HasPrefix(msg, MissingFieldMessage) {
		return MissingFieldMessage
	}
	return msg
}
