package core

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Issue messages attached to rows.
const (
	MissingFieldMessage  = "Missing required field"
	InvalidDateMessage   = "Invalid date format"
	InvalidAmountMessage = "Invalid amount format"
	AmountFixedMessage   = "Amount format normalized"
	MerchantFixedMessage = "Merchant name cleaned"
)

// ContextCheckInterval is how many rows a worker normalizes between
// cancellation checks.
var ContextCheckInterval = 100

// Engine runs the parse, detect, classify, normalize, dedupe and report pipeline.
// An Engine holds no per-run state and may be shared between goroutines.
type Engine struct {
	registry *Registry
	workers  int
}

// NewEngine creates an engine over registry. workers bounds the number of
// goroutines used for row normalization; values below 1 mean GOMAXPROCS.
func NewEngine(registry *Registry, workers int) *Engine {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{registry: registry, workers: workers}
}

// Registry returns the provider registry used for detection.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Process parses content and runs the full pipeline over it.
// providerID may be empty or "auto" to request detection.
func (e *Engine) Process(ctx context.Context, fileName, content, providerID string) (*ProcessingResult, error) {
	return e.ProcessTable(ctx, fileName, ParseTable(content), providerID)
}

// ProcessTable runs the pipeline over an already parsed table.
//
// Rows are normalized in parallel, then duplicates are detected over the
// complete row set. If ctx is cancelled the run is abandoned and no partial
// result is returned. The table is not modified.
func (e *Engine) ProcessTable(ctx context.Context, fileName string, table RawTable, providerID string) (*ProcessingResult, error) {
	start := time.Now()

	provider := e.registry.Resolve(providerID, table.Headers)
	headers := append([]string(nil), table.Headers...)
	kinds := ClassifyHeaders(headers, provider)

	rows := make([]ProcessedRow, len(table.Rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for lo := 0; lo < len(rows); lo += ContextCheckInterval {
		hi := min(lo+ContextCheckInterval, len(rows))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				rows[i] = normalizeRow(table, i, headers, kinds, provider)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("normalize rows: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("normalize rows: %w", err)
	}

	dups := DetectDuplicates(rows)
	isDup := markDuplicates(rows, dups)

	kindByHeader := make(map[string]FieldKind, len(headers))
	for i, h := range headers {
		if _, ok := kindByHeader[h]; !ok {
			kindByHeader[h] = kinds[i]
		}
	}

	result := &ProcessingResult{
		FileName:   fileName,
		TotalRows:  len(rows),
		Rows:       rows,
		Headers:    headers,
		Duplicates: dups,
		ProviderID: provider.ID,
		Report:     BuildReport(rows, kindByHeader),
	}
	if result.Duplicates == nil {
		result.Duplicates = []int{}
	}

	for i, row := range rows {
		if row.IsValid && !isDup[i] {
			result.ValidRows++
		}
		if !row.IsValid {
			result.ErrorRows++
		}
		if row.HasSeverity(SeverityFixed) {
			result.FixedRows++
		}
	}

	result.Elapsed = time.Since(start)

	slog.Debug("file processed",
		"file", fileName,
		"provider", provider.ID,
		"rows", result.TotalRows,
		"valid", result.ValidRows,
		"errors", result.ErrorRows,
		"duplicates", len(dups),
		"elapsed", result.Elapsed,
	)

	return result, nil
}

// normalizeRow normalizes one data row. It reads the table without modifying it.
func normalizeRow(table RawTable, index int, headers []string, kinds []FieldKind, provider CardProvider) ProcessedRow {
	row := ProcessedRow{
		Index:     index,
		RowNumber: index + 1,
		Headers:   headers,
		Values:    make([]string, len(headers)),
		Issues:    []Issue{},
	}

	for col, header := range headers {
		raw := table.Cell(index, col)
		kind := kinds[col]

		if (kind == KindDate || kind == KindAmount) && strings.TrimSpace(raw) == "" {
			row.Values[col] = raw
			row.Issues = append(row.Issues, Issue{
				Field:    header,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s: %s", MissingFieldMessage, header),
			})
			continue
		}

		switch kind {
		case KindDate:
			out := NormalizeDate(raw)
			row.Values[col] = out.Value
			if out.Changed {
				row.Issues = append(row.Issues, fixedIssue(header, fmt.Sprintf("Date normalized from %s", out.Format), raw, out))
			}
			if !IsISODate(out.Value) {
				row.Issues = append(row.Issues, Issue{
					Field:         header,
					Severity:      SeverityError,
					Message:       InvalidDateMessage,
					OriginalValue: raw,
				})
			}

		case KindAmount:
			out := NormalizeAmount(raw)
			row.Values[col] = out.Value
			if out.Changed {
				row.Issues = append(row.Issues, fixedIssue(header, AmountFixedMessage, raw, out))
			}
			if !IsValidAmount(out.Value) {
				row.Issues = append(row.Issues, Issue{
					Field:         header,
					Severity:      SeverityError,
					Message:       InvalidAmountMessage,
					OriginalValue: raw,
				})
			}

		case KindMerchant:
			out := NormalizeMerchant(raw, provider.MerchantPatterns)
			row.Values[col] = out.Value
			if out.Changed {
				row.Issues = append(row.Issues, fixedIssue(header, MerchantFixedMessage, raw, out))
			}

		default:
			row.Values[col] = raw
		}
	}

	row.IsValid = !row.HasSeverity(SeverityError)
	return row
}

func fixedIssue(field, message, original string, out NormalizationOutcome) Issue {
	return Issue{
		Field:         field,
		Severity:      SeverityFixed,
		Message:       message,
		OriginalValue: original,
		FixedValue:    out.Value,
		Rule:          out.Rule,
	}
}
