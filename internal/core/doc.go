// Package core normalizes and validates corporate-card transaction exports.
//
// The package holds all domain logic independent of any transport. It is used
// by the HTTP server, the command-line tool and tests without modification.
//
// # Pipeline
//
// A file flows through the [Engine] in fixed stages:
//
//  1. [ParseTable] (or [ReadWorkbook] for .xlsx) produces a [RawTable]
//  2. The [Registry] resolves a [CardProvider], by id or by header detection
//  3. [ClassifyHeaders] assigns each column a [FieldKind]
//  4. Rows are normalized in parallel chunks; order is preserved
//  5. [DetectDuplicates] flags repeated rows as warnings
//  6. [BuildReport] aggregates the issues into a [ValidationReport]
//
// Normalization never mutates its input. Each changed cell yields a fixed
// [Issue] naming the rule applied; values that still fail validation yield an
// error Issue and exclude the row from exports.
//
// # Providers
//
// The built-in catalog covers the common US issuers and expense platforms and
// always ends with the generic profile. Additional profiles are loaded from a
// YAML file with [Registry.RegisterFile]:
//
//	providers:
//	  - id: acme
//	    date_columns: [posted on]
//	    amount_columns: [charge]
//	    merchant_patterns:
//	      - {pattern: "ACME*TRAVEL", replacement: "Acme Travel"}
//
// # Exports
//
// [Export] renders valid rows for QuickBooks or Xero, or the full validation
// report. [Service] caches processed runs for a limited time so exports can be
// requested after processing, and optionally persists run summaries through a
// [HistoryStore].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE004: File errors (size, encoding, missing, unsupported type)
//   - RUN001-RUN003: Run errors (busy, expired, history disabled)
//   - EXP001: Unknown export format
//   - PRV001-PRV002: Provider catalog errors
//   - UPL004-UPL005: Cancelled or timed out requests
package core
