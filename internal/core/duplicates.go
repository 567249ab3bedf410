package core

import "strings"

// DuplicateMessage is the warning attached to every duplicate row.
const DuplicateMessage = "Potential duplicate row detected"

// duplicateKeySeparator joins normalized values into a row key.
const duplicateKeySeparator = "|"

// DuplicateKey builds the comparison key for a normalized row.
func DuplicateKey(values []string) string {
	return strings.ToLower(strings.Join(values, duplicateKeySeparator))
}

// DetectDuplicates returns the indices of rows whose normalized values repeat
// an earlier row, in row order. The first occurrence is never flagged.
// The whole row set must be normalized before calling.
func DetectDuplicates(rows []ProcessedRow) []int {
	seen := make(map[string]int, len(rows))
	var dups []int

	for i, row := range rows {
		key := DuplicateKey(row.Values)
		if _, ok := seen[key]; ok {
			dups = append(dups, i)
			continue
		}
		seen[key] = i
	}

	return dups
}

// markDuplicates appends the duplicate warning to each flagged row and
// returns an index lookup of the flags.
func markDuplicates(rows []ProcessedRow, dups []int) []bool {
	flags := make([]bool, len(rows))
	for _, i := range dups {
		flags[i] = true
		rows[i].Issues = append(rows[i].Issues, Issue{
			Field:    "row",
			Severity: SeverityWarning,
			Message:  DuplicateMessage,
		})
	}
	return flags
}
