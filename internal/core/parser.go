package core

// parser.go splits raw export text into a header row and data rows.
//
// The dialect is deliberately narrow: comma separators and double-quoted
// fields that may contain commas. A `"` toggles the quoted state and is
// dropped; doubled quotes ("" as a literal quote) are not supported.

import (
	"strings"
)

// ParseTable parses raw text into a RawTable.
// Blank lines are discarded. The first surviving line is the header.
// Empty or whitespace-only input yields an empty table, not an error.
func ParseTable(text string) RawTable {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return RawTable{}
	}

	table := RawTable{
		Headers: splitLine(lines[0]),
		Rows:    make([][]string, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		table.Rows = append(table.Rows, splitLine(line))
	}
	return table
}

// splitLine splits one line on commas outside quoted sections.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(current.String()))

	return fields
}

// cleanField trims whitespace and strips at most one leading and one
// trailing double quote.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}
