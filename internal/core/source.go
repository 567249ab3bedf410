package core

// source.go turns an uploaded file into a RawTable.
//
// Text exports pass through a BOM-aware decoder (UTF-8, or UTF-16 when a
// UTF-16 BOM is present) that replaces ill-formed bytes with U+FFFD, then
// through ParseTable. Workbooks (.xlsx) are read with excelize; the first
// sheet is used.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	// ErrInputUnreadable is returned when the source cannot be read or decoded.
	ErrInputUnreadable = errors.New("input is not readable")

	// ErrFileTooLarge is returned when the source exceeds the configured limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

// NewTextReader wraps r so that a leading byte-order mark is removed and
// invalid UTF-8 is replaced.
func NewTextReader(r io.Reader) io.Reader {
	decoder := transform.Chain(
		unicode.BOMOverride(unicode.UTF8.NewDecoder()),
		runes.ReplaceIllFormed(),
	)
	return transform.NewReader(r, decoder)
}

// readLimited reads all of r, failing with ErrFileTooLarge past limit bytes.
// A limit of zero or less disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}

// ReadSource reads a text export into a string.
func ReadSource(r io.Reader, limit int64) (string, error) {
	data, err := readLimited(r, limit)
	if err != nil {
		return "", err
	}

	text, err := io.ReadAll(NewTextReader(bytes.NewReader(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	return string(text), nil
}

// IsWorkbook reports whether fileName names an Excel workbook.
func IsWorkbook(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".xlsx")
}

// ReadWorkbook reads the first sheet of an .xlsx workbook.
// The first non-empty row is the header; later blank rows are skipped.
func ReadWorkbook(r io.Reader, limit int64) (RawTable, error) {
	data, err := readLimited(r, limit)
	if err != nil {
		return RawTable{}, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return RawTable{}, fmt.Errorf("%w: open workbook: %v", ErrInputUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, fmt.Errorf("%w: read sheet %q: %v", ErrInputUnreadable, sheets[0], err)
	}

	var table RawTable
	for _, cells := range rows {
		if isBlankRow(cells) {
			continue
		}
		trimmed := make([]string, len(cells))
		for i, c := range cells {
			trimmed[i] = strings.TrimSpace(c)
		}
		if table.Headers == nil {
			table.Headers = trimmed
			continue
		}
		table.Rows = append(table.Rows, trimmed)
	}

	return table, nil
}

// LoadTable reads a source file into a RawTable, choosing the reader by
// file extension. Names without an extension are read as text.
func LoadTable(fileName string, r io.Reader, limit int64) (RawTable, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx":
		return ReadWorkbook(r, limit)
	case ".csv", ".txt", "":
	default:
		return RawTable{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	text, err := ReadSource(r, limit)
	if err != nil {
		return RawTable{}, err
	}
	return ParseTable(text), nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
