// Package ledger loads a transactional sales ledger from a spreadsheet file into raw
// records keyed by header name.
package ledger

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ColumnOrderDate = "Order Date"
	ColumnCategory  = "Category"
	ColumnSales     = "Sales"
)

var (
	ErrInputAccess    = errors.New("unable to access input file")
	ErrMalformedInput = errors.New("malformed input")
)

// RequiredColumns are the header names every ledger must provide
var RequiredColumns = []string{ColumnOrderDate, ColumnCategory, ColumnSales}

// Record is a single ledger row keyed by header name holding the raw cell text
type Record map[string]string

// Select returns a copy of the record with only the requested columns. Columns absent from
// the record are absent from the result.
func (r Record) Select(cols ...string) Record {
	out := make(Record, len(cols))
	for _, col := range cols {
		if val, exists := r[col]; exists {
			out[col] = val
		}
	}
	return out
}

// Get returns the trimmed value of a column or ErrMalformedInput if it is missing
func (r Record) Get(col string) (string, error) {
	val, exists := r[col]
	if !exists {
		return "", fmt.Errorf("column %q missing from record, %w", col, ErrMalformedInput)
	}
	return strings.TrimSpace(val), nil
}

// NewRecords converts a header row and data rows into records. Blank rows are skipped and
// short rows are padded with empty cells.
func NewRecords(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row, %w", ErrMalformedInput)
	}

	header := make([]string, len(rows[0]))
	index := make(map[string]struct{}, len(header))
	for i, col := range rows[0] {
		header[i] = strings.TrimSpace(col)
		index[header[i]] = struct{}{}
	}
	for _, col := range RequiredColumns {
		if _, exists := index[col]; !exists {
			return nil, fmt.Errorf("required column %q not in header, %w", col, ErrMalformedInput)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			var val string
			if i < len(row) {
				val = row[i]
			}
			rec[col] = val
		}
		records = append(records, rec)
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
