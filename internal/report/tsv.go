// Package report renders practice data and graded results as copyable text.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// InputTSV renders a user grid as tab-separated text: a header row of
// field names, then one line per row with values in field order. Missing
// values are written as "".
func InputTSV(fields []string, rows []map[string]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(fields, "\t"))
	vals := make([]string, len(fields))
	for _, row := range rows {
		for i, f := range fields {
			vals[i] = row[f]
		}
		lines = append(lines, strings.Join(vals, "\t"))
	}
	return strings.Join(lines, "\n")
}

// RecordsTSV renders an answer key in the same layout as InputTSV.
func RecordsTSV(fields []string, records [][]string) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(fields, "\t"))
	for _, rec := range records {
		lines = append(lines, strings.Join(rec, "\t"))
	}
	return strings.Join(lines, "\n")
}

// Table is a parsed TSV document.
type Table struct {
	Fields []string
	Rows   [][]string
}

// Grid returns the rows keyed by field name. Short rows leave the trailing
// fields unset, extra values are dropped.
func (t *Table) Grid() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]string, len(t.Fields))
		for j, f := range t.Fields {
			if j < len(row) {
				m[f] = row[j]
			}
		}
		out[i] = m
	}
	return out
}

// ErrEmptyTable is returned by ParseTSV for input without a header row.
var ErrEmptyTable = errors.New("no header row")

// ParseTSV reads tab-separated text whose first row names the fields.
// Blank lines are skipped. Rows may have any number of values.
func ParseTSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var t Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse tsv: %w", err)
		}
		if t.Fields == nil {
			for i := range rec {
				rec[i] = strings.TrimSpace(rec[i])
			}
			t.Fields = rec
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if len(t.Fields) == 0 {
		return nil, ErrEmptyTable
	}
	return &t, nil
}
