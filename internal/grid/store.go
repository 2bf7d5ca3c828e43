package grid

import (
	"fmt"
	"strings"
)

// Store is the mutable table of user-entered values for one practice
// problem: one row per record, one column per field. A Store is created when
// a problem enters the typing phase and dropped on reset.
type Store struct {
	fields []string
	index  map[string]int
	rows   [][]string
}

// NewStore creates a Store of rowCount rows with every cell set to "".
func NewStore(fields []string, rowCount int) *Store {
	if rowCount < 0 {
		rowCount = 0
	}
	s := &Store{
		fields: append([]string(nil), fields...),
		index:  make(map[string]int, len(fields)),
		rows:   make([][]string, rowCount),
	}
	for i, f := range s.fields {
		if _, dup := s.index[f]; !dup {
			s.index[f] = i
		}
	}
	for i := range s.rows {
		s.rows[i] = make([]string, len(s.fields))
	}
	return s
}

// Fields returns the column names in declared order.
func (s *Store) Fields() []string {
	return append([]string(nil), s.fields...)
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return len(s.rows)
}

// Shape returns the grid dimensions.
func (s *Store) Shape() Shape {
	return Shape{Rows: len(s.rows), Cols: len(s.fields)}
}

// Set writes value into the cell at (row, field).
func (s *Store) Set(row int, field string, value string) error {
	col, ok := s.index[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	return s.SetAt(row, col, value)
}

// SetAt writes value into the cell at (row, col).
func (s *Store) SetAt(row, col int, value string) error {
	if row < 0 || row >= len(s.rows) {
		return fmt.Errorf("row %d out of range [0,%d)", row, len(s.rows))
	}
	if col < 0 || col >= len(s.fields) {
		return fmt.Errorf("column %d out of range [0,%d)", col, len(s.fields))
	}
	s.rows[row][col] = value
	return nil
}

// Get returns the value at (row, field). Unknown cells read as "".
func (s *Store) Get(row int, field string) string {
	col, ok := s.index[field]
	if !ok {
		return ""
	}
	return s.At(row, col)
}

// At returns the value at (row, col). Out-of-range cells read as "".
func (s *Store) At(row, col int) string {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.fields) {
		return ""
	}
	return s.rows[row][col]
}

// Rows returns a copy of the grid as one field-name keyed map per row.
func (s *Store) Rows() []map[string]string {
	out := make([]map[string]string, len(s.rows))
	for i, r := range s.rows {
		m := make(map[string]string, len(s.fields))
		for j, f := range s.fields {
			m[f] = r[j]
		}
		out[i] = m
	}
	return out
}

// TSV renders the grid as tab-separated text: a header row of field names
// followed by one line per row.
func (s *Store) TSV() string {
	lines := make([]string, 0, len(s.rows)+1)
	lines = append(lines, strings.Join(s.fields, "\t"))
	for _, r := range s.rows {
		lines = append(lines, strings.Join(r, "\t"))
	}
	return strings.Join(lines, "\n")
}
