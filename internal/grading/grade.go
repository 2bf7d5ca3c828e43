// Package grading diffs a user-entered grid against ground-truth records.
package grading

import (
	"strings"
	"time"
)

// Grade compares grid against records and returns a new Result stamped
// with the current time. See GradeAt.
func Grade(records [][]string, fields []string, grid []map[string]string, elapsedSeconds int) *Result {
	return GradeAt(records, fields, grid, elapsedSeconds, time.Now())
}

// GradeAt compares grid against records, row by row and field by field in
// declared order. Records are read positionally, grid rows by field name.
// A cell is correct when both values are equal after trimming surrounding
// whitespace; otherwise a CellError carrying the untrimmed values is
// appended. Missing rows, cells or record values count as "".
//
// Accuracy is correctCells/totalCells*100, or 100 when there are no cells.
func GradeAt(records [][]string, fields []string, grid []map[string]string, elapsedSeconds int, at time.Time) *Result {
	res := &Result{
		ElapsedSeconds: elapsedSeconds,
		TotalCells:     len(records) * len(fields),
		Timestamp:      at,
	}

	for i, record := range records {
		var row map[string]string
		if i < len(grid) {
			row = grid[i]
		}
		for j, field := range fields {
			var correct string
			if j < len(record) {
				correct = record[j]
			}
			user := row[field]

			if strings.TrimSpace(user) == strings.TrimSpace(correct) {
				res.CorrectCells++
				continue
			}
			res.Errors = append(res.Errors, CellError{
				Row:          i,
				Col:          j,
				Field:        field,
				UserValue:    user,
				CorrectValue: correct,
			})
		}
	}

	res.Accuracy = 100
	if res.TotalCells > 0 {
		res.Accuracy = float64(res.CorrectCells) / float64(res.TotalCells) * 100
	}
	return res
}
