package grading

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrade_Scenario(t *testing.T) {
	records := [][]string{{"A", "1"}, {"B", "2"}}
	fields := []string{"Name", "Code"}
	grid := []map[string]string{
		{"Name": "A", "Code": "x"},
		{"Name": "B", "Code": "2"},
	}

	res := Grade(records, fields, grid, 42)

	assert.Equal(t, 3, res.CorrectCells)
	assert.Equal(t, 4, res.TotalCells)
	assert.InDelta(t, 75.0, res.Accuracy, 1e-9)
	assert.Equal(t, 42, res.ElapsedSeconds)
	want := []CellError{{Row: 0, Col: 1, Field: "Code", UserValue: "x", CorrectValue: "1"}}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestGrade_ErrorOrderIsRowMajor(t *testing.T) {
	records := [][]string{{"a", "b"}, {"c", "d"}}
	fields := []string{"F0", "F1"}
	grid := []map[string]string{
		{"F0": "a", "F1": "WRONG"},
		{"F0": "WRONG", "F1": "d"},
	}

	res := Grade(records, fields, grid, 0)

	want := []CellError{
		{Row: 0, Col: 1, Field: "F1", UserValue: "WRONG", CorrectValue: "b"},
		{Row: 1, Col: 0, Field: "F0", UserValue: "WRONG", CorrectValue: "c"},
	}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestGrade_TrimmingLaw(t *testing.T) {
	records := [][]string{{" Tokyo", "100 "}}
	fields := []string{"City", "Amount"}
	grid := []map[string]string{{"City": "Tokyo  ", "Amount": "\t100"}}

	res := Grade(records, fields, grid, 0)

	assert.Empty(t, res.Errors)
	assert.Equal(t, 100.0, res.Accuracy)
}

func TestGrade_KeepsUntrimmedValuesInErrors(t *testing.T) {
	records := [][]string{{" abc "}}
	fields := []string{"F"}
	grid := []map[string]string{{"F": " abd "}}

	res := Grade(records, fields, grid, 0)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, " abd ", res.Errors[0].UserValue)
	assert.Equal(t, " abc ", res.Errors[0].CorrectValue)
}

func TestGrade_CaseSensitive(t *testing.T) {
	res := Grade([][]string{{"ABC"}}, []string{"F"}, []map[string]string{{"F": "abc"}}, 0)
	assert.Len(t, res.Errors, 1)
}

func TestGrade_MissingCellsCountAsEmpty(t *testing.T) {
	records := [][]string{{"A", ""}, {"B", "2"}}
	fields := []string{"Name", "Code"}
	grid := []map[string]string{{"Name": "A"}}

	res := Grade(records, fields, grid, 0)

	assert.Equal(t, 4, res.TotalCells)
	assert.Equal(t, 2, res.CorrectCells)
	want := []CellError{
		{Row: 1, Col: 0, Field: "Name", UserValue: "", CorrectValue: "B"},
		{Row: 1, Col: 1, Field: "Code", UserValue: "", CorrectValue: "2"},
	}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestGrade_ShortRecordReadsEmpty(t *testing.T) {
	res := Grade([][]string{{"A"}}, []string{"Name", "Code"}, []map[string]string{{"Name": "A", "Code": ""}}, 0)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.TotalCells)
}

func TestGrade_NoCells(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		fields  []string
	}{
		{"no records", nil, []string{"A"}},
		{"no fields", [][]string{{}, {}}, nil},
		{"nothing", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Grade(tt.records, tt.fields, nil, 0)
			assert.Equal(t, 0, res.TotalCells)
			assert.Equal(t, 100.0, res.Accuracy)
			assert.Empty(t, res.Errors)
		})
	}
}

func TestGrade_Properties(t *testing.T) {
	records := [][]string{
		{"C-001", "田中 健太", "03-1234-5678"},
		{"C-002", "佐藤 美咲", "06-9876-5432"},
		{"C-003", "鈴木 一郎", "011-222-3333"},
	}
	fields := []string{"顧客ID", "氏名", "電話番号"}
	grids := [][]map[string]string{
		nil,
		{
			{"顧客ID": "C-001", "氏名": "田中 健太", "電話番号": "03-1234-5678"},
			{"顧客ID": "C-002", "氏名": "佐藤 美咲", "電話番号": "06-9876-5432"},
			{"顧客ID": "C-003", "氏名": "鈴木 一郎", "電話番号": "011-222-3333"},
		},
		{
			{"顧客ID": "C-01", "氏名": "田中健太", "電話番号": "03-1234-5678"},
			{"顧客ID": "C-002 ", "氏名": "", "電話番号": "06-9876-5432"},
			{},
		},
	}

	for _, g := range grids {
		first := Grade(records, fields, g, 10)
		second := Grade(records, fields, g, 10)

		assert.Equal(t, first.TotalCells, first.CorrectCells+len(first.Errors))
		assert.GreaterOrEqual(t, first.Accuracy, 0.0)
		assert.LessOrEqual(t, first.Accuracy, 100.0)
		assert.Equal(t, first.Accuracy, second.Accuracy)
		if diff := cmp.Diff(first.Errors, second.Errors); diff != "" {
			t.Errorf("grading not idempotent (-first +second):\n%s", diff)
		}
	}
}

func TestGradeAt_Timestamp(t *testing.T) {
	at := time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)
	res := GradeAt(nil, nil, nil, 0, at)
	assert.Equal(t, at, res.Timestamp)
}

func TestResult_EnrichmentFieldsSetOnce(t *testing.T) {
	res := Grade(nil, nil, nil, 0)

	_, ok := res.Feedback()
	assert.False(t, ok)
	assert.False(t, res.Settled())

	assert.True(t, res.SetFeedback("first"))
	assert.False(t, res.SetFeedback("second"))
	text, ok := res.Feedback()
	assert.True(t, ok)
	assert.Equal(t, "first", text)
	assert.False(t, res.Settled())

	assert.True(t, res.Set(PartMistakeAnalysis, "analysis"))
	text, ok = res.Get(PartMistakeAnalysis)
	assert.True(t, ok)
	assert.Equal(t, "analysis", text)
	assert.True(t, res.Settled())
}

func TestResult_ConcurrentPatch(t *testing.T) {
	res := Grade(nil, nil, nil, 0)

	var wg sync.WaitGroup
	wins := make(chan bool, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			wins <- res.SetFeedback("f")
		}()
		go func() {
			defer wg.Done()
			_, _ = res.MistakeAnalysis()
			wins <- res.SetMistakeAnalysis("m")
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for w := range wins {
		if w {
			count++
		}
	}
	assert.Equal(t, 2, count)
	assert.True(t, res.Settled())
}
