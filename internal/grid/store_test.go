package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_StartsEmpty(t *testing.T) {
	s := NewStore([]string{"Name", "Code"}, 3)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, Shape{Rows: 3, Cols: 2}, s.Shape())
	for _, row := range s.Rows() {
		assert.Equal(t, map[string]string{"Name": "", "Code": ""}, row)
	}
}

func TestStore_SetAndGet(t *testing.T) {
	s := NewStore([]string{"Name", "Code"}, 2)

	require.NoError(t, s.Set(1, "Code", "X-1"))
	assert.Equal(t, "X-1", s.Get(1, "Code"))
	assert.Equal(t, "X-1", s.At(1, 1))
	assert.Equal(t, "", s.Get(0, "Code"))
}

func TestStore_SetRejectsOutOfRange(t *testing.T) {
	s := NewStore([]string{"Name"}, 1)

	tests := []struct {
		name  string
		row   int
		field string
	}{
		{"negative row", -1, "Name"},
		{"row past end", 1, "Name"},
		{"unknown field", 0, "Phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, s.Set(tt.row, tt.field, "v"))
		})
	}
}

func TestStore_GetUnknownCellIsEmpty(t *testing.T) {
	s := NewStore([]string{"Name"}, 1)
	assert.Equal(t, "", s.Get(5, "Name"))
	assert.Equal(t, "", s.Get(0, "Missing"))
}

func TestStore_RowsIsACopy(t *testing.T) {
	s := NewStore([]string{"Name"}, 1)
	rows := s.Rows()
	rows[0]["Name"] = "mutated"

	assert.Equal(t, "", s.Get(0, "Name"))
}

func TestStore_TSV(t *testing.T) {
	s := NewStore([]string{"Name", "Code"}, 2)
	require.NoError(t, s.Set(0, "Name", "A"))
	require.NoError(t, s.Set(0, "Code", "1"))
	require.NoError(t, s.Set(1, "Name", "B"))

	assert.Equal(t, "Name\tCode\nA\t1\nB\t", s.TSV())
}
