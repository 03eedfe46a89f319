package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIndex_CaseInsensitive(t *testing.T) {
	t.Parallel()

	tbl := NewTable([]string{"sampleId", "GPS_lat"})
	assert.Equal(t, 0, tbl.ColumnIndex("SAMPLEID"))
	assert.Equal(t, 1, tbl.ColumnIndex("gps_lat"))
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))
}

func TestValue_ShortRowReadsEmpty(t *testing.T) {
	t.Parallel()

	tbl := NewTable([]string{"a", "b", "c"})
	tbl.Rows = append(tbl.Rows, []string{"only"})

	assert.Equal(t, "only", tbl.Value(0, 0))
	assert.Equal(t, "", tbl.Value(0, 2))
	assert.Equal(t, "", tbl.Value(5, 0))
	assert.Equal(t, "", tbl.Value(0, -1))
}

func TestSetValue_PadsShortRow(t *testing.T) {
	t.Parallel()

	tbl := NewTable([]string{"a", "b", "c"})
	tbl.Rows = append(tbl.Rows, []string{"x"})

	tbl.SetValue(0, 2, "z")
	require.Len(t, tbl.Rows[0], 3)
	assert.Equal(t, "x", tbl.Value(0, 0))
	assert.Equal(t, "", tbl.Value(0, 1))
	assert.Equal(t, "z", tbl.Value(0, 2))
}

func TestEnsureColumn(t *testing.T) {
	t.Parallel()

	tbl := NewTable([]string{"a"})
	tbl.AppendRow([]string{"1"})

	idx := tbl.EnsureColumn("a_orig")
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"a", "a_orig"}, tbl.Columns)
	assert.Equal(t, "", tbl.Value(0, idx))

	// Existing columns are found, not duplicated, regardless of case.
	assert.Equal(t, 0, tbl.EnsureColumn("A"))
	assert.Len(t, tbl.Columns, 2)
}

func TestAppendRow_NormalizesWidth(t *testing.T) {
	t.Parallel()

	tbl := NewTable([]string{"a", "b"})
	tbl.AppendRow([]string{"1"})
	tbl.AppendRow([]string{"1", "2", "3"})

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"1", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"1", "2"}, tbl.Rows[1])
}

func TestAnnotationPlannedList_Sorted(t *testing.T) {
	t.Parallel()

	a := Annotation{PlannedSet: map[string]bool{"IT": true, "DE": true, "AT": true}}
	assert.Equal(t, []string{"AT", "DE", "IT"}, a.PlannedList())

	assert.Nil(t, Annotation{}.PlannedList())
}
