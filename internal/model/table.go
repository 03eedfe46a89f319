// Package model holds the shared data types for the sample republishing
// pipeline: the in-memory sample table, enrichment rows, and validation
// annotations.
package model

import "strings"

// Table is an in-memory tabular dataset with an open column set. Sample
// sources carry free-form attribute columns, so everything is kept as text
// and columns are resolved by name at the point of use.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with the given column set.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the index of the named column, matched
// case-insensitively, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Value returns the cell at (row, column index), or "" when the row is
// shorter than the header.
func (t *Table) Value(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// SetValue writes the cell at (row, column index), padding the row when it
// is shorter than the header.
func (t *Table) SetValue(row, col int, v string) {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Columns) {
		return
	}
	for len(t.Rows[row]) < len(t.Columns) {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = v
}

// EnsureColumn returns the index of the named column, appending it (with
// empty cells) when it does not exist yet.
func (t *Table) EnsureColumn(name string) int {
	if i := t.ColumnIndex(name); i >= 0 {
		return i
	}
	t.Columns = append(t.Columns, name)
	return len(t.Columns) - 1
}

// AppendRow adds a row, padded or truncated to the header width.
func (t *Table) AppendRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
