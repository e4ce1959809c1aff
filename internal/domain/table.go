package domain

import "strings"

// Table is a generic tabular result: ordered column names and rows of
// string cells, in the order the database returned them
type Table struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{
		Columns: columns,
		Rows:    make([][]string, 0),
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Filter returns a table with only the rows where some cell contains
// keyword. Matching is a case-sensitive substring test. An empty keyword
// keeps every row.
func (t *Table) Filter(keyword string) *Table {
	out := &Table{
		Columns: t.Columns,
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		if keyword == "" || rowContains(row, keyword) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func rowContains(row []string, keyword string) bool {
	for _, cell := range row {
		if strings.Contains(cell, keyword) {
			return true
		}
	}
	return false
}

// Records returns each row as a column -> value map
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}
