package steps

import (
	"iter"
	"slices"
	"strings"
)

// Row is a single row of a data table.
type Row struct {
	cells   []string
	headers []string
}

// Get returns the cell under the column named col (case-insensitive), or ""
// when there is no such column or the row is short.
func (r Row) Get(col string) string {
	for i, h := range r.headers {
		if strings.EqualFold(h, col) {
			if i < len(r.cells) {
				return r.cells[i]
			}
			return ""
		}
	}
	return ""
}

// Cell returns the cell at index, or "" when out of range.
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r.cells) {
		return ""
	}
	return r.cells[index]
}

// Values returns a copy of the cells.
func (r Row) Values() []string {
	return slices.Clone(r.cells)
}

// Table is a step's data table. The first row names the columns.
type Table struct {
	headers []string
	rows    []Row
}

// NewTable builds a Table from raw rows. The input is copied.
func NewTable(data [][]string) Table {
	if len(data) == 0 {
		return Table{}
	}

	headers := slices.Clone(data[0])
	rows := make([]Row, len(data))
	for i, cells := range data {
		rows[i] = Row{cells: slices.Clone(cells), headers: headers}
	}
	return Table{headers: headers, rows: rows}
}

// Headers returns a copy of the first row.
func (t Table) Headers() []string {
	return slices.Clone(t.headers)
}

// Len returns the number of rows, header included.
func (t Table) Len() int {
	return len(t.rows)
}

// All iterates over every row, header included.
func (t Table) All() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// SkipHeader iterates over the data rows; indexes start at 0 for the first
// data row.
//
//	for _, row := range table.SkipHeader() {
//		fmt.Println(row.Get("name"))
//	}
func (t Table) SkipHeader() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := 1; i < len(t.rows); i++ {
			if !yield(i-1, t.rows[i]) {
				return
			}
		}
	}
}
