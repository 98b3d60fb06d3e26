// Package output formats scan and update reports for the console and as JSON.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a minimal table formatter with dynamic, Unicode-aware column
// widths.
//
// Fields:
//   - headers: Column header texts
//   - widths: Current display width per column
//   - rows: Accumulated data rows
type Table struct {
	headers []string
	widths  []int
	rows    [][]string
}

// NewTable creates a table with the given column headers.
//
// Initial column widths are the display widths of the headers.
//
// Parameters:
//   - headers: Column header texts in display order
//
// Returns:
//   - *Table: The initialized table
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow appends a data row, widening columns as needed.
//
// Missing cells render empty; extra cells are dropped.
//
// Parameters:
//   - cells: Cell values in column order
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range t.headers {
		if i < len(cells) {
			row[i] = cells[i]
			if w := runewidth.StringWidth(cells[i]); w > t.widths[i] {
				t.widths[i] = w
			}
		}
	}
	t.rows = append(t.rows, row)
}

// Write renders the table with a header row, a dash rule, and all data rows.
//
// Parameters:
//   - w: Destination writer
//
// Returns:
//   - error: The first write failure; returns nil on success
func (t *Table) Write(w io.Writer) error {
	if err := t.writeRow(w, t.headers); err != nil {
		return err
	}

	rule := make([]string, len(t.headers))
	for i, width := range t.widths {
		rule[i] = strings.Repeat("-", width)
	}
	if err := t.writeRow(w, rule); err != nil {
		return err
	}

	for _, row := range t.rows {
		if err := t.writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// writeRow renders one row with two-space separators and width padding.
//
// Parameters:
//   - w: Destination writer
//   - cells: Cell values in column order
//
// Returns:
//   - error: The write failure, nil on success
func (t *Table) writeRow(w io.Writer, cells []string) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		padding := t.widths[i] - runewidth.StringWidth(cell)
		if padding < 0 {
			padding = 0
		}
		parts[i] = cell + strings.Repeat(" ", padding)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}
