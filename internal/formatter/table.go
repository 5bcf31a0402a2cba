// Package formatter renders columnar CLI output.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders rows under a header line and a dash separator, aligned
// with tabwriter.
type Table struct {
	w        io.Writer
	headers  []string
	rows     [][]string
	maxWidth map[int]int
}

// NewTable creates a table that renders to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{w: w, headers: headers, maxWidth: make(map[int]int)}
}

// SetMaxWidth caps the display width of a column (0-indexed); longer
// values are truncated with "...".
func (t *Table) SetMaxWidth(col, width int) *Table {
	t.maxWidth[col] = width
	return t
}

// AddRow appends one data row. Missing cells render empty; extra values
// beyond the header count are dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(values) {
			row[i] = t.truncate(i, values[i])
		}
	}
	t.rows = append(t.rows, row)
}

// Render writes the accumulated table and flushes it.
func (t *Table) Render() error {
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.headers, "\t"))

	seps := make([]string, len(t.headers))
	for i, h := range t.headers {
		seps[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(seps, "\t"))

	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (t *Table) truncate(col int, s string) string {
	width, ok := t.maxWidth[col]
	if !ok || width <= 0 || len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
