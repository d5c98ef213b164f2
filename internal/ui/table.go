package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Placeholder is printed in place of empty cells so columns stay readable.
const Placeholder = "-"

// Table renders rows of strings in aligned columns.
type Table struct {
	w    *tabwriter.Writer
	cols int
}

// NewTable creates a new table writer with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return &Table{w: tw, cols: len(headers)}
}

// Row appends a row. Missing trailing cells and empty cells render as Placeholder;
// extra cells are dropped.
func (t *Table) Row(cells ...string) {
	parts := make([]string, t.cols)
	for i := range parts {
		if i < len(cells) && cells[i] != "" {
			parts[i] = cells[i]
		} else {
			parts[i] = Placeholder
		}
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}
