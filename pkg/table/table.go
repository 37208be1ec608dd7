// Package table renders terminal tables for command output.
package table

import (
	"bytes"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table accumulates rows and renders them aligned under a header row.
type Table struct {
	headers []string
	rows    [][]string
}

// New returns a table with the given column headers.
func New(headers ...string) *Table {
	return &Table{headers: headers}
}

// Append adds a data row. Missing trailing cells render empty; extra cells
// are kept (tablewriter pads the header instead).
func (t *Table) Append(row ...string) {
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Print renders the table to w.
func (t *Table) Print(w io.Writer) error {
	tw := tablewriter.NewWriter(w)
	tw.Header(t.headers)
	for _, row := range t.rows {
		if err := tw.Append(row); err != nil {
			return err
		}
	}
	return tw.Render()
}

// Render returns the rendered table as a string.
func (t *Table) Render() (string, error) {
	var buf bytes.Buffer
	if err := t.Print(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
