package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/starql/query"
)

// TableFormatter outputs rows as an aligned text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders rows as a table. An empty result renders nothing.
func (t *TableFormatter) Format(v query.Value) error {
	rows := valueRows(v)
	if len(rows) == 0 {
		return nil
	}

	columns := columnNames(rows)
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append(rowCells(row, columns, cellText))
	}
	table.Render()
	return nil
}
