package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/starql/query"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes rows as CSV with a header of the sorted column names
func (c *CSVFormatter) Format(v query.Value) error {
	csvWriter := csv.NewWriter(c.writer)

	rows := valueRows(v)
	if len(rows) > 0 {
		// Rows may be of different shapes when the result is not a list of
		// records; columns are the union over all rows
		columns := columnNames(rows)
		if err := csvWriter.Write(columns); err != nil {
			return err
		}

		for _, row := range rows {
			if err := csvWriter.Write(rowCells(row, columns, formatValue)); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// formatValue converts a value to string for CSV output
func formatValue(v query.Value) string {
	s, ok := v.(query.String)
	if !ok {
		return cellText(v)
	}

	val := string(s)
	// Sanitize against CSV injection by prefixing dangerous characters
	// that could trigger formula execution in spreadsheet applications
	if len(val) > 0 {
		switch val[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			return "'" + strings.ReplaceAll(val, "'", "''")
		}
	}
	return val
}
