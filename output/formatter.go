package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/vegasq/starql/query"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a value in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes v in the formatter's specific format
	Format(v query.Value) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Formats lists the names accepted by New
var Formats = []string{"jsonl", "json", "csv", "table", "yaml", "html", "text"}

// New creates the formatter registered under name
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "jsonl":
		return NewJSONFormatter(w), nil
	case "json":
		return NewJSONDocumentFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "table":
		return NewTableFormatter(w), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	case "html":
		return NewHTMLFormatter(w)
	case "text":
		return NewTextFormatter(w), nil
	}
	return nil, fmt.Errorf("unsupported output format: %s", name)
}

// valueRows returns the elements of a list result, or the value itself as
// the only row
func valueRows(v query.Value) []query.Value {
	if l, ok := v.(*query.List); ok {
		return l.Items()
	}
	if v == nil {
		return nil
	}
	return []query.Value{v}
}

// valueColumn is the column name used for rows that are not records
const valueColumn = "value"

// columnNames extracts the sorted union of record field names. Rows that
// are not records are shown in a single "value" column.
func columnNames(rows []query.Value) []string {
	columnSet := make(map[string]bool)
	for _, row := range rows {
		rec, ok := row.(*query.Record)
		if !ok {
			columnSet[valueColumn] = true
			continue
		}
		for _, name := range rec.Names() {
			columnSet[name] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// rowCells renders one row as cells in column order
func rowCells(row query.Value, columns []string, cell func(query.Value) string) []string {
	cells := make([]string, len(columns))
	rec, isRecord := row.(*query.Record)
	for i, col := range columns {
		if !isRecord {
			if col == valueColumn {
				cells[i] = cell(row)
			}
			continue
		}
		if v, ok := rec.Get(col); ok {
			cells[i] = cell(v)
		}
	}
	return cells
}

// cellText renders a value for a table cell: strings without quotes,
// everything else in its canonical form
func cellText(v query.Value) string {
	if s, ok := v.(query.String); ok {
		return string(s)
	}
	if v == nil {
		return ""
	}
	return v.String()
}
