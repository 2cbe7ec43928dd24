// Package output provides formatters for writing StarQL query results.
//
// This package defines the Formatter interface and implementations for
// common output formats. All formatters take a query.Value: a list result
// is written one element per row, any other value is written as a single
// row. Record fields become columns; rows that are not records are shown
// in a single "value" column.
//
// # Supported Formats
//
//   - jsonl: One JSON value per line (suitable for streaming)
//   - json: The whole result as one indented JSON document
//   - csv: Comma-separated values with header row
//   - table: Aligned text table for terminals
//   - yaml: The whole result as a YAML document
//   - html: An HTML table, escaped by safehtml templates
//   - text: The canonical StarQL rendering of the value
//
// # Basic Usage
//
// Using a formatter by name:
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(result); err != nil {
//	    log.Fatal(err)
//	}
//
// # Writing to Different Destinations
//
// Change output destination dynamically:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	var buf bytes.Buffer
//	formatter.SetOutput(&buf)
//	formatter.Format(result)
//
// # CSV Injection Protection
//
// The CSV formatter prefixes string cells that start with a formula
// character (=, +, -, @, tab, carriage return, newline or |) with a single
// quote so that spreadsheet applications do not execute them.
//
// # Value Conversion
//
// JSON and YAML output use query.ToNative: integral numbers are written as
// integers, other numbers as floats, records as objects with sorted keys.
// Tabular formats write strings without quotes and nested lists and
// records in their StarQL form.
package output
