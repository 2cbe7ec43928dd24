package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/parquet-go"

	"github.com/vegasq/starql/query"
)

// rowBatchSize is the number of rows read from a parquet file at a time
const rowBatchSize = 128

// Reader reads parquet files into StarQL values.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file    *os.File
	pqFile  *parquet.File
	columns []column
}

// column describes one leaf column of the file schema
type column struct {
	name     string // dotted path for nested fields
	kind     parquet.Kind
	elem     query.Type
	repeated bool
}

// NewReader creates a new parquet reader for the specified file path.
//
// The file is opened and validated as a parquet file. Returns an error if
// the file doesn't exist or is not a valid parquet file.
//
// Example:
//
//	reader, err := NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:    file,
		pqFile:  pqFile,
		columns: leafColumns(pqFile.Schema()),
	}, nil
}

func leafColumns(schema *parquet.Schema) []column {
	paths := schema.Columns()
	columns := make([]column, len(paths))
	for i, path := range paths {
		col := column{name: strings.Join(path, "."), elem: query.StringType}
		if leaf, ok := schema.Lookup(path...); ok {
			col.kind = leaf.Node.Type().Kind()
			col.elem = kindType(col.kind)
			col.repeated = leaf.MaxRepetitionLevel > 0
		}
		columns[i] = col
	}
	return columns
}

// ReadAll reads all rows from the parquet file into memory.
//
// The result is a list of records with one field per leaf column. Nested
// fields use dot notation ("address.street"), repeated columns become lists,
// and null values become the zero value of their column type so that every
// record has the same type.
func (r *Reader) ReadAll() (*query.List, error) {
	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	var records []query.Value
	buf := make([]parquet.Row, rowBatchSize)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			records = append(records, r.convertRow(row))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return r.newRecordList(records)
}

// newRecordList builds the result list. An empty file still yields a list
// whose element type describes the schema.
func (r *Reader) newRecordList(records []query.Value) (*query.List, error) {
	if len(records) == 0 {
		return query.NewTypedList(r.RowType(), nil)
	}
	return query.NewList(records)
}

// RowType returns the record type every row of the file converts to
func (r *Reader) RowType() query.Type {
	fields := make(map[string]query.Type, len(r.columns))
	for _, col := range r.columns {
		fields[col.name] = col.fieldType()
	}
	return query.RecordType{Fields: fields}
}

func (c column) fieldType() query.Type {
	if c.repeated {
		return query.ListType{Elem: c.elem}
	}
	return c.elem
}

func (r *Reader) convertRow(row parquet.Row) query.Value {
	scalars := make([]query.Value, len(r.columns))
	lists := make([][]query.Value, len(r.columns))

	for _, v := range row {
		idx := v.Column()
		if idx < 0 || idx >= len(r.columns) || v.IsNull() {
			continue
		}
		if r.columns[idx].repeated {
			lists[idx] = append(lists[idx], convertValue(v))
		} else {
			scalars[idx] = convertValue(v)
		}
	}

	rec := &query.Record{}
	for i, col := range r.columns {
		switch {
		case col.repeated:
			l, err := query.NewTypedList(col.elem, lists[i])
			if err != nil {
				// values of one leaf column always share a kind
				panic(err)
			}
			rec.Set(col.name, l)
		case scalars[i] != nil:
			rec.Set(col.name, scalars[i])
		default:
			rec.Set(col.name, zeroValue(col.elem))
		}
	}
	return rec
}

// kindType maps a parquet physical type to the StarQL type of its values
func kindType(kind parquet.Kind) query.Type {
	switch kind {
	case parquet.Boolean:
		return query.BoolType
	case parquet.Int32, parquet.Int64, parquet.Float, parquet.Double:
		return query.NumberType
	default:
		return query.StringType
	}
}

func convertValue(v parquet.Value) query.Value {
	switch v.Kind() {
	case parquet.Boolean:
		return query.Bool(v.Boolean())
	case parquet.Int32:
		return query.Number(v.Int32())
	case parquet.Int64:
		return query.Number(v.Int64())
	case parquet.Float:
		return query.Number(v.Float())
	case parquet.Double:
		return query.Number(v.Double())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return query.String(string(v.ByteArray()))
	default:
		return query.String(v.String())
	}
}

func zeroValue(t query.Type) query.Value {
	switch t {
	case query.NumberType:
		return query.Number(0)
	case query.BoolType:
		return query.Bool(false)
	default:
		return query.String("")
	}
}

// Schema returns the parquet file schema.
//
// The schema contains metadata about the columns, types, and structure
// of the parquet file.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close closes the parquet reader and releases associated resources.
//
// Should be called when done reading to avoid resource leaks. It is safe
// to call Close multiple times.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// ReadMultipleFiles reads all rows from parquet files matching a glob pattern.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// Examples:
//   - "data/*.parquet" - all parquet files in data directory
//   - "data/2024-*.parquet" - parquet files starting with 2024- in data directory
//
// When the pattern is a glob, each record gets a "_file" field holding its
// source file path. All matched files must share one schema.
func ReadMultipleFiles(pattern string) (*query.List, error) {
	if !isGlob(pattern) {
		r, err := NewReader(pattern)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll()
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	// Limit number of files to prevent resource exhaustion
	const maxFiles = 1000
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	var all []query.Value
	for _, filePath := range matches {
		r, err := NewReader(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		rows, readErr := r.ReadAll()
		closeErr := r.Close()

		// Preserve the first error encountered
		if readErr != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", filePath, readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close %s: %w", filePath, closeErr)
		}

		for _, row := range rows.Items() {
			row.(*query.Record).Set("_file", query.String(filePath))
			all = append(all, row)
		}
	}

	list, err := query.NewList(all)
	if err != nil {
		return nil, fmt.Errorf("files matching %s have different schemas: %w", pattern, err)
	}
	return list, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]")
}
