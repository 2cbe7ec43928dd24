// Package reader loads data files into StarQL values.
//
// Parquet files are read as lists of records, one field per leaf column.
// JSON and JSON Lines files, optionally compressed with gzip, zstd, brotli
// or lz4, are read through the same value conversion as query literals.
//
// # Basic Usage
//
// Reading a single parquet file:
//
//	reader, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
//
//	rows, err := reader.ReadAll()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rows.Type()) // List<Record{id: Number, name: String}>
//
// Loading any supported file by extension and binding it to a variable:
//
//	rows, err := reader.Load("events.jsonl.zst")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine.Bind("events", rows)
//
// # Multi-file Operations
//
// Reading multiple parquet files using glob patterns:
//
//	rows, err := reader.ReadMultipleFiles("data/*.parquet")
//
// Each record read through a glob includes a "_file" field with the source
// file path.
//
// # Schema Introspection
//
// ExtractSchemaInfo lists the leaf columns of a parquet file together with
// the StarQL type each column is read as.
//
// The package uses github.com/segmentio/parquet-go for the underlying
// parquet file operations.
package reader
