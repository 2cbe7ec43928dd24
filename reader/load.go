package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vegasq/starql/query"
)

// Load reads a data file into a value that can be bound to a query
// variable. The format is chosen by extension:
//
//	.parquet          parquet, glob patterns allowed
//	.jsonl, .ndjson   JSON Lines
//	.json             a single JSON document
//
// JSON inputs may additionally be compressed (.gz, .zst, .br, .lz4).
func Load(path string) (query.Value, error) {
	c, base := SplitCompression(path)
	ext := strings.ToLower(filepath.Ext(base))

	switch ext {
	case ".parquet":
		if c != CompressionNone {
			return nil, fmt.Errorf("%s: compressed parquet files are not supported", path)
		}
		list, err := ReadMultipleFiles(path)
		if err != nil {
			return nil, err
		}
		return list, nil
	case ".jsonl", ".ndjson", ".json":
		rc, err := openFile(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()

		if ext == ".json" {
			v, err := ReadJSON(rc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			return v, nil
		}
		list, err := ReadJSONLines(rc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return list, nil
	}
	return nil, fmt.Errorf("%s: unsupported file type %q", path, ext)
}
