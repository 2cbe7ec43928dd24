package reader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/starql/query"
)

// maxLineSize bounds a single JSON Lines record
const maxLineSize = 16 * 1024 * 1024

// ReadJSONLines reads one JSON value per line into a list. Blank lines are
// skipped. Every value must convert to the same StarQL type.
func ReadJSONLines(r io.Reader) (*query.List, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var items []query.Value
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var decoded interface{}
		if err := json.Unmarshal(line, &decoded); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNo, err)
		}
		v, err := query.FromNative(decoded)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		items = append(items, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", lineNo+1, err)
	}

	list, err := query.NewList(items)
	if err != nil {
		return nil, fmt.Errorf("records do not share one type: %w", err)
	}
	return list, nil
}

// ReadJSON reads a single JSON document
func ReadJSON(r io.Reader) (query.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return query.FromNative(decoded)
}
