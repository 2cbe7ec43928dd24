package output

import (
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/starql/query"
)

// JSONFormatter outputs results as JSON Lines
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON value per line, one per list element
func (j *JSONFormatter) Format(v query.Value) error {
	encoder := json.NewEncoder(j.writer)
	for _, row := range valueRows(v) {
		if err := encoder.Encode(query.ToNative(row)); err != nil {
			return err
		}
	}
	return nil
}

// JSONDocumentFormatter outputs the whole result as one JSON document
type JSONDocumentFormatter struct {
	writer io.Writer
}

// NewJSONDocumentFormatter creates a new JSON document formatter
func NewJSONDocumentFormatter(w io.Writer) *JSONDocumentFormatter {
	return &JSONDocumentFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONDocumentFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes v as indented JSON
func (j *JSONDocumentFormatter) Format(v query.Value) error {
	encoder := json.NewEncoder(j.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(query.ToNative(v))
}
