package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vegasq/starql/query"
)

// YAMLFormatter outputs the whole result as one YAML document
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// SetOutput sets the output writer
func (y *YAMLFormatter) SetOutput(w io.Writer) {
	y.writer = w
}

// Format writes v as YAML
func (y *YAMLFormatter) Format(v query.Value) error {
	encoder := yaml.NewEncoder(y.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(query.ToNative(v)); err != nil {
		return err
	}
	return encoder.Close()
}
