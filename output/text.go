package output

import (
	"fmt"
	"io"

	"github.com/vegasq/starql/query"
)

// TextFormatter writes the canonical StarQL rendering of a value
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TextFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes v followed by a newline
func (t *TextFormatter) Format(v query.Value) error {
	if v == nil {
		return nil
	}
	_, err := fmt.Fprintln(t.writer, v.String())
	return err
}
