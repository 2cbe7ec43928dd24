package output

import (
	"embed"
	"io"

	"github.com/google/safehtml/template"

	"github.com/vegasq/starql/query"
)

//go:embed templates/*
var templateFS embed.FS

// HTMLFormatter outputs rows as an HTML table. Cell text is escaped by the
// safehtml template engine.
type HTMLFormatter struct {
	writer   io.Writer
	template *template.Template
	Title    string
}

// htmlTable is the view model rendered by templates/table.html
type htmlTable struct {
	Title   string
	Columns []string
	Rows    [][]string
	Count   int
}

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(w io.Writer) (*HTMLFormatter, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)
	tmpl, err := template.New("table.html").ParseFS(trustedFS, "templates/table.html")
	if err != nil {
		return nil, err
	}
	return &HTMLFormatter{writer: w, template: tmpl, Title: "StarQL result"}, nil
}

// SetOutput sets the output writer
func (h *HTMLFormatter) SetOutput(w io.Writer) {
	h.writer = w
}

// Format writes rows as an HTML document
func (h *HTMLFormatter) Format(v query.Value) error {
	rows := valueRows(v)
	vm := htmlTable{Title: h.Title, Count: len(rows)}
	if len(rows) > 0 {
		vm.Columns = columnNames(rows)
		vm.Rows = make([][]string, len(rows))
		for i, row := range rows {
			vm.Rows[i] = rowCells(row, vm.Columns, cellText)
		}
	}
	return h.template.Execute(h.writer, vm)
}
