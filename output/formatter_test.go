package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/vegasq/starql/query"
)

func TestNew(t *testing.T) {
	for _, name := range Formats {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter, err := New(name, &buf)
			if err != nil {
				t.Fatalf("New(%q) error = %v", name, err)
			}
			if err := formatter.Format(people(t)); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if !strings.Contains(buf.String(), "alice") {
				t.Errorf("%s output does not contain row data:\n%s", name, buf.String())
			}
		})
	}

	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) expected error")
	}
}

func TestColumnNames(t *testing.T) {
	rows := []query.Value{
		query.NewRecord([]string{"b"}, []query.Value{query.Number(1)}),
		query.Number(2),
		query.NewRecord([]string{"a"}, []query.Value{query.Number(3)}),
	}
	want := []string{"a", "b", "value"}
	if diff := cmp.Diff(want, columnNames(rows)); diff != "" {
		t.Errorf("columnNames() mismatch (-want +got):\n%s", diff)
	}

	got := rowCells(rows[1], want, cellText)
	if diff := cmp.Diff([]string{"", "", "2"}, got); diff != "" {
		t.Errorf("rowCells() mismatch (-want +got):\n%s", diff)
	}
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(people(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"age", "id", "name", "alice", "bob", "25.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	// headers keep their case
	if strings.Contains(out, "NAME") {
		t.Errorf("table headers were reformatted:\n%s", out)
	}
	// strings are shown without quotes
	if strings.Contains(out, `"alice"`) {
		t.Errorf("table cells are quoted:\n%s", out)
	}

	buf.Reset()
	if err := NewTableFormatter(&buf).Format(query.MustList()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty result rendered %q", buf.String())
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(&buf).Format(people(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var got []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Format() produced invalid YAML: %v\n%s", err, buf.String())
	}
	want := []map[string]interface{}{
		{"id": 1, "name": "alice", "age": 30},
		{"id": 2, "name": "bob", "age": 25.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLFormatter_Format(t *testing.T) {
	v := records(t, []string{"name"},
		[]query.Value{query.String("alice")},
		[]query.Value{query.String("<script>alert(1)</script>")},
	)

	var buf bytes.Buffer
	formatter, err := NewHTMLFormatter(&buf)
	if err != nil {
		t.Fatalf("NewHTMLFormatter() error = %v", err)
	}
	if err := formatter.Format(v); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<th>name</th>", "<td>alice</td>", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("html output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("html output contains unescaped markup:\n%s", out)
	}
}

func TestTextFormatter_Format(t *testing.T) {
	tests := []struct {
		name  string
		value query.Value
		want  string
	}{
		{"list", people(t), `[{age=30, id=1, name="alice"}, {age=25.5, id=2, name="bob"}]` + "\n"},
		{"number", query.Number(1.5), "1.5\n"},
		{"string", query.String("a"), `"a"` + "\n"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewTextFormatter(&buf).Format(tt.value); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
