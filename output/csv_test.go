package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vegasq/starql/query"
)

func TestCSVFormatter_Format(t *testing.T) {
	tests := []struct {
		name      string
		value     query.Value
		wantLines int
	}{
		{
			name:      "empty list",
			value:     query.MustList(),
			wantLines: 0,
		},
		{
			name:      "single row",
			value:     records(t, []string{"id", "name"}, []query.Value{query.Number(1), query.String("alice")}),
			wantLines: 2, // header + 1 data row
		},
		{
			name:      "multiple rows",
			value:     people(t),
			wantLines: 3, // header + 2 data rows
		},
		{
			name:      "scalar",
			value:     query.Number(42),
			wantLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter := NewCSVFormatter(&buf)

			if err := formatter.Format(tt.value); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			output := buf.String()
			if tt.wantLines == 0 {
				if output != "" {
					t.Errorf("Format() output should be empty for empty rows, got %q", output)
				}
				return
			}

			// Parse CSV to verify format
			reader := csv.NewReader(strings.NewReader(output))
			records, err := reader.ReadAll()
			if err != nil {
				t.Fatalf("Format() produced invalid CSV: %v", err)
			}

			if len(records) != tt.wantLines {
				t.Errorf("Format() produced %d lines, want %d", len(records), tt.wantLines)
			}
		})
	}
}

func TestCSVFormatter_ColumnOrder(t *testing.T) {
	// CSV columns should be sorted alphabetically for consistency
	v := records(t, []string{"z_last", "a_first", "m_middle"},
		[]query.Value{query.String("value1"), query.String("value2"), query.String("value3")})

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(v); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}

	want := [][]string{
		{"a_first", "m_middle", "z_last"},
		{"value2", "value3", "value1"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVFormatter_TypeFormatting(t *testing.T) {
	v := records(t, []string{"string", "int", "float", "bool", "list", "record"},
		[]query.Value{
			query.String("alice"),
			query.Number(42),
			query.Number(2.5),
			query.Bool(true),
			query.MustList(query.Number(1), query.Number(2)),
			query.NewRecord([]string{"k"}, []query.Value{query.String("v")}),
		})

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(v); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}

	want := [][]string{
		{"bool", "float", "int", "list", "record", "string"},
		{"true", "2.5", "42", "[1, 2]", `{k="v"}`, "alice"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVFormatter_Injection(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"=SUM(A1:A2)", "'=SUM(A1:A2)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"|pipe", "'|pipe"},
		{"='quoted'", "'=''quoted''"},
		{"safe", "safe"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := formatValue(query.String(tt.input)); got != tt.want {
				t.Errorf("formatValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	// Numbers are never prefixed
	if got := formatValue(query.Number(-1)); got != "-1" {
		t.Errorf("formatValue(-1) = %q, want -1", got)
	}
}

func TestCSVFormatter_NonRecordRows(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(query.MustList(query.String("a"), query.String("b"))); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got, want := buf.String(), "value\na\nb\n"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
