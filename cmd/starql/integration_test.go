package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/parquet-go"
)

// TestRow defines a simple test data structure
type TestRow struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Age    int64   `parquet:"age"`
	Salary float64 `parquet:"salary"`
}

// createTestParquetFile creates a temporary parquet file with test data
func createTestParquetFile(t *testing.T, dir, filename string, rows []TestRow) string {
	t.Helper()
	testFile := filepath.Join(dir, filename)

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	writer := parquet.NewGenericWriter[TestRow](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}

	return testFile
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate keeps user config files out of the test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("STARQL_CONFIG", "")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestMain_Queries(t *testing.T) {
	tmpDir := isolate(t)
	people := createTestParquetFile(t, tmpDir, "people.parquet", []TestRow{
		{ID: 1, Name: "Alice", Age: 30, Salary: 50000.0},
		{ID: 2, Name: "Bob", Age: 25, Salary: 45000.5},
		{ID: 3, Name: "Charlie", Age: 35, Salary: 60000.0},
	})
	queryFile := writeFile(t, tmpDir, "ages.sq", "$people | pluck(field=\"age\") | filter(where=@ >= 30)")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "literal query",
			args: []string{"-q", "[1, 2, 3] | filter(where=@ > 1)"},
			want: "2\n3\n",
		},
		{
			name: "text format",
			args: []string{"-f", "text", "-q", "x = 2; $x * 21"},
			want: "42\n",
		},
		{
			name: "parquet binding as csv",
			args: []string{"-f", "csv", "-bind", "people=" + people, "-q", "$people | take(limit=2)"},
			want: "age,id,name,salary\n30,1,Alice,50000\n25,2,Bob,45000.5\n",
		},
		{
			name: "query file",
			args: []string{"-f", "text", "-bind", "people=" + people, queryFile},
			want: "[30, 35]\n",
		},
		{
			name:  "query from stdin",
			stdin: "[\"a\", \"b\"] | count()",
			args:  []string{"-f", "text"},
			want:  "[2]\n",
		},
		{
			name: "aggregate parquet column",
			args: []string{"-f", "text", "-bind", "people=" + people, "-q", "$people | pluck(field=\"salary\") | max()"},
			want: "[60000]\n",
		},
		{
			name: "order parquet column",
			args: []string{"-f", "text", "-bind", "people=" + people, "-q", "$people | pluck(field=\"name\") | sort() | reverse()"},
			want: "[\"Charlie\", \"Bob\", \"Alice\"]\n",
		},
		{
			name: "limit",
			args: []string{"-f", "text", "-limit", "2", "-q", "[5, 6, 7, 8]"},
			want: "[5, 6]\n",
		},
		{
			name: "schema",
			args: []string{"-schema", "-bind", "people=" + people, "-q", "$people | project(fields=[\"name\"])"},
			want: "List<Record{name: String}>\n",
		},
		{
			name: "print",
			args: []string{"-print", "-q", "xs=[1,2]|std.take(limit=1);$xs"},
			want: "xs = [1, 2] | std.take(limit=1);\n$xs\n",
		},
		{
			name: "json document",
			args: []string{"-f", "json", "-q", "{b=true, a=\"x\"}"},
			want: "{\n  \"a\": \"x\",\n  \"b\": true\n}\n",
		},
		{
			name: "jsonl binding",
			args: []string{"-f", "text", "-bind", "ev=" + writeFile(t, tmpDir, "ev.jsonl", "{\"n\":1}\n{\"n\":2}\n"), "-q", "$ev | pluck(field=\"n\")"},
			want: "[1, 2]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.stdin, tt.args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestMain_UsageExampleRuns(t *testing.T) {
	tmpDir := isolate(t)
	users := writeFile(t, tmpDir, "users.jsonl", "{\"age\":25}\n{\"age\":40}\n")

	code, stdout, stderr := runCLI(t, "", "-f", "text", "-bind", "users="+users, "-q", queryExample)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if stdout != "[40]\n" {
		t.Errorf("stdout = %q, want [40]", stdout)
	}

	_, _, stderr = runCLI(t, "", "-h")
	if !strings.Contains(stderr, queryExample) {
		t.Errorf("usage = %q, want it to show the example query", stderr)
	}
}

func TestMain_Errors(t *testing.T) {
	tmpDir := isolate(t)
	queryFile := writeFile(t, tmpDir, "q.sq", "1")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"parse error", []string{"-q", "1 +"}, "parse error"},
		{"undefined variable", []string{"-q", "$nope"}, `undefined variable "nope"`},
		{"unknown operator", []string{"-q", "[1] | nope()"}, "operator not found: std.nope"},
		{"missing data file", []string{"-bind", "x=" + filepath.Join(tmpDir, "missing.parquet"), "-q", "$x"}, "not found"},
		{"bad bind flag", []string{"-bind", "novalue", "-q", "1"}, "expected name=path"},
		{"unsupported format", []string{"-f", "xml", "-q", "1"}, "invalid format: xml"},
		{"negative limit", []string{"-limit", "-1", "-q", "1"}, "invalid limit"},
		{"query and file", []string{"-q", "1", queryFile}, "cannot be used together"},
		{"watch without file", []string{"-watch", "-q", "1"}, "-watch requires a query file"},
		{"print and schema", []string{"-print", "-schema", "-q", "1"}, "cannot be used together"},
		{"no query", []string{}, "no query given"},
		{"too many files", []string{queryFile, queryFile}, "at most one query file"},
		{"missing query file", []string{filepath.Join(tmpDir, "nope.sq")}, "failed to read query file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.HasPrefix(stderr, "Error: ") && !strings.Contains(stderr, "invalid value") {
				t.Errorf("stderr = %q, want an Error: line", stderr)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestMain_Describe(t *testing.T) {
	tmpDir := isolate(t)
	createTestParquetFile(t, tmpDir, "a.parquet", []TestRow{{ID: 1, Name: "Alice", Age: 30, Salary: 1}})

	code, stdout, stderr := runCLI(t, "", "-f", "csv", "-describe", filepath.Join(tmpDir, "*.parquet"))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 5 {
		t.Fatalf("describe output has %d lines, want header + 4 columns:\n%s", len(lines), stdout)
	}
	if lines[0] != "logical_type,name,optional,physical_type,repeated,required,type" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(stdout, "salary,false,DOUBLE,false,true,Number") {
		t.Errorf("describe output missing salary column:\n%s", stdout)
	}
}

func TestMain_Config(t *testing.T) {
	tmpDir := isolate(t)
	createTestParquetFile(t, tmpDir, "people.parquet", []TestRow{
		{ID: 1, Name: "Alice", Age: 30},
		{ID: 2, Name: "Bob", Age: 25},
	})
	logFile := filepath.Join(tmpDir, "starql.log")
	cfgPath := writeFile(t, tmpDir, "starql.yaml", `
format: text
limit: 1
log_file: starql.log
bindings:
  people: people.parquet
`)

	code, stdout, stderr := runCLI(t, "", "-config", cfgPath, "-q", "$people | pluck(field=\"name\")")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if stdout != "[\"Alice\"]\n" {
		t.Errorf("stdout = %q, want the first name only", stdout)
	}

	// flags override config values
	code, stdout, stderr = runCLI(t, "", "-config", cfgPath, "-limit", "0", "-f", "csv", "-q", "$people | pluck(field=\"id\")")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if stdout != "value\n1\n2\n" {
		t.Errorf("stdout = %q", stdout)
	}

	logs, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	for _, want := range []string{"bound variable", `"name": "$people"`} {
		if !strings.Contains(string(logs), want) {
			t.Errorf("log file = %q, want it to contain %q", logs, want)
		}
	}
}

func TestDefaultFormat(t *testing.T) {
	if got := defaultFormat(&bytes.Buffer{}); got != "jsonl" {
		t.Errorf("defaultFormat(buffer) = %q, want jsonl", got)
	}
}

func TestBindFlags(t *testing.T) {
	b := bindFlags{}
	if err := b.Set("a=x.parquet"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := b.Set("b=y=z.jsonl"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := b.Set("a=other.parquet"); err == nil {
		t.Error("Set() accepted a duplicate name")
	}
	if got := b.String(); got != "a=x.parquet,b=y=z.jsonl" {
		t.Errorf("String() = %q", got)
	}
}
