package repl

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vegasq/starql/internal/history"
	"github.com/vegasq/starql/output"
	"github.com/vegasq/starql/query"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s, err := NewSession(&buf, output.NewTextFormatter(&buf), func() (*query.Engine, error) {
		engine := query.NewEngine()
		if err := engine.Bind("data", query.MustList(query.Number(1), query.Number(2), query.Number(3))); err != nil {
			return nil, err
		}
		return engine, nil
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s, &buf
}

func TestSession_Handle(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		want   string
	}{
		{"expression", []string{"1 + 2"}, "3\n"},
		{"bound data", []string{"$data | filter(where=@ > 1)"}, "[2, 3]\n"},
		{"bindings persist", []string{"x = 10", "$x * 2"}, "10\n20\n"},
		{"blank input", []string{"   "}, ""},
		{"print", []string{":print [1,2]|first()"}, "[1, 2] | first()\n"},
		{"type", []string{":type $data"}, "List<Number>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, buf := newTestSession(t)
			for _, input := range tt.inputs {
				if s.Handle(input) {
					t.Fatalf("Handle(%q) ended the session", input)
				}
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSession_FailedInputKeepsBindings(t *testing.T) {
	s, buf := newTestSession(t)
	s.Handle("x = 1")
	s.Handle("y = $nope")
	if !strings.Contains(buf.String(), `undefined variable "nope"`) {
		t.Errorf("output = %q, want undefined variable error", buf.String())
	}

	buf.Reset()
	s.Handle("$x")
	if buf.String() != "1\n" {
		t.Errorf("$x after failure = %q, want 1", buf.String())
	}
}

func TestSession_Errors(t *testing.T) {
	s, buf := newTestSession(t)
	s.Handle("x = 1")
	buf.Reset()

	s.Handle("x = 2")
	if !strings.Contains(buf.String(), "already defined") {
		t.Errorf("redefinition output = %q", buf.String())
	}

	buf.Reset()
	s.Handle("1 +\n+")
	if !strings.Contains(buf.String(), "parse error at line 2") {
		t.Errorf("parse error output = %q", buf.String())
	}
}

func TestSession_Commands(t *testing.T) {
	s, buf := newTestSession(t)

	if !s.Handle(":quit") {
		t.Error(":quit did not end the session")
	}
	if !s.Handle(":q") {
		t.Error(":q did not end the session")
	}

	s.Handle(":help")
	if !strings.Contains(buf.String(), ":vars") {
		t.Errorf(":help output = %q", buf.String())
	}

	buf.Reset()
	s.Handle("name = \"alice\"")
	buf.Reset()
	s.Handle(":vars")
	want := "  $data: List<Number> = [1, 2, 3]\n  $name: String = \"alice\"\n"
	if buf.String() != want {
		t.Errorf(":vars output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	s.Handle(":ops")
	if !strings.Contains(buf.String(), "std.filter(where: Bool)") {
		t.Errorf(":ops output = %q", buf.String())
	}

	buf.Reset()
	s.Handle(":reset")
	buf.Reset()
	s.Handle(":vars")
	if strings.Contains(buf.String(), "$name") || !strings.Contains(buf.String(), "$data") {
		t.Errorf(":vars after :reset = %q, want only $data", buf.String())
	}

	buf.Reset()
	s.Handle(":bogus")
	if !strings.Contains(buf.String(), "Unknown command: :bogus") {
		t.Errorf("unknown command output = %q", buf.String())
	}

	buf.Reset()
	s.Handle(":history")
	if buf.String() != "(history disabled)\n" {
		t.Errorf(":history output = %q", buf.String())
	}
}

func TestSession_History(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	s, buf := newTestSession(t)
	s.SetHistory(store)

	s.Handle("x = 1")
	s.Handle(":vars")
	s.Handle("$x + 1")

	entries, err := store.Last(10)
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	var texts []string
	for _, e := range entries {
		texts = append(texts, e.Text)
	}
	// commands are not recorded
	if diff := cmp.Diff([]string{"x = 1", "$x + 1"}, texts); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	s.Handle(":history")
	if buf.String() != "    1  x = 1\n    2  $x + 1\n" {
		t.Errorf(":history output = %q", buf.String())
	}
}

func TestSession_HistoryCommands(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	s, buf := newTestSession(t)
	s.SetHistory(store)
	for _, input := range []string{"1", "2", "3"} {
		s.Handle(input)
	}

	tests := []struct {
		input string
		want  string
	}{
		{":history 1", "    3  3\n"},
		{":history 1 2", "    1  1\n    2  2\n"},
		{":history 0", "usage: :history [n] | :history <from> <to>\n"},
		{":history 3 1", "usage: :history [n] | :history <from> <to>\n"},
		{":rerun 2", "2\n2\n"},
		{":rerun 9", "no history entry 9\n"},
		{":rerun x", "usage: :rerun <n>\n"},
		{":forget 1", "Forgot entry 1\n"},
		{":forget 1", "no history entry 1\n"},
	}
	for _, tt := range tests {
		buf.Reset()
		s.Handle(tt.input)
		if buf.String() != tt.want {
			t.Errorf("%s output = %q, want %q", tt.input, buf.String(), tt.want)
		}
	}

	// :rerun records the input again and :forget removed entry 1
	buf.Reset()
	s.Handle(":history")
	if buf.String() != "    2  2\n    3  3\n    4  2\n" {
		t.Errorf(":history output = %q", buf.String())
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1 + 2", false},
		{"[1, 2", true},
		{"[1, 2]", false},
		{"{a=1,\nb=[2", true},
		{"$xs | filter(", true},
		{`"unterminated`, true},
		{`"[" + "("`, false},
		{"[1, // comment ]\n", true},
		{"[1, // comment ]\n2]", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := needsMoreInput(tt.input); got != tt.want {
			t.Errorf("needsMoreInput(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestComplete(t *testing.T) {
	s, _ := newTestSession(t)
	s.Handle("dataset = 1")

	tests := []struct {
		input string
		want  []string
	}{
		{":h", []string{":help", ":history"}},
		{"$data | fil", []string{"$data | filter("}},
		{"$data | std.fi", []string{"$data | std.filter(", "$data | std.first("}},
		{"$da", []string{"$data", "$dataset"}},
		{"1 + ", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, s.complete(tt.input)); diff != "" {
				t.Errorf("complete(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}
