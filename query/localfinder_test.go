package query

import (
	"testing"
)

func TestLocalFinder(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"literal", "1", false},
		{"variable", "$abc", false},
		{"at", "@", true},
		{"binary", "1 + @ * $hi", true},
		{"grouping", "(@)", true},
		{"unary", "-@", true},
		{"list literal", "[0, $abc, 1 + @ * $hi]", true},
		{"list without at", "[0, $abc, 1]", false},
		{"record", "{a=1, b=@}", true},
		{"pipeline root", "[0, $abc, 1 + @ * $hi] | a.b(hi=1)", true},
		{"operator argument", "$xs | a.b(where=@)", true},
		{"second operator argument", "$xs | a.b(hi=1) | c(lo=@ > 1)", true},
		{"statement", "x = @", true},
		{"query", "x = 1; [@]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustParse(t, tt.query)
			if got := ReferencesLocal(q); got != tt.want {
				t.Errorf("ReferencesLocal(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestLocalFinder_Arguments(t *testing.T) {
	q := mustParse(t, "[0, $abc, 1 + @ * $hi] | a.b(hi=1)")
	op := q.Statements[0].(*Statement).Body.(*OpExpr)

	if !ReferencesLocal(op.Root) {
		t.Error("root list should reference @")
	}
	if ReferencesLocal(op.Calls[0].Args[0].Value) {
		t.Error("argument hi=1 should not reference @")
	}
}
