package output

import (
	"testing"

	"github.com/vegasq/starql/query"
)

// people returns a list of two person records
func people(t *testing.T) *query.List {
	t.Helper()
	return records(t,
		[]string{"id", "name", "age"},
		[]query.Value{query.Number(1), query.String("alice"), query.Number(30)},
		[]query.Value{query.Number(2), query.String("bob"), query.Number(25.5)},
	)
}

func records(t *testing.T, names []string, rows ...[]query.Value) *query.List {
	t.Helper()
	items := make([]query.Value, len(rows))
	for i, row := range rows {
		items[i] = query.NewRecord(names, row)
	}
	l, err := query.NewList(items)
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	return l
}
