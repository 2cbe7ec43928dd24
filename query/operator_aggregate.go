package query

import (
	"sort"
)

var numbers = ListType{Elem: NumberType}

// numberFold is an aggregate over a list of numbers. An empty input
// produces an empty list rather than a made-up value.
type numberFold struct {
	name string
	doc  string
	fold func(acc, n float64) float64
	done func(acc float64, count int) float64
}

var (
	sumOp = numberFold{
		name: "sum",
		doc:  "Returns a list holding the sum of the elements, or nothing for an empty input.",
		fold: func(acc, n float64) float64 { return acc + n },
	}
	avgOp = numberFold{
		name: "avg",
		doc:  "Returns a list holding the mean of the elements, or nothing for an empty input.",
		fold: func(acc, n float64) float64 { return acc + n },
		done: func(acc float64, count int) float64 { return acc / float64(count) },
	}
	minOp = numberFold{
		name: "min",
		doc:  "Returns a list holding the smallest element, or nothing for an empty input.",
		fold: func(acc, n float64) float64 { return min(acc, n) },
	}
	maxOp = numberFold{
		name: "max",
		doc:  "Returns a list holding the largest element, or nothing for an empty input.",
		fold: func(acc, n float64) float64 { return max(acc, n) },
	}
)

func (f numberFold) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      f.name,
		Doc:       f.doc,
		Input:     numbers,
		Params:    map[string]Type{},
		Return:    numbers,
		Pure:      true,
	}
}

func (f numberFold) Run(in *Pipe, out *Pipe) error {
	var acc float64
	count := 0
	for !in.Done() {
		rows, err := in.Pull()
		if err != nil {
			return err
		}
		for _, row := range rows {
			n, ok := row.Elem.(Number)
			if !ok {
				return operatorErrorf("std.%s: element must be Number, got %s", f.name, TypeOf(row.Elem))
			}
			if count == 0 {
				acc = float64(n)
			} else {
				acc = f.fold(acc, float64(n))
			}
			count++
		}
	}
	if count == 0 {
		return nil
	}
	if f.done != nil {
		acc = f.done(acc, count)
	}
	out.Push(Number(acc))
	return nil
}

// SortOp orders scalar elements ascending. Equal elements keep their
// input order.
type SortOp struct{}

func (SortOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "sort",
		Doc:       "Orders numbers, strings or booleans ascending; false sorts before true.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (SortOp) Run(in *Pipe, out *Pipe) error {
	rows, err := in.PullAll()
	if err != nil {
		return err
	}
	items := make([]Value, len(rows))
	for i, row := range rows {
		switch row.Elem.(type) {
		case Number, String, Bool:
		default:
			return operatorErrorf("std.sort: cannot order %s", TypeOf(row.Elem))
		}
		items[i] = row.Elem
	}

	sort.SliceStable(items, func(i, j int) bool {
		return compareScalars(items[i], items[j]) < 0
	})
	for _, item := range items {
		out.Push(item)
	}
	return nil
}

// compareScalars returns -1, 0 or +1. Elements of one list share a type, so
// mismatched kinds compare equal.
func compareScalars(a, b Value) int {
	switch l := a.(type) {
	case Number:
		r, ok := b.(Number)
		switch {
		case !ok || l == r:
			return 0
		case l < r:
			return -1
		default:
			return 1
		}
	case String:
		r, ok := b.(String)
		switch {
		case !ok || l == r:
			return 0
		case l < r:
			return -1
		default:
			return 1
		}
	case Bool:
		r, ok := b.(Bool)
		switch {
		case !ok || l == r:
			return 0
		case !bool(l):
			return -1
		default:
			return 1
		}
	}
	return 0
}

// ReverseOp outputs the elements in reverse order
type ReverseOp struct{}

func (ReverseOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "reverse",
		Doc:       "Returns the elements last to first.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (ReverseOp) Run(in *Pipe, out *Pipe) error {
	rows, err := in.PullAll()
	if err != nil {
		return err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		out.Push(rows[i].Elem)
	}
	return nil
}

// DistinctOp drops elements equal to an earlier one
type DistinctOp struct{}

func (DistinctOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "distinct",
		Doc:       "Keeps the first of every group of equal elements.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (DistinctOp) Run(in *Pipe, out *Pipe) error {
	var kept []Value
	for !in.Done() {
		rows, err := in.Pull()
		if err != nil {
			return err
		}
	next:
		for _, row := range rows {
			// lists and records have no map key, so compare structurally
			for _, k := range kept {
				if Equal(k, row.Elem) {
					continue next
				}
			}
			kept = append(kept, row.Elem)
			out.Push(row.Elem)
		}
	}
	return nil
}

// SkipOp drops the first count elements
type SkipOp struct{}

func (SkipOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "skip",
		Doc:       "Drops the first count elements and returns the rest.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{"count": NumberType},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (SkipOp) Run(in *Pipe, out *Pipe) error {
	seen := 0
	for !in.Done() {
		row, _, err := in.PullOne()
		if err != nil {
			return err
		}
		count, err := row.Args.Number("count")
		if err != nil {
			return err
		}
		if count < 0 {
			return operatorErrorf("std.skip: count must not be negative, got %s", count)
		}
		if float64(seen) >= float64(count) {
			out.Push(row.Elem)
		}
		seen++
	}
	return nil
}
