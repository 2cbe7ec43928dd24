package query

// FilterOp keeps the elements for which where is true
type FilterOp struct{}

func (FilterOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "filter",
		Doc:       "Keeps the elements for which where is true, in their original order.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{"where": BoolType},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (FilterOp) Run(in *Pipe, out *Pipe) error {
	for !in.Done() {
		rows, err := in.Pull()
		if err != nil {
			return err
		}
		for _, row := range rows {
			keep, err := row.Args.Bool("where")
			if err != nil {
				return err
			}
			if keep {
				out.Push(row.Elem)
			}
		}
	}
	return nil
}

// FirstOp outputs the first element, or nothing for an empty input
type FirstOp struct{}

func (FirstOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "first",
		Doc:       "Returns a list holding only the first element.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (FirstOp) Run(in *Pipe, out *Pipe) error {
	row, ok, err := in.PullOne()
	if err != nil {
		return err
	}
	if ok {
		out.Push(row.Elem)
	}
	return nil
}

// TakeOp outputs the first limit elements
type TakeOp struct{}

func (TakeOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "take",
		Doc:       "Returns the first limit elements.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{"limit": NumberType},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (TakeOp) Run(in *Pipe, out *Pipe) error {
	taken := 0
	for !in.Done() {
		row, _, err := in.PullOne()
		if err != nil {
			return err
		}
		limit, err := row.Args.Number("limit")
		if err != nil {
			return err
		}
		if limit < 0 {
			return operatorErrorf("std.take: limit must not be negative, got %s", limit)
		}
		if float64(taken) >= float64(limit) {
			return nil
		}
		out.Push(row.Elem)
		taken++
	}
	return nil
}

// MapOp replaces every element with to
type MapOp struct{}

func (MapOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "map",
		Doc:       "Replaces every element with the value of to.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{"to": AnyType},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (MapOp) Run(in *Pipe, out *Pipe) error {
	for !in.Done() {
		rows, err := in.Pull()
		if err != nil {
			return err
		}
		for _, row := range rows {
			out.Push(row.Args["to"])
		}
	}
	return nil
}

// CountOp outputs the number of input elements
type CountOp struct{}

func (CountOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "count",
		Doc:       "Returns a list holding the number of elements.",
		Input:     ListType{Elem: AnyType},
		Params:    map[string]Type{},
		Return:    ListType{Elem: NumberType},
		Pure:      true,
	}
}

func (CountOp) Run(in *Pipe, out *Pipe) error {
	count := 0
	for !in.Done() {
		rows, err := in.Pull()
		if err != nil {
			return err
		}
		count += len(rows)
	}
	out.Push(Number(count))
	return nil
}

func registerStd(r *Registry) {
	for _, op := range []Operator{
		FilterOp{}, FirstOp{}, TakeOp{}, SkipOp{}, MapOp{}, CountOp{}, PluckOp{}, ProjectOp{},
		sumOp, avgOp, minOp, maxOp, SortOp{}, ReverseOp{}, DistinctOp{},
	} {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
}
