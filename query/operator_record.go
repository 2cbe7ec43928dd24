package query

// anyRecords is the input type of operators that work on record fields.
// A record type without fields accepts every record.
var anyRecords = ListType{Elem: RecordType{Fields: map[string]Type{}}}

// PluckOp replaces every record with the value of one of its fields
type PluckOp struct{}

func (PluckOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "pluck",
		Doc:       "Replaces every record with the value of its field named field.",
		Input:     anyRecords,
		Params:    map[string]Type{"field": StringType},
		Return:    ListType{Elem: AnyType},
		Pure:      true,
	}
}

func (PluckOp) Run(in *Pipe, out *Pipe) error {
	for !in.Done() {
		rows, err := in.Pull()
		if err != nil {
			return err
		}
		for _, row := range rows {
			name, err := row.Args.Text("field")
			if err != nil {
				return err
			}
			v, err := recordField(row.Elem, string(name), "std.pluck")
			if err != nil {
				return err
			}
			out.Push(v)
		}
	}
	return nil
}

// ProjectOp keeps only the named fields of every record
type ProjectOp struct{}

func (ProjectOp) Signature() Signature {
	return Signature{
		Namespace: DefaultNamespace,
		Name:      "project",
		Doc:       "Replaces every record with a record holding only the listed fields.",
		Input:     anyRecords,
		Params:    map[string]Type{"fields": ListType{Elem: StringType}},
		Return:    anyRecords,
		Pure:      true,
	}
}

func (ProjectOp) Run(in *Pipe, out *Pipe) error {
	for !in.Done() {
		rows, err := in.Pull()
		if err != nil {
			return err
		}
		for _, row := range rows {
			fields, ok := row.Args["fields"].(*List)
			if !ok {
				return operatorErrorf("argument fields must be List<String>, got %s", TypeOf(row.Args["fields"]))
			}
			projected := &Record{}
			for _, f := range fields.Items() {
				name := string(f.(String))
				v, err := recordField(row.Elem, name, "std.project")
				if err != nil {
					return err
				}
				projected.Set(name, v)
			}
			out.Push(projected)
		}
	}
	return nil
}

func recordField(elem Value, name, op string) (Value, error) {
	rec, ok := elem.(*Record)
	if !ok {
		return nil, operatorErrorf("%s: element must be a record, got %s", op, TypeOf(elem))
	}
	v, ok := rec.Get(name)
	if !ok {
		return nil, operatorErrorf("%s: record has no field %q", op, name)
	}
	return v, nil
}
