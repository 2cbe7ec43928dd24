package query

import (
	"sort"
	"strconv"
	"strings"
)

// Type is the structural type of a value. Types are never declared, they
// are derived from values with TypeOf.
type Type interface {
	String() string
	Equal(other Type) bool
}

// BasicType is a scalar type or Any
type BasicType int

const (
	AnyType BasicType = iota
	NumberType
	StringType
	BoolType
)

func (t BasicType) String() string {
	switch t {
	case NumberType:
		return "Number"
	case StringType:
		return "String"
	case BoolType:
		return "Bool"
	default:
		return "Any"
	}
}

func (t BasicType) Equal(other Type) bool {
	o, ok := other.(BasicType)
	return ok && o == t
}

// ListType is the type of a homogeneous list
type ListType struct {
	Elem Type
}

func (t ListType) String() string {
	return "List<" + t.Elem.String() + ">"
}

func (t ListType) Equal(other Type) bool {
	o, ok := other.(ListType)
	return ok && t.Elem.Equal(o.Elem)
}

// RecordType maps field names to field types
type RecordType struct {
	Fields map[string]Type
}

func (t RecordType) String() string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Record{")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(t.Fields[name].String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (t RecordType) Equal(other Type) bool {
	o, ok := other.(RecordType)
	if !ok || len(o.Fields) != len(t.Fields) {
		return false
	}
	for name, ft := range t.Fields {
		ot, ok := o.Fields[name]
		if !ok || !ft.Equal(ot) {
			return false
		}
	}
	return true
}

// Value is a runtime value: Number, String, Bool, List or Record
type Value interface {
	Type() Type
	String() string
	value()
}

// Number is a 64-bit float
type Number float64

// String is a text value
type String string

// Bool is a boolean value
type Bool bool

// List is an ordered, homogeneous sequence of values. Build one with NewList.
type List struct {
	items []Value
	elem  Type
}

// Record is a set of named values. Insertion order is kept for display of
// the raw data only; equality and typing ignore it.
type Record struct {
	names  []string
	fields map[string]Value
}

func (Number) value()  {}
func (String) value()  {}
func (Bool) value()    {}
func (*List) value()   {}
func (*Record) value() {}

func (Number) Type() Type { return NumberType }
func (String) Type() Type { return StringType }
func (Bool) Type() Type   { return BoolType }

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s String) String() string {
	return `"` + string(s) + `"`
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

// TypeOf derives the type of v
func TypeOf(v Value) Type {
	if v == nil {
		return AnyType
	}
	return v.Type()
}

// NewList builds a list. Every item must have the same type as the first
// one; an empty list has element type Any.
func NewList(items []Value) (*List, error) {
	l := &List{items: items, elem: AnyType}
	if len(items) == 0 {
		return l, nil
	}

	l.elem = TypeOf(items[0])
	for i, item := range items[1:] {
		if t := TypeOf(item); !t.Equal(l.elem) {
			return nil, typeErrorf("list element %d has type %s, expected %s", i+1, t, l.elem)
		}
	}
	return l, nil
}

// NewTypedList builds a list whose element type is known up front, so that
// an empty list still carries it.
func NewTypedList(elem Type, items []Value) (*List, error) {
	for i, item := range items {
		if t := TypeOf(item); !t.Equal(elem) {
			return nil, typeErrorf("list element %d has type %s, expected %s", i, t, elem)
		}
	}
	return &List{items: items, elem: elem}, nil
}

// MustList is NewList for callers that have already checked the items
func MustList(items ...Value) *List {
	l, err := NewList(items)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *List) Type() Type {
	return ListType{Elem: l.elem}
}

// ElemType returns the type shared by every element
func (l *List) ElemType() Type {
	return l.elem
}

// Len returns the number of elements
func (l *List) Len() int {
	return len(l.items)
}

// At returns the i-th element
func (l *List) At(i int) Value {
	return l.items[i]
}

// Items returns the elements. The slice must not be modified.
func (l *List) Items() []Value {
	return l.items
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, item := range l.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item.String())
	}
	sb.WriteString("]")
	return sb.String()
}

// NewRecord zips parallel names and values into a record. A repeated name
// overwrites the earlier value and keeps its original position.
func NewRecord(names []string, values []Value) *Record {
	r := &Record{fields: make(map[string]Value, len(names))}
	for i, name := range names {
		r.Set(name, values[i])
	}
	return r
}

// Set binds a field, appending it to the display order if it is new
func (r *Record) Set(name string, v Value) {
	if r.fields == nil {
		r.fields = make(map[string]Value)
	}
	if _, ok := r.fields[name]; !ok {
		r.names = append(r.names, name)
	}
	r.fields[name] = v
}

// Get returns a field value
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Len returns the number of fields
func (r *Record) Len() int {
	return len(r.names)
}

// Names returns field names in insertion order
func (r *Record) Names() []string {
	return r.names
}

// SortedNames returns field names sorted lexically
func (r *Record) SortedNames() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	sort.Strings(names)
	return names
}

func (r *Record) Type() Type {
	fields := make(map[string]Type, len(r.fields))
	for name, v := range r.fields {
		fields[name] = TypeOf(v)
	}
	return RecordType{Fields: fields}
}

// String renders the record with fields sorted by name so that records
// built in a different order print identically.
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range r.SortedNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString("=")
		sb.WriteString(r.fields[name].String())
	}
	sb.WriteString("}")
	return sb.String()
}
