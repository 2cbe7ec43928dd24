package query

import (
	"fmt"
)

// DefaultBatchSize is the number of rows Pull returns at most
const DefaultBatchSize = 64

// Args holds operator arguments by parameter name. Operators must treat it
// as read-only: rows may share one Args value.
type Args map[string]Value

// Number returns a numeric argument
func (a Args) Number(name string) (Number, error) {
	n, ok := a[name].(Number)
	if !ok {
		return 0, operatorErrorf("argument %s must be Number, got %s", name, TypeOf(a[name]))
	}
	return n, nil
}

// Bool returns a boolean argument
func (a Args) Bool(name string) (Bool, error) {
	b, ok := a[name].(Bool)
	if !ok {
		return false, operatorErrorf("argument %s must be Bool, got %s", name, TypeOf(a[name]))
	}
	return b, nil
}

// Text returns a string argument
func (a Args) Text(name string) (String, error) {
	s, ok := a[name].(String)
	if !ok {
		return "", operatorErrorf("argument %s must be String, got %s", name, TypeOf(a[name]))
	}
	return s, nil
}

// Row is one input element together with the arguments resolved for it
type Row struct {
	Elem Value
	Args Args
}

// pipeArg is an argument whose expression refers to the current element and
// is therefore evaluated once per row.
type pipeArg struct {
	name string
	expr Node
}

// Pipe buffers the values flowing into or out of one operator. An input
// pipe hands out rows front to back; an output pipe collects pushed values.
type Pipe struct {
	sig       Signature
	buf       []Value // remaining input, last element is the next to pull
	fixed     Args
	local     []pipeArg
	eval      *Evaluator
	batchSize int
	pushed    []Value
}

// NewPipe creates an input pipe over a list whose arguments are already
// evaluated. Every row gets args.
func NewPipe(input *List, args Args, batchSize int) *Pipe {
	p := &Pipe{fixed: args, batchSize: batchSize}
	if p.batchSize <= 0 {
		p.batchSize = DefaultBatchSize
	}
	if p.fixed == nil {
		p.fixed = Args{}
	}
	if input != nil {
		p.fill(input.Items())
	}
	return p
}

// NewOutputPipe creates an empty pipe for an operator to push results to
func NewOutputPipe() *Pipe {
	return &Pipe{batchSize: DefaultBatchSize}
}

// fill loads items reversed so that pulling the next element is a pop
func (p *Pipe) fill(items []Value) {
	p.buf = make([]Value, len(items))
	for i, item := range items {
		p.buf[len(items)-1-i] = item
	}
}

// Len returns the number of elements not yet pulled
func (p *Pipe) Len() int {
	return len(p.buf)
}

// Done reports whether every element has been pulled
func (p *Pipe) Done() bool {
	return len(p.buf) == 0
}

// Pull returns the next batch of rows, at most the batch size of them. It returns
// an empty batch once the pipe is drained.
func (p *Pipe) Pull() ([]Row, error) {
	n := min(p.batchSize, len(p.buf))
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		row, err := p.next()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// PullOne returns the next row. ok is false once the pipe is drained.
func (p *Pipe) PullOne() (row Row, ok bool, err error) {
	if p.Done() {
		return Row{}, false, nil
	}
	row, err = p.next()
	if err != nil {
		return Row{}, false, err
	}
	return row, true, nil
}

// PullAll drains the pipe
func (p *Pipe) PullAll() ([]Row, error) {
	rows := make([]Row, 0, len(p.buf))
	for !p.Done() {
		batch, err := p.Pull()
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}

func (p *Pipe) next() (Row, error) {
	elem := p.buf[len(p.buf)-1]
	p.buf[len(p.buf)-1] = nil
	p.buf = p.buf[:len(p.buf)-1]

	args, err := p.resolve(elem)
	if err != nil {
		return Row{}, err
	}
	return Row{Elem: elem, Args: args}, nil
}

// resolve evaluates the row-dependent arguments for elem with @ bound to it
// in a fresh scope. Row-independent arguments are shared as is.
func (p *Pipe) resolve(elem Value) (Args, error) {
	if len(p.local) == 0 {
		return p.fixed, nil
	}

	args := make(Args, len(p.fixed)+len(p.local))
	for name, v := range p.fixed {
		args[name] = v
	}

	scope := p.eval.env.Child()
	if err := scope.Define(LocalVariable, elem); err != nil {
		return nil, err
	}
	rowEval := p.eval.withEnv(scope)

	for _, arg := range p.local {
		v, err := rowEval.Evaluate(arg.expr)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", arg.name, err)
		}
		if err := checkParam(p.sig, arg.name, v); err != nil {
			return nil, err
		}
		args[arg.name] = v
	}
	return args, nil
}

// Push appends a result to an output pipe
func (p *Pipe) Push(v Value) {
	p.pushed = append(p.pushed, v)
}

// Result builds the list of pushed values
func (p *Pipe) Result() (*List, error) {
	return NewList(p.pushed)
}

func checkParam(sig Signature, name string, v Value) error {
	declared, ok := sig.Params[name]
	if !ok {
		return operatorErrorf("%s has no parameter %q", sig.QualifiedName(), name)
	}
	if !Conforms(TypeOf(v), declared) {
		return operatorErrorf("%s: parameter %s must be %s, got %s", sig.QualifiedName(), name, declared, TypeOf(v))
	}
	return nil
}
