package query

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/vegasq/starql/internal/logutil"
)

var logger = logutil.GetLogger("eval")

// outcome is the result of evaluating one node
type outcome struct {
	val Value
	err error
}

func failed(err error) outcome {
	return outcome{err: err}
}

// Evaluator is a tree-walking interpreter over one environment
type Evaluator struct {
	env       *Environment
	registry  *Registry
	batchSize int
}

// NewEvaluator creates an evaluator. A nil registry means the built-in
// operators; a non-positive batch size means DefaultBatchSize.
func NewEvaluator(env *Environment, registry *Registry, batchSize int) *Evaluator {
	if env == nil {
		env = NewEnvironment(nil)
	}
	if registry == nil {
		registry = GetGlobalRegistry()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Evaluator{env: env, registry: registry, batchSize: batchSize}
}

// Environment returns the scope the evaluator defines bindings in
func (e *Evaluator) Environment() *Environment {
	return e.env
}

func (e *Evaluator) withEnv(env *Environment) *Evaluator {
	return &Evaluator{env: env, registry: e.registry, batchSize: e.batchSize}
}

// Evaluate evaluates a node to a value
func (e *Evaluator) Evaluate(n Node) (Value, error) {
	res := Accept[outcome](n, e)
	return res.val, res.err
}

func (e *Evaluator) VisitBinary(n *BinaryExpr) outcome {
	left, err := e.Evaluate(n.Left)
	if err != nil {
		return failed(err)
	}
	right, err := e.Evaluate(n.Right)
	if err != nil {
		return failed(err)
	}
	v, err := BinaryOp(n.Op.Type, left, right)
	if err != nil {
		return failed(atLine(err, n.Op.Line))
	}
	return outcome{val: v}
}

func (e *Evaluator) VisitGrouping(n *GroupingExpr) outcome {
	v, err := e.Evaluate(n.Inner)
	return outcome{val: v, err: err}
}

func (e *Evaluator) VisitUnary(n *UnaryExpr) outcome {
	right, err := e.Evaluate(n.Right)
	if err != nil {
		return failed(err)
	}
	v, err := UnaryOp(n.Op.Type, right)
	if err != nil {
		return failed(atLine(err, n.Op.Line))
	}
	return outcome{val: v}
}

func (e *Evaluator) VisitAtom(n *AtomExpr) outcome {
	tok := n.Token
	switch tok.Type {
	case TokenNumber:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return failed(&Error{Kind: InternalError, Line: tok.Line, Msg: "invalid number literal", Err: err})
		}
		return outcome{val: Number(f)}
	case TokenString:
		return outcome{val: String(tok.Literal())}
	case TokenBool:
		return outcome{val: Bool(tok.Lexeme == "true")}
	case TokenVariable:
		v, err := e.env.Get(tok.Literal())
		if err != nil {
			return failed(atLine(err, tok.Line))
		}
		return outcome{val: v}
	}
	return failed(newError(InternalError, tok.Line, "cannot evaluate %s", tok))
}

func (e *Evaluator) VisitList(n *ListExpr) outcome {
	items := make([]Value, len(n.Items))
	for i, item := range n.Items {
		v, err := e.Evaluate(item)
		if err != nil {
			return failed(err)
		}
		items[i] = v
	}
	l, err := NewList(items)
	if err != nil {
		return failed(err)
	}
	return outcome{val: l}
}

func (e *Evaluator) VisitRecord(n *RecordExpr) outcome {
	names := make([]string, len(n.Names))
	values := make([]Value, len(n.Values))
	for i, name := range n.Names {
		v, err := e.Evaluate(n.Values[i])
		if err != nil {
			return failed(err)
		}
		names[i] = name.Lexeme
		values[i] = v
	}
	return outcome{val: NewRecord(names, values)}
}

func (e *Evaluator) VisitOpExpr(n *OpExpr) outcome {
	root, err := e.Evaluate(n.Root)
	if err != nil {
		return failed(err)
	}
	if len(n.Calls) == 0 {
		return outcome{val: root}
	}
	v, err := e.runPipeline(root, n.Calls)
	return outcome{val: v, err: err}
}

func (e *Evaluator) VisitStatement(n *Statement) outcome {
	v, err := e.Evaluate(n.Body)
	if err != nil {
		return failed(err)
	}
	if n.Name != nil {
		if err := e.env.Define(n.Name.Lexeme, v); err != nil {
			return failed(atLine(err, n.Name.Line))
		}
	}
	return outcome{val: v}
}

func (e *Evaluator) VisitQuery(n *Query) outcome {
	if len(n.Statements) == 0 {
		return failed(newError(InternalError, 0, "query has no statements"))
	}
	var last Value
	for _, stmt := range n.Statements {
		v, err := e.Evaluate(stmt)
		if err != nil {
			return failed(err)
		}
		last = v
	}
	return outcome{val: last}
}

// runPipeline threads value through each operator call in turn
func (e *Evaluator) runPipeline(value Value, calls []OpCall) (Value, error) {
	stages := make([]stage, len(calls))
	for i, call := range calls {
		st, err := e.buildStage(call)
		if err != nil {
			return nil, err
		}
		stages[i] = st
	}

	for _, st := range stages {
		input, ok := value.(*List)
		if !ok {
			return nil, newError(OperatorError, st.line, "%s: input must be a list, got %s", st.sig.QualifiedName(), TypeOf(value))
		}
		if !Conforms(input.Type(), st.sig.Input) {
			return nil, newError(OperatorError, st.line, "%s: input must be %s, got %s", st.sig.QualifiedName(), st.sig.Input, input.Type())
		}

		in, err := e.newStagePipe(st, input)
		if err != nil {
			return nil, err
		}
		out := NewOutputPipe()
		if err := st.op.Run(in, out); err != nil {
			return nil, fmt.Errorf("operator %s: %w", st.sig.QualifiedName(), err)
		}

		result, err := out.Result()
		if err != nil {
			return nil, fmt.Errorf("operator %s: %w", st.sig.QualifiedName(), err)
		}
		logger.Debug("stage finished",
			zap.String("operator", st.sig.QualifiedName()),
			zap.Int("in", input.Len()),
			zap.Int("out", result.Len()))
		value = result
	}
	return value, nil
}

// stage is an operator call resolved against the registry with its
// arguments classified by whether they refer to @
type stage struct {
	op    Operator
	sig   Signature
	line  int
	fixed []pipeArg
	local []pipeArg
}

// buildStage resolves the operator and checks argument names. It does not
// evaluate anything, so an unknown operator anywhere in the chain fails
// before any row is processed.
func (e *Evaluator) buildStage(call OpCall) (stage, error) {
	op, err := e.registry.Resolve(call.Path)
	if err != nil {
		return stage{}, err
	}
	sig := op.Signature()
	st := stage{op: op, sig: sig, line: call.Path[0].Line}

	given := make(map[string]bool, len(call.Args))
	for _, arg := range call.Args {
		name := arg.Name.Lexeme
		if _, ok := sig.Params[name]; !ok {
			return stage{}, newError(OperatorError, arg.Name.Line, "%s has no parameter %q", sig.QualifiedName(), name)
		}
		given[name] = true

		pa := pipeArg{name: name, expr: arg.Value}
		if ReferencesLocal(arg.Value) {
			st.local = append(st.local, pa)
		} else {
			st.fixed = append(st.fixed, pa)
		}
	}
	for name := range sig.Params {
		if !given[name] {
			return stage{}, newError(OperatorError, st.line, "%s: missing argument %q", sig.QualifiedName(), name)
		}
	}
	return st, nil
}

// newStagePipe evaluates the row-independent arguments once and builds the
// input pipe for a stage
func (e *Evaluator) newStagePipe(st stage, input *List) (*Pipe, error) {
	fixed := make(Args, len(st.fixed))
	for _, arg := range st.fixed {
		v, err := e.Evaluate(arg.expr)
		if err != nil {
			return nil, fmt.Errorf("operator %s: argument %s: %w", st.sig.QualifiedName(), arg.name, err)
		}
		if err := checkParam(st.sig, arg.name, v); err != nil {
			return nil, err
		}
		fixed[arg.name] = v
	}

	p := NewPipe(input, fixed, e.batchSize)
	p.sig = st.sig
	p.local = st.local
	p.eval = e
	return p, nil
}

// atLine fills in the line of a language error raised without one
func atLine(err error, line int) error {
	var qe *Error
	if errors.As(err, &qe) && qe.Line == 0 {
		qe.Line = line
	}
	return err
}
