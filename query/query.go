package query

// Engine parses and evaluates queries against a root environment that
// persists between runs, so bindings made by one query are visible to the
// next. An Engine is not safe for concurrent use.
type Engine struct {
	registry  *Registry
	batchSize int
	env       *Environment
}

// Option configures an Engine
type Option func(*Engine)

// WithRegistry sets the operator registry. The default is the built-in one.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithBatchSize sets how many rows an operator pulls at a time
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = n
	}
}

// NewEngine creates an engine with an empty root environment
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry:  GetGlobalRegistry(),
		batchSize: DefaultBatchSize,
		env:       NewEnvironment(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind defines a variable in the root environment
func (e *Engine) Bind(name string, v Value) error {
	return e.env.Define(name, v)
}

// Environment returns the root environment
func (e *Engine) Environment() *Environment {
	return e.env
}

// Registry returns the operator registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Run parses and evaluates a query, returning the value of its last
// statement. Bindings made before a failing statement are kept.
func (e *Engine) Run(query string) (Value, error) {
	q, err := Parse(query)
	if err != nil {
		return nil, err
	}
	return e.Eval(q)
}

// Eval evaluates an already parsed node
func (e *Engine) Eval(n Node) (Value, error) {
	return NewEvaluator(e.env, e.registry, e.batchSize).Evaluate(n)
}

// Run parses and evaluates a query in a fresh environment
func Run(query string) (Value, error) {
	return NewEngine().Run(query)
}
