package query

// Environment is one lexical scope of variable bindings. Lookups fall back to
// the parent scope; definitions only ever touch this scope.
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment creates a scope whose lookups fall back to parent.
// parent may be nil for a root scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Child creates a nested scope of e
func (e *Environment) Child() *Environment {
	return NewEnvironment(e)
}

// Parent returns the enclosing scope, or nil for a root scope
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define binds name in this scope. Shadowing a binding of an enclosing scope
// is allowed; defining the same name twice in one scope is not.
func (e *Environment) Define(name string, value Value) error {
	if _, exists := e.values[name]; exists {
		return newError(RedefinitionError, 0, "variable %q is already defined", name)
	}
	e.values[name] = value
	return nil
}

// Get returns the value bound to name in the nearest scope that defines it
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, newError(UndefinedVariableError, 0, "undefined variable %q", name)
}

// Names returns the names defined in this scope, not including parents
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	return names
}
