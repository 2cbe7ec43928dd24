package query

import (
	"sort"
	"strings"
	"sync"
)

// DefaultNamespace is the namespace of operators called without one
const DefaultNamespace = "std"

// Signature describes an operator: where it lives, what it accepts and what
// it produces. Every parameter listed in Params is required.
type Signature struct {
	Namespace string
	Name      string
	Doc       string
	Input     Type
	Params    map[string]Type
	Return    Type
	// Pure operators produce the same output for the same input and arguments
	Pure bool
}

// QualifiedName returns namespace.name
func (s Signature) QualifiedName() string {
	return s.Namespace + "." + s.Name
}

// String renders the signature like a call, e.g. std.take(limit: Number) -> List<Any>
func (s Signature) String() string {
	names := make([]string, 0, len(s.Params))
	for name := range s.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]string, len(names))
	for i, name := range names {
		params[i] = name + ": " + s.Params[name].String()
	}
	return s.QualifiedName() + "(" + strings.Join(params, ", ") + ") -> " + s.Return.String()
}

// Operator is a pipeline stage. Run pulls rows from in, each row carrying
// one input element and the operator arguments resolved for it, and pushes
// results to out.
type Operator interface {
	Signature() Signature
	Run(in *Pipe, out *Pipe) error
}

// Registry manages operator lookup and registration
type Registry struct {
	mu        sync.RWMutex
	operators map[string]Operator
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		operators: make(map[string]Operator),
	}
}

func registryKey(namespace, name string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return namespace + "." + name
}

// Register registers an operator under its signature's namespace and name
func (r *Registry) Register(op Operator) error {
	sig := op.Signature()
	key := registryKey(sig.Namespace, sig.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.operators[key]; exists {
		return operatorErrorf("operator %s is already registered", key)
	}
	r.operators[key] = op
	return nil
}

// Get retrieves an operator. An empty namespace means the std namespace.
func (r *Registry) Get(namespace, name string) (Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, exists := r.operators[registryKey(namespace, name)]
	return op, exists
}

// Resolve finds the operator named by a dotted call path. The last segment
// is the name; the segments before it, joined by '.', are the namespace.
func (r *Registry) Resolve(path []Token) (Operator, error) {
	if len(path) == 0 {
		return nil, newError(InternalError, 0, "empty operator path")
	}

	segments := make([]string, len(path))
	for i, tok := range path {
		segments[i] = tok.Lexeme
	}
	namespace := strings.Join(segments[:len(segments)-1], ".")
	name := segments[len(segments)-1]

	op, ok := r.Get(namespace, name)
	if !ok {
		return nil, newError(OperatorError, path[0].Line, "operator not found: %s", registryKey(namespace, name))
	}
	return op, nil
}

// Signatures lists every registered operator sorted by qualified name
func (r *Registry) Signatures() []Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sigs := make([]Signature, 0, len(r.operators))
	for _, op := range r.operators {
		sigs = append(sigs, op.Signature())
	}
	sort.Slice(sigs, func(i, j int) bool {
		return sigs[i].QualifiedName() < sigs[j].QualifiedName()
	})
	return sigs
}

// Conforms reports whether a value of type t may be passed where declared
// is expected. Any on either side matches, which lets an empty list stand
// in for a list of anything.
func Conforms(t, declared Type) bool {
	if declared == nil || AnyType.Equal(declared) || AnyType.Equal(t) {
		return true
	}
	switch d := declared.(type) {
	case ListType:
		lt, ok := t.(ListType)
		return ok && Conforms(lt.Elem, d.Elem)
	case RecordType:
		rt, ok := t.(RecordType)
		if !ok {
			return false
		}
		for name, ft := range d.Fields {
			actual, ok := rt.Fields[name]
			if !ok || !Conforms(actual, ft) {
				return false
			}
		}
		return true
	}
	return t.Equal(declared)
}

// globalRegistry holds the built-in operators
var globalRegistry *Registry

func init() {
	globalRegistry = NewRegistry()
	registerStd(globalRegistry)
}

// GetGlobalRegistry returns the registry of built-in operators
func GetGlobalRegistry() *Registry {
	return globalRegistry
}
