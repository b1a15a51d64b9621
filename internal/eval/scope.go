package eval

import (
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Graph selects the target graph of a scope. The zero value inherits the
// parent's graph.
type Graph struct {
	Node rdf.Resource
	Set  bool
}

// InheritGraph keeps the parent's graph.
func InheritGraph() Graph { return Graph{} }

// InGraph overrides the graph. A nil node selects the default graph.
func InGraph(g rdf.Resource) Graph { return Graph{Node: g, Set: true} }

func (g Graph) resolve(parent rdf.Resource) rdf.Resource {
	if g.Set {
		return g.Node
	}
	return parent
}

// ScopeTypes declares the types of the variables of one scope level:
// either one type per variable, or the same type repeated.
type ScopeTypes struct {
	refs     []types.Ref
	repeat   types.Ref
	count    uint32
	repeated bool
}

// Types declares one type per variable.
func Types(refs ...types.Ref) ScopeTypes {
	return ScopeTypes{refs: refs, count: uint32(len(refs))}
}

// Repeat declares n variables of type ty.
func Repeat(ty types.Ref, n uint32) ScopeTypes {
	return ScopeTypes{repeat: ty, count: n, repeated: true}
}

// Len returns the number of declared variables.
func (t ScopeTypes) Len() uint32 { return t.count }

// Get returns the type of local variable i.
func (t ScopeTypes) Get(i uint32) (types.Ref, bool) {
	if i >= t.count {
		return types.Ref{}, false
	}
	if t.repeated {
		return t.repeat, true
	}
	return t.refs[i], true
}

// Scope is an immutable layer of forward bindings.
//
// Variable indices are global along the parent chain: index i refers to
// the parent when i is below the parent's length, and to local value
// i - parentLen otherwise.
type Scope struct {
	parent    *Scope
	parentLen uint32
	graph     rdf.Resource
	types     ScopeTypes
	values    []value.Value
}

// NewScope creates a scope layer over parent (nil for a root scope).
func NewScope(parent *Scope, graph Graph, ts ScopeTypes, values []value.Value) *Scope {
	s := &Scope{types: ts, values: values}
	var inherited rdf.Resource
	if parent != nil {
		s.parent = parent
		s.parentLen = parent.Len()
		inherited = parent.graph
	}
	s.graph = graph.resolve(inherited)
	return s
}

// Len returns the number of variables visible in the scope.
func (s *Scope) Len() uint32 {
	return s.parentLen + uint32(len(s.values))
}

// Graph returns the target graph; nil is the default graph.
func (s *Scope) Graph() rdf.Resource { return s.graph }

// Get returns the value of variable i, or nil when i is out of range.
func (s *Scope) Get(i uint32) value.Value {
	for s != nil {
		if i >= s.parentLen {
			j := i - s.parentLen
			if int(j) >= len(s.values) {
				return nil
			}
			return s.values[j]
		}
		s = s.parent
	}
	return nil
}

// TypeOf returns the declared type of variable i.
func (s *Scope) TypeOf(i uint32) (types.Ref, bool) {
	for s != nil {
		if i >= s.parentLen {
			return s.types.Get(i - s.parentLen)
		}
		s = s.parent
	}
	return types.Ref{}, false
}
