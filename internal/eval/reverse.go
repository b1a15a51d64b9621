package eval

import (
	"context"
	"log/slog"

	"github.com/roach88/ldlayout/internal/pattern"
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// ReverseScope is the binding environment of inverse evaluation.
//
// Values start unbound and are filled in as inverse evaluation discovers
// them. End assigns a fresh resource to every variable left unbound, so
// new resources are only invented where the value does not determine
// them.
//
// While a sub-scope opened with Begin is alive, it has exclusive use of
// its parent: calling Set, Begin or End on the parent panics.
type ReverseScope struct {
	parent    *ReverseScope
	parentLen uint32
	graph     rdf.Resource
	types     ScopeTypes
	values    *pattern.Substitution
	pending   []rdf.QuadPattern
	borrowed  bool
}

// NewReverseScope creates a root inverse scope.
func NewReverseScope(graph rdf.Resource, ts ScopeTypes) *ReverseScope {
	return &ReverseScope{
		graph:  graph,
		types:  ts,
		values: pattern.NewSubstitution(ts.Len()),
	}
}

// Len returns the number of variables visible in the scope.
func (s *ReverseScope) Len() uint32 {
	return s.parentLen + s.values.Len()
}

// Graph returns the target graph; nil is the default graph.
func (s *ReverseScope) Graph() rdf.Resource { return s.graph }

// Get returns the value bound to variable i, or nil.
func (s *ReverseScope) Get(i uint32) value.Value {
	for s != nil {
		if i >= s.parentLen {
			return s.values.Get(i - s.parentLen)
		}
		s = s.parent
	}
	return nil
}

// TypeOf returns the declared type of variable i.
func (s *ReverseScope) TypeOf(i uint32) (types.Ref, bool) {
	for s != nil {
		if i >= s.parentLen {
			return s.types.Get(i - s.parentLen)
		}
		s = s.parent
	}
	return types.Ref{}, false
}

func (s *ReverseScope) checkNotBorrowed() {
	if s.borrowed {
		panic("eval: ReverseScope used while a sub-scope is active")
	}
}

// Set binds variable i to v. Binding a variable to a second, different
// value is an AMBIGUITY error.
func (s *ReverseScope) Set(i uint32, v value.Value) error {
	s.checkNotBorrowed()
	return s.set(i, v)
}

// set skips the borrow check: a sub-scope writes through to its ancestors.
func (s *ReverseScope) set(i uint32, v value.Value) error {
	if i < s.parentLen {
		return s.parent.set(i, v)
	}
	if err := s.values.Set(i-s.parentLen, v); err != nil {
		return &EvalError{Code: ErrCodeAmbiguity, Message: "variable bound twice", Err: err}
	}
	return nil
}

// Emit records quad patterns that must hold once the variables are bound.
// Unset graph components take the scope graph.
func (s *ReverseScope) Emit(patterns ...rdf.QuadPattern) {
	s.checkNotBorrowed()
	for _, p := range patterns {
		s.pending = append(s.pending, p.WithDefaultGraph(s.graph))
	}
}

// Begin opens a sub-scope declaring ts, runs f on it and ends it. The
// returned values are the sub-scope's variables, fresh resources included.
func (s *ReverseScope) Begin(
	ctx context.Context,
	rdfc rdf.MutableContext,
	ds rdf.MutableDataset,
	graph Graph,
	ts ScopeTypes,
	f func(*ReverseScope) error,
) ([]value.Value, error) {
	s.checkNotBorrowed()

	child := &ReverseScope{
		parent:    s,
		parentLen: s.Len(),
		graph:     graph.resolve(s.graph),
		types:     ts,
		values:    pattern.NewSubstitution(ts.Len()),
	}

	s.borrowed = true
	defer func() { s.borrowed = false }()

	if err := f(child); err != nil {
		return nil, err
	}
	return child.end(ctx, rdfc, ds)
}

// End completes the scope: unbound variables get fresh resources, emitted
// patterns that are now ground are inserted into ds, and the others are
// handed to the parent scope.
func (s *ReverseScope) End(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset) ([]value.Value, error) {
	s.checkNotBorrowed()
	return s.end(ctx, rdfc, ds)
}

func (s *ReverseScope) end(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset) ([]value.Value, error) {
	fresh := 0
	values, err := s.values.Total(func(i uint32) (value.Value, error) {
		fresh++
		v := value.NewResource(rdfc.NewResource())
		if err := s.values.Set(i, v); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, wrap(err, "complete scope")
	}

	var invalid error
	lookup := func(i uint32) (rdf.Resource, bool) {
		v := s.Get(i)
		if v == nil {
			return nil, false
		}
		r, ok := value.AsResource(v)
		if !ok || r == nil {
			invalid = errInvalidValue("variable ?%d is bound to %s, not a resource", i, v)
			return nil, false
		}
		return r, true
	}

	inserted := 0
	for _, p := range s.pending {
		p = p.Apply(lookup)
		if invalid != nil {
			return nil, invalid
		}
		if q, ok := p.Ground(); ok {
			if err := ds.Insert(ctx, q); err != nil {
				return nil, wrap(err, "insert quad")
			}
			inserted++
			continue
		}
		if s.parent == nil {
			return nil, errInvalidValue("pattern %s is not determined by the scope", p)
		}
		s.parent.pending = append(s.parent.pending, p)
	}
	s.pending = nil

	if fresh > 0 || inserted > 0 {
		slog.Debug("reverse scope ended", "vars", len(values), "fresh", fresh, "inserted", inserted)
	}
	return values, nil
}
