package eval

import (
	"context"

	"github.com/roach88/ldlayout/internal/pattern"
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Bound is the graph shape an expression expects around its variables:
// the types of the variables it introduces and the quad patterns they
// must satisfy.
type Bound struct {
	Intro   []types.Ref
	Dataset []rdf.QuadPattern
}

// IsEmpty reports whether the bound introduces nothing and requires nothing.
func (b Bound) IsEmpty() bool {
	return len(b.Intro) == 0 && len(b.Dataset) == 0
}

func (b Bound) patterns(graph rdf.Resource) []rdf.QuadPattern {
	out := make([]rdf.QuadPattern, len(b.Dataset))
	for i, p := range b.Dataset {
		out[i] = p.WithDefaultGraph(graph)
	}
	return out
}

func (b Bound) matching(ds rdf.PatternMatchingDataset, scope *Scope, prebind func(uint32) rdf.Resource) (*pattern.Matching, error) {
	sub := pattern.NewSubstitution(uint32(len(b.Intro)))
	if prebind != nil {
		for i := range b.Intro {
			if r := prebind(uint32(i)); r != nil {
				if err := sub.Set(uint32(i), value.NewResource(r)); err != nil {
					return nil, err
				}
			}
		}
	}
	return pattern.NewMatching(ds, scope, sub, b.patterns(scope.Graph())), nil
}

// FindOne resolves the bound to exactly one extension of scope. It returns
// nil when nothing matches and an AMBIGUITY error when several do. An
// empty bound returns scope itself.
func (b Bound) FindOne(ctx context.Context, ds rdf.PatternMatchingDataset, scope *Scope) (*Scope, error) {
	return b.FindOneWith(ctx, ds, scope, nil)
}

// FindOneWith is FindOne with some introduced variables fixed in advance:
// prebind returns the resource for local variable i, or nil.
func (b Bound) FindOneWith(ctx context.Context, ds rdf.PatternMatchingDataset, scope *Scope, prebind func(uint32) rdf.Resource) (*Scope, error) {
	if b.IsEmpty() {
		return scope, nil
	}

	m, err := b.matching(ds, scope, prebind)
	if err != nil {
		return nil, wrap(err, "prebind variables")
	}
	sub, err := m.Unique(ctx)
	if err != nil {
		return nil, wrap(err, "resolve bound")
	}
	if sub == nil {
		return nil, nil
	}

	values, err := sub.Total(nil)
	if err != nil {
		return nil, wrap(err, "variable not determined by the bound")
	}
	return NewScope(scope, InheritGraph(), Types(b.Intro...), values), nil
}

// FindAll returns the values of the introduced variables for every match,
// in dataset order.
func (b Bound) FindAll(ctx context.Context, ds rdf.PatternMatchingDataset, scope *Scope) ([][]value.Value, error) {
	m, err := b.matching(ds, scope, nil)
	if err != nil {
		return nil, wrap(err, "prebind variables")
	}
	subs, err := m.All(ctx)
	if err != nil {
		return nil, wrap(err, "enumerate bound")
	}

	out := make([][]value.Value, len(subs))
	for i, sub := range subs {
		if out[i], err = sub.Total(nil); err != nil {
			return nil, wrap(err, "variable not determined by the bound")
		}
	}
	return out, nil
}

// InverseOnce opens one sub-scope of scope for the introduced variables,
// emits the bound's patterns into it and runs f. It returns the values of
// the introduced variables.
func (b Bound) InverseOnce(
	ctx context.Context,
	rdfc rdf.MutableContext,
	ds rdf.MutableDataset,
	scope *ReverseScope,
	f func(*ReverseScope) error,
) ([]value.Value, error) {
	return scope.Begin(ctx, rdfc, ds, InheritGraph(), Types(b.Intro...), func(child *ReverseScope) error {
		child.Emit(b.Dataset...)
		return f(child)
	})
}
