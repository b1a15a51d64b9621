package eval

import (
	"context"

	"github.com/roach88/ldlayout/internal/pattern"
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// ExplicitList is a fixed tuple of expressions.
type ExplicitList struct {
	Items []*Expr
}

func (l *ExplicitList) eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope, _ types.Ref) (value.Value, error) {
	out := make(value.List, 0, len(l.Items))
	for _, item := range l.Items {
		v, err := item.Eval(ctx, rdfc, ds, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// evalInverse requires the output to have exactly one item per expression.
func (l *ExplicitList) evalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, _ types.Ref, output value.Value) error {
	items, ok := output.(value.List)
	if !ok {
		return errInvalidType("expected a list, got %s", output)
	}
	if len(items) != len(l.Items) {
		return errInvalidValue("expected %d items, got %d", len(l.Items), len(items))
	}
	for i, item := range l.Items {
		if err := item.EvalInverse(ctx, rdfc, ds, scope, items[i]); err != nil {
			return err
		}
	}
	return nil
}

// OrderedList is an RDF collection: a chain of cells linked by Rest, each
// holding its item under First, terminated by Nil. Head evaluates to the
// first cell. Bound introduces exactly one variable, bound to the item
// resource of the current cell, and Body decodes the item from it.
type OrderedList struct {
	Head  *Expr
	Bound Bound
	Body  *Expr
	First rdf.Resource
	Rest  rdf.Resource
	Nil   rdf.Resource
}

func (l *OrderedList) checkIntro() error {
	if len(l.Bound.Intro) != 1 {
		return errInvalidValue("ordered list must introduce exactly one variable, got %d", len(l.Bound.Intro))
	}
	return nil
}

func (l *OrderedList) eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope, _ types.Ref) (value.Value, error) {
	if err := l.checkIntro(); err != nil {
		return nil, err
	}

	hv, err := l.Head.Eval(ctx, rdfc, ds, scope)
	if err != nil {
		return nil, err
	}
	head, ok := value.AsResource(hv)
	if !ok {
		return nil, errInvalidType("list head must be a resource, got %s", hv)
	}

	out := value.List{}
	visited := map[rdf.Resource]struct{}{}
	for !rdf.Equal(head, l.Nil) {
		if _, seen := visited[head]; seen {
			return nil, errInvalidValue("list cell %s is part of a cycle", head)
		}
		visited[head] = struct{}{}

		first, err := uniqueObject(ctx, ds, head, l.First, scope.Graph())
		if err != nil {
			return nil, err
		}
		rest, err := uniqueObject(ctx, ds, head, l.Rest, scope.Graph())
		if err != nil {
			return nil, err
		}

		child, err := l.Bound.FindOneWith(ctx, ds, scope, func(uint32) rdf.Resource { return first })
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, errEmpty("list item %s does not satisfy the item bound", first)
		}

		item, err := l.Body.Eval(ctx, rdfc, ds, child)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
		head = rest
	}
	return out, nil
}

// uniqueObject returns the only object of (subject, predicate, ?) in graph.
func uniqueObject(ctx context.Context, ds rdf.PatternMatchingDataset, subject, predicate, graph rdf.Resource) (rdf.Resource, error) {
	p := rdf.NewQuadPattern(rdf.Term(subject), rdf.Term(predicate), rdf.Var(0)).WithDefaultGraph(graph)
	sub, err := pattern.NewMatching(ds, nil, pattern.NewSubstitution(1), []rdf.QuadPattern{p}).RequiredUnique(ctx)
	if err != nil {
		return nil, wrap(err, p.String())
	}
	r, _ := value.AsResource(sub.Get(0))
	return r, nil
}

// evalInverse builds the chain back to front: each item gets a fresh cell
// linked to the cell built before it, and the head is bound last.
func (l *OrderedList) evalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, _ types.Ref, output value.Value) error {
	if err := l.checkIntro(); err != nil {
		return err
	}
	items, ok := output.(value.List)
	if !ok {
		return errInvalidType("expected a list, got %s", output)
	}

	graph := scope.Graph()
	rest := l.Nil
	for i := len(items) - 1; i >= 0; i-- {
		cell := rdfc.NewResource()

		values, err := l.Bound.InverseOnce(ctx, rdfc, ds, scope, func(child *ReverseScope) error {
			return l.Body.EvalInverse(ctx, rdfc, ds, child, items[i])
		})
		if err != nil {
			return err
		}
		first, ok := value.AsResource(values[0])
		if !ok {
			return errInvalidValue("list item must be a resource, got %s", values[0])
		}

		for _, q := range []rdf.Quad{
			rdf.NewQuad(cell, l.First, first, graph),
			rdf.NewQuad(cell, l.Rest, rest, graph),
		} {
			if err := ds.Insert(ctx, q); err != nil {
				return wrap(err, "insert list cell")
			}
		}
		rest = cell
	}

	return l.Head.EvalInverse(ctx, rdfc, ds, scope, value.NewResource(rest))
}

// UnorderedList is one item per match of Bound, in dataset order.
type UnorderedList struct {
	Bound Bound
	Body  *Expr
}

func (l *UnorderedList) eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope, ty types.Ref) (value.Value, error) {
	itemType, err := uniformItem(ty)
	if err != nil {
		return nil, err
	}

	matches, err := l.Bound.FindAll(ctx, ds, scope)
	if err != nil {
		return nil, err
	}

	out := make(value.List, 0, len(matches))
	for _, values := range matches {
		child := NewScope(scope, InheritGraph(), Repeat(itemType, uint32(len(values))), values)
		item, err := l.Body.Eval(ctx, rdfc, ds, child)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (l *UnorderedList) evalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, _ types.Ref, output value.Value) error {
	items, ok := output.(value.List)
	if !ok {
		return errInvalidType("expected a list, got %s", output)
	}
	for _, item := range items {
		_, err := l.Bound.InverseOnce(ctx, rdfc, ds, scope, func(child *ReverseScope) error {
			return l.Body.EvalInverse(ctx, rdfc, ds, child, item)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func uniformItem(ty types.Ref) (types.Ref, error) {
	t := ty.Type()
	switch t.Kind {
	case types.KindAny:
		return ty, nil
	case types.KindList:
		if item, ok := t.List.Uniform(); ok {
			return item, nil
		}
	}
	return types.Ref{}, errInvalidType("unordered list needs a uniform list type, got %s", ty)
}
