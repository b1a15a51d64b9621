package eval

import (
	"context"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Expr is a typed layout expression with its bound.
type Expr struct {
	Type  types.Ref
	Bound Bound
	Inner Inner
}

// Inner is the expression proper: Var, Literal, ExplicitList,
// OrderedList, UnorderedList, *Map, *Match or *Call.
type Inner interface {
	eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope, ty types.Ref) (value.Value, error)
	evalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, ty types.Ref, output value.Value) error
	validate(v *validator, scopeLen uint32)
}

// Eval evaluates the expression forward. The bound must resolve to exactly
// one extension of scope (EMPTY when none does).
func (e *Expr) Eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(err, "evaluate")
	}
	child, err := e.Bound.FindOne(ctx, ds, scope)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, errEmpty("bound matched nothing")
	}
	return e.Inner.eval(ctx, rdfc, ds, child, e.Type)
}

// EvalInverse evaluates the expression backward from output, binding
// variables of scope and inserting quads into ds.
func (e *Expr) EvalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, output value.Value) error {
	if err := ctx.Err(); err != nil {
		return wrap(err, "evaluate inverse")
	}
	_, err := e.Bound.InverseOnce(ctx, rdfc, ds, scope, func(child *ReverseScope) error {
		return e.Inner.evalInverse(ctx, rdfc, ds, child, e.Type, output)
	})
	return err
}

// Var refers to a variable.
type Var uint32

func (x Var) eval(_ context.Context, _ rdf.Context, _ rdf.PatternMatchingDataset, scope *Scope, _ types.Ref) (value.Value, error) {
	v := scope.Get(uint32(x))
	if v == nil {
		return nil, errInvalidValue("variable ?%d is out of scope", uint32(x))
	}
	return v, nil
}

func (x Var) evalInverse(_ context.Context, _ rdf.MutableContext, _ rdf.MutableDataset, scope *ReverseScope, _ types.Ref, output value.Value) error {
	if uint32(x) >= scope.Len() {
		return errInvalidValue("variable ?%d is out of scope", uint32(x))
	}
	return scope.Set(uint32(x), output)
}

// Literal is a constant.
type Literal struct {
	Value value.Literal
}

func (l Literal) eval(context.Context, rdf.Context, rdf.PatternMatchingDataset, *Scope, types.Ref) (value.Value, error) {
	return l.Value, nil
}

func (l Literal) evalInverse(_ context.Context, _ rdf.MutableContext, _ rdf.MutableDataset, _ *ReverseScope, _ types.Ref, output value.Value) error {
	if !value.Equal(l.Value, output) {
		return errInvalidValue("expected constant %s, got %s", l.Value, output)
	}
	return nil
}
