package eval

import (
	"context"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Signature declares argument and return types.
type Signature struct {
	Args   []types.Ref
	Return types.Ref
}

// Arity returns the number of arguments.
func (s Signature) Arity() int { return len(s.Args) }

// Body is a function body: an *Expr or a Builtin.
type Body interface {
	call(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope) (value.Value, error)
	callInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, graph rdf.Resource, sig Signature, output value.Value) ([]value.Value, error)
}

func (e *Expr) call(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope) (value.Value, error) {
	return e.Eval(ctx, rdfc, ds, scope)
}

func (e *Expr) callInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, graph rdf.Resource, sig Signature, output value.Value) ([]value.Value, error) {
	root := NewReverseScope(graph, Types(sig.Args...))
	if err := e.EvalInverse(ctx, rdfc, ds, root, output); err != nil {
		return nil, err
	}
	return root.End(ctx, rdfc, ds)
}

// Function is a bidirectional function between argument values and a
// return value.
type Function struct {
	Signature Signature
	Body      Body
}

// Call evaluates the function forward in the default graph.
func (f *Function) Call(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, args []value.Value) (value.Value, error) {
	return f.CallIn(ctx, rdfc, ds, nil, args)
}

// CallIn evaluates the function forward with graph as the target graph.
func (f *Function) CallIn(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, graph rdf.Resource, args []value.Value) (value.Value, error) {
	if len(args) != f.Signature.Arity() {
		return nil, errInvalidValue("expected %d arguments, got %d", f.Signature.Arity(), len(args))
	}
	scope := NewScope(nil, InGraph(graph), Types(f.Signature.Args...), args)
	return f.Body.call(ctx, rdfc, ds, scope)
}

// CallInverse evaluates the function backward in the default graph: it
// inserts the quads describing output into ds and returns the arguments.
// Arguments the output does not determine are fresh resources.
func (f *Function) CallInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, output value.Value) ([]value.Value, error) {
	return f.CallInverseIn(ctx, rdfc, ds, nil, output)
}

// CallInverseIn evaluates the function backward with graph as the target
// graph.
func (f *Function) CallInverseIn(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, graph rdf.Resource, output value.Value) ([]value.Value, error) {
	return f.Body.callInverse(ctx, rdfc, ds, graph, f.Signature, output)
}

// AsLayout returns the function as a Layout. It reports false when an
// argument has a resource type.
func (f *Function) AsLayout() (*Layout, bool) {
	for _, a := range f.Signature.Args {
		if a.IsDefined() && a.Type().Kind == types.KindResource {
			return nil, false
		}
	}
	return &Layout{fn: f}, true
}

// Layout is a function without resource-typed arguments: it maps input
// resources to a tree value and back.
type Layout struct {
	fn *Function
}

// Function returns the underlying function.
func (l *Layout) Function() *Function { return l.fn }

// Signature returns the layout signature.
func (l *Layout) Signature() Signature { return l.fn.Signature }

// Hydrate reads the value described by inputs from ds.
func (l *Layout) Hydrate(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, inputs []value.Value) (value.Value, error) {
	return l.fn.Call(ctx, rdfc, ds, inputs)
}

// Dehydrate writes v into ds and returns the inputs that describe it.
func (l *Layout) Dehydrate(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, v value.Value) ([]value.Value, error) {
	return l.fn.CallInverse(ctx, rdfc, ds, v)
}
