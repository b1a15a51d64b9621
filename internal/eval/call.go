package eval

import (
	"context"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Call applies a function to the values of its argument expressions. The
// function runs in the caller's graph.
type Call struct {
	Function *Function
	Args     []*Expr
}

func (c *Call) eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope, _ types.Ref) (value.Value, error) {
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Eval(ctx, rdfc, ds, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return c.Function.CallIn(ctx, rdfc, ds, scope.Graph(), args)
}

func (c *Call) evalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, _ types.Ref, output value.Value) error {
	args, err := c.Function.CallInverseIn(ctx, rdfc, ds, scope.Graph(), output)
	if err != nil {
		return err
	}
	if len(args) != len(c.Args) {
		return errInvalidValue("function returned %d arguments, call has %d", len(args), len(c.Args))
	}
	for i, a := range c.Args {
		if err := a.EvalInverse(ctx, rdfc, ds, scope, args[i]); err != nil {
			return err
		}
	}
	return nil
}
