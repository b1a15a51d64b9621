package eval

import (
	"context"
	"log/slog"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/typed"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Case is one alternative of a Match. When Pattern is set, a value only
// selects the case if it instantiates the pattern.
type Case struct {
	Pattern *typed.Pattern
	Expr    *Expr
}

// Match picks the first case, in Order, that fits.
type Match struct {
	Order []string
	Cases map[string]*Case
}

func (m *Match) lookup(name string) (*Case, error) {
	c, ok := m.Cases[name]
	if !ok || c == nil || c.Expr == nil {
		return nil, errUnknownVariant(name)
	}
	return c, nil
}

// eval returns the value of the first case whose bound resolves and whose
// body evaluates. A case failing with an evaluation error lets the next
// case be tried; dataset failures and cancellation do not.
func (m *Match) eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope, _ types.Ref) (value.Value, error) {
	for _, name := range m.Order {
		c, err := m.lookup(name)
		if err != nil {
			return nil, err
		}

		child, err := c.Expr.Bound.FindOne(ctx, ds, scope)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}

		v, err := c.Expr.Inner.eval(ctx, rdfc, ds, child, c.Expr.Type)
		if err != nil {
			if !recoverable(err) {
				return nil, err
			}
			slog.Debug("match case rejected", "case", name, "error", err)
			continue
		}
		if c.Pattern != nil {
			if _, ok := c.Pattern.Instantiate(v); !ok {
				continue
			}
		}
		return v, nil
	}
	return nil, errEmpty("no case matched")
}

// evalInverse inverts the first case accepting the output: through its
// pattern when it has one, through its type otherwise.
func (m *Match) evalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, _ types.Ref, output value.Value) error {
	for _, name := range m.Order {
		c, err := m.lookup(name)
		if err != nil {
			return err
		}

		var accepted bool
		if c.Pattern != nil {
			_, accepted = c.Pattern.Instantiate(output)
		} else {
			_, accepted = typed.IntoTyped(output, c.Expr.Type)
		}
		if accepted {
			return c.Expr.EvalInverse(ctx, rdfc, ds, scope, output)
		}
	}
	return errInvalidType("no case accepts %s", output)
}
