package eval

import (
	"fmt"
	"strings"

	multierr "github.com/hashicorp/go-multierror"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
)

// validator collects the structural problems of a function body.
type validator struct {
	err     error
	path    []string
	visited map[*Function]struct{}
}

func newValidator() *validator {
	return &validator{visited: make(map[*Function]struct{})}
}

func (v *validator) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(v.path) > 0 {
		msg = fmt.Sprintf("%s: %s", strings.Join(v.path, "."), msg)
	}
	v.err = multierr.Append(v.err, &EvalError{Code: ErrCodeInvalidValue, Message: msg})
}

func (v *validator) enter(step string) func() {
	v.path = append(v.path, step)
	return func() { v.path = v.path[:len(v.path)-1] }
}

func (v *validator) ref(what string, r types.Ref) {
	switch {
	case !r.IsValid():
		v.errorf("%s has no type", what)
	case !r.IsDefined():
		v.errorf("%s refers to an undeclared type", what)
	}
}

func (v *validator) function(f *Function) {
	if f == nil {
		v.errorf("call of a nil function")
		return
	}
	if _, ok := v.visited[f]; ok {
		return
	}
	v.visited[f] = struct{}{}

	for i, a := range f.Signature.Args {
		v.ref(fmt.Sprintf("argument %d", i), a)
	}
	v.ref("return", f.Signature.Return)

	switch body := f.Body.(type) {
	case nil:
		v.errorf("function has no body")
	case *Expr:
		body.validate(v, uint32(f.Signature.Arity()))
	}
}

func (v *validator) bound(b Bound, scopeLen uint32) uint32 {
	for i, r := range b.Intro {
		v.ref(fmt.Sprintf("introduced variable %d", i), r)
	}
	inner := scopeLen + uint32(len(b.Intro))
	for _, p := range b.Dataset {
		v.quadPattern(p, inner)
	}
	return inner
}

func (v *validator) quadPattern(p rdf.QuadPattern, scopeLen uint32) {
	for _, x := range p.Variables() {
		if x >= scopeLen {
			v.errorf("pattern %s uses ?%d outside a scope of %d variables", p, x, scopeLen)
		}
	}
}

func (e *Expr) validate(v *validator, scopeLen uint32) {
	if e == nil {
		v.errorf("missing expression")
		return
	}
	v.ref("expression", e.Type)
	inner := v.bound(e.Bound, scopeLen)
	if e.Inner == nil {
		v.errorf("expression has no body")
		return
	}
	e.Inner.validate(v, inner)
}

func (x Var) validate(v *validator, scopeLen uint32) {
	if uint32(x) >= scopeLen {
		v.errorf("variable ?%d outside a scope of %d variables", uint32(x), scopeLen)
	}
}

func (Literal) validate(*validator, uint32) {}

func (l *ExplicitList) validate(v *validator, scopeLen uint32) {
	for i, item := range l.Items {
		done := v.enter(fmt.Sprintf("[%d]", i))
		item.validate(v, scopeLen)
		done()
	}
}

func (l *OrderedList) validate(v *validator, scopeLen uint32) {
	defer v.enter("list")()

	if len(l.Bound.Intro) != 1 {
		v.errorf("ordered list must introduce exactly one variable, got %d", len(l.Bound.Intro))
	}
	for _, r := range []rdf.Resource{l.First, l.Rest, l.Nil} {
		if r == nil {
			v.errorf("ordered list vocabulary is incomplete")
			break
		}
	}
	l.Head.validate(v, scopeLen)
	l.Body.validate(v, v.bound(l.Bound, scopeLen))
}

func (l *UnorderedList) validate(v *validator, scopeLen uint32) {
	defer v.enter("items")()
	l.Body.validate(v, v.bound(l.Bound, scopeLen))
}

func (m *Map) validate(v *validator, scopeLen uint32) {
	for _, e := range m.entries {
		done := v.enter(e.Key.Untyped().String())
		e.Value.validate(v, scopeLen)
		done()
	}
}

func (m *Match) validate(v *validator, scopeLen uint32) {
	for _, name := range m.Order {
		done := v.enter(name)
		if c, ok := m.Cases[name]; !ok || c == nil || c.Expr == nil {
			v.errorf("no case named %q", name)
		} else {
			c.Expr.validate(v, scopeLen)
		}
		done()
	}
}

func (c *Call) validate(v *validator, scopeLen uint32) {
	defer v.enter("call")()
	if c.Function != nil && len(c.Args) != c.Function.Signature.Arity() {
		v.errorf("function takes %d arguments, call has %d", c.Function.Signature.Arity(), len(c.Args))
	}
	for _, a := range c.Args {
		a.validate(v, scopeLen)
	}
	v.function(c.Function)
}

// Validate checks the function and every function it calls for undeclared
// types, variables used outside their scope, ordered lists that do not
// introduce exactly one variable and match orders naming missing cases.
// All problems are reported together.
func (f *Function) Validate() error {
	v := newValidator()
	v.function(f)
	return v.err
}
