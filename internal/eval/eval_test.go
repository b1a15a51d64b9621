package eval

import (
	"context"
	"errors"
	"testing"

	"github.com/cayleygraph/quad"
	multierr "github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ldlayout/internal/dataset"
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/typed"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

var (
	alice = quad.IRI("http://ex/alice")
	bob   = quad.IRI("http://ex/bob")
	carol = quad.IRI("http://ex/carol")
	name  = quad.IRI("http://ex/name")
	knows = quad.IRI("http://ex/knows")
	g1    = quad.IRI("http://ex/g1")
)

// env holds the types and builtins shared by the layouts under test.
type env struct {
	l      *types.Lattice
	res    types.Ref
	text   types.Ref
	texts  types.Ref
	textFn *Function
	iriFn  *Function
}

func newEnv() *env {
	l := types.NewLattice(types.Options{})
	text := l.Define(types.Text())
	return &env{
		l:      l,
		res:    l.Define(types.AnyResource()),
		text:   text,
		texts:  l.Define(types.Uniform(text)),
		textFn: NewBuiltin(l, BuiltinText),
		iriFn:  NewBuiltin(l, BuiltinIRI),
	}
}

func (e *env) v(i uint32) *Expr {
	return &Expr{Type: e.res, Inner: Var(i)}
}

func (e *env) call(fn *Function, bound Bound, args ...*Expr) *Expr {
	return &Expr{Type: fn.Signature.Return, Bound: bound, Inner: &Call{Function: fn, Args: args}}
}

// nameOf reads the name of its argument.
func (e *env) nameOf() *Expr {
	return e.call(e.textFn, Bound{
		Intro:   []types.Ref{e.res},
		Dataset: []rdf.QuadPattern{rdf.NewQuadPattern(rdf.Var(0), rdf.Term(name), rdf.Var(1))},
	}, e.v(1))
}

// person maps a resource to {"name": <name>}.
func (e *env) person() *Function {
	key := e.l.Define(types.TextConst("name"))
	ty := e.l.Define(types.Struct(types.Field{Key: key, Type: e.text, Required: true}))
	return &Function{
		Signature: Signature{Args: []types.Ref{e.res}, Return: ty},
		Body: &Expr{Type: ty, Inner: NewMap(MapEntry{
			Key:   typed.Value{Type: key, Desc: typed.Literal{Value: value.Text("name")}},
			Value: e.nameOf(),
		})},
	}
}

// list maps an RDF collection of strings to a list of text.
func (e *env) list() *Function {
	return &Function{
		Signature: Signature{Args: []types.Ref{e.res}, Return: e.texts},
		Body: &Expr{Type: e.texts, Inner: &OrderedList{
			Head:  e.v(0),
			Bound: Bound{Intro: []types.Ref{e.res}},
			Body:  e.call(e.textFn, Bound{}, e.v(1)),
			First: rdf.First,
			Rest:  rdf.Rest,
			Nil:   rdf.Nil,
		}},
	}
}

func newContext() *rdf.Interpretation {
	return rdf.NewInterpretation(rdf.NewCountingGenerator("b"))
}

func assertValue(t *testing.T, want, got value.Value) {
	t.Helper()
	assert.True(t, value.Equal(want, got), "want %s, got %v", want, got)
}

func TestScopeDelegatesToParent(t *testing.T) {
	e := newEnv()
	parent := NewScope(nil, InGraph(g1), Types(e.text, e.text, e.text),
		[]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	child := NewScope(parent, InheritGraph(), Repeat(e.res, 2),
		[]value.Value{value.Int(4), value.Int(5)})

	assert.Equal(t, uint32(5), child.Len())
	assert.Equal(t, g1, child.Graph())
	assertValue(t, value.Int(2), child.Get(1))
	assertValue(t, value.Int(4), child.Get(3))
	assert.Nil(t, child.Get(5))

	ty, ok := child.TypeOf(4)
	require.True(t, ok)
	assert.Equal(t, e.res, ty)
	ty, ok = child.TypeOf(0)
	require.True(t, ok)
	assert.Equal(t, e.text, ty)
}

func TestExplicitTuple(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	pair := e.l.Define(types.Tuple(e.res, e.res))
	fn := &Function{
		Signature: Signature{Args: []types.Ref{e.res, e.res}, Return: pair},
		Body:      &Expr{Type: pair, Inner: &ExplicitList{Items: []*Expr{e.v(0), e.v(1)}}},
	}
	a, b := value.NewResource(quad.IRI("a")), value.NewResource(quad.IRI("b"))

	got, err := fn.Call(ctx, newContext(), dataset.New(), []value.Value{a, b})
	require.NoError(t, err)
	assertValue(t, value.List{a, b}, got)

	ds := dataset.New()
	args, err := fn.CallInverse(ctx, newContext(), ds, value.List{a, b})
	require.NoError(t, err)
	require.Len(t, args, 2)
	assertValue(t, a, args[0])
	assertValue(t, b, args[1])
	assert.Equal(t, 0, ds.Len())

	_, err = fn.CallInverse(ctx, newContext(), ds, value.List{a})
	assert.True(t, IsInvalidValue(err), "got %v", err)
	_, err = fn.CallInverse(ctx, newContext(), ds, value.Text("a"))
	assert.True(t, IsInvalidType(err), "got %v", err)
	_, err = fn.Call(ctx, newContext(), ds, []value.Value{a})
	assert.True(t, IsInvalidValue(err), "got %v", err)
}

func TestVariableBoundTwice(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	pair := e.l.Define(types.Tuple(e.res, e.res))
	fn := &Function{
		Signature: Signature{Args: []types.Ref{e.res}, Return: pair},
		Body:      &Expr{Type: pair, Inner: &ExplicitList{Items: []*Expr{e.v(0), e.v(0)}}},
	}
	a, b := value.NewResource(quad.IRI("a")), value.NewResource(quad.IRI("b"))

	args, err := fn.CallInverse(ctx, newContext(), dataset.New(), value.List{a, a})
	require.NoError(t, err)
	assertValue(t, a, args[0])

	_, err = fn.CallInverse(ctx, newContext(), dataset.New(), value.List{a, b})
	assert.True(t, IsAmbiguity(err), "got %v", err)
}

func TestMapForwardAndInverse(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	fn := e.person()
	require.NoError(t, fn.Validate())

	ds := dataset.FromQuads(
		rdf.NewQuad(alice, name, quad.String("Alice"), nil),
		rdf.NewQuad(bob, name, quad.String("Bob"), nil),
		rdf.NewQuad(bob, name, quad.String("Robert"), nil),
	)
	want := value.NewMap(value.Entry{Key: value.Text("name"), Value: value.Text("Alice")})

	got, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(alice)})
	require.NoError(t, err)
	assertValue(t, want, got)

	_, err = fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(bob)})
	assert.True(t, IsAmbiguity(err), "got %v", err)

	_, err = fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(carol)})
	assert.True(t, IsEmpty(err), "got %v", err)

	out := dataset.New()
	args, err := fn.CallInverse(ctx, newContext(), out, want)
	require.NoError(t, err)
	require.Len(t, args, 1)
	assertValue(t, value.NewResource(quad.BNode("b0")), args[0])
	assert.Equal(t, []rdf.Quad{rdf.NewQuad(quad.BNode("b0"), name, quad.String("Alice"), nil)}, out.Quads())

	again, err := fn.Call(ctx, newContext(), out, args)
	require.NoError(t, err)
	assertValue(t, want, again)

	extra := value.NewMap(
		value.Entry{Key: value.Text("name"), Value: value.Text("Alice")},
		value.Entry{Key: value.Text("age"), Value: value.Int(3)},
	)
	_, err = fn.CallInverse(ctx, newContext(), dataset.New(), extra)
	require.True(t, IsUnknownKey(err), "got %v", err)
	var ee *EvalError
	require.True(t, errors.As(err, &ee))
	assertValue(t, value.Text("age"), ee.Key)
}

func TestOrderedList(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	fn := e.list()
	require.NoError(t, fn.Validate())

	l0, l1, l2 := quad.BNode("l0"), quad.BNode("l1"), quad.BNode("l2")
	quads := []rdf.Quad{
		rdf.NewQuad(l0, rdf.First, quad.String("a"), nil),
		rdf.NewQuad(l0, rdf.Rest, l1, nil),
		rdf.NewQuad(l1, rdf.First, quad.String("b"), nil),
		rdf.NewQuad(l1, rdf.Rest, l2, nil),
		rdf.NewQuad(l2, rdf.First, quad.String("c"), nil),
		rdf.NewQuad(l2, rdf.Rest, rdf.Nil, nil),
	}
	want := value.List{value.Text("a"), value.Text("b"), value.Text("c")}

	got, err := fn.Call(ctx, newContext(), dataset.FromQuads(quads...), []value.Value{value.NewResource(l0)})
	require.NoError(t, err)
	assertValue(t, want, got)

	empty, err := fn.Call(ctx, newContext(), dataset.New(), []value.Value{value.NewResource(rdf.Nil)})
	require.NoError(t, err)
	assertValue(t, value.List{}, empty)

	t.Run("two rests", func(t *testing.T) {
		ds := dataset.FromQuads(append(quads, rdf.NewQuad(l1, rdf.Rest, rdf.Nil, nil))...)
		_, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(l0)})
		assert.True(t, IsAmbiguity(err), "got %v", err)
	})

	t.Run("missing first", func(t *testing.T) {
		ds := dataset.FromQuads(quads[1:]...)
		_, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(l0)})
		assert.True(t, IsEmpty(err), "got %v", err)
	})

	t.Run("cycle", func(t *testing.T) {
		ds := dataset.FromQuads(
			rdf.NewQuad(l0, rdf.First, quad.String("a"), nil),
			rdf.NewQuad(l0, rdf.Rest, l0, nil),
		)
		_, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(l0)})
		assert.True(t, IsInvalidValue(err), "got %v", err)
	})

	t.Run("inverse", func(t *testing.T) {
		ds := dataset.New()
		args, err := fn.CallInverse(ctx, newContext(), ds, want)
		require.NoError(t, err)
		require.Len(t, args, 1)
		// Cells are allocated back to front.
		assertValue(t, value.NewResource(quad.BNode("b2")), args[0])
		assert.Equal(t, 6, ds.Len())
		assert.True(t, ds.Contains(rdf.NewQuad(quad.BNode("b0"), rdf.Rest, rdf.Nil, nil)))

		again, err := fn.Call(ctx, newContext(), ds, args)
		require.NoError(t, err)
		assertValue(t, want, again)
	})

	t.Run("inverse of empty list", func(t *testing.T) {
		ds := dataset.New()
		args, err := fn.CallInverse(ctx, newContext(), ds, value.List{})
		require.NoError(t, err)
		assertValue(t, value.NewResource(rdf.Nil), args[0])
		assert.Equal(t, 0, ds.Len())
	})
}

func TestUnorderedList(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	fn := &Function{
		Signature: Signature{Args: []types.Ref{e.res}, Return: e.texts},
		Body: &Expr{Type: e.texts, Inner: &UnorderedList{
			Bound: Bound{
				Intro:   []types.Ref{e.res},
				Dataset: []rdf.QuadPattern{rdf.NewQuadPattern(rdf.Var(0), rdf.Term(knows), rdf.Var(1))},
			},
			Body: e.call(e.iriFn, Bound{}, e.v(1)),
		}},
	}

	ds := dataset.FromQuads(
		rdf.NewQuad(alice, knows, bob, nil),
		rdf.NewQuad(bob, knows, carol, nil),
		rdf.NewQuad(alice, knows, carol, nil),
	)
	got, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(alice)})
	require.NoError(t, err)
	assertValue(t, value.List{value.Text(string(bob)), value.Text(string(carol))}, got)

	got, err = fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(carol)})
	require.NoError(t, err)
	assertValue(t, value.List{}, got)

	out := dataset.New()
	args, err := fn.CallInverse(ctx, newContext(), out, got.(value.List))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())

	output := value.List{value.Text(string(bob)), value.Text(string(carol))}
	args, err = fn.CallInverse(ctx, newContext(), out, output)
	require.NoError(t, err)
	subject, ok := value.AsResource(args[0])
	require.True(t, ok)
	assert.Equal(t, []rdf.Quad{
		rdf.NewQuad(subject, knows, bob, nil),
		rdf.NewQuad(subject, knows, carol, nil),
	}, out.Quads())
}

func TestMatch(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	match := &Match{
		Order: []string{"name", "iri"},
		Cases: map[string]*Case{
			"name": {Expr: e.nameOf()},
			"iri":  {Expr: e.call(e.iriFn, Bound{}, e.v(0))},
		},
	}
	fn := &Function{
		Signature: Signature{Args: []types.Ref{e.res}, Return: e.text},
		Body:      &Expr{Type: e.text, Inner: match},
	}
	ds := dataset.FromQuads(rdf.NewQuad(alice, name, quad.String("Alice"), nil))

	got, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(alice)})
	require.NoError(t, err)
	assertValue(t, value.Text("Alice"), got)

	got, err = fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(bob)})
	require.NoError(t, err)
	assertValue(t, value.Text(string(bob)), got)

	out := dataset.New()
	args, err := fn.CallInverse(ctx, newContext(), out, value.Text("Alice"))
	require.NoError(t, err)
	assert.True(t, out.Contains(rdf.NewQuad(quad.BNode("b0"), name, quad.String("Alice"), nil)))
	assertValue(t, value.NewResource(quad.BNode("b0")), args[0])

	_, err = fn.CallInverse(ctx, newContext(), out, value.Int(1))
	assert.True(t, IsInvalidType(err), "got %v", err)

	match.Order = append(match.Order, "missing")
	_, err = fn.Call(ctx, newContext(), dataset.New(), []value.Value{value.Text("x")})
	assert.True(t, IsUnknownVariant(err), "got %v", err)
}

func TestMatchWithPattern(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	hello := e.l.Define(types.TextConst("hello"))
	fn := &Function{
		Signature: Signature{Args: []types.Ref{e.res}, Return: e.text},
		Body: &Expr{Type: e.text, Inner: &Match{
			Order: []string{"greeting", "other"},
			Cases: map[string]*Case{
				"greeting": {
					Pattern: &typed.Pattern{Type: hello, Desc: typed.LiteralPattern{Value: value.Text("hello")}},
					Expr:    &Expr{Type: e.text, Inner: Literal{Value: value.Text("hello")}},
				},
				"other": {Expr: e.nameOf()},
			},
		}},
	}

	ds := dataset.FromQuads(rdf.NewQuad(alice, name, quad.String("Alice"), nil))
	got, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(alice)})
	require.NoError(t, err)
	assertValue(t, value.Text("hello"), got)

	out := dataset.New()
	_, err = fn.CallInverse(ctx, newContext(), out, value.Text("hello"))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())

	_, err = fn.CallInverse(ctx, newContext(), out, value.Text("Bob"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestCallRunsInCallerGraph(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	fn := e.person()
	want := value.NewMap(value.Entry{Key: value.Text("name"), Value: value.Text("Alice")})

	ds := dataset.New()
	args, err := fn.CallInverseIn(ctx, newContext(), ds, g1, want)
	require.NoError(t, err)
	subject, _ := value.AsResource(args[0])
	assert.Equal(t, []rdf.Quad{rdf.NewQuad(subject, name, quad.String("Alice"), g1)}, ds.Quads())

	_, err = fn.Call(ctx, newContext(), ds, args)
	assert.True(t, IsEmpty(err), "default graph holds nothing, got %v", err)

	got, err := fn.CallIn(ctx, newContext(), ds, g1, args)
	require.NoError(t, err)
	assertValue(t, want, got)
}

func TestBuiltinRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := types.NewLattice(types.Options{})

	tests := []struct {
		builtin Builtin
		value   value.Value
		node    rdf.Resource
	}{
		{BuiltinText, value.Text("hi"), quad.String("hi")},
		{BuiltinIRI, value.Text("http://ex/a"), quad.IRI("http://ex/a")},
		{BuiltinBoolean, value.Boolean(true), quad.TypedString{Value: "true", Type: rdf.XSDBoolean}},
		{BuiltinInteger, value.Int(42), quad.TypedString{Value: "42", Type: rdf.XSDInteger}},
		{BuiltinDecimal, value.MustParseNumber("2.5"), quad.TypedString{Value: "2.5", Type: rdf.XSDDecimal}},
		{BuiltinBytes, value.Bytes("hi"), quad.TypedString{Value: "aGk=", Type: rdf.XSDBase64Binary}},
	}

	for _, tt := range tests {
		t.Run(tt.builtin.String(), func(t *testing.T) {
			fn := NewBuiltin(l, tt.builtin)
			ds := dataset.New()

			args, err := fn.CallInverse(ctx, newContext(), ds, tt.value)
			require.NoError(t, err)
			require.Len(t, args, 1)
			assertValue(t, value.NewResource(tt.node), args[0])
			assert.Equal(t, 0, ds.Len())

			got, err := fn.Call(ctx, newContext(), ds, args)
			require.NoError(t, err)
			assertValue(t, tt.value, got)
		})
	}
}

func TestBuiltinTextDropsLanguageTag(t *testing.T) {
	ctx := context.Background()
	fn := NewBuiltin(types.NewLattice(types.Options{}), BuiltinText)
	ds := dataset.New()

	got, err := fn.Call(ctx, newContext(), ds, []value.Value{value.NewResource(quad.LangString{Value: "hallo", Lang: "de"})})
	require.NoError(t, err)
	assertValue(t, value.Text("hallo"), got)

	args, err := fn.CallInverse(ctx, newContext(), ds, got)
	require.NoError(t, err)
	assertValue(t, value.NewResource(quad.String("hallo")), args[0])
}

func TestBuiltinRejects(t *testing.T) {
	ctx := context.Background()
	l := types.NewLattice(types.Options{})
	in := newContext()
	ds := dataset.New()

	_, err := NewBuiltin(l, BuiltinText).Call(ctx, in, ds, []value.Value{value.NewResource(alice)})
	assert.True(t, IsInvalidType(err), "got %v", err)

	_, err = NewBuiltin(l, BuiltinInteger).Call(ctx, in, ds,
		[]value.Value{value.NewResource(quad.TypedString{Value: "1.5", Type: rdf.XSDInteger})})
	assert.True(t, IsInvalidValue(err), "got %v", err)

	_, err = NewBuiltin(l, BuiltinInteger).CallInverse(ctx, in, ds, value.MustParseNumber("1.5"))
	assert.True(t, IsInvalidValue(err), "got %v", err)

	_, err = NewBuiltin(l, BuiltinBoolean).CallInverse(ctx, in, ds, value.Text("yes"))
	assert.True(t, IsInvalidType(err), "got %v", err)

	_, err = NewBuiltin(l, BuiltinText).Call(ctx, in, ds, []value.Value{value.Text("not a resource")})
	assert.True(t, IsInvalidType(err), "got %v", err)
}

func TestReverseScopeBorrowing(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	ds := dataset.New()
	in := newContext()

	root := NewReverseScope(nil, Types(e.res, e.res))
	values, err := root.Begin(ctx, in, ds, InheritGraph(), Types(e.res), func(child *ReverseScope) error {
		assert.Panics(t, func() { _ = root.Set(0, value.NewResource(alice)) })
		assert.Equal(t, uint32(3), child.Len())
		child.Emit(rdf.NewQuadPattern(rdf.Var(0), rdf.Term(knows), rdf.Var(2)))
		if err := child.Set(0, value.NewResource(alice)); err != nil {
			return err
		}
		return child.Set(2, value.NewResource(bob))
	})
	require.NoError(t, err)
	assertValue(t, value.NewResource(bob), values[0])
	assert.Equal(t, 1, ds.Len(), "ground patterns are inserted when the sub-scope ends")

	assert.True(t, IsAmbiguity(root.Set(0, value.NewResource(bob))))

	args, err := root.End(ctx, in, ds)
	require.NoError(t, err)
	assertValue(t, value.NewResource(alice), args[0])
	assertValue(t, value.NewResource(quad.BNode("b0")), args[1])
}

func TestReverseScopeRejectsLiteralSubject(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	root := NewReverseScope(nil, Types(e.text))
	require.NoError(t, root.Set(0, value.Text("x")))
	root.Emit(rdf.NewQuadPattern(rdf.Var(0), rdf.Term(knows), rdf.Term(bob)))
	_, err := root.End(ctx, newContext(), dataset.New())
	assert.True(t, IsInvalidValue(err), "got %v", err)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newEnv()

	_, err := e.person().Call(ctx, newContext(), dataset.New(), []value.Value{value.NewResource(alice)})
	assert.True(t, IsCanceled(err), "got %v", err)

	_, err = e.person().CallInverse(ctx, newContext(), dataset.New(), value.NewMap())
	assert.True(t, IsCanceled(err), "got %v", err)
}

func TestAsLayout(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	_, ok := e.person().AsLayout()
	assert.False(t, ok, "resource arguments are not layout-shaped")

	pair := e.l.Define(types.Tuple(e.text, e.text))
	fn := &Function{
		Signature: Signature{Args: []types.Ref{e.text, e.text}, Return: pair},
		Body:      &Expr{Type: pair, Inner: &ExplicitList{Items: []*Expr{e.v(1), e.v(0)}}},
	}
	layout, ok := fn.AsLayout()
	require.True(t, ok)
	assert.Same(t, fn, layout.Function())
	assert.Equal(t, fn.Signature, layout.Signature())

	got, err := layout.Hydrate(ctx, newContext(), dataset.New(), []value.Value{value.Text("a"), value.Text("b")})
	require.NoError(t, err)
	assertValue(t, value.List{value.Text("b"), value.Text("a")}, got)

	inputs, err := layout.Dehydrate(ctx, newContext(), dataset.New(), got)
	require.NoError(t, err)
	assertValue(t, value.List{value.Text("a"), value.Text("b")}, value.List(inputs))
}

func TestValidate(t *testing.T) {
	e := newEnv()

	recursive := &Function{Signature: Signature{Args: []types.Ref{e.res}, Return: e.texts}}
	recursive.Body = &Expr{Type: e.texts, Inner: &Match{
		Order: []string{"nil", "cons", "missing"},
		Cases: map[string]*Case{
			"nil": {Expr: &Expr{Type: e.texts, Inner: &ExplicitList{}}},
			"cons": {Expr: &Expr{
				Type: e.texts,
				Bound: Bound{
					Intro:   []types.Ref{e.res},
					Dataset: []rdf.QuadPattern{rdf.NewQuadPattern(rdf.Var(0), rdf.Term(rdf.Rest), rdf.Var(1))},
				},
				Inner: &Call{Function: recursive, Args: []*Expr{e.v(1)}},
			}},
		},
	}}

	err := recursive.Validate()
	require.Error(t, err)
	var merr *multierr.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 1)
	assert.Contains(t, err.Error(), `no case named "missing"`)

	broken := &Function{
		Signature: Signature{Args: []types.Ref{e.res}, Return: e.l.NewUndefined()},
		Body: &Expr{Type: e.texts, Inner: &ExplicitList{Items: []*Expr{
			e.v(3),
			{Type: e.texts, Inner: &OrderedList{
				Head:  e.v(0),
				Bound: Bound{Intro: []types.Ref{e.res, e.res}},
				Body:  e.v(2),
				First: rdf.First, Rest: rdf.Rest, Nil: rdf.Nil,
			}},
			{Type: e.text, Bound: Bound{Dataset: []rdf.QuadPattern{
				rdf.NewQuadPattern(rdf.Var(0), rdf.Term(knows), rdf.Var(7)),
			}}, Inner: Literal{Value: value.Text("x")}},
		}}},
	}
	err = broken.Validate()
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 4)
	assert.Contains(t, err.Error(), "undeclared type")
	assert.Contains(t, err.Error(), "?3")
	assert.Contains(t, err.Error(), "exactly one variable")
	assert.Contains(t, err.Error(), "?7")
}

func TestParseBuiltin(t *testing.T) {
	for b := BuiltinText; b <= BuiltinIRI; b++ {
		got, ok := ParseBuiltin(b.String())
		require.True(t, ok, b.String())
		assert.Equal(t, b, got)
	}
	_, ok := ParseBuiltin("float")
	assert.False(t, ok)
}
