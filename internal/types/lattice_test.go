package types

import (
	"sync"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ldlayout/internal/value"
)

func newTestLattice() *Lattice {
	return NewLattice(Options{})
}

func TestSubtypeLiterals(t *testing.T) {
	l := newTestLattice()
	anyT := l.Define(Any())
	text := l.Define(Text())
	hello := l.Define(TextConst("hello"))
	world := l.Define(TextConst("world"))
	number := l.Define(Number())
	integer := l.Define(IntegerType())
	boolean := l.Define(Boolean())
	yes := l.Define(BooleanConst(true))

	tests := []struct {
		name string
		a, b Ref
		want Ordering
	}{
		{"any is top", text, anyT, Less},
		{"singleton below text", hello, text, Less},
		{"text above singleton", text, hello, Greater},
		{"distinct singletons", hello, world, Incomparable},
		{"integer below number", integer, number, Less},
		{"text vs number", text, number, Incomparable},
		{"boolean const", yes, boolean, Less},
		{"identity", text, text, Equal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SubtypeCmp(tt.b))
		})
	}
}

func TestSubtypeTextPattern(t *testing.T) {
	l := newTestLattice()
	digitsT, err := TextMatching(`[0-9]+`)
	require.NoError(t, err)
	digits := l.Define(digitsT)
	text := l.Define(Text())
	fortyTwo := l.Define(TextConst("42"))
	word := l.Define(TextConst("word"))

	assert.Equal(t, Less, digits.SubtypeCmp(text))
	assert.Equal(t, Less, fortyTwo.SubtypeCmp(digits))
	assert.Equal(t, Incomparable, word.SubtypeCmp(digits))

	_, err = TextMatching(`(`)
	assert.Error(t, err)
}

func TestSubtypeNumberIntervals(t *testing.T) {
	l := newTestLattice()
	n := value.Int

	open := l.Define(NumberIn(Integer, Exclusive(n(0)), Exclusive(n(10))))
	closed := l.Define(NumberIn(Integer, Inclusive(n(1)), Inclusive(n(9))))
	wide := l.Define(NumberIn(Rational, Inclusive(n(0)), Inclusive(n(10))))
	overlap := l.Define(NumberIn(Integer, Inclusive(n(5)), Inclusive(n(20))))

	assert.Equal(t, Equal, open.SubtypeCmp(closed), "integer bounds are normalized")
	assert.Equal(t, Less, closed.SubtypeCmp(wide))
	assert.Equal(t, Incomparable, overlap.SubtypeCmp(wide))

	assert.True(t, closed.Contains(n(1)))
	assert.False(t, closed.Contains(n(0)))
	assert.False(t, closed.Contains(value.MustParseNumber("1.5")))
	assert.True(t, wide.Contains(value.MustParseNumber("9.99")))
}

func TestSubtypeResources(t *testing.T) {
	l := newTestLattice()
	a, b := quad.IRI("http://ex/a"), quad.IRI("http://ex/b")

	all := l.Define(AnyResource())
	ab := l.Define(ResourceIn(a, b))
	onlyA := l.Define(ResourceIn(a))
	onlyB := l.Define(ResourceIn(b))

	assert.Equal(t, Greater, all.SubtypeCmp(ab))
	assert.Equal(t, Less, onlyA.SubtypeCmp(ab))
	assert.Equal(t, Incomparable, onlyA.SubtypeCmp(onlyB))

	assert.True(t, ab.Contains(value.NewResource(b)))
	assert.False(t, onlyA.Contains(value.NewResource(b)))
	assert.False(t, all.Contains(value.Text("a")))
}

func TestSubtypeSymmetryAndCaching(t *testing.T) {
	l := newTestLattice()
	text := l.Define(Text())
	name := l.Define(TextConst("name"))
	age := l.Define(TextConst("age"))
	number := l.Define(Number())

	narrow := l.Define(Struct(
		Field{Key: name, Type: text, Required: true},
		Field{Key: age, Type: number, Required: true},
	))
	wide := l.Define(Struct(
		Field{Key: name, Type: text, Required: true},
		Field{Key: age, Type: number, Required: false},
	))

	require.Equal(t, Less, narrow.SubtypeCmp(wide))

	before := l.Stats()
	assert.Equal(t, Greater, wide.SubtypeCmp(narrow))
	assert.Equal(t, Less, narrow.SubtypeCmp(wide))
	after := l.Stats()

	assert.Equal(t, before.Computations, after.Computations, "second comparison must come from the cache")
	assert.Equal(t, before.Hits+2, after.Hits)
}

func TestRecursiveTypes(t *testing.T) {
	l := newTestLattice()
	number := l.Define(Number())
	valueKey := l.Define(TextConst("value"))
	childrenKey := l.Define(TextConst("children"))

	tree := func() Ref {
		self := l.NewUndefined()
		children := l.Define(Uniform(self))
		self.Declare(Struct(
			Field{Key: valueKey, Type: number, Required: true},
			Field{Key: childrenKey, Type: children, Required: false},
		))
		return self
	}

	a, b := tree(), tree()
	assert.Equal(t, Equal, a.SubtypeCmp(b))
	assert.Equal(t, Equal, a.Order(b))

	leaf := value.NewMap(value.Entry{Key: value.Text("value"), Value: value.Int(1)})
	node := value.NewMap(
		value.Entry{Key: value.Text("value"), Value: value.Int(0)},
		value.Entry{Key: value.Text("children"), Value: value.List{leaf, leaf}},
	)
	assert.True(t, a.Contains(node))
	assert.False(t, a.Contains(value.NewMap(value.Entry{Key: value.Text("children"), Value: value.List{}})))
	assert.Contains(t, a.String(), "value")
}

func TestDeclareTwicePanics(t *testing.T) {
	l := newTestLattice()
	r := l.NewUndefined()
	assert.False(t, r.IsDefined())
	assert.Panics(t, func() { r.Type() })

	r.Declare(Text())
	assert.True(t, r.IsDefined())
	assert.Panics(t, func() { r.Declare(Number()) })
}

func TestEnumSubtyping(t *testing.T) {
	l := newTestLattice()
	text := l.Define(Text())
	number := l.Define(Number())
	boolean := l.Define(Boolean())

	textOrNumber := l.Define(Enum(Variant{Name: "text", Type: text}, Variant{Name: "number", Type: number}))
	all := l.Define(Enum(
		Variant{Name: "text", Type: text},
		Variant{Name: "number", Type: number},
		Variant{Name: "boolean", Type: boolean},
	))

	assert.Equal(t, Greater, textOrNumber.SubtypeCmp(text))
	assert.Equal(t, Less, text.SubtypeCmp(textOrNumber))
	assert.Equal(t, Incomparable, textOrNumber.SubtypeCmp(boolean))
	assert.Equal(t, Less, textOrNumber.SubtypeCmp(all))

	assert.True(t, textOrNumber.Contains(value.Int(3)))
	assert.False(t, textOrNumber.Contains(value.Boolean(true)))
}

func TestListSubtyping(t *testing.T) {
	l := newTestLattice()
	text := l.Define(Text())
	hello := l.Define(TextConst("hello"))

	texts := l.Define(Uniform(text))
	pair := l.Define(Tuple(hello, text))
	headed := l.Define(List([]Ref{hello}, text))

	assert.Equal(t, Less, pair.SubtypeCmp(texts))
	assert.Equal(t, Less, headed.SubtypeCmp(texts))
	assert.Equal(t, Less, pair.SubtypeCmp(headed))

	lt := pair.Type().List
	assert.Equal(t, 2, lt.MinLen())
	maxLen, bounded := lt.MaxLen()
	assert.True(t, bounded)
	assert.Equal(t, 2, maxLen)
	_, uniform := lt.Uniform()
	assert.False(t, uniform)

	assert.True(t, headed.Contains(value.List{value.Text("hello"), value.Text("x")}))
	assert.False(t, headed.Contains(value.List{}))
	assert.False(t, pair.Contains(value.List{value.Text("hello"), value.Text("x"), value.Text("y")}))
}

func TestOrderIsStructural(t *testing.T) {
	l := newTestLattice()
	a := l.Define(TextConst("a"))
	b := l.Define(TextConst("b"))
	a2 := l.Define(TextConst("a"))

	assert.Equal(t, Less, a.Order(b))
	assert.Equal(t, Greater, b.Order(a))
	assert.Equal(t, Equal, a.Order(a2))
}

func TestConcurrentComparisons(t *testing.T) {
	l := newTestLattice()
	text := l.Define(Text())
	refs := make([]Ref, 16)
	for i := range refs {
		refs[i] = l.Define(TextConst(string(rune('a' + i))))
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, r := range refs {
				assert.Equal(t, Less, r.SubtypeCmp(text))
				assert.Equal(t, Greater, text.SubtypeCmp(r))
			}
		}()
	}
	wg.Wait()
}

func TestOrderingReverse(t *testing.T) {
	assert.Equal(t, Greater, Less.Reverse())
	assert.Equal(t, Less, Greater.Reverse())
	assert.Equal(t, Equal, Equal.Reverse())
	assert.Equal(t, Incomparable, Incomparable.Reverse())
}
