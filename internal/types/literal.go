package types

import (
	"fmt"
	"regexp"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/ldlayout/internal/value"
)

// LiteralKind categorizes literal types.
type LiteralKind uint8

const (
	LiteralUnit LiteralKind = iota
	LiteralBoolean
	LiteralNumber
	LiteralBytes
	LiteralText
)

// LiteralType is the type of a literal value. Only the constraint matching
// Kind is meaningful.
type LiteralType struct {
	Kind    LiteralKind
	Boolean BooleanType
	Number  NumberType
	Text    TextType
}

// BooleanType optionally restricts booleans to a single constant.
type BooleanType struct {
	Const *bool
}

// Domain is the number domain of a number type.
type Domain uint8

const (
	Rational Domain = iota
	Integer
)

// Bound is one end of a number interval. The zero value is unbounded.
type Bound struct {
	Value     value.Number
	Inclusive bool
	Set       bool
}

// Inclusive returns a closed bound.
func Inclusive(n value.Number) Bound { return Bound{Value: n, Inclusive: true, Set: true} }

// Exclusive returns an open bound.
func Exclusive(n value.Number) Bound { return Bound{Value: n, Set: true} }

// NumberType is an interval of numbers in a domain.
// Integer domains keep their bounds normalized to inclusive integers.
type NumberType struct {
	Domain Domain
	Min    Bound
	Max    Bound
}

// TextType optionally restricts text to a single constant or to a regular
// expression (matched against the whole string).
type TextType struct {
	Singleton *string
	Pattern   *regexp.Regexp
}

func literal(lt LiteralType) Type {
	return Type{Kind: KindLiteral, Literal: &lt}
}

// Unit is the type of the unit literal.
func Unit() Type { return literal(LiteralType{Kind: LiteralUnit}) }

// Boolean is the type of booleans.
func Boolean() Type { return literal(LiteralType{Kind: LiteralBoolean}) }

// BooleanConst is the type of a single boolean.
func BooleanConst(b bool) Type {
	return literal(LiteralType{Kind: LiteralBoolean, Boolean: BooleanType{Const: &b}})
}

// Number is the type of all rational numbers.
func Number() Type { return literal(LiteralType{Kind: LiteralNumber}) }

// NumberIn is an interval number type. Integer bounds are normalized.
func NumberIn(domain Domain, min, max Bound) Type {
	nt := NumberType{Domain: domain, Min: normalizeMin(domain, min), Max: normalizeMax(domain, max)}
	return literal(LiteralType{Kind: LiteralNumber, Number: nt})
}

// IntegerType is the type of all integers.
func IntegerType() Type { return NumberIn(Integer, Bound{}, Bound{}) }

// NumberConst is the type of a single number.
func NumberConst(n value.Number) Type {
	domain := Rational
	if n.IsInteger() {
		domain = Integer
	}
	return NumberIn(domain, Inclusive(n), Inclusive(n))
}

// Bytes is the type of byte strings.
func Bytes() Type { return literal(LiteralType{Kind: LiteralBytes}) }

// Text is the type of all text strings.
func Text() Type { return literal(LiteralType{Kind: LiteralText}) }

// TextConst is the type of a single text string.
func TextConst(s string) Type {
	return literal(LiteralType{Kind: LiteralText, Text: TextType{Singleton: &s}})
}

// TextMatching is the type of text strings fully matching the regular
// expression expr.
func TextMatching(expr string) (Type, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return Type{}, fmt.Errorf("invalid text pattern %q: %w", expr, err)
	}
	return literal(LiteralType{Kind: LiteralText, Text: TextType{Pattern: re}}), nil
}

var integerContext = apd.BaseContext.WithPrecision(100)

func normalizeMin(domain Domain, b Bound) Bound {
	if domain != Integer || !b.Set {
		return b
	}
	d := b.Value.Decimal()
	var c apd.Decimal
	if b.Inclusive {
		integerContext.Ceil(&c, d)
	} else {
		integerContext.Floor(&c, d)
		integerContext.Add(&c, &c, apd.New(1, 0))
	}
	return Inclusive(value.NewNumber(&c))
}

func normalizeMax(domain Domain, b Bound) Bound {
	if domain != Integer || !b.Set {
		return b
	}
	d := b.Value.Decimal()
	var c apd.Decimal
	if b.Inclusive {
		integerContext.Floor(&c, d)
	} else {
		integerContext.Ceil(&c, d)
		integerContext.Sub(&c, &c, apd.New(1, 0))
	}
	return Inclusive(value.NewNumber(&c))
}

// minLE reports whether lower bound a admits at least what b admits.
func minLE(a, b Bound) bool {
	switch {
	case !a.Set:
		return true
	case !b.Set:
		return false
	}
	c := a.Value.Cmp(b.Value)
	return c < 0 || (c == 0 && (a.Inclusive || !b.Inclusive))
}

// maxGE reports whether upper bound a admits at least what b admits.
func maxGE(a, b Bound) bool {
	switch {
	case !a.Set:
		return true
	case !b.Set:
		return false
	}
	c := a.Value.Cmp(b.Value)
	return c > 0 || (c == 0 && (a.Inclusive || !b.Inclusive))
}

func (n NumberType) includes(o NumberType) bool {
	return minLE(n.Min, o.Min) && maxGE(n.Max, o.Max) &&
		(n.Domain == Rational || o.Domain == Integer)
}

func (n NumberType) subtypeCmp(o NumberType) Ordering {
	return fromInclusion(o.includes(n), n.includes(o))
}

func (n NumberType) contains(v value.Number) bool {
	if n.Domain == Integer && !v.IsInteger() {
		return false
	}
	if n.Min.Set {
		c := v.Cmp(n.Min.Value)
		if c < 0 || (c == 0 && !n.Min.Inclusive) {
			return false
		}
	}
	if n.Max.Set {
		c := v.Cmp(n.Max.Value)
		if c > 0 || (c == 0 && !n.Max.Inclusive) {
			return false
		}
	}
	return true
}

// fromInclusion turns "a is included in b" / "b is included in a" into an
// ordering of a relative to b.
func fromInclusion(aInB, bInA bool) Ordering {
	switch {
	case aInB && bInA:
		return Equal
	case aInB:
		return Less
	case bInA:
		return Greater
	default:
		return Incomparable
	}
}

func (b BooleanType) subtypeCmp(o BooleanType) Ordering {
	switch {
	case b.Const != nil && o.Const != nil:
		if *b.Const == *o.Const {
			return Equal
		}
		return Incomparable
	case b.Const == nil && o.Const != nil:
		return Greater
	case b.Const != nil:
		return Less
	default:
		return Equal
	}
}

func (t TextType) contains(s string) bool {
	switch {
	case t.Singleton != nil:
		return *t.Singleton == s
	case t.Pattern != nil:
		return t.Pattern.MatchString(s)
	default:
		return true
	}
}

func (t TextType) isAll() bool { return t.Singleton == nil && t.Pattern == nil }

func (t TextType) subtypeCmp(o TextType) Ordering {
	switch {
	case t.Singleton != nil && o.Singleton != nil:
		if *t.Singleton == *o.Singleton {
			return Equal
		}
		return Incomparable
	case t.Singleton != nil:
		if o.contains(*t.Singleton) {
			return Less
		}
		return Incomparable
	case o.Singleton != nil:
		if t.contains(*o.Singleton) {
			return Greater
		}
		return Incomparable
	case t.isAll() && o.isAll():
		return Equal
	case t.isAll():
		return Greater
	case o.isAll():
		return Less
	case t.Pattern.String() == o.Pattern.String():
		return Equal
	default:
		return Incomparable
	}
}

func (l *LiteralType) subtypeCmp(o *LiteralType) Ordering {
	if l.Kind != o.Kind {
		return Incomparable
	}
	switch l.Kind {
	case LiteralBoolean:
		return l.Boolean.subtypeCmp(o.Boolean)
	case LiteralNumber:
		return l.Number.subtypeCmp(o.Number)
	case LiteralText:
		return l.Text.subtypeCmp(o.Text)
	default:
		return Equal
	}
}

func (l *LiteralType) contains(v value.Literal) bool {
	switch v := v.(type) {
	case value.Unit:
		return l.Kind == LiteralUnit
	case value.Boolean:
		return l.Kind == LiteralBoolean && (l.Boolean.Const == nil || *l.Boolean.Const == bool(v))
	case value.Number:
		return l.Kind == LiteralNumber && l.Number.contains(v)
	case value.Bytes:
		return l.Kind == LiteralBytes
	case value.Text:
		return l.Kind == LiteralText && l.Text.contains(string(v))
	default:
		return false
	}
}

func (l *LiteralType) String() string {
	switch l.Kind {
	case LiteralUnit:
		return "unit"
	case LiteralBoolean:
		if l.Boolean.Const != nil {
			return fmt.Sprintf("boolean(%t)", *l.Boolean.Const)
		}
		return "boolean"
	case LiteralNumber:
		name := "number"
		if l.Number.Domain == Integer {
			name = "integer"
		}
		if !l.Number.Min.Set && !l.Number.Max.Set {
			return name
		}
		return fmt.Sprintf("%s%s", name, intervalString(l.Number))
	case LiteralBytes:
		return "bytes"
	case LiteralText:
		switch {
		case l.Text.Singleton != nil:
			return fmt.Sprintf("%q", *l.Text.Singleton)
		case l.Text.Pattern != nil:
			return "text/" + l.Text.Pattern.String() + "/"
		}
		return "text"
	default:
		return "literal"
	}
}

func intervalString(n NumberType) string {
	lo, hi := "(-inf", "+inf)"
	if n.Min.Set {
		lo = "(" + n.Min.Value.Text()
		if n.Min.Inclusive {
			lo = "[" + n.Min.Value.Text()
		}
	}
	if n.Max.Set {
		hi = n.Max.Value.Text() + ")"
		if n.Max.Inclusive {
			hi = n.Max.Value.Text() + "]"
		}
	}
	return lo + ", " + hi
}
