package value

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Number is an exact decimal number literal.
// The zero value is 0.
type Number struct {
	d *apd.Decimal
}

func (Number) value()   {}
func (Number) literal() {}

// NewNumber wraps a decimal. The decimal is copied.
func NewNumber(d *apd.Decimal) Number {
	var c apd.Decimal
	c.Set(d)
	return Number{d: &c}
}

// Int creates an integer number.
func Int(n int64) Number {
	return Number{d: apd.New(n, 0)}
}

// ParseNumber parses a decimal number in JSON or scientific notation.
func ParseNumber(s string) (Number, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return Number{}, fmt.Errorf("invalid number %q: not finite", s)
	}
	return Number{d: d}, nil
}

// MustParseNumber is ParseNumber for constants; it panics on error.
func MustParseNumber(s string) Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Decimal returns a copy of the underlying decimal.
func (n Number) Decimal() *apd.Decimal {
	var c apd.Decimal
	if n.d != nil {
		c.Set(n.d)
	}
	return &c
}

// Cmp compares two numbers numerically.
func (n Number) Cmp(o Number) int {
	return n.Decimal().Cmp(o.Decimal())
}

// IsInteger reports whether the number has no fractional part.
func (n Number) IsInteger() bool {
	var integ, frac apd.Decimal
	n.Decimal().Modf(&integ, &frac)
	return frac.IsZero()
}

// Text renders the number in plain (non-scientific) decimal notation.
func (n Number) Text() string {
	var d apd.Decimal
	if n.d != nil {
		d.Reduce(n.d)
	}
	return d.Text('f')
}

func (n Number) String() string { return n.Text() }
