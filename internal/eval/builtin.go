package eval

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Builtin is a native function converting between one RDF resource and a
// tree literal.
type Builtin uint8

const (
	// BuiltinText reads xsd:string and rdf:langString literals as text. Text
	// values carry no language tag, so it always writes xsd:string: a
	// language-tagged literal does not survive a round trip.
	BuiltinText Builtin = iota + 1
	// BuiltinBoolean reads xsd:boolean literals.
	BuiltinBoolean
	// BuiltinInteger reads xsd:integer literals.
	BuiltinInteger
	// BuiltinDecimal reads xsd:decimal (and xsd:integer) literals.
	BuiltinDecimal
	// BuiltinBytes reads xsd:base64Binary literals.
	BuiltinBytes
	// BuiltinIRI reads an IRI as text.
	BuiltinIRI
)

func (b Builtin) String() string {
	switch b {
	case BuiltinText:
		return "text"
	case BuiltinBoolean:
		return "boolean"
	case BuiltinInteger:
		return "integer"
	case BuiltinDecimal:
		return "decimal"
	case BuiltinBytes:
		return "bytes"
	case BuiltinIRI:
		return "iri"
	default:
		return fmt.Sprintf("builtin(%d)", uint8(b))
	}
}

// ParseBuiltin returns the builtin called name, as printed by String.
func ParseBuiltin(name string) (Builtin, bool) {
	for b := BuiltinText; b <= BuiltinIRI; b++ {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

// NewBuiltin creates the function of b, defining its types in l.
func NewBuiltin(l *types.Lattice, b Builtin) *Function {
	var ret types.Type
	switch b {
	case BuiltinText, BuiltinIRI:
		ret = types.Text()
	case BuiltinBoolean:
		ret = types.Boolean()
	case BuiltinInteger:
		ret = types.IntegerType()
	case BuiltinDecimal:
		ret = types.Number()
	case BuiltinBytes:
		ret = types.Bytes()
	default:
		ret = types.Any()
	}
	return &Function{
		Signature: Signature{
			Args:   []types.Ref{l.Define(types.AnyResource())},
			Return: l.Define(ret),
		},
		Body: b,
	}
}

func (b Builtin) call(_ context.Context, rdfc rdf.Context, _ rdf.PatternMatchingDataset, scope *Scope) (value.Value, error) {
	arg := scope.Get(0)
	r, ok := value.AsResource(arg)
	if !ok || r == nil {
		return nil, errInvalidType("%s expects a resource, got %v", b, arg)
	}

	if b == BuiltinIRI {
		iri, ok := r.(quad.IRI)
		if !ok {
			return nil, errInvalidType("%s expects an IRI, got %s", b, r)
		}
		return value.Text(string(iri)), nil
	}

	lit, ok := rdfc.LiteralOf(r)
	if !ok {
		return nil, errInvalidType("%s expects a literal, got %s", b, r)
	}
	return b.decode(lit)
}

func (b Builtin) decode(lit rdf.Literal) (value.Value, error) {
	mismatch := func() error {
		return errInvalidType("%s cannot read a literal of type <%s>", b, lit.Datatype)
	}

	switch b {
	case BuiltinText:
		if lit.Datatype != rdf.XSDString && lit.Datatype != rdf.LangString {
			return nil, mismatch()
		}
		return value.Text(lit.Lexical), nil

	case BuiltinBoolean:
		if lit.Datatype != rdf.XSDBoolean {
			return nil, mismatch()
		}
		switch lit.Lexical {
		case "true", "1":
			return value.Boolean(true), nil
		case "false", "0":
			return value.Boolean(false), nil
		}
		return nil, errInvalidValue("invalid boolean %q", lit.Lexical)

	case BuiltinInteger, BuiltinDecimal:
		if lit.Datatype != rdf.XSDInteger && (b == BuiltinInteger || lit.Datatype != rdf.XSDDecimal) {
			return nil, mismatch()
		}
		n, err := value.ParseNumber(lit.Lexical)
		if err != nil {
			return nil, &EvalError{Code: ErrCodeInvalidValue, Message: "invalid number", Err: err}
		}
		if b == BuiltinInteger && !n.IsInteger() {
			return nil, errInvalidValue("invalid integer %q", lit.Lexical)
		}
		return n, nil

	case BuiltinBytes:
		if lit.Datatype != rdf.XSDBase64Binary {
			return nil, mismatch()
		}
		data, err := base64.StdEncoding.DecodeString(lit.Lexical)
		if err != nil {
			return nil, &EvalError{Code: ErrCodeInvalidValue, Message: "invalid base64", Err: err}
		}
		return value.Bytes(data), nil
	}
	return nil, errInvalidValue("unknown builtin %s", b)
}

func (b Builtin) callInverse(_ context.Context, rdfc rdf.MutableContext, _ rdf.MutableDataset, _ rdf.Resource, _ Signature, output value.Value) ([]value.Value, error) {
	r, err := b.encode(rdfc, output)
	if err != nil {
		return nil, err
	}
	return []value.Value{value.NewResource(r)}, nil
}

func (b Builtin) encode(rdfc rdf.MutableContext, output value.Value) (rdf.Resource, error) {
	mismatch := func() error {
		return errInvalidType("%s cannot write %s", b, output)
	}

	switch b {
	case BuiltinText:
		s, ok := output.(value.Text)
		if !ok {
			return nil, mismatch()
		}
		return rdfc.NewLiteral(rdf.Literal{Lexical: string(s), Datatype: rdf.XSDString}), nil

	case BuiltinIRI:
		s, ok := output.(value.Text)
		if !ok {
			return nil, mismatch()
		}
		return quad.IRI(string(s)), nil

	case BuiltinBoolean:
		v, ok := output.(value.Boolean)
		if !ok {
			return nil, mismatch()
		}
		return rdfc.NewLiteral(rdf.Literal{Lexical: v.String(), Datatype: rdf.XSDBoolean}), nil

	case BuiltinInteger, BuiltinDecimal:
		n, ok := output.(value.Number)
		if !ok {
			return nil, mismatch()
		}
		dt := rdf.XSDDecimal
		if b == BuiltinInteger {
			if !n.IsInteger() {
				return nil, errInvalidValue("%s is not an integer", n)
			}
			dt = rdf.XSDInteger
		}
		return rdfc.NewLiteral(rdf.Literal{Lexical: n.Text(), Datatype: dt}), nil

	case BuiltinBytes:
		data, ok := output.(value.Bytes)
		if !ok {
			return nil, mismatch()
		}
		return rdfc.NewLiteral(rdf.Literal{
			Lexical:  base64.StdEncoding.EncodeToString(data),
			Datatype: rdf.XSDBase64Binary,
		}), nil
	}
	return nil, errInvalidValue("unknown builtin %s", b)
}
