package tree

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/ldlayout/internal/value"
)

// ParseCUE evaluates a CUE document and decodes its concrete value.
// Definitions, hidden fields and optional fields are not part of the
// value.
func ParseCUE(data []byte, filename string) (value.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile cue: %s", cueerrors.Details(err, nil))
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("cue value is not concrete: %s", cueerrors.Details(err, nil))
	}
	return fromCUE(v)
}

func fromCUE(v cue.Value) (value.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return value.Unit{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return value.Boolean(b), nil
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		raw, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		return value.ParseNumber(string(raw))
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return value.Text(s), nil
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return nil, err
		}
		return value.Bytes(b), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		out := value.List{}
		for iter.Next() {
			item, err := fromCUE(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		out := value.NewMap()
		for iter.Next() {
			item, err := fromCUE(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", iter.Label(), err)
			}
			out.Insert(value.Text(iter.Label()), item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: unsupported cue value of kind %s", v.Pos(), v.Kind())
	}
}
