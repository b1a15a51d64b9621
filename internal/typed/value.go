package typed

import (
	"slices"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Value is a tree value annotated with its type.
type Value struct {
	Type types.Ref
	Desc Desc
}

// Desc describes the shape of a typed value: a *Variant, or one of the
// constant shapes Resource, Literal, List and *Map.
type Desc interface {
	desc()
}

// Variant is an enum case wrapping its payload.
type Variant struct {
	Name    string
	Payload Value
}

// Resource is a typed RDF resource.
type Resource struct {
	Node rdf.Resource
}

// Literal is a typed literal.
type Literal struct {
	Value value.Literal
}

// List is a typed list.
type List []Value

func (*Variant) desc() {}
func (Resource) desc() {}
func (Literal) desc()  {}
func (List) desc()     {}
func (*Map) desc()     {}

// Inner returns the constant description, looking through variants.
func (v Value) Inner() Desc {
	for {
		variant, ok := v.Desc.(*Variant)
		if !ok {
			return v.Desc
		}
		v = variant.Payload
	}
}

// AsResource returns the resource described by v, if any.
func (v Value) AsResource() (rdf.Resource, bool) {
	r, ok := v.Inner().(Resource)
	return r.Node, ok
}

// Untyped strips the type information.
func (v Value) Untyped() value.Value {
	switch d := v.Inner().(type) {
	case Resource:
		return value.NewResource(d.Node)
	case Literal:
		return d.Value
	case List:
		return d.Untyped()
	case *Map:
		return d.Untyped()
	default:
		return nil
	}
}

// Untyped strips the type information of every item.
func (l List) Untyped() value.List {
	out := make(value.List, len(l))
	for i, item := range l {
		out[i] = item.Untyped()
	}
	return out
}

// IntoTyped annotates v with ty. It reports false when v is not a value of
// ty; v itself is never modified.
//
// Enum types pick the first variant accepting v. A variant leading back to
// an enum already being tried on the same value is skipped, so recursive
// types such as `T = wrapped(T) | label(text)` terminate. Struct types
// assign each entry to the first field whose key type accepts its key;
// entries no field accepts and missing required fields make the conversion
// fail.
func IntoTyped(v value.Value, ty types.Ref) (Value, bool) {
	return intoTyped(v, ty, nil)
}

// intoTyped converts v; pending holds the enums entered on v itself.
func intoTyped(v value.Value, ty types.Ref, pending []types.ID) (Value, bool) {
	t := ty.Type()

	switch t.Kind {
	case types.KindAny:
		return intoAny(v, ty)
	case types.KindEnum:
		if slices.Contains(pending, ty.ID()) {
			return Value{}, false
		}
		pending = append(pending, ty.ID())
		for _, variant := range t.Enum.Variants {
			if payload, ok := intoTyped(v, variant.Type, pending); ok {
				return Value{Type: ty, Desc: &Variant{Name: variant.Name, Payload: payload}}, true
			}
		}
		return Value{}, false
	}

	switch v := v.(type) {
	case value.Resource:
		if t.Kind != types.KindResource || !ty.Contains(v) {
			return Value{}, false
		}
		return Value{Type: ty, Desc: Resource{Node: v.Node}}, true
	case value.Literal:
		if t.Kind != types.KindLiteral || !ty.Contains(v) {
			return Value{}, false
		}
		return Value{Type: ty, Desc: Literal{Value: v}}, true
	case value.List:
		if t.Kind != types.KindList {
			return Value{}, false
		}
		items, ok := listIntoTyped(v, t.List)
		if !ok {
			return Value{}, false
		}
		return Value{Type: ty, Desc: items}, true
	case *value.Map:
		if t.Kind != types.KindStruct {
			return Value{}, false
		}
		m, ok := structIntoTyped(v, t.Struct)
		if !ok {
			return Value{}, false
		}
		return Value{Type: ty, Desc: m}, true
	default:
		return Value{}, false
	}
}

func intoAny(v value.Value, ty types.Ref) (Value, bool) {
	switch v := v.(type) {
	case value.Resource:
		return Value{Type: ty, Desc: Resource{Node: v.Node}}, true
	case value.Literal:
		return Value{Type: ty, Desc: Literal{Value: v}}, true
	case value.List:
		items := make(List, len(v))
		for i, item := range v {
			items[i], _ = intoAny(item, ty)
		}
		return Value{Type: ty, Desc: items}, true
	case *value.Map:
		m := NewMap()
		for _, e := range v.Entries() {
			key, _ := intoAny(e.Key, ty)
			val, _ := intoAny(e.Value, ty)
			m.Insert(key, val)
		}
		return Value{Type: ty, Desc: m}, true
	default:
		return Value{}, false
	}
}

func listIntoTyped(items value.List, t *types.ListType) (List, bool) {
	if len(items) < t.MinLen() {
		return nil, false
	}
	if max, bounded := t.MaxLen(); bounded && len(items) > max {
		return nil, false
	}

	out := make(List, len(items))
	for i, item := range items {
		ty, ok := t.ItemType(i)
		if !ok {
			return nil, false
		}
		if out[i], ok = IntoTyped(item, ty); !ok {
			return nil, false
		}
	}
	return out, true
}

func structIntoTyped(m *value.Map, t *types.StructType) (*Map, bool) {
	out := NewMap()
	found := make([]bool, len(t.Fields))

	for _, e := range m.Entries() {
		matched := false
		for i, f := range t.Fields {
			key, ok := IntoTyped(e.Key, f.Key)
			if !ok {
				continue
			}
			val, ok := IntoTyped(e.Value, f.Type)
			if !ok {
				return nil, false
			}
			out.Insert(key, val)
			found[i], matched = true, true
			break
		}
		if !matched {
			return nil, false
		}
	}

	for i, f := range t.Fields {
		if f.Required && !found[i] {
			return nil, false
		}
	}
	return out, true
}
