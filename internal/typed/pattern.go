package typed

import (
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Pattern is a typed pattern over tree values.
type Pattern struct {
	Type types.Ref
	Desc PatternDesc
}

// PatternDesc is one of Bind, *VariantPattern, ResourcePattern,
// LiteralPattern, *ListPattern and *MapPattern.
type PatternDesc interface {
	patternDesc()
}

// Bind matches any value of the pattern type.
type Bind struct{}

// VariantPattern matches an enum case whose payload matches Pattern.
type VariantPattern struct {
	Name    string
	Pattern *Pattern
}

// ResourcePattern matches one resource.
type ResourcePattern struct {
	Node rdf.Resource
}

// LiteralPattern matches one literal.
type LiteralPattern struct {
	Value value.Literal
}

func (Bind) patternDesc()            {}
func (*VariantPattern) patternDesc() {}
func (ResourcePattern) patternDesc() {}
func (LiteralPattern) patternDesc()  {}
func (*ListPattern) patternDesc()    {}
func (*MapPattern) patternDesc()     {}

// Matches tests, without converting anything, whether tv matches the
// pattern. The value type must be a subtype of the pattern type.
func (p *Pattern) Matches(tv Value) bool {
	if !tv.Type.IsSubtypeOf(p.Type) {
		return false
	}

	switch d := p.Desc.(type) {
	case Bind:
		return true
	case *VariantPattern:
		v, ok := tv.Desc.(*Variant)
		return ok && v.Name == d.Name && d.Pattern.Matches(v.Payload)
	}

	switch d := p.Desc.(type) {
	case ResourcePattern:
		r, ok := tv.Desc.(Resource)
		return ok && rdf.Equal(d.Node, r.Node)
	case LiteralPattern:
		l, ok := tv.Desc.(Literal)
		return ok && value.Equal(d.Value, l.Value)
	case *ListPattern:
		l, ok := tv.Desc.(List)
		return ok && d.Matches(l)
	case *MapPattern:
		m, ok := tv.Desc.(*Map)
		return ok && d.Matches(m)
	default:
		return false
	}
}

// Instantiate converts v into a typed value by matching it against the
// pattern. It reports false when v does not match; v is left unchanged.
func (p *Pattern) Instantiate(v value.Value) (Value, bool) {
	switch d := p.Desc.(type) {
	case Bind:
		return IntoTyped(v, p.Type)
	case *VariantPattern:
		payload, ok := d.Pattern.Instantiate(v)
		if !ok {
			return Value{}, false
		}
		return Value{Type: p.Type, Desc: &Variant{Name: d.Name, Payload: payload}}, true
	case ResourcePattern:
		r, ok := v.(value.Resource)
		if !ok || !rdf.Equal(d.Node, r.Node) {
			return Value{}, false
		}
		return Value{Type: p.Type, Desc: Resource{Node: r.Node}}, true
	case LiteralPattern:
		l, ok := v.(value.Literal)
		if !ok || !value.Equal(d.Value, l) {
			return Value{}, false
		}
		return Value{Type: p.Type, Desc: Literal{Value: l}}, true
	case *ListPattern:
		items, ok := v.(value.List)
		if !ok {
			return Value{}, false
		}
		typed, ok := d.Instantiate(p.Type, items)
		if !ok {
			return Value{}, false
		}
		return Value{Type: p.Type, Desc: typed}, true
	case *MapPattern:
		m, ok := v.(*value.Map)
		if !ok {
			return Value{}, false
		}
		typed, ok := d.Instantiate(p.Type, m)
		if !ok {
			return Value{}, false
		}
		return Value{Type: p.Type, Desc: typed}, true
	default:
		return Value{}, false
	}
}

// fitsField reports whether keys matched by the pattern belong to a field
// keyed by key.
func (p *Pattern) fitsField(key types.Ref) bool {
	return p.Type.IsSubtypeOf(key)
}
