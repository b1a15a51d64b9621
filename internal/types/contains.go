package types

import (
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/value"
)

// Contains reports whether v is a value of the type.
func (r Ref) Contains(v value.Value) bool {
	return r.containsAt(v, 0)
}

// maxContainsDepth bounds recursion through types that contain themselves
// without consuming any structure (for instance `T = T | text`).
const maxContainsDepth = 256

func (r Ref) containsAt(v value.Value, depth int) bool {
	if depth > maxContainsDepth {
		return false
	}
	t := r.Type()

	switch t.Kind {
	case KindAny:
		return true
	case KindEnum:
		for _, variant := range t.Enum.Variants {
			if variant.Type.containsAt(v, depth+1) {
				return true
			}
		}
		return false
	}

	switch v := v.(type) {
	case value.Resource:
		if t.Kind != KindResource {
			return false
		}
		return t.Resource.contains(v.Node)
	case value.Literal:
		return t.Kind == KindLiteral && t.Literal.contains(v)
	case value.List:
		if t.Kind != KindList || len(v) < t.List.MinLen() {
			return false
		}
		for i, item := range v {
			ty, ok := t.List.ItemType(i)
			if !ok || !ty.containsAt(item, depth+1) {
				return false
			}
		}
		return true
	case *value.Map:
		return t.Kind == KindStruct && structContains(t.Struct, v, depth)
	default:
		return false
	}
}

func structContains(s *StructType, m *value.Map, depth int) bool {
	unmatched := make([]bool, len(s.Fields))
	for i := range unmatched {
		unmatched[i] = true
	}

	for _, e := range m.Entries() {
		field := -1
		for i, f := range s.Fields {
			if f.Key.containsAt(e.Key, depth+1) {
				field = i
				break
			}
		}
		if field < 0 {
			return false // unexpected entry
		}
		if !s.Fields[field].Type.containsAt(e.Value, depth+1) {
			return false
		}
		unmatched[field] = false
	}

	for i, f := range s.Fields {
		if unmatched[i] && f.Required {
			return false // missing required field
		}
	}
	return true
}

func (rt *ResourceType) contains(r rdf.Resource) bool {
	if rt.Set == nil {
		return true
	}
	for _, x := range rt.Set {
		if rdf.Equal(x, r) {
			return true
		}
	}
	return false
}
