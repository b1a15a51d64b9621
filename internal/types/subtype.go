package types

import (
	"github.com/roach88/ldlayout/internal/rdf"
)

func subtypeCmp(c *comparer, ar, br Ref) Ordering {
	a, b := ar.Type(), br.Type()
	switch {
	case a.Kind == KindAny && b.Kind == KindAny:
		return Equal
	case a.Kind == KindAny:
		return Greater
	case b.Kind == KindAny:
		return Less
	case a.Kind == KindEnum:
		return enumCmp(c, a.Enum, br)
	case b.Kind == KindEnum:
		return enumCmp(c, b.Enum, ar).Reverse()
	case a.Kind != b.Kind:
		return Incomparable
	}

	switch a.Kind {
	case KindResource:
		return resourceCmp(a.Resource, b.Resource)
	case KindLiteral:
		return a.Literal.subtypeCmp(b.Literal)
	case KindStruct:
		return fromInclusion(structIsSubtype(c, a.Struct, b.Struct), structIsSubtype(c, b.Struct, a.Struct))
	case KindList:
		return listCmp(c, a.List, b.List)
	default:
		return Incomparable
	}
}

func resourceCmp(a, b *ResourceType) Ordering {
	switch {
	case a.Set == nil && b.Set == nil:
		return Equal
	case a.Set == nil:
		return Greater
	case b.Set == nil:
		return Less
	}
	return fromInclusion(resourceSubset(a.Set, b.Set), resourceSubset(b.Set, a.Set))
}

func resourceSubset(a, b []rdf.Resource) bool {
	for _, x := range a {
		found := false
		for _, y := range b {
			if rdf.Equal(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// structIsSubtype reports whether every map of a is a map of b: each field
// of a maps to a field of b with a wider key and a wider value, and every
// field of b left unmatched is optional.
func structIsSubtype(c *comparer, a, b *StructType) bool {
	unmatched := make([]bool, len(b.Fields))
	for i := range unmatched {
		unmatched[i] = true
	}

	for _, f := range a.Fields {
		target := -1
		for i, g := range b.Fields {
			if unmatched[i] && c.isSubtype(f.Key, g.Key) {
				target = i
				break
			}
		}
		if target < 0 {
			for i, g := range b.Fields {
				if c.isSubtype(f.Key, g.Key) {
					target = i
					break
				}
			}
		}
		if target < 0 {
			return false
		}

		g := b.Fields[target]
		unmatched[target] = false
		if g.Required && !f.Required {
			return false
		}
		if !c.isSubtype(f.Type, g.Type) {
			return false
		}
	}

	for i, g := range b.Fields {
		if unmatched[i] && g.Required {
			return false
		}
	}
	return true
}

// enumCmp compares an enum with any type t. The enum is below t when each
// of its variants is below t (below some variant of t, when t is an enum);
// t is below the enum when t (each variant of t) is below some variant.
func enumCmp(c *comparer, e *EnumType, tr Ref) Ordering {
	t := tr.Type()
	targets := []Ref{tr}
	if t.Kind == KindEnum {
		targets = targets[:0]
		for _, v := range t.Enum.Variants {
			targets = append(targets, v.Type)
		}
	}

	eBelow := true
	for _, v := range e.Variants {
		if !belowSome(c, v.Type, targets) {
			eBelow = false
			break
		}
	}

	variants := make([]Ref, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = v.Type
	}
	tBelow := true
	for _, x := range targets {
		if !belowSome(c, x, variants) {
			tBelow = false
			break
		}
	}

	return fromInclusion(eBelow, tBelow)
}

func belowSome(c *comparer, x Ref, ys []Ref) bool {
	for _, y := range ys {
		if c.isSubtype(x, y) {
			return true
		}
	}
	return false
}

func listCmp(c *comparer, a, b *ListType) Ordering {
	ord := Equal
	n := max(len(a.Prefix), len(b.Prefix))
	for i := 0; i < n; i++ {
		x, okx := a.ItemType(i)
		y, oky := b.ItemType(i)
		if !okx || !oky {
			return Incomparable
		}
		ord = refine(ord, c.cmp(x, y))
		if ord == Incomparable {
			return Incomparable
		}
	}

	var rest Ordering
	switch {
	case a.Rest.IsValid() && b.Rest.IsValid():
		rest = c.cmp(a.Rest, b.Rest)
	case a.Rest.IsValid():
		rest = Greater
	case b.Rest.IsValid():
		rest = Less
	default:
		rest = Equal
	}
	return refine(ord, rest)
}

// refine combines two orderings that must agree for the whole to be ordered.
func refine(ord, with Ordering) Ordering {
	switch {
	case with == Incomparable:
		return Incomparable
	case ord == Equal:
		return with
	case with == Equal || with == ord:
		return ord
	default:
		return Incomparable
	}
}
