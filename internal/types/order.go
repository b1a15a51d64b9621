package types

import (
	"strings"

	"github.com/roach88/ldlayout/internal/rdf"
)

func ordInt(a, b int) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func ordBool(a, b bool) Ordering {
	switch {
	case a == b:
		return Equal
	case !a:
		return Less
	default:
		return Greater
	}
}

// structuralCmp is a total order on definitions. Refs met again while being
// compared are assumed equal by the comparer.
func structuralCmp(c *comparer, ar, br Ref) Ordering {
	a, b := ar.Type(), br.Type()
	if ord := ordInt(int(a.Kind), int(b.Kind)); ord != Equal {
		return ord
	}

	switch a.Kind {
	case KindResource:
		return orderResources(a.Resource.Set, b.Resource.Set)
	case KindLiteral:
		return orderLiterals(a.Literal, b.Literal)
	case KindStruct:
		fa, fb := a.Struct.Fields, b.Struct.Fields
		if ord := ordInt(len(fa), len(fb)); ord != Equal {
			return ord
		}
		for i := range fa {
			if ord := c.cmp(fa[i].Key, fb[i].Key); ord != Equal {
				return ord
			}
			if ord := c.cmp(fa[i].Type, fb[i].Type); ord != Equal {
				return ord
			}
			if ord := ordBool(fa[i].Required, fb[i].Required); ord != Equal {
				return ord
			}
		}
		return Equal
	case KindEnum:
		va, vb := a.Enum.Variants, b.Enum.Variants
		if ord := ordInt(len(va), len(vb)); ord != Equal {
			return ord
		}
		for i := range va {
			if ord := ordInt(strings.Compare(va[i].Name, vb[i].Name), 0); ord != Equal {
				return ord
			}
			if ord := c.cmp(va[i].Type, vb[i].Type); ord != Equal {
				return ord
			}
		}
		return Equal
	case KindList:
		pa, pb := a.List.Prefix, b.List.Prefix
		if ord := ordInt(len(pa), len(pb)); ord != Equal {
			return ord
		}
		for i := range pa {
			if ord := c.cmp(pa[i], pb[i]); ord != Equal {
				return ord
			}
		}
		ra, rb := a.List.Rest, b.List.Rest
		if ord := ordBool(ra.IsValid(), rb.IsValid()); ord != Equal || !ra.IsValid() {
			return ord
		}
		return c.cmp(ra, rb)
	default:
		return Equal
	}
}

func orderResources(a, b []rdf.Resource) Ordering {
	if ord := ordBool(a != nil, b != nil); ord != Equal {
		return ord
	}
	if ord := ordInt(len(a), len(b)); ord != Equal {
		return ord
	}
	for i := range a {
		if ord := ordInt(rdf.Compare(a[i], b[i]), 0); ord != Equal {
			return ord
		}
	}
	return Equal
}

func orderLiterals(a, b *LiteralType) Ordering {
	if ord := ordInt(int(a.Kind), int(b.Kind)); ord != Equal {
		return ord
	}
	switch a.Kind {
	case LiteralBoolean:
		ca, cb := a.Boolean.Const, b.Boolean.Const
		if ord := ordBool(ca != nil, cb != nil); ord != Equal || ca == nil {
			return ord
		}
		return ordBool(*ca, *cb)
	case LiteralNumber:
		if ord := ordInt(int(a.Number.Domain), int(b.Number.Domain)); ord != Equal {
			return ord
		}
		if ord := orderBounds(a.Number.Min, b.Number.Min); ord != Equal {
			return ord
		}
		return orderBounds(a.Number.Max, b.Number.Max)
	case LiteralText:
		return ordInt(strings.Compare(textKey(a.Text), textKey(b.Text)), 0)
	default:
		return Equal
	}
}

func orderBounds(a, b Bound) Ordering {
	if ord := ordBool(a.Set, b.Set); ord != Equal || !a.Set {
		return ord
	}
	if ord := ordInt(a.Value.Cmp(b.Value), 0); ord != Equal {
		return ord
	}
	return ordBool(a.Inclusive, b.Inclusive)
}

func textKey(t TextType) string {
	switch {
	case t.Singleton != nil:
		return "=" + *t.Singleton
	case t.Pattern != nil:
		return "~" + t.Pattern.String()
	default:
		return ""
	}
}
