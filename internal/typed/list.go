package typed

import (
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// ListPattern destructures a list into a fixed prefix, a fixed suffix and
// the items in between.
type ListPattern struct {
	// Prefix patterns, front first.
	Prefix []*Pattern

	// Suffix patterns, back first.
	Suffix []*Pattern
}

// MinimumLen is the length of the shortest list the pattern can match.
func (lp *ListPattern) MinimumLen() int {
	return len(lp.Prefix) + len(lp.Suffix)
}

// Matches tests the prefix and suffix patterns against items.
func (lp *ListPattern) Matches(items List) bool {
	if len(items) < lp.MinimumLen() {
		return false
	}
	for i, p := range lp.Prefix {
		if !p.Matches(items[i]) {
			return false
		}
	}
	for i, p := range lp.Suffix {
		if !p.Matches(items[len(items)-1-i]) {
			return false
		}
	}
	return true
}

// Instantiate types items against the list type ty. Prefix and suffix
// items go through their patterns, the items in between through the item
// type of their position. It reports false, leaving items untouched, when
// ty is not a list type, the list is too short, or any item fails.
func (lp *ListPattern) Instantiate(ty types.Ref, items value.List) (List, bool) {
	t := ty.Type()
	if t.Kind != types.KindList || len(items) < lp.MinimumLen() {
		return nil, false
	}

	out := make(List, len(items))
	for i, p := range lp.Suffix {
		j := len(items) - 1 - i
		tv, ok := p.Instantiate(items[j])
		if !ok {
			return nil, false
		}
		out[j] = tv
	}

	for i, p := range lp.Prefix {
		tv, ok := p.Instantiate(items[i])
		if !ok {
			return nil, false
		}
		out[i] = tv
	}

	for i := len(lp.Prefix); i < len(items)-len(lp.Suffix); i++ {
		itemType, ok := t.List.ItemType(i)
		if !ok {
			return nil, false
		}
		if out[i], ok = IntoTyped(items[i], itemType); !ok {
			return nil, false
		}
	}
	return out, true
}
