package typed

import (
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// PatternEntry is a key/value pattern pair.
type PatternEntry struct {
	Key   *Pattern
	Value *Pattern
}

// MapPattern destructures a map. Without Ellipsis the map must have
// exactly one entry per pattern entry.
type MapPattern struct {
	Entries  []PatternEntry
	Ellipsis bool
}

// MinimumLen is the number of pattern entries.
func (mp *MapPattern) MinimumLen() int { return len(mp.Entries) }

// MaximumLen is the largest matching map size, if bounded.
func (mp *MapPattern) MaximumLen() (int, bool) {
	if mp.Ellipsis {
		return 0, false
	}
	return len(mp.Entries), true
}

func (mp *MapPattern) sizeFits(n int) bool {
	if n < mp.MinimumLen() {
		return false
	}
	max, bounded := mp.MaximumLen()
	return !bounded || n <= max
}

// Matches reports whether every pattern entry matches some entry of m.
func (mp *MapPattern) Matches(m *Map) bool {
	if !mp.sizeFits(m.Len()) {
		return false
	}

	for _, pe := range mp.Entries {
		found := false
		for _, e := range m.Entries() {
			if pe.Key.Matches(e.Key) && pe.Value.Matches(e.Value) {
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

// Instantiate types m against the struct type ty.
//
// Each pattern entry consumes the first map entry it instantiates, and
// the struct field its key pattern falls into. The remaining fields then
// consume entries through their own key and value types: a missing
// required field fails, a missing optional field is skipped. Entries left
// over after that belong to no field and fail the instantiation.
func (mp *MapPattern) Instantiate(ty types.Ref, m *value.Map) (*Map, bool) {
	t := ty.Type()
	if t.Kind != types.KindStruct || !mp.sizeFits(m.Len()) {
		return nil, false
	}

	entries := append([]value.Entry(nil), m.Entries()...)
	fields := append([]types.Field(nil), t.Struct.Fields...)
	out := NewMap()

	for _, pe := range mp.Entries {
		for i, f := range fields {
			if pe.Key.fitsField(f.Key) {
				fields = append(fields[:i], fields[i+1:]...)
				break
			}
		}

		key, val, rest, ok := takeFirst(entries, pe.Key.Instantiate, pe.Value.Instantiate)
		if !ok {
			return nil, false
		}
		entries = rest
		out.Insert(key, val)
	}

	for _, f := range fields {
		intoKey := func(v value.Value) (Value, bool) { return IntoTyped(v, f.Key) }
		intoValue := func(v value.Value) (Value, bool) { return IntoTyped(v, f.Type) }

		key, val, rest, ok := takeFirst(entries, intoKey, intoValue)
		if !ok {
			if f.Required {
				return nil, false
			}
			continue
		}
		entries = rest
		out.Insert(key, val)
	}

	if len(entries) > 0 {
		return nil, false
	}
	return out, true
}

// takeFirst removes the first entry whose key and value both convert.
func takeFirst(
	entries []value.Entry,
	key, val func(value.Value) (Value, bool),
) (Value, Value, []value.Entry, bool) {
	for i, e := range entries {
		k, ok := key(e.Key)
		if !ok {
			continue
		}
		v, ok := val(e.Value)
		if !ok {
			continue
		}
		rest := append(append([]value.Entry(nil), entries[:i]...), entries[i+1:]...)
		return k, v, rest, true
	}
	return Value{}, Value{}, entries, false
}
