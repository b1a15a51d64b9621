package eval

import (
	"context"
	"sort"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/typed"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// MapEntry is a map expression entry: a constant typed key and the
// expression of its value.
type MapEntry struct {
	Key   typed.Value
	Value *Expr
}

// Map builds a map with one entry per expression entry.
type Map struct {
	entries []MapEntry
}

// NewMap creates a map expression. Entries are ordered by untyped key;
// a later entry replaces an earlier one with the same key.
func NewMap(entries ...MapEntry) *Map {
	m := &Map{}
	for _, e := range entries {
		key := e.Key.Untyped()
		i := sort.Search(len(m.entries), func(i int) bool {
			return value.Compare(m.entries[i].Key.Untyped(), key) >= 0
		})
		if i < len(m.entries) && value.Equal(m.entries[i].Key.Untyped(), key) {
			m.entries[i] = e
			continue
		}
		m.entries = append(m.entries, MapEntry{})
		copy(m.entries[i+1:], m.entries[i:])
		m.entries[i] = e
	}
	return m
}

// Entries returns the entries in key order.
func (m *Map) Entries() []MapEntry { return m.entries }

// Get looks up the entry for an untyped key.
func (m *Map) Get(key value.Value) (*Expr, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return value.Compare(m.entries[i].Key.Untyped(), key) >= 0
	})
	if i < len(m.entries) && value.Equal(m.entries[i].Key.Untyped(), key) {
		return m.entries[i].Value, true
	}
	return nil, false
}

func (m *Map) eval(ctx context.Context, rdfc rdf.Context, ds rdf.PatternMatchingDataset, scope *Scope, _ types.Ref) (value.Value, error) {
	out := value.NewMap()
	for _, e := range m.entries {
		v, err := e.Value.Eval(ctx, rdfc, ds, scope)
		if err != nil {
			return nil, err
		}
		out.Insert(e.Key.Untyped(), v)
	}
	return out, nil
}

// evalInverse inverts every entry present in the output. Output keys
// without an entry are UNKNOWN_KEY errors; absent entries are skipped.
func (m *Map) evalInverse(ctx context.Context, rdfc rdf.MutableContext, ds rdf.MutableDataset, scope *ReverseScope, _ types.Ref, output value.Value) error {
	om, ok := output.(*value.Map)
	if !ok {
		return errInvalidType("expected a map, got %s", output)
	}
	for _, e := range om.Entries() {
		expr, ok := m.Get(e.Key)
		if !ok {
			return errUnknownKey(e.Key)
		}
		if err := expr.EvalInverse(ctx, rdfc, ds, scope, e.Value); err != nil {
			return err
		}
	}
	return nil
}
