package typed

import (
	"sort"

	"github.com/roach88/ldlayout/internal/value"
)

// MapEntry is a typed map entry.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is a typed associative container. Entries are ordered by the
// untyped order of their keys, so lookups work with untyped keys too.
type Map struct {
	entries []MapEntry
}

// NewMap creates an empty typed map.
func NewMap() *Map { return &Map{} }

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in key order. The slice must not be modified.
func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *Map) search(key value.Value) (int, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return value.Compare(m.entries[i].Key.Untyped(), key) >= 0
	})
	return i, i < len(m.entries) && value.Equal(m.entries[i].Key.Untyped(), key)
}

// Insert adds an entry, replacing any entry with the same untyped key.
func (m *Map) Insert(key, v Value) {
	i, ok := m.search(key.Untyped())
	if ok {
		m.entries[i] = MapEntry{Key: key, Value: v}
		return
	}
	m.entries = append(m.entries, MapEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = MapEntry{Key: key, Value: v}
}

// Get looks up an entry by untyped key.
func (m *Map) Get(key value.Value) (MapEntry, bool) {
	if m == nil {
		return MapEntry{}, false
	}
	i, ok := m.search(key)
	if !ok {
		return MapEntry{}, false
	}
	return m.entries[i], true
}

// GetTyped looks up an entry whose key has the same untyped value and the
// same type as key.
func (m *Map) GetTyped(key Value) (MapEntry, bool) {
	e, ok := m.Get(key.Untyped())
	if !ok || e.Key.Type.ID() != key.Type.ID() {
		return MapEntry{}, false
	}
	return e, true
}

// Untyped strips the type information of keys and values.
func (m *Map) Untyped() *value.Map {
	out := value.NewMap()
	for _, e := range m.Entries() {
		out.Insert(e.Key.Untyped(), e.Value.Untyped())
	}
	return out
}
