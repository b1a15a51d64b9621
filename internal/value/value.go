package value

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/ldlayout/internal/rdf"
)

// Value is a sealed interface over tree values.
// Only Resource, the Literal types, List and *Map implement it.
type Value interface {
	value() // Sealed
	String() string
}

// Literal is the sealed subset of values that are literals:
// Unit, Boolean, Number, Bytes and Text.
type Literal interface {
	Value
	literal()
}

// Resource wraps an RDF node appearing inside a tree value.
type Resource struct {
	Node rdf.Resource
}

func (Resource) value() {}

func (r Resource) String() string {
	if r.Node == nil {
		return "<default graph>"
	}
	return r.Node.String()
}

// NewResource wraps an RDF node.
func NewResource(r rdf.Resource) Resource {
	return Resource{Node: r}
}

// Unit is the empty literal (JSON null).
type Unit struct{}

func (Unit) value()   {}
func (Unit) literal() {}

func (Unit) String() string { return "null" }

// Boolean is a boolean literal.
type Boolean bool

func (Boolean) value()   {}
func (Boolean) literal() {}

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Bytes is a byte string literal.
type Bytes []byte

func (Bytes) value()   {}
func (Bytes) literal() {}

func (b Bytes) String() string { return fmt.Sprintf("b%q", []byte(b)) }

// Text is a text string literal.
type Text string

func (Text) value()   {}
func (Text) literal() {}

func (s Text) String() string { return fmt.Sprintf("%q", string(s)) }

// List is an ordered sequence of values.
type List []Value

func (List) value() {}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, item := range l {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Entry is a map entry.
type Entry struct {
	Key   Value
	Value Value
}

// Map is an associative container ordered by Compare over its keys.
// The zero value is an empty map.
type Map struct {
	entries []Entry
}

func (*Map) value() {}

// NewMap builds a map from entries. Later duplicates overwrite earlier ones.
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Insert(e.Key, e.Value)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in key order. The slice must not be modified.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *Map) search(key Value) (int, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return Compare(m.entries[i].Key, key) >= 0
	})
	return i, i < len(m.entries) && Compare(m.entries[i].Key, key) == 0
}

// Get looks up a key.
func (m *Map) Get(key Value) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.search(key)
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Insert adds or replaces an entry.
func (m *Map) Insert(key, v Value) {
	i, ok := m.search(key)
	if ok {
		m.entries[i].Value = v
		return
	}
	m.entries = append(m.entries, Entry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = Entry{Key: key, Value: v}
}

// Remove deletes an entry and returns its value.
func (m *Map) Remove(key Value) (Value, bool) {
	i, ok := m.search(key)
	if !ok {
		return nil, false
	}
	v := m.entries[i].Value
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return v, true
}

// Clone returns a shallow copy of the map.
func (m *Map) Clone() *Map {
	return &Map{entries: append([]Entry(nil), m.Entries()...)}
}

func (m *Map) String() string {
	parts := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		parts = append(parts, e.Key.String()+": "+e.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// kindRank is the position of v's kind in the order used by Compare.
func kindRank(v Value) int {
	switch v.(type) {
	case Resource:
		return 0
	case Unit:
		return 1
	case Boolean:
		return 2
	case Number:
		return 3
	case Bytes:
		return 4
	case Text:
		return 5
	case *Map:
		return 6
	case List:
		return 7
	default:
		panic(fmt.Sprintf("value: unknown value type %T", v))
	}
}

// Compare is a total order over values. Values of different kinds are
// ordered resources < literals < maps < lists; literals are ordered
// unit < boolean < number < bytes < text.
func Compare(a, b Value) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch a := a.(type) {
	case Resource:
		return rdf.Compare(a.Node, b.(Resource).Node)
	case Unit:
		return 0
	case Boolean:
		bb := b.(Boolean)
		switch {
		case a == bb:
			return 0
		case !bool(a):
			return -1
		default:
			return 1
		}
	case Number:
		return a.Cmp(b.(Number))
	case Bytes:
		return bytes.Compare(a, b.(Bytes))
	case Text:
		return strings.Compare(string(a), string(b.(Text)))
	case *Map:
		return compareEntries(a.Entries(), b.(*Map).Entries())
	case List:
		bl := b.(List)
		for i := 0; i < len(a) && i < len(bl); i++ {
			if c := Compare(a[i], bl[i]); c != 0 {
				return c
			}
		}
		return compareInt(len(a), len(bl))
	}
	return 0
}

func compareEntries(a, b []Entry) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i].Key, b[i].Key); c != 0 {
			return c
		}
		if c := Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports structural equality.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// AsResource returns the RDF node of a resource value.
func AsResource(v Value) (rdf.Resource, bool) {
	r, ok := v.(Resource)
	if !ok {
		return nil, false
	}
	return r.Node, true
}
