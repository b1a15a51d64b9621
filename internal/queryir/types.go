package queryir

// Query represents an abstract query.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: field = literal value
//   - SameAs: field = field
//   - And: all predicates must be true
type Predicate interface {
	predicateNode()
}

// Select reads rows of a table.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY <insertion order>
type Select struct {
	From    string    // Table name
	Filter  Predicate // WHERE conditions (nil = no filter)
	Columns []string  // Selected columns, in order
}

func (Select) queryNode() {}

// Equals compares a field to a literal value.
type Equals struct {
	Field string
	Value string
}

func (Equals) predicateNode() {}

// SameAs requires two fields of the same row to be equal.
type SameAs struct {
	Left  string
	Right string
}

func (SameAs) predicateNode() {}

// And is a conjunction of predicates (empty = always true).
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
