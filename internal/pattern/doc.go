// Package pattern resolves variable bindings against a quad dataset.
//
// A Substitution records which variables are bound. A Matching walks a
// list of quad patterns and yields every substitution under which all of
// them map to existing quads. Unique and RequiredUnique turn the search
// into the at-most-one and exactly-one lookups used by layout evaluation,
// reporting ErrAmbiguity and ErrEmpty.
package pattern
