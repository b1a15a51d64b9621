// Package queryir is the abstract query representation between quad
// patterns and storage backends.
//
// A quad pattern becomes a Select over the quads table: fixed components
// become Equals predicates on their encoded term, and a variable repeated
// across components becomes a SameAs predicate. Variables that occur once
// impose nothing.
//
// Query and Predicate are sealed interfaces using the marker method
// pattern, so backends can switch over them exhaustively:
//
//	switch q := query.(type) {
//	case Select:
//	    // Handle select
//	default:
//	    // Impossible
//	}
//
// Backends must return rows in insertion order so that pattern matching
// over a stored dataset is deterministic.
package queryir
