// Package harness runs conformance scenarios against the dataset backends.
//
// A scenario loads an N-Quads dataset, executes a flow of steps and checks
// assertions on the final dataset. Every scenario runs against both the
// in-memory dataset and the SQLite store, and both runs must agree.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: people
//	description: "Joins and literal built-ins"
//	dataset: |
//	  <http://ex/alice> <http://ex/name> "Alice" .
//	flow:
//	  - match:
//	      - ["?s", "<http://ex/name>", "?n"]
//	    mode: unique            # all (default) | unique | required
//	    expect:
//	      bindings:
//	        - {s: "<http://ex/alice>", n: '"Alice"'}
//	  - decode: text            # built-in name
//	    term: '"Alice"'
//	    expect:
//	      value: Alice
//	  - encode: integer
//	    value: 42
//	    expect:
//	      term: '"42"^^<http://www.w3.org/2001/XMLSchema#integer>'
//	  - insert: ["<http://ex/bob>", "<http://ex/name>", '"Bob"']
//	  - fresh: true             # mint a blank node
//	    expect:
//	      term: "_:b0"
//	assertions:
//	  - type: quad_count
//	    count: 2
//
// Terms use N-Quads syntax; "?name" is a variable. Variables are shared by
// all patterns of one match step. Expected errors name an evaluation error
// code such as AMBIGUITY, EMPTY or INVALID_TYPE.
//
// # Assertion Types
//
//   - quad_count: the dataset holds exactly count quads, all graphs included
//   - contains: the dataset holds the ground quad
//   - match_count: the match patterns have exactly count solutions
//
// # Determinism
//
// Fresh blank nodes are labelled by a counting generator that skips the
// labels of the loaded dataset (see Options to change it), and both backends
// return matches in insertion order, so outcomes are reproducible and can
// be compared against golden snapshots with RunWithGolden.
package harness
