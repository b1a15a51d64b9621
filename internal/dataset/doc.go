// Package dataset provides the in-memory quad dataset used by layouts and
// tests.
//
// Dataset implements both rdf.PatternMatchingDataset and rdf.MutableDataset.
// The unset graph component of a pattern selects the default graph, and a
// graph variable matches every graph. Match order is insertion order.
package dataset
