package rdf

import "context"

// PatternMatchingDataset is the read side of a dataset.
//
// QuadPatternMatching returns every stored quad matching the fixed
// components of p; variables act as wildcards. Implementations must return
// quads in a stable order for a given dataset state.
type PatternMatchingDataset interface {
	QuadPatternMatching(ctx context.Context, p QuadPattern) ([]Quad, error)
}

// MutableDataset is the write side of a dataset, used by inverse evaluation.
// Inserting a quad that is already present is a no-op.
type MutableDataset interface {
	Insert(ctx context.Context, q Quad) error
}

// Dataset combines both capabilities.
type Dataset interface {
	PatternMatchingDataset
	MutableDataset
}
