package rdf

import (
	"github.com/cayleygraph/quad"
)

func quadTerms(q Quad) []Resource {
	return []Resource{q.Subject, q.Predicate, q.Object, q.Graph}
}

// BlankNodeLabels returns the labels of the blank nodes in quads, in order
// of first occurrence.
func BlankNodeLabels(quads []Quad) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, q := range quads {
		for _, r := range quadTerms(q) {
			b, ok := r.(quad.BNode)
			if !ok || seen[string(b)] {
				continue
			}
			seen[string(b)] = true
			labels = append(labels, string(b))
		}
	}
	return labels
}

// RelabelBlankNodes replaces every blank node of quads with a fresh resource
// of rdfc, so that a document merged into a dataset never shares blank nodes
// with it. Occurrences of one label map to the same fresh resource.
func RelabelBlankNodes(rdfc MutableContext, quads []Quad) []Quad {
	fresh := make(map[quad.BNode]Resource)
	relabel := func(r Resource) Resource {
		b, ok := r.(quad.BNode)
		if !ok {
			return r
		}
		n, ok := fresh[b]
		if !ok {
			n = rdfc.NewResource()
			fresh[b] = n
		}
		return n
	}

	out := make([]Quad, len(quads))
	for i, q := range quads {
		out[i] = Quad{
			Subject:   relabel(q.Subject),
			Predicate: relabel(q.Predicate),
			Object:    relabel(q.Object),
			Graph:     relabel(q.Graph),
		}
	}
	return out
}
