package rdf

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad/nquads"
)

// EncodeTerm renders a resource as an N-Quads term. The default graph
// (nil) encodes as the empty string.
func EncodeTerm(r Resource) string {
	if r == nil {
		return ""
	}
	return Canonical(r).String()
}

// DecodeTerm parses a term produced by EncodeTerm.
func DecodeTerm(s string) (Resource, error) {
	if s == "" {
		return nil, nil
	}
	reader := nquads.NewReader(strings.NewReader("<urn:t:s> <urn:t:p> "+s+" .\n"), true)
	defer reader.Close()

	q, err := reader.ReadQuad()
	if err != nil {
		return nil, fmt.Errorf("decode term %q: %w", s, err)
	}
	return Canonical(q.Object), nil
}
