package rdf

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"
)

// Resource is an RDF node: an IRI, a blank node or a literal.
//
// The evaluator treats resources as opaque identifiers. It only compares
// them (Equal, Compare) and never inspects their lexical form.
type Resource = quad.Value

// Quad is a dataset statement. A nil Graph is the default graph.
type Quad struct {
	Subject   Resource
	Predicate Resource
	Object    Resource
	Graph     Resource
}

// NewQuad creates a quad in the given graph (nil for the default graph).
func NewQuad(s, p, o, g Resource) Quad {
	return Quad{Subject: s, Predicate: p, Object: o, Graph: g}
}

// FromQuad converts a cayley quad into a Quad. Every term is made
// Canonical.
func FromQuad(q quad.Quad) Quad {
	return Quad{
		Subject:   Canonical(q.Subject),
		Predicate: Canonical(q.Predicate),
		Object:    Canonical(q.Object),
		Graph:     Canonical(q.Label),
	}
}

// Canonical returns the representation of r that Equal compares: typed
// literals are TypedStrings with a full datatype IRI, except xsd:string
// literals which are plain Strings.
func Canonical(r Resource) Resource {
	var ts quad.TypedString
	switch v := r.(type) {
	case quad.TypedString:
		ts = v
	case quad.String, quad.LangString, quad.IRI, quad.BNode, nil:
		return r
	case quad.TypedStringer:
		ts = v.TypedString()
	default:
		return r
	}
	ts.Type = ts.Type.Full()
	if ts.Type == XSDString {
		return ts.Value
	}
	return ts
}

// ToQuad converts the quad into its cayley representation.
func (q Quad) ToQuad() quad.Quad {
	return quad.Quad{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object, Label: q.Graph}
}

// String renders the quad in N-Quads statement form (without the final dot).
func (q Quad) String() string {
	parts := []string{termString(q.Subject), termString(q.Predicate), termString(q.Object)}
	if q.Graph != nil {
		parts = append(parts, termString(q.Graph))
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two resources are the same node.
// Two nil resources (default graph) are equal.
func Equal(a, b Resource) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// Compare returns a total order over resources: nil first, then IRIs,
// blank nodes and literals, each ordered by their N-Quads rendering.
func Compare(a, b Resource) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if a == nil {
		return 0
	}
	return strings.Compare(a.String(), b.String())
}

func rank(r Resource) int {
	switch r.(type) {
	case nil:
		return 0
	case quad.IRI:
		return 1
	case quad.BNode:
		return 2
	default:
		return 3
	}
}

func termString(r Resource) string {
	if r == nil {
		return "_"
	}
	return r.String()
}

// IsLiteral reports whether the resource is an RDF literal node.
func IsLiteral(r Resource) bool {
	switch r.(type) {
	case nil, quad.IRI, quad.BNode:
		return false
	default:
		return true
	}
}

// MustIRI returns r as an IRI or panics. Used by vocabulary tables.
func MustIRI(r Resource) quad.IRI {
	iri, ok := r.(quad.IRI)
	if !ok {
		panic(fmt.Sprintf("rdf: %v is not an IRI", r))
	}
	return iri
}
