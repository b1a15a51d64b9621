package rdf

import (
	"sync"

	"github.com/cayleygraph/quad"
)

// Literal is the decomposed form of an RDF literal node.
type Literal struct {
	Lexical  string
	Datatype quad.IRI
	Lang     string
}

// Context is the read-only RDF interpretation used by forward evaluation.
type Context interface {
	// LiteralOf decomposes a literal resource. It reports false for IRIs and
	// blank nodes.
	LiteralOf(r Resource) (Literal, bool)
}

// MutableContext is the interpretation used by inverse evaluation. It can
// mint fresh resources.
type MutableContext interface {
	Context

	// NewResource returns a resource that was never returned before.
	NewResource() Resource

	// NewLiteral builds the literal resource for l.
	NewLiteral(l Literal) Resource
}

// Interpretation is the default Context and MutableContext. Fresh resources
// are blank nodes labelled by its Generator, skipping reserved labels.
type Interpretation struct {
	gen Generator

	mu       sync.Mutex
	reserved map[string]struct{}
}

// NewInterpretation creates an interpretation. A nil generator defaults to
// UUIDv7Generator.
func NewInterpretation(gen Generator) *Interpretation {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &Interpretation{gen: gen}
}

// Reserve marks blank node labels as used, typically those of a loaded
// dataset. NewResource never returns them.
func (in *Interpretation) Reserve(labels ...string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.reserved == nil {
		in.reserved = make(map[string]struct{}, len(labels))
	}
	for _, label := range labels {
		in.reserved[label] = struct{}{}
	}
}

// NewResource returns a fresh blank node.
func (in *Interpretation) NewResource() Resource {
	in.mu.Lock()
	defer in.mu.Unlock()

	for {
		label := in.gen.Generate()
		if _, taken := in.reserved[label]; !taken {
			return quad.BNode(label)
		}
	}
}

// LiteralOf decomposes a literal resource.
func (in *Interpretation) LiteralOf(r Resource) (Literal, bool) {
	switch v := r.(type) {
	case quad.String:
		return Literal{Lexical: string(v), Datatype: XSDString}, true
	case quad.TypedString:
		return Literal{Lexical: string(v.Value), Datatype: v.Type.Full()}, true
	case quad.LangString:
		return Literal{Lexical: string(v.Value), Datatype: LangString, Lang: v.Lang}, true
	case quad.TypedStringer:
		ts := v.TypedString()
		return Literal{Lexical: string(ts.Value), Datatype: ts.Type.Full()}, true
	default:
		return Literal{}, false
	}
}

// NewLiteral builds a literal resource. xsd:string literals are plain
// strings, language-tagged literals are LangStrings.
func (in *Interpretation) NewLiteral(l Literal) Resource {
	switch {
	case l.Lang != "":
		return quad.LangString{Value: quad.String(l.Lexical), Lang: l.Lang}
	case l.Datatype == "" || l.Datatype == XSDString:
		return quad.String(l.Lexical)
	default:
		return quad.TypedString{Value: quad.String(l.Lexical), Type: l.Datatype}
	}
}
