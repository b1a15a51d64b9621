package rdf

import (
	"github.com/cayleygraph/quad"
	rdfvoc "github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/xsd"
)

// RDF list vocabulary.
var (
	First = quad.IRI(rdfvoc.NS + "first")
	Rest  = quad.IRI(rdfvoc.NS + "rest")
	Nil   = quad.IRI(rdfvoc.NS + "nil")
	Type  = quad.IRI(rdfvoc.NS + "type")

	LangString = quad.IRI(rdfvoc.NS + "langString")
)

// XSD datatypes understood by the literal built-ins.
var (
	XSDString       = quad.IRI(xsd.NS + "string")
	XSDBoolean      = quad.IRI(xsd.NS + "boolean")
	XSDInteger      = quad.IRI(xsd.NS + "integer")
	XSDDecimal      = quad.IRI(xsd.NS + "decimal")
	XSDBase64Binary = quad.IRI(xsd.NS + "base64Binary")
)
