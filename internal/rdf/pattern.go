package rdf

import (
	"fmt"
	"strings"
)

type termKind uint8

const (
	termUnset termKind = iota
	termResource
	termVar
)

// TermPattern is a quad component: either a fixed resource or a variable.
//
// The zero value is an unset component. In the graph position an unset
// component is filled with the scope graph by QuadPattern.WithDefaultGraph,
// and is otherwise treated as the default graph.
type TermPattern struct {
	kind     termKind
	resource Resource
	variable uint32
}

// Term creates a pattern matching exactly r. Term(nil) matches the default
// graph.
func Term(r Resource) TermPattern {
	return TermPattern{kind: termResource, resource: r}
}

// Var creates a pattern bound to variable i.
func Var(i uint32) TermPattern {
	return TermPattern{kind: termVar, variable: i}
}

// IsSet reports whether the component was given explicitly.
func (p TermPattern) IsSet() bool { return p.kind != termUnset }

// IsVar reports whether the pattern is a variable.
func (p TermPattern) IsVar() bool { return p.kind == termVar }

// Variable returns the variable index, if the pattern is a variable.
func (p TermPattern) Variable() (uint32, bool) {
	return p.variable, p.kind == termVar
}

// Resource returns the fixed resource. Nil for variables, unset components
// and the default graph.
func (p TermPattern) Resource() Resource {
	if p.kind != termResource {
		return nil
	}
	return p.resource
}

// Matches reports whether r satisfies the pattern. Variables match anything;
// repeated variables are checked by the matcher, not here.
func (p TermPattern) Matches(r Resource) bool {
	switch p.kind {
	case termVar:
		return true
	default:
		return Equal(p.resource, r)
	}
}

// Apply replaces a bound variable with its resource.
func (p TermPattern) Apply(lookup func(uint32) (Resource, bool)) TermPattern {
	if p.kind != termVar {
		return p
	}
	if r, ok := lookup(p.variable); ok {
		return Term(r)
	}
	return p
}

func (p TermPattern) String() string {
	switch p.kind {
	case termVar:
		return fmt.Sprintf("?%d", p.variable)
	case termResource:
		return termString(p.resource)
	default:
		return "_"
	}
}

// QuadPattern is a quad whose components may be variables.
type QuadPattern struct {
	Subject   TermPattern
	Predicate TermPattern
	Object    TermPattern
	Graph     TermPattern
}

// NewQuadPattern creates a pattern with an unset graph.
func NewQuadPattern(s, p, o TermPattern) QuadPattern {
	return QuadPattern{Subject: s, Predicate: p, Object: o}
}

// WithDefaultGraph fixes an unset graph component to g.
func (p QuadPattern) WithDefaultGraph(g Resource) QuadPattern {
	if !p.Graph.IsSet() {
		p.Graph = Term(g)
	}
	return p
}

// Apply replaces every bound variable with its resource.
func (p QuadPattern) Apply(lookup func(uint32) (Resource, bool)) QuadPattern {
	return QuadPattern{
		Subject:   p.Subject.Apply(lookup),
		Predicate: p.Predicate.Apply(lookup),
		Object:    p.Object.Apply(lookup),
		Graph:     p.Graph.Apply(lookup),
	}
}

// Matches reports whether q satisfies every fixed component of p.
func (p QuadPattern) Matches(q Quad) bool {
	return p.Subject.Matches(q.Subject) &&
		p.Predicate.Matches(q.Predicate) &&
		p.Object.Matches(q.Object) &&
		p.Graph.Matches(q.Graph)
}

// Variables returns the variable indices used by the pattern, in component
// order, with duplicates.
func (p QuadPattern) Variables() []uint32 {
	var vars []uint32
	for _, t := range p.terms() {
		if i, ok := t.Variable(); ok {
			vars = append(vars, i)
		}
	}
	return vars
}

// Ground converts a pattern without variables into a quad.
func (p QuadPattern) Ground() (Quad, bool) {
	for _, t := range p.terms() {
		if t.IsVar() {
			return Quad{}, false
		}
	}
	return Quad{
		Subject:   p.Subject.Resource(),
		Predicate: p.Predicate.Resource(),
		Object:    p.Object.Resource(),
		Graph:     p.Graph.Resource(),
	}, true
}

func (p QuadPattern) terms() [4]TermPattern {
	return [4]TermPattern{p.Subject, p.Predicate, p.Object, p.Graph}
}

func (p QuadPattern) String() string {
	parts := []string{p.Subject.String(), p.Predicate.String(), p.Object.String()}
	if p.Graph.IsSet() {
		parts = append(parts, p.Graph.String())
	}
	return strings.Join(parts, " ")
}
