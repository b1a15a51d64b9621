package rdf

import (
	"errors"
	"fmt"
	"strings"
)

// PatternParser reads quad patterns written as term lists. A term is
// either a variable "?name" or an N-Quads term. Variables are numbered by
// first occurrence across every pattern read by the same parser.
type PatternParser struct {
	names []string
	index map[string]uint32
}

// NewPatternParser creates a parser with no variables.
func NewPatternParser() *PatternParser {
	return &PatternParser{index: make(map[string]uint32)}
}

// Names returns the variable names in index order.
func (p *PatternParser) Names() []string {
	return p.names
}

// Parse reads a pattern of three or four terms. Without a fourth term the
// pattern matches the default graph.
func (p *PatternParser) Parse(terms []string) (QuadPattern, error) {
	if len(terms) != 3 && len(terms) != 4 {
		return QuadPattern{}, fmt.Errorf("pattern needs 3 or 4 terms, got %d", len(terms))
	}

	var parsed [4]TermPattern
	for i, s := range terms {
		t, err := p.term(s)
		if err != nil {
			return QuadPattern{}, fmt.Errorf("term %d: %w", i+1, err)
		}
		parsed[i] = t
	}

	qp := NewQuadPattern(parsed[0], parsed[1], parsed[2])
	if len(terms) == 4 {
		qp.Graph = parsed[3]
	}
	return qp, nil
}

func (p *PatternParser) term(s string) (TermPattern, error) {
	if name, ok := strings.CutPrefix(s, "?"); ok {
		if name == "" {
			return TermPattern{}, fmt.Errorf("variable %q has no name", s)
		}
		i, seen := p.index[name]
		if !seen {
			i = uint32(len(p.names))
			p.index[name] = i
			p.names = append(p.names, name)
		}
		return Var(i), nil
	}

	r, err := DecodeTerm(s)
	if err != nil {
		return TermPattern{}, err
	}
	if r == nil {
		return TermPattern{}, errors.New("empty term")
	}
	return Term(r), nil
}
