package pattern

import (
	"context"
	"log/slog"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/value"
)

// Environment is the enclosing scope of a matching. Variables below Len()
// are owned by the environment and only checked, never bound.
type Environment interface {
	Len() uint32
	Get(i uint32) value.Value
}

// frame is one worklist entry: a partial substitution and the patterns it
// still has to satisfy.
type frame struct {
	sub  *Substitution
	rest []rdf.QuadPattern
}

// Matching enumerates the substitutions under which every pattern maps to
// a quad of the dataset.
//
// Variable i of a pattern refers to the environment when i < env.Len(),
// and to substitution variable i-env.Len() otherwise. The search is a
// depth-first backtracking over an explicit stack of frames, so its depth
// does not grow the goroutine stack. Results come out in dataset order.
//
// A Matching is not safe for concurrent use.
type Matching struct {
	dataset  rdf.PatternMatchingDataset
	env      Environment
	scopeLen uint32
	stack    []frame
	steps    int
}

// NewMatching starts a matching of patterns from the partial substitution
// sub. Variables already bound in sub restrict the results. env may be nil.
func NewMatching(dataset rdf.PatternMatchingDataset, env Environment, sub *Substitution, patterns []rdf.QuadPattern) *Matching {
	var scopeLen uint32
	if env != nil {
		scopeLen = env.Len()
	}
	return &Matching{
		dataset:  dataset,
		env:      env,
		scopeLen: scopeLen,
		stack:    []frame{{sub: sub, rest: patterns}},
	}
}

// Next returns the next complete match. ok is false once the search is
// exhausted. The context is checked before every step.
func (m *Matching) Next(ctx context.Context) (sub *Substitution, ok bool, err error) {
	for len(m.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		f := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		m.steps++

		if len(f.rest) == 0 {
			return f.sub, true, nil
		}

		p := f.rest[0].Apply(m.lookup(f.sub))
		quads, err := m.dataset.QuadPatternMatching(ctx, p)
		if err != nil {
			return nil, false, err
		}

		// Push in reverse so the first candidate is explored first.
		for i := len(quads) - 1; i >= 0; i-- {
			next := f.sub.Clone()
			if m.assign(next, p, quads[i]) {
				m.stack = append(m.stack, frame{sub: next, rest: f.rest[1:]})
			}
		}
	}

	slog.Debug("matching exhausted", "steps", m.steps)
	return nil, false, nil
}

// Unique returns the only match, nil when there is none, or ErrAmbiguity
// when there are several.
func (m *Matching) Unique(ctx context.Context) (*Substitution, error) {
	sub, ok, err := m.Next(ctx)
	if err != nil || !ok {
		return nil, err
	}
	_, again, err := m.Next(ctx)
	if err != nil {
		return nil, err
	}
	if again {
		return nil, ErrAmbiguity
	}
	return sub, nil
}

// RequiredUnique is Unique, with ErrEmpty when nothing matches.
func (m *Matching) RequiredUnique(ctx context.Context) (*Substitution, error) {
	sub, err := m.Unique(ctx)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrEmpty
	}
	return sub, nil
}

// All drains the matching.
func (m *Matching) All(ctx context.Context) ([]*Substitution, error) {
	var out []*Substitution
	for {
		sub, ok, err := m.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, sub)
	}
}

// lookup resolves the variables that are already known to a resource.
func (m *Matching) lookup(sub *Substitution) func(uint32) (rdf.Resource, bool) {
	return func(i uint32) (rdf.Resource, bool) {
		var v value.Value
		if i < m.scopeLen {
			v = m.env.Get(i)
		} else {
			v = sub.Get(i - m.scopeLen)
		}
		r, ok := value.AsResource(v)
		return r, ok && r != nil
	}
}

// assign extends sub with the bindings q gives to the variables of p.
// It reports false on any conflict.
func (m *Matching) assign(sub *Substitution, p rdf.QuadPattern, q rdf.Quad) bool {
	components := [4]struct {
		term rdf.TermPattern
		node rdf.Resource
	}{
		{p.Subject, q.Subject},
		{p.Predicate, q.Predicate},
		{p.Object, q.Object},
		{p.Graph, q.Graph},
	}

	for _, c := range components {
		i, isVar := c.term.Variable()
		if !isVar {
			continue
		}
		// The default graph is not a resource and cannot be bound.
		if c.node == nil {
			return false
		}
		v := value.NewResource(c.node)
		if i < m.scopeLen {
			if !value.Equal(m.env.Get(i), v) {
				return false
			}
			continue
		}
		if sub.Set(i-m.scopeLen, v) != nil {
			return false
		}
	}
	return true
}
