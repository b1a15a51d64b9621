package dataset

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/roach88/ldlayout/internal/rdf"
)

type quadKey [4]rdf.Resource

func keyOf(q rdf.Quad) quadKey {
	return quadKey{q.Subject, q.Predicate, q.Object, q.Graph}
}

// Dataset is an indexed in-memory quad set.
//
// Quads are kept in insertion order and deduplicated; pattern lookups
// return matches in insertion order, so evaluation over a Dataset is
// deterministic. Lookups use the most selective of the per-component
// indexes.
//
// Thread-safety: Dataset is safe for concurrent use.
type Dataset struct {
	mu    sync.RWMutex
	quads []rdf.Quad
	seen  map[quadKey]struct{}

	bySubject   map[rdf.Resource][]int
	byPredicate map[rdf.Resource][]int
	byObject    map[rdf.Resource][]int
	byGraph     map[rdf.Resource][]int
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{
		seen:        make(map[quadKey]struct{}),
		bySubject:   make(map[rdf.Resource][]int),
		byPredicate: make(map[rdf.Resource][]int),
		byObject:    make(map[rdf.Resource][]int),
		byGraph:     make(map[rdf.Resource][]int),
	}
}

// FromQuads creates a dataset holding quads.
func FromQuads(quads ...rdf.Quad) *Dataset {
	d := New()
	for _, q := range quads {
		d.Add(q)
	}
	return d
}

// Add inserts q and reports whether it was new.
func (d *Dataset) Add(q rdf.Quad) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := keyOf(q)
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}

	i := len(d.quads)
	d.quads = append(d.quads, q)
	d.bySubject[q.Subject] = append(d.bySubject[q.Subject], i)
	d.byPredicate[q.Predicate] = append(d.byPredicate[q.Predicate], i)
	d.byObject[q.Object] = append(d.byObject[q.Object], i)
	d.byGraph[q.Graph] = append(d.byGraph[q.Graph], i)
	return true
}

// Insert implements rdf.MutableDataset.
func (d *Dataset) Insert(ctx context.Context, q rdf.Quad) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.Add(q)
	return nil
}

// Contains reports whether q is in the dataset.
func (d *Dataset) Contains(q rdf.Quad) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.seen[keyOf(q)]
	return ok
}

// Len returns the number of quads.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.quads)
}

// Quads returns a copy of all quads in insertion order.
func (d *Dataset) Quads() []rdf.Quad {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]rdf.Quad(nil), d.quads...)
}

// QuadPatternMatching implements rdf.PatternMatchingDataset.
func (d *Dataset) QuadPatternMatching(ctx context.Context, p rdf.QuadPattern) ([]rdf.Quad, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	candidates, all := d.candidates(p)
	var out []rdf.Quad
	if all {
		for _, q := range d.quads {
			if p.Matches(q) {
				out = append(out, q)
			}
		}
		return out, nil
	}
	for _, i := range candidates {
		if q := d.quads[i]; p.Matches(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

// candidates returns the smallest index posting list for the fixed
// components of p, or all=true when every component is a variable.
func (d *Dataset) candidates(p rdf.QuadPattern) (best []int, all bool) {
	all = true
	consider := func(t rdf.TermPattern, index map[rdf.Resource][]int) {
		if t.IsVar() {
			return
		}
		list := index[t.Resource()]
		if all || len(list) < len(best) {
			best, all = list, false
		}
	}
	consider(p.Subject, d.bySubject)
	consider(p.Predicate, d.byPredicate)
	consider(p.Object, d.byObject)
	consider(p.Graph, d.byGraph)
	return best, all
}

// Load reads an N-Quads document into the dataset.
func (d *Dataset) Load(r io.Reader) error {
	quads, err := rdf.ReadNQuads(r)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	for _, q := range quads {
		d.Add(q)
	}
	return nil
}

// WriteNQuads writes the dataset as an N-Quads document.
func (d *Dataset) WriteNQuads(w io.Writer) error {
	return rdf.WriteNQuads(w, d.Quads())
}
