package types

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ID is the arena index of a type definition.
type ID uint32

// DefaultCacheSize is the default number of memoized comparisons per cache.
const DefaultCacheSize = 1 << 16

// Options configures a Lattice.
type Options struct {
	// CacheSize bounds each comparison cache (subtype and structural order).
	// Zero means DefaultCacheSize.
	CacheSize int
}

func (o *Options) applyDefaults() {
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
}

// Stats reports comparison cache activity.
type Stats struct {
	// Computations counts structural comparisons actually performed.
	Computations int64
	// Hits counts comparisons answered from a cache.
	Hits int64
}

type pair struct {
	a, b ID
}

// Lattice is an arena of possibly recursive type definitions.
//
// Definitions are allocated first and given a body later (Ref.Declare), so
// a type may refer to itself. Comparison results are memoized per ordered
// pair of arena ids; the arena never frees definitions, so ids stay valid
// for the lattice lifetime and no cache entry can outlive its key.
//
// Thread-safety: a Lattice is safe for concurrent use. Declarations are
// serialized by a mutex; the caches are internally synchronized.
type Lattice struct {
	mu   sync.RWMutex
	defs []*Type

	subtype *lru.Cache[pair, Ordering]
	order   *lru.Cache[pair, Ordering]

	computations atomic.Int64
	hits         atomic.Int64
}

// NewLattice creates an empty lattice.
func NewLattice(opts Options) *Lattice {
	opts.applyDefaults()

	subtype, err := lru.New[pair, Ordering](opts.CacheSize)
	if err != nil {
		panic(fmt.Sprintf("types: create subtype cache: %v", err))
	}
	order, err := lru.New[pair, Ordering](opts.CacheSize)
	if err != nil {
		panic(fmt.Sprintf("types: create order cache: %v", err))
	}

	return &Lattice{subtype: subtype, order: order}
}

// NewUndefined allocates a type whose definition is given later with
// Declare.
func (l *Lattice) NewUndefined() Ref {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.defs) >= math.MaxUint32 {
		panic("types: lattice is full")
	}
	l.defs = append(l.defs, nil)
	return Ref{l: l, id: ID(len(l.defs) - 1)}
}

// Define allocates and declares a type in one step.
func (l *Lattice) Define(t Type) Ref {
	r := l.NewUndefined()
	r.Declare(t)
	return r
}

// Len returns the number of allocated types.
func (l *Lattice) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.defs)
}

// Stats returns the comparison counters.
func (l *Lattice) Stats() Stats {
	return Stats{Computations: l.computations.Load(), Hits: l.hits.Load()}
}

func (l *Lattice) lookup(id ID) *Type {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defs[id]
}

func (l *Lattice) declare(id ID, t Type) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.defs[id] != nil {
		panic(fmt.Sprintf("types: type %d is already defined", id))
	}
	l.defs[id] = &t
}

// Ref is a handle to a type in a Lattice. Refs are comparable: two refs are
// equal exactly when they name the same definition. The zero Ref is
// invalid and stands for "no type".
type Ref struct {
	l  *Lattice
	id ID
}

// IsValid reports whether the ref names a definition.
func (r Ref) IsValid() bool { return r.l != nil }

// ID returns the arena index.
func (r Ref) ID() ID { return r.id }

// Lattice returns the owning lattice.
func (r Ref) Lattice() *Lattice { return r.l }

// IsDefined reports whether the definition has been declared.
func (r Ref) IsDefined() bool {
	return r.l != nil && r.l.lookup(r.id) != nil
}

// Declare sets the definition. It panics if the type is already defined.
func (r Ref) Declare(t Type) {
	r.l.declare(r.id, t)
}

// Type returns the definition. It panics if the type is not yet declared.
func (r Ref) Type() *Type {
	if r.l == nil {
		panic("types: invalid type reference")
	}
	t := r.l.lookup(r.id)
	if t == nil {
		panic(fmt.Sprintf("types: type %d is not defined", r.id))
	}
	return t
}

func (r Ref) describe(depth int) string {
	if !r.IsDefined() {
		return fmt.Sprintf("#%d", r.id)
	}
	return r.Type().describe(depth)
}

func (r Ref) String() string { return r.describe(0) }

// SubtypeCmp compares r and o in the subtype order: Less means r is a strict
// subtype of o. The result is memoized for both (r, o) and (o, r).
func (r Ref) SubtypeCmp(o Ref) Ordering {
	c := r.l.newComparer(r.l.subtype, subtypeCmp)
	return c.cmp(r, o)
}

// IsSubtypeOf reports whether every value of r is a value of o.
func (r Ref) IsSubtypeOf(o Ref) bool {
	ord := r.SubtypeCmp(o)
	return ord == Less || ord == Equal
}

// Order compares r and o structurally. It is a total preorder used to sort
// types deterministically; Equal means structurally identical.
func (r Ref) Order(o Ref) Ordering {
	c := r.l.newComparer(r.l.order, structuralCmp)
	return c.cmp(r, o)
}

// comparer runs one top-level memoized comparison.
//
// Pairs currently being compared are assumed Equal when met again, which
// makes the relation coinductive over recursive types. A result is only
// cached when it does not depend on an assumption made by an enclosing
// comparison.
type comparer struct {
	l          *Lattice
	cache      *lru.Cache[pair, Ordering]
	structural func(c *comparer, a, b Ref) Ordering
	assumed    map[pair]int
	lowest     int
}

func (l *Lattice) newComparer(cache *lru.Cache[pair, Ordering], f func(*comparer, Ref, Ref) Ordering) *comparer {
	return &comparer{
		l:          l,
		cache:      cache,
		structural: f,
		assumed:    make(map[pair]int),
		lowest:     math.MaxInt,
	}
}

func (c *comparer) cmp(a, b Ref) Ordering {
	if a.l != c.l || b.l != c.l {
		panic("types: comparing types from different lattices")
	}
	if a.id == b.id {
		return Equal
	}

	key := pair{a.id, b.id}
	if ord, ok := c.cache.Get(key); ok {
		c.l.hits.Add(1)
		return ord
	}
	if depth, ok := c.assumed[key]; ok {
		c.lowest = min(c.lowest, depth)
		return Equal
	}

	depth := len(c.assumed)
	c.assumed[key] = depth
	saved := c.lowest
	c.lowest = math.MaxInt

	c.l.computations.Add(1)
	ord := c.structural(c, a, b)

	delete(c.assumed, key)
	if c.lowest >= depth {
		c.cache.Add(key, ord)
		c.cache.Add(pair{b.id, a.id}, ord.Reverse())
	} else {
		slog.Debug("comparison depends on an enclosing assumption, not cached",
			"a", a.id, "b", b.id)
	}
	c.lowest = min(saved, c.lowest)
	return ord
}

// isSubtype is the memoized subtype test used inside structural comparisons.
func (c *comparer) isSubtype(a, b Ref) bool {
	ord := c.cmp(a, b)
	return ord == Less || ord == Equal
}
