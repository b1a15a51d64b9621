package rdf

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique labels for fresh blank nodes.
type Generator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 labels.
//
// Labels are emitted without hyphens so that they are valid N-Quads blank
// node labels as-is.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 label.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

// FixedGenerator returns predetermined labels for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	labels []string
	idx    int
}

// NewFixedGenerator creates a generator that returns labels in order.
//
// Example:
//
//	gen := NewFixedGenerator("b1", "b2")
//	gen.Generate() // "b1"
//	gen.Generate() // "b2"
//	gen.Generate() // panic: all labels exhausted
func NewFixedGenerator(labels ...string) *FixedGenerator {
	return &FixedGenerator{labels: labels}
}

// Generate returns the next predetermined label.
//
// Panics if all labels have been consumed, which points at a test that
// created more fresh resources than it declared.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.labels) {
		panic("FixedGenerator: all labels exhausted")
	}
	label := g.labels[g.idx]
	g.idx++
	return label
}

// CountingGenerator returns "<prefix><n>" with n counting from 0.
// Deterministic, unbounded and safe for concurrent use.
type CountingGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewCountingGenerator creates a generator with the given label prefix.
func NewCountingGenerator(prefix string) *CountingGenerator {
	return &CountingGenerator{prefix: prefix}
}

// Generate returns the next label.
func (g *CountingGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	label := g.prefix + strconv.Itoa(g.next)
	g.next++
	return label
}
