package pattern

import (
	"fmt"

	"github.com/roach88/ldlayout/internal/value"
)

// Substitution is a partial assignment of values to variables.
//
// Variables are indexed from 0 to Len()-1. A variable is either unbound
// or bound to exactly one value; binding it again to a different value is
// a conflict (ErrConflict), never an overwrite.
type Substitution struct {
	values []value.Value
}

// NewSubstitution creates a substitution over n unbound variables.
func NewSubstitution(n uint32) *Substitution {
	return &Substitution{values: make([]value.Value, n)}
}

// Len returns the number of declared variables.
func (s *Substitution) Len() uint32 {
	return uint32(len(s.values))
}

// Get returns the value bound to variable i, or nil when it is unbound or
// out of range.
func (s *Substitution) Get(i uint32) value.Value {
	if int(i) >= len(s.values) {
		return nil
	}
	return s.values[i]
}

// IsBound reports whether variable i has a value.
func (s *Substitution) IsBound(i uint32) bool {
	return s.Get(i) != nil
}

// Set binds variable i to v. Setting the value it already holds is a
// no-op; setting a different one returns ErrConflict.
func (s *Substitution) Set(i uint32, v value.Value) error {
	if int(i) >= len(s.values) {
		return fmt.Errorf("variable ?%d out of range (%d declared): %w", i, len(s.values), ErrOutOfRange)
	}
	if current := s.values[i]; current != nil {
		if value.Equal(current, v) {
			return nil
		}
		return fmt.Errorf("variable ?%d bound to %s, got %s: %w", i, current, v, ErrConflict)
	}
	s.values[i] = v
	return nil
}

// Push declares a new variable bound to v (or unbound when v is nil) and
// returns its index.
func (s *Substitution) Push(v value.Value) uint32 {
	s.values = append(s.values, v)
	return uint32(len(s.values) - 1)
}

// Clone returns an independent copy.
func (s *Substitution) Clone() *Substitution {
	return &Substitution{values: append([]value.Value(nil), s.values...)}
}

// Total returns the values of every variable. Unbound variables are
// filled by calling fill; a nil fill makes any unbound variable an
// ErrUnbound error.
func (s *Substitution) Total(fill func(i uint32) (value.Value, error)) ([]value.Value, error) {
	out := make([]value.Value, len(s.values))
	for i, v := range s.values {
		if v == nil {
			if fill == nil {
				return nil, fmt.Errorf("variable ?%d: %w", i, ErrUnbound)
			}
			var err error
			if v, err = fill(uint32(i)); err != nil {
				return nil, err
			}
		}
		out[i] = v
	}
	return out, nil
}
