package pattern

import "errors"

var (
	// ErrAmbiguity means more than one dataset fragment matched where at
	// most one was expected.
	ErrAmbiguity = errors.New("ambiguous selection")

	// ErrEmpty means no dataset fragment matched where at least one was
	// expected.
	ErrEmpty = errors.New("empty selection")

	// ErrConflict means a variable would be bound to two different values.
	ErrConflict = errors.New("conflicting binding")

	// ErrUnbound means a complete substitution was required but a variable
	// has no value.
	ErrUnbound = errors.New("unbound variable")

	// ErrOutOfRange means a variable index exceeds the declared variables.
	ErrOutOfRange = errors.New("variable out of range")
)
