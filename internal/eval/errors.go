package eval

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/ldlayout/internal/pattern"
	"github.com/roach88/ldlayout/internal/value"
)

// EvalError is the error returned by forward and inverse evaluation.
//
// Evaluation errors are never recovered inside the evaluator: they abort
// the current Call or CallInverse and carry enough structure for the
// caller to report them.
type EvalError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Key is the offending map key (UNKNOWN_KEY).
	Key value.Value

	// Variant is the offending case name (UNKNOWN_VARIANT).
	Variant string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes evaluation errors.
type ErrorCode string

const (
	// ErrCodeAmbiguity indicates that more than one dataset fragment matched
	// where one was expected, or that a variable needs two values.
	ErrCodeAmbiguity ErrorCode = "AMBIGUITY"

	// ErrCodeEmpty indicates that nothing matched where something was required.
	ErrCodeEmpty ErrorCode = "EMPTY"

	// ErrCodeInvalidType indicates a value whose shape does not fit the
	// expected type.
	ErrCodeInvalidType ErrorCode = "INVALID_TYPE"

	// ErrCodeInvalidValue indicates a value of the right shape that cannot
	// be produced or consumed.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"

	// ErrCodeUnknownKey indicates a map key without a declared entry.
	ErrCodeUnknownKey ErrorCode = "UNKNOWN_KEY"

	// ErrCodeUnknownVariant indicates a case name without a declared case.
	ErrCodeUnknownVariant ErrorCode = "UNKNOWN_VARIANT"

	// ErrCodeDataset indicates a failure of the dataset itself.
	ErrCodeDataset ErrorCode = "DATASET"

	// ErrCodeCanceled indicates that the context was canceled.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	msg := e.Message
	switch {
	case e.Key != nil:
		msg = fmt.Sprintf("%s (key=%s)", msg, e.Key)
	case e.Variant != "":
		msg = fmt.Sprintf("%s (variant=%s)", msg, e.Variant)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error { return e.Err }

func hasCode(err error, code ErrorCode) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsAmbiguity returns true if err is an AMBIGUITY error.
func IsAmbiguity(err error) bool { return hasCode(err, ErrCodeAmbiguity) }

// IsEmpty returns true if err is an EMPTY error.
func IsEmpty(err error) bool { return hasCode(err, ErrCodeEmpty) }

// IsInvalidType returns true if err is an INVALID_TYPE error.
func IsInvalidType(err error) bool { return hasCode(err, ErrCodeInvalidType) }

// IsInvalidValue returns true if err is an INVALID_VALUE error.
func IsInvalidValue(err error) bool { return hasCode(err, ErrCodeInvalidValue) }

// IsUnknownKey returns true if err is an UNKNOWN_KEY error.
func IsUnknownKey(err error) bool { return hasCode(err, ErrCodeUnknownKey) }

// IsUnknownVariant returns true if err is an UNKNOWN_VARIANT error.
func IsUnknownVariant(err error) bool { return hasCode(err, ErrCodeUnknownVariant) }

// IsCanceled returns true if evaluation stopped because of the context.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

func errAmbiguity(format string, args ...any) *EvalError {
	return &EvalError{Code: ErrCodeAmbiguity, Message: fmt.Sprintf(format, args...)}
}

func errEmpty(format string, args ...any) *EvalError {
	return &EvalError{Code: ErrCodeEmpty, Message: fmt.Sprintf(format, args...)}
}

func errInvalidType(format string, args ...any) *EvalError {
	return &EvalError{Code: ErrCodeInvalidType, Message: fmt.Sprintf(format, args...)}
}

func errInvalidValue(format string, args ...any) *EvalError {
	return &EvalError{Code: ErrCodeInvalidValue, Message: fmt.Sprintf(format, args...)}
}

func errUnknownKey(key value.Value) *EvalError {
	return &EvalError{Code: ErrCodeUnknownKey, Message: "no entry for map key", Key: key}
}

func errUnknownVariant(name string) *EvalError {
	return &EvalError{Code: ErrCodeUnknownVariant, Message: "no such case", Variant: name}
}

// wrap converts matcher, dataset and context failures into an EvalError.
// EvalErrors pass through unchanged.
func wrap(err error, what string) error {
	if err == nil {
		return nil
	}
	var ee *EvalError
	switch {
	case errors.As(err, &ee):
		return err
	case errors.Is(err, pattern.ErrAmbiguity), errors.Is(err, pattern.ErrConflict):
		return &EvalError{Code: ErrCodeAmbiguity, Message: what, Err: err}
	case errors.Is(err, pattern.ErrEmpty):
		return &EvalError{Code: ErrCodeEmpty, Message: what, Err: err}
	case errors.Is(err, pattern.ErrUnbound), errors.Is(err, pattern.ErrOutOfRange):
		return &EvalError{Code: ErrCodeInvalidValue, Message: what, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &EvalError{Code: ErrCodeCanceled, Message: what, Err: err}
	default:
		return &EvalError{Code: ErrCodeDataset, Message: what, Err: err}
	}
}

// recoverable reports whether a failed case of a Match lets the next case
// be tried. Dataset failures and cancellation abort the whole evaluation.
func recoverable(err error) bool {
	var ee *EvalError
	if !errors.As(err, &ee) {
		return false
	}
	return ee.Code != ErrCodeDataset && ee.Code != ErrCodeCanceled
}
