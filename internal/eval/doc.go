// Package eval evaluates layout expressions in both directions.
//
// Forward evaluation (Function.Call) reads a value out of a quad dataset:
// each expression's Bound is resolved against the dataset with the
// pattern matcher, extending the Scope with the variables it introduces.
//
// Inverse evaluation (Function.CallInverse) writes a value into a mutable
// dataset. Variables are discovered from the value and collected in a
// ReverseScope; when a scope ends, variables the value left undetermined
// become fresh resources and the quad patterns of its bounds are inserted.
//
// Both directions report failures as *EvalError values.
package eval
