// Package typed annotates tree values with types.
//
// IntoTyped converts a value against a type. Pattern.Instantiate converts
// a value by destructuring it against a typed pattern (list prefixes and
// suffixes, open or closed maps, enum variants), and Pattern.Matches tests
// an already typed value without converting anything; the Match expression
// uses both to pick a case. Conversions never modify their input, so a
// failed conversion leaves the caller with the original value.
package typed
