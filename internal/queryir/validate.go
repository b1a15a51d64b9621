package queryir

import (
	"fmt"
	"slices"
)

// ValidationResult lists the problems found in a query.
type ValidationResult struct {
	// IsValid is true when Problems is empty.
	IsValid bool

	// Problems describes each issue.
	Problems []string
}

// Validate checks that a query names a table, selects explicit columns and
// only filters on selected columns.
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{}
	v.validateQuery(query)
	return ValidationResult{IsValid: len(v.problems) == 0, Problems: v.problems}
}

type validator struct {
	problems []string
	columns  []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addProblem("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addProblem("select without a table")
	}
	if len(sel.Columns) == 0 {
		v.addProblem("select without columns")
	}
	v.columns = sel.Columns
	v.validatePredicate(sel.Filter)
}

func (v *validator) validateField(field string) {
	if !slices.Contains(v.columns, field) {
		v.addProblem("filter on unselected column %q", field)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
	case Equals:
		v.validateField(pred.Field)
	case SameAs:
		v.validateField(pred.Left)
		v.validateField(pred.Right)
		if pred.Left == pred.Right {
			v.addProblem("column %q compared with itself", pred.Left)
		}
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}
