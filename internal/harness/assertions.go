package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/ldlayout/internal/rdf"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// countQuads counts the quads of every graph. A graph variable never binds
// the default graph, so it takes two lookups.
func countQuads(ctx context.Context, ds rdf.PatternMatchingDataset) (int, error) {
	all := rdf.NewQuadPattern(rdf.Var(0), rdf.Var(1), rdf.Var(2))
	inDefault, err := ds.QuadPatternMatching(ctx, all)
	if err != nil {
		return 0, err
	}
	all.Graph = rdf.Var(3)
	inNamed, err := ds.QuadPatternMatching(ctx, all)
	if err != nil {
		return 0, err
	}
	return len(inDefault) + len(inNamed), nil
}

func assertQuadCount(ctx context.Context, ds rdf.PatternMatchingDataset, assertion Assertion) error {
	n, err := countQuads(ctx, ds)
	if err != nil {
		return fmt.Errorf("quad_count: %w", err)
	}
	if n != assertion.Count {
		return &AssertionError{
			Type:     AssertQuadCount,
			Expected: fmt.Sprintf("%d quad(s)", assertion.Count),
			Actual:   fmt.Sprintf("%d quad(s)", n),
		}
	}
	return nil
}

func assertContains(ctx context.Context, ds rdf.PatternMatchingDataset, assertion Assertion) error {
	q, err := groundQuad(assertion.Quad)
	if err != nil {
		return fmt.Errorf("contains: %w", err)
	}

	p := rdf.NewQuadPattern(rdf.Term(q.Subject), rdf.Term(q.Predicate), rdf.Term(q.Object))
	if q.Graph != nil {
		p = p.WithDefaultGraph(q.Graph)
	}
	found, err := ds.QuadPatternMatching(ctx, p)
	if err != nil {
		return fmt.Errorf("contains: %w", err)
	}
	if len(found) == 0 {
		return &AssertionError{
			Type:     AssertContains,
			Expected: q.String(),
			Actual:   "not in dataset",
		}
	}
	return nil
}

func assertMatchCount(ctx context.Context, ds rdf.PatternMatchingDataset, assertion Assertion) error {
	rows, _, err := solve(ctx, ds, assertion.Match, ModeAll)
	if err != nil {
		return fmt.Errorf("match_count: %w", err)
	}
	if len(rows) != assertion.Count {
		return &AssertionError{
			Type:     AssertMatchCount,
			Expected: fmt.Sprintf("%d solution(s) of %v", assertion.Count, assertion.Match),
			Actual:   fmt.Sprintf("%d solution(s) %v", len(rows), rows),
		}
	}
	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Dataset rdf.PatternMatchingDataset
	Ctx     context.Context
}

// EvaluateAssertions evaluates all assertions against the final dataset.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		if actx == nil || actx.Dataset == nil {
			err = fmt.Errorf("assertion[%d]: %s requires a dataset", i, assertion.Type)
		} else {
			switch assertion.Type {
			case AssertQuadCount:
				err = assertQuadCount(actx.Ctx, actx.Dataset, assertion)
			case AssertContains:
				err = assertContains(actx.Ctx, actx.Dataset, assertion)
			case AssertMatchCount:
				err = assertMatchCount(actx.Ctx, actx.Dataset, assertion)
			default:
				err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
			}
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
