package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ldlayout/internal/dataset"
	"github.com/roach88/ldlayout/internal/eval"
	"github.com/roach88/ldlayout/internal/pattern"
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/store"
	"github.com/roach88/ldlayout/internal/tree"
	"github.com/roach88/ldlayout/internal/types"
	"github.com/roach88/ldlayout/internal/value"
)

// Backend selects the dataset implementation a scenario runs against.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
)

// Backends lists every backend, in the order RunAll uses them.
var Backends = []Backend{BackendMemory, BackendSQLite}

// Harness is the test execution engine for one scenario run.
type Harness struct {
	ds       rdf.Dataset
	interp   *rdf.Interpretation
	builtins map[eval.Builtin]*eval.Function
	logger   *slog.Logger
	seq      int
}

// openBackend creates an empty dataset. The returned function releases it.
func openBackend(b Backend) (rdf.Dataset, func() error, error) {
	switch b {
	case BackendMemory:
		return dataset.New(), func() error { return nil }, nil
	case BackendSQLite:
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", b)
	}
}

// Options configures the evaluation environment of a run.
type Options struct {
	// Lattice configures the type lattice of the built-ins.
	Lattice types.Options

	// Generator returns the blank node generator of one run. Nil means a
	// counting generator using the scenario's blank node prefix.
	Generator func() rdf.Generator
}

func (o Options) generator(s *Scenario) rdf.Generator {
	if o.Generator == nil {
		return rdf.NewCountingGenerator(s.BlankNodePrefix)
	}
	return o.Generator()
}

// Run executes a test scenario against one backend with default options.
func Run(ctx context.Context, scenario *Scenario, backend Backend) (*Result, error) {
	return RunWith(ctx, scenario, backend, Options{})
}

// RunWith executes a test scenario against one backend and returns the
// result.
//
// Each run starts from a fresh dataset loaded with scenario.Dataset. Blank
// node labels of the dataset are never minted by fresh steps.
// A non-nil error means the scenario itself could not be executed; failed
// expectations are reported in the result.
func RunWith(ctx context.Context, scenario *Scenario, backend Backend, opts Options) (*Result, error) {
	ds, release, err := openBackend(backend)
	if err != nil {
		return nil, err
	}
	defer release()

	quads, err := rdf.ReadNQuads(strings.NewReader(scenario.Dataset))
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	for _, q := range quads {
		if err := ds.Insert(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
	}

	interp := rdf.NewInterpretation(opts.generator(scenario))
	interp.Reserve(rdf.BlankNodeLabels(quads)...)

	lattice := types.NewLattice(opts.Lattice)
	h := &Harness{
		ds:       ds,
		interp:   interp,
		builtins: make(map[eval.Builtin]*eval.Function),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for b := eval.BuiltinText; b <= eval.BuiltinIRI; b++ {
		h.builtins[b] = eval.NewBuiltin(lattice, b)
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{Dataset: ds, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	return result, nil
}

// RunAll runs the scenario against every backend with default options.
func RunAll(ctx context.Context, scenario *Scenario) (*Result, error) {
	return RunAllWith(ctx, scenario, Options{})
}

// RunAllWith runs the scenario against every backend and requires them to
// agree. It returns the result of the first backend.
func RunAllWith(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	var first *Result
	for _, b := range Backends {
		result, err := RunWith(ctx, scenario, b, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b, err)
		}
		if first == nil {
			first = result
			continue
		}
		if diff := diffOutcomes(first.Outcomes, result.Outcomes); diff != "" {
			first.AddError(fmt.Sprintf("backend %s disagrees with %s: %s", b, Backends[0], diff))
		}
		for _, e := range result.Errors {
			if !slices.Contains(first.Errors, e) {
				first.AddError(fmt.Sprintf("%s: %s", b, e))
			}
		}
	}
	return first, nil
}

func diffOutcomes(a, b []Outcome) string {
	if len(a) != len(b) {
		return fmt.Sprintf("%d outcomes vs %d", len(a), len(b))
	}
	for i := range a {
		if !outcomeEqual(a[i], b[i]) {
			return fmt.Sprintf("step %d: %+v vs %+v", a[i].Seq, a[i], b[i])
		}
	}
	return ""
}

func outcomeEqual(a, b Outcome) bool {
	if a.Seq != b.Seq || a.Kind != b.Kind || a.Value != b.Value || a.Term != b.Term || a.Error != b.Error {
		return false
	}
	return slices.EqualFunc(a.Bindings, b.Bindings, maps.Equal)
}

// executeFlow runs all flow steps and validates expect clauses.
func (h *Harness) executeFlow(ctx context.Context, flow []Step, result *Result) error {
	for i := range flow {
		step := &flow[i]
		h.seq++
		outcome := Outcome{Seq: h.seq, Kind: step.Kind()}

		var err error
		switch outcome.Kind {
		case KindMatch:
			err = h.executeMatch(ctx, step, &outcome)
		case KindDecode:
			err = h.executeDecode(ctx, step, &outcome)
		case KindEncode:
			err = h.executeEncode(ctx, step, &outcome)
		case KindInsert:
			err = h.executeInsert(ctx, step, &outcome)
		case KindFresh:
			outcome.Term = rdf.EncodeTerm(h.interp.NewResource())
		}
		if err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}

		result.AddOutcome(outcome)
		for _, msg := range checkExpect(step, outcome) {
			result.AddError(fmt.Sprintf("flow step %d (%s): %s", i, outcome.Kind, msg))
		}

		h.logger.Info("flow step completed", "step", i, "kind", outcome.Kind, "error", outcome.Error)
	}
	return nil
}

// errorCode maps a step failure to its reported code. Errors without a
// code abort the scenario.
func errorCode(err error) (string, bool) {
	var ee *eval.EvalError
	switch {
	case errors.As(err, &ee):
		return string(ee.Code), true
	case errors.Is(err, pattern.ErrAmbiguity):
		return string(eval.ErrCodeAmbiguity), true
	case errors.Is(err, pattern.ErrEmpty):
		return string(eval.ErrCodeEmpty), true
	default:
		return "", false
	}
}

// record stores err in outcome when it has a code and returns it otherwise.
func record(outcome *Outcome, err error) error {
	code, ok := errorCode(err)
	if !ok {
		return err
	}
	outcome.Error = code
	return nil
}

func parsePatterns(terms [][]string) ([]rdf.QuadPattern, []string, error) {
	parser := rdf.NewPatternParser()
	patterns := make([]rdf.QuadPattern, len(terms))
	for i, t := range terms {
		p, err := parser.Parse(t)
		if err != nil {
			return nil, nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		patterns[i] = p
	}
	return patterns, parser.Names(), nil
}

// solve runs a match over ds in the given mode.
func solve(ctx context.Context, ds rdf.PatternMatchingDataset, terms [][]string, mode string) ([]map[string]string, []string, error) {
	patterns, names, err := parsePatterns(terms)
	if err != nil {
		return nil, nil, err
	}
	m := pattern.NewMatching(ds, nil, pattern.NewSubstitution(uint32(len(names))), patterns)

	var subs []*pattern.Substitution
	switch mode {
	case ModeUnique, ModeRequired:
		var sub *pattern.Substitution
		if mode == ModeUnique {
			sub, err = m.Unique(ctx)
		} else {
			sub, err = m.RequiredUnique(ctx)
		}
		if sub != nil {
			subs = append(subs, sub)
		}
	default:
		subs, err = m.All(ctx)
	}
	if err != nil {
		return nil, names, err
	}

	rows := make([]map[string]string, len(subs))
	for i, sub := range subs {
		row := make(map[string]string, len(names))
		for j, name := range names {
			if r, ok := value.AsResource(sub.Get(uint32(j))); ok {
				row[name] = rdf.EncodeTerm(r)
			}
		}
		rows[i] = row
	}
	return rows, names, nil
}

func (h *Harness) executeMatch(ctx context.Context, step *Step, outcome *Outcome) error {
	rows, _, err := solve(ctx, h.ds, step.Match, step.Mode)
	if err != nil {
		return record(outcome, err)
	}
	outcome.Bindings = rows
	return nil
}

func (h *Harness) executeDecode(ctx context.Context, step *Step, outcome *Outcome) error {
	b, _ := eval.ParseBuiltin(step.Decode)
	r, err := rdf.DecodeTerm(step.Term)
	if err != nil {
		return err
	}

	v, err := h.builtins[b].Call(ctx, h.interp, h.ds, []value.Value{value.NewResource(r)})
	if err != nil {
		return record(outcome, err)
	}
	outcome.Value = v.String()
	return nil
}

func (h *Harness) executeEncode(ctx context.Context, step *Step, outcome *Outcome) error {
	b, _ := eval.ParseBuiltin(step.Encode)
	v, err := nodeValue(&step.Value)
	if err != nil {
		return err
	}

	args, err := h.builtins[b].CallInverse(ctx, h.interp, h.ds, v)
	if err != nil {
		return record(outcome, err)
	}
	r, _ := value.AsResource(args[0])
	outcome.Term = rdf.EncodeTerm(r)
	return nil
}

func (h *Harness) executeInsert(ctx context.Context, step *Step, outcome *Outcome) error {
	q, err := groundQuad(step.Insert)
	if err != nil {
		return err
	}
	if err := h.ds.Insert(ctx, q); err != nil {
		return err
	}
	outcome.Term = q.String()
	return nil
}

func groundQuad(terms []string) (rdf.Quad, error) {
	p, err := rdf.NewPatternParser().Parse(terms)
	if err != nil {
		return rdf.Quad{}, err
	}
	q, ok := p.Ground()
	if !ok {
		return rdf.Quad{}, fmt.Errorf("quad %v has variables", terms)
	}
	return q, nil
}

// nodeValue converts a YAML value written in a scenario to a tree value.
func nodeValue(n *yaml.Node) (value.Value, error) {
	data, err := yaml.Marshal(n)
	if err != nil {
		return nil, err
	}
	return tree.ParseYAML(data)
}

// checkExpect compares an outcome with the step's expect clause.
func checkExpect(step *Step, outcome Outcome) []string {
	want := step.Expect
	if want == nil {
		if outcome.Error != "" {
			return []string{fmt.Sprintf("unexpected error %s", outcome.Error)}
		}
		return nil
	}

	if want.Error != outcome.Error {
		if want.Error == "" {
			return []string{fmt.Sprintf("unexpected error %s", outcome.Error)}
		}
		return []string{fmt.Sprintf("expected error %s, got %q", want.Error, outcome.Error)}
	}
	if want.Error != "" {
		return nil
	}

	var errs []string
	if want.Count != nil && *want.Count != len(outcome.Bindings) {
		errs = append(errs, fmt.Sprintf("expected %d solution(s), got %d", *want.Count, len(outcome.Bindings)))
	}
	if want.Bindings != nil && !slices.EqualFunc(want.Bindings, outcome.Bindings, maps.Equal) {
		errs = append(errs, fmt.Sprintf("expected bindings %v, got %v", want.Bindings, outcome.Bindings))
	}
	if want.Term != "" && want.Term != outcome.Term {
		errs = append(errs, fmt.Sprintf("expected term %s, got %s", want.Term, outcome.Term))
	}
	if want.Value.Kind != 0 {
		errs = append(errs, checkValue(&want.Value, outcome.Value)...)
	}
	return errs
}

func checkValue(n *yaml.Node, got string) []string {
	want, err := nodeValue(n)
	if err != nil {
		return []string{fmt.Sprintf("expected value: %v", err)}
	}
	if want.String() != got {
		return []string{fmt.Sprintf("expected value %s, got %s", want, got)}
	}
	return nil
}
