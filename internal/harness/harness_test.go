package harness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
)

func loadPeople(t *testing.T) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "people.yaml"))
	require.NoError(t, err)
	return s
}

func TestRunEachBackend(t *testing.T) {
	for _, b := range Backends {
		t.Run(string(b), func(t *testing.T) {
			result, err := Run(context.Background(), loadPeople(t), b)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			require.Len(t, result.Outcomes, 8)

			assert.Equal(t, []map[string]string{
				{"p": "<http://ex/alice>", "q": "<http://ex/bob>", "n": `"Bob"`},
			}, result.Outcomes[0].Bindings)
			assert.Equal(t, "AMBIGUITY", result.Outcomes[1].Error)
			assert.Equal(t, "36", result.Outcomes[3].Value)
			assert.Equal(t, `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`, result.Outcomes[5].Term)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	result, err := RunWithGolden(t, loadPeople(t))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestFreshBlankNodesSkipDatasetLabels(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "blank-nodes.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunWithOptions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: fixed
description: "Fresh labels come from the configured generator"
dataset: |
  _:b0 <http://ex/p> "x" .
flow:
  - fresh: true
  - fresh: true
`))
	require.NoError(t, err)

	opts := Options{
		Lattice:   types.Options{CacheSize: 8},
		Generator: func() rdf.Generator { return rdf.NewFixedGenerator("b0", "z0", "z1") },
	}
	result, err := RunAllWith(context.Background(), s, opts)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, "_:z0", result.Outcomes[0].Term)
	assert.Equal(t, "_:z1", result.Outcomes[1].Term)
}

func TestFailedExpectations(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: failing
description: "Every expectation is wrong"
dataset: |
  <http://ex/a> <http://ex/p> "x" .
flow:
  - match: [["?s", "<http://ex/p>", "?o"]]
    expect:
      count: 3
  - match: [["?s", "<http://ex/p>", "?o"]]
    mode: required
    expect:
      error: EMPTY
  - decode: text
    term: '"x"'
    expect:
      value: y
  - decode: boolean
    term: '"maybe"^^<http://www.w3.org/2001/XMLSchema#boolean>'
  - encode: integer
    value: 1.5
    expect:
      term: '"1.5"'
assertions:
  - type: quad_count
    count: 5
  - type: contains
    quad: ["<http://ex/a>", "<http://ex/p>", '"y"']
  - type: match_count
    match: [["?s", "?p", "?o"]]
    count: 0
`))
	require.NoError(t, err)

	result, err := RunAll(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	joined := strings.Join(result.Errors, "\n")
	assert.Contains(t, joined, "expected 3 solution(s), got 1")
	assert.Contains(t, joined, `expected error EMPTY, got ""`)
	assert.Contains(t, joined, `expected value "y", got "x"`)
	assert.Contains(t, joined, "unexpected error INVALID_VALUE")
	assert.Contains(t, joined, "Assertion failed: quad_count")
	assert.Contains(t, joined, "Assertion failed: contains")
	assert.Contains(t, joined, "Assertion failed: match_count")
}

func TestRunRejectsBrokenScenarios(t *testing.T) {
	ctx := context.Background()

	broken := &Scenario{Name: "s", Dataset: "<http://ex/a> <http://ex/b .\n", BlankNodePrefix: "b"}
	_, err := Run(ctx, broken, BackendMemory)
	assert.ErrorContains(t, err, "failed to load dataset")

	variables := &Scenario{Name: "s", Flow: []Step{{Insert: []string{"?s", "<http://ex/p>", "<http://ex/o>"}}}}
	_, err = Run(ctx, variables, BackendSQLite)
	assert.ErrorContains(t, err, "has variables")

	_, err = Run(ctx, variables, Backend("postgres"))
	assert.ErrorContains(t, err, "unknown backend")
}

func TestAssertGoldenSnapshotIsCanonical(t *testing.T) {
	s := Snapshot{
		ScenarioName: "tiny",
		Pass:         true,
		Outcomes:     []Outcome{{Seq: 1, Kind: KindDecode, Value: "\"\u00e9\""}},
	}
	data, err := s.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, "{\"outcomes\":[{\"kind\":\"decode\",\"seq\":1,\"value\":\"\\\"\u00e9\\\"\"}],\"pass\":true,\"scenario_name\":\"tiny\"}", string(data))
}
