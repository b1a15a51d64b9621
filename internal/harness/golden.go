package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ldlayout/internal/tree"
	"github.com/roach88/ldlayout/internal/value"
)

// Snapshot captures the outcomes of a scenario execution for golden
// comparison.
type Snapshot struct {
	ScenarioName string
	Pass         bool
	Outcomes     []Outcome
}

// toValue converts the snapshot to a tree value, so that it serializes as
// canonical JSON.
func (s *Snapshot) toValue() value.Value {
	outcomes := make(value.List, len(s.Outcomes))
	for i, o := range s.Outcomes {
		entries := []value.Entry{
			{Key: value.Text("seq"), Value: value.Int(int64(o.Seq))},
			{Key: value.Text("kind"), Value: value.Text(o.Kind)},
		}
		if o.Bindings != nil {
			rows := make(value.List, len(o.Bindings))
			for j, row := range o.Bindings {
				m := value.NewMap()
				for name, term := range row {
					m.Insert(value.Text(name), value.Text(term))
				}
				rows[j] = m
			}
			entries = append(entries, value.Entry{Key: value.Text("bindings"), Value: rows})
		}
		optional := map[string]string{"value": o.Value, "term": o.Term, "error": o.Error}
		for key, text := range optional {
			if text != "" {
				entries = append(entries, value.Entry{Key: value.Text(key), Value: value.Text(text)})
			}
		}
		outcomes[i] = value.NewMap(entries...)
	}

	return value.NewMap(
		value.Entry{Key: value.Text("scenario_name"), Value: value.Text(s.ScenarioName)},
		value.Entry{Key: value.Text("pass"), Value: value.Boolean(s.Pass)},
		value.Entry{Key: value.Text("outcomes"), Value: outcomes},
	)
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return tree.MarshalCanonical(s.toValue())
}

// RunWithGolden runs a scenario on every backend and compares the outcomes
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can check Pass and Errors. Test failure
// (via goldie) occurs if the outcomes don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := RunAll(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares a result against the golden file named
// scenarioName without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{ScenarioName: scenarioName, Pass: result.Pass, Outcomes: result.Outcomes}
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
