package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ldlayout/internal/eval"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is the initial N-Quads document.
	Dataset string `yaml:"dataset"`

	// BlankNodePrefix labels fresh blank nodes. Defaults to "b".
	BlankNodePrefix string `yaml:"blank_node_prefix,omitempty"`

	// Flow contains the steps, executed in order.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final dataset.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one flow step. Exactly one of Match, Decode, Encode, Insert or
// Fresh is set.
type Step struct {
	// Match is a conjunction of patterns, each three or four terms.
	Match [][]string `yaml:"match,omitempty"`

	// Mode selects how many solutions a match step requires:
	// all (default), unique (zero or one) or required (exactly one).
	Mode string `yaml:"mode,omitempty"`

	// Decode names a built-in applied forward to Term.
	Decode string `yaml:"decode,omitempty"`

	// Encode names a built-in applied backward to Value.
	Encode string `yaml:"encode,omitempty"`

	// Insert is a ground quad added to the dataset.
	Insert []string `yaml:"insert,omitempty"`

	// Fresh mints a new blank node.
	Fresh bool `yaml:"fresh,omitempty"`

	// Term is the input resource of a decode step.
	Term string `yaml:"term,omitempty"`

	// Value is the input tree value of an encode step.
	Value yaml.Node `yaml:"value,omitempty"`

	// Expect validates the step outcome. If nil, the step only has to run.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step kinds, as reported in outcomes.
const (
	KindMatch  = "match"
	KindDecode = "decode"
	KindEncode = "encode"
	KindInsert = "insert"
	KindFresh  = "fresh"
)

// Match modes.
const (
	ModeAll      = "all"
	ModeUnique   = "unique"
	ModeRequired = "required"
)

// Kind returns the kind of the step, or "" when it sets no action.
func (s *Step) Kind() string {
	switch {
	case len(s.Match) > 0:
		return KindMatch
	case s.Decode != "":
		return KindDecode
	case s.Encode != "":
		return KindEncode
	case len(s.Insert) > 0:
		return KindInsert
	case s.Fresh:
		return KindFresh
	default:
		return ""
	}
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Error is the expected error code. When set, the step must fail.
	Error string `yaml:"error,omitempty"`

	// Count is the expected number of match solutions.
	Count *int `yaml:"count,omitempty"`

	// Bindings are the expected match solutions, in order. Each maps
	// variable names to N-Quads terms.
	Bindings []map[string]string `yaml:"bindings,omitempty"`

	// Value is the expected result of a decode step.
	Value yaml.Node `yaml:"value,omitempty"`

	// Term is the expected result of an encode, insert or fresh step.
	Term string `yaml:"term,omitempty"`
}

// Assertion validates the final dataset.
type Assertion struct {
	// Type is one of quad_count, contains or match_count.
	Type string `yaml:"type"`

	// Count is the expected number (quad_count, match_count).
	Count int `yaml:"count,omitempty"`

	// Quad is a ground quad of three or four terms (contains).
	Quad []string `yaml:"quad,omitempty"`

	// Match is a conjunction of patterns (match_count).
	Match [][]string `yaml:"match,omitempty"`
}

// Assertion type constants.
const (
	AssertQuadCount  = "quad_count"
	AssertContains   = "contains"
	AssertMatchCount = "match_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict fields catch typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.BlankNodePrefix == "" {
		scenario.BlankNodePrefix = "b"
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i := range s.Flow {
		if err := validateStep(i, &s.Flow[i]); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	actions := 0
	for _, set := range []bool{len(s.Match) > 0, s.Decode != "", s.Encode != "", len(s.Insert) > 0, s.Fresh} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("flow[%d]: exactly one of match, decode, encode, insert or fresh is required", index)
	}

	switch s.Kind() {
	case KindMatch:
		switch s.Mode {
		case "", ModeAll, ModeUnique, ModeRequired:
		default:
			return fmt.Errorf("flow[%d]: unknown mode %q", index, s.Mode)
		}
	case KindDecode:
		if _, ok := eval.ParseBuiltin(s.Decode); !ok {
			return fmt.Errorf("flow[%d]: unknown built-in %q", index, s.Decode)
		}
		if s.Term == "" {
			return fmt.Errorf("flow[%d]: term is required for decode", index)
		}
	case KindEncode:
		if _, ok := eval.ParseBuiltin(s.Encode); !ok {
			return fmt.Errorf("flow[%d]: unknown built-in %q", index, s.Encode)
		}
		if s.Value.Kind == 0 {
			return fmt.Errorf("flow[%d]: value is required for encode", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertQuadCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for quad_count", index)
		}
	case AssertContains:
		if len(a.Quad) == 0 {
			return fmt.Errorf("assertions[%d]: quad is required for contains", index)
		}
	case AssertMatchCount:
		if len(a.Match) == 0 {
			return fmt.Errorf("assertions[%d]: match is required for match_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for match_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
