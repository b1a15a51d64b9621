package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "people.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "people", s.Name)
	assert.Equal(t, "b", s.BlankNodePrefix)
	require.Len(t, s.Flow, 8)
	assert.Equal(t, KindMatch, s.Flow[0].Kind())
	assert.Len(t, s.Flow[0].Match, 2)
	assert.Equal(t, KindDecode, s.Flow[3].Kind())
	assert.Equal(t, KindEncode, s.Flow[5].Kind())
	assert.Equal(t, KindInsert, s.Flow[6].Kind())
	require.NotNil(t, s.Flow[7].Expect.Count)
	assert.Equal(t, 2, *s.Flow[7].Expect.Count)
	assert.Len(t, s.Assertions, 3)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "absent.yaml"))
	assert.Error(t, err)
}

func TestParseScenarioValidation(t *testing.T) {
	const header = "name: s\ndescription: d\n"

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing name", "description: d\nflow:\n  - insert: [a, b, c]\n", "name is required"},
		{"missing description", "name: s\nflow:\n  - insert: [a, b, c]\n", "description is required"},
		{"empty flow", header, "flow list is required"},
		{"no action", header + "flow:\n  - mode: all\n", "exactly one of"},
		{"fresh and insert", header + "flow:\n  - fresh: true\n    insert: [a, b, c]\n", "exactly one of"},
		{"two actions", header + "flow:\n  - decode: text\n    term: '\"a\"'\n    insert: [a, b, c]\n", "exactly one of"},
		{"unknown mode", header + "flow:\n  - match: [[?s, ?p, ?o]]\n    mode: some\n", "unknown mode"},
		{"unknown built-in", header + "flow:\n  - decode: float\n    term: '\"1\"'\n", "unknown built-in"},
		{"decode without term", header + "flow:\n  - decode: text\n", "term is required"},
		{"encode without value", header + "flow:\n  - encode: text\n", "value is required"},
		{"unknown assertion", header + "flow:\n  - insert: [a, b, c]\nassertions:\n  - type: final_state\n", "unknown assertion type"},
		{"contains without quad", header + "flow:\n  - insert: [a, b, c]\nassertions:\n  - type: contains\n", "quad is required"},
		{"typo field", header + "flows: []\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
