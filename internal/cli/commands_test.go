package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quads.db")
	file := writeFile(t, "people.nq", people)

	out, err := execute(t, "--db", db, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 4 of 4 quad(s)")

	out, err = execute(t, "--db", db, "--format", "json", "import", file)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ImportResult{File: file, Read: 4, Inserted: 0, Total: 4}, resp.Data)
}

func TestImportRenamesBlankNodes(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quads.db")
	cfg := writeFile(t, "ldlayout.yaml", "blank_nodes:\n  generator: counting\n  prefix: n\n")
	file := writeFile(t, "anon.nq", "_:a <http://ex/name> \"Anon\" .\n_:a <http://ex/knows> <http://ex/bob> .\n")

	out, err := execute(t, "--config", cfg, "--db", db, "--format", "json", "import", file)
	require.NoError(t, err)
	var resp struct {
		Data ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ImportResult{File: file, Read: 2, Inserted: 2, Total: 2, BlankNodes: 1}, resp.Data)

	// A second import mints labels the store does not hold yet.
	_, err = execute(t, "--config", cfg, "--db", db, "import", file)
	require.NoError(t, err)

	out, err = execute(t, "--db", db, "export")
	require.NoError(t, err)
	for _, line := range []string{
		`_:n0 <http://ex/name> "Anon" .`,
		`_:n0 <http://ex/knows> <http://ex/bob> .`,
		`_:n1 <http://ex/name> "Anon" .`,
		`_:n1 <http://ex/knows> <http://ex/bob> .`,
	} {
		assert.Contains(t, out, line)
	}
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.NotContains(t, out, "_:a ")

	_, err = execute(t, "--db", db, "import", "--keep-blank-nodes", file)
	require.NoError(t, err)
	out, err = execute(t, "--db", db, "match", "?s", "<http://ex/name>", `"Anon"`)
	require.NoError(t, err)
	assert.Contains(t, out, "?s=_:a\n")
	assert.Contains(t, out, "3 match(es)")
}

func TestImportErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quads.db")

	out, err := execute(t, "--db", db, "import", filepath.Join(t.TempDir(), "absent.nq"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeReadFailed+"]")

	out, err = execute(t, "--db", db, "import", writeFile(t, "broken.nq", "<http://ex/a> <http://ex/b .\n"))
	require.Error(t, err)
	assert.Contains(t, out, "Error ["+ErrCodeParseFailed+"]")
}

func TestExport(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "--db", db, "export")
	require.NoError(t, err)
	assert.Contains(t, out, `<http://ex/alice> <http://ex/name> "Alice" .`)
	assert.Contains(t, out, `<http://ex/alice> <http://ex/knows> <http://ex/bob> <http://ex/g1> .`)

	// The export re-imports into an identical store.
	again := filepath.Join(t.TempDir(), "again.db")
	_, err = execute(t, "--db", again, "import", writeFile(t, "dump.nq", out))
	require.NoError(t, err)
	roundTrip, err := execute(t, "--db", again, "export")
	require.NoError(t, err)
	assert.Equal(t, out, roundTrip)

	target := filepath.Join(t.TempDir(), "dump.nq")
	out, err = execute(t, "--db", db, "export", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 4 quad(s)")
	assert.FileExists(t, target)
}

func TestMatch(t *testing.T) {
	db := seededDB(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "two variables",
			args: []string{"?s", "<http://ex/name>", "?o"},
			want: "?s=<http://ex/alice>\t?o=\"Alice\"\n?s=<http://ex/bob>\t?o=\"Bob\"\n2 match(es)\n",
		},
		{
			name: "unset graph is the default graph",
			args: []string{"?s", "<http://ex/knows>", "?o"},
			want: "?s=<http://ex/alice>\t?o=<http://ex/bob>\n1 match(es)\n",
		},
		{
			name: "graph variable skips the default graph",
			args: []string{"?s", "<http://ex/knows>", "?o", "?g"},
			want: "?s=<http://ex/alice>\t?o=<http://ex/bob>\t?g=<http://ex/g1>\n1 match(es)\n",
		},
		{
			name: "repeated variable",
			args: []string{"?x", "<http://ex/knows>", "?x"},
			want: "0 match(es)\n",
		},
		{
			name: "ground pattern",
			args: []string{"<http://ex/bob>", "<http://ex/name>", `"Bob"`},
			want: "yes\n1 match(es)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--db", db, "match"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMatchUnique(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "--db", db, "--format", "json", "match", "--unique", "<http://ex/bob>", "<http://ex/name>", "?name")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   MatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"name"}, resp.Data.Variables)
	assert.Equal(t, [][]Binding{{{Variable: "name", Term: `"Bob"`}}}, resp.Data.Matches)

	out, err = execute(t, "--db", db, "match", "--unique", "?s", "?p", "?o")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeAmbiguous+"]")

	out, err = execute(t, "--db", db, "match", "--unique", "<http://ex/carol>", "?p", "?o")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeEmpty+"]")
}

func TestMatchInvalidTerm(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quads.db")

	for _, arg := range []string{"<http://ex/unterminated", "?"} {
		out, err := execute(t, "--db", db, "match", arg, "?p", "?o")
		require.Error(t, err, arg)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error ["+ErrCodeInvalidTerm+"]")
	}
}

func TestFmt(t *testing.T) {
	const want = `{"age":36,"name":"Ada","tags":["math"]}`

	inputs := map[string]string{
		"ada.json": `{"tags": ["math"], "name": "Ada", "age": 36.0}`,
		"ada.yaml": "name: Ada\nage: 36\ntags: [math]\n",
		"ada.cue":  "name: \"Ada\"\nage: 30 + 6\ntags: [\"math\"]\n",
	}
	for name, content := range inputs {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "fmt", writeFile(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, want+"\n", out)
		})
	}

	out, err := execute(t, "--format", "json", "fmt", writeFile(t, "ada.json", inputs["ada.json"]))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":`+want+`}`, out)
}

func TestFmtErrors(t *testing.T) {
	_, err := execute(t, "fmt", writeFile(t, "notes.txt", "hello"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err := execute(t, "fmt", writeFile(t, "bin.yaml", "data: !!binary aGk=\n"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeNonJSON+"]")

	out, err = execute(t, "fmt", "--input-format", "json", writeFile(t, "bad", "{"))
	require.Error(t, err)
	assert.Contains(t, out, "Error ["+ErrCodeParseFailed+"]")
}
