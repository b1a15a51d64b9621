package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ldlayout/internal/pattern"
	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/value"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Unique bool
}

// Binding is one variable assignment of a match, rendered as an N-Quads
// term.
type Binding struct {
	Variable string `json:"variable"`
	Term     string `json:"term"`
}

// MatchResult is the payload of the match command.
type MatchResult struct {
	Variables []string    `json:"variables"`
	Matches   [][]Binding `json:"matches"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <subject> <predicate> <object> [graph]",
		Short: "Query the store with a quad pattern",
		Long: `Query the store with a quad pattern.

Each position is either a variable (?name) or an N-Quads term such as
<http://ex/alice>, _:b0 or "Alice". A variable used twice must bind the
same term. Without a graph argument the pattern matches the default graph.

With --unique the command fails unless exactly one match exists.

Example:
  ldlayout match ?person '<http://xmlns.com/foaf/0.1/name>' '"Alice"'
  ldlayout match --unique ?s ?p ?o '<http://ex/g1>'`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Unique, "unique", false, "require exactly one match")

	return cmd
}

func runMatch(opts *MatchOptions, args []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	parser := rdf.NewPatternParser()
	p, err := parser.Parse(args)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidTerm, "invalid pattern", err)
	}
	names := parser.Names()
	f.VerboseLog("Pattern %s with %d variable(s)", p, len(names))

	st, err := opts.openStore(f)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	m := pattern.NewMatching(st, nil, pattern.NewSubstitution(uint32(len(names))), []rdf.QuadPattern{p})

	var subs []*pattern.Substitution
	if opts.Unique {
		sub, err := m.RequiredUnique(ctx)
		switch {
		case errors.Is(err, pattern.ErrAmbiguity):
			return f.Fail(ExitFailure, ErrCodeAmbiguous, fmt.Sprintf("pattern %s matches more than once", p), nil)
		case errors.Is(err, pattern.ErrEmpty):
			return f.Fail(ExitFailure, ErrCodeEmpty, fmt.Sprintf("pattern %s matches nothing", p), nil)
		case err != nil:
			return f.Fail(ExitCommandError, ErrCodeStore, "query failed", err)
		}
		subs = []*pattern.Substitution{sub}
	} else {
		subs, err = m.All(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "query failed", err)
		}
	}

	result := MatchResult{Variables: names, Matches: make([][]Binding, 0, len(subs))}
	for _, sub := range subs {
		result.Matches = append(result.Matches, bindings(names, sub))
	}
	slog.Debug("match complete", "pattern", p.String(), "matches", len(subs))

	return f.Success(result, formatMatches(result))
}

func bindings(names []string, sub *pattern.Substitution) []Binding {
	out := make([]Binding, len(names))
	for i, name := range names {
		out[i] = Binding{Variable: name}
		if r, ok := value.AsResource(sub.Get(uint32(i))); ok {
			out[i].Term = rdf.EncodeTerm(r)
		}
	}
	return out
}

func formatMatches(r MatchResult) string {
	var sb strings.Builder
	for _, m := range r.Matches {
		if len(m) == 0 {
			sb.WriteString("yes\n")
			continue
		}
		for i, b := range m {
			if i > 0 {
				sb.WriteByte('\t')
			}
			fmt.Fprintf(&sb, "?%s=%s", b.Variable, b.Term)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d match(es)\n", len(r.Matches))
	return sb.String()
}
