package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ldlayout/internal/tree"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	InputFormat string
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a JSON, YAML or CUE document as canonical JSON",
		Long: `Print a tree document as canonical JSON.

Keys are sorted, strings are NFC-normalized and numbers are written in
their shortest exact form. The input format follows the file extension
unless --input-format is given; reading standard input ("-") requires it.

Example:
  ldlayout fmt person.yaml
  cat person.cue | ldlayout fmt --input-format cue -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.InputFormat, "input-format", "", "input format (json|yaml|cue)")

	return cmd
}

func runFmt(opts *FmtOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	format := tree.Format(opts.InputFormat)
	if format == "" {
		var err error
		if format, err = tree.FormatFromPath(path); err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidFlags, "unknown input format", err)
		}
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}

	v, err := tree.Parse(data, format, path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeParseFailed, fmt.Sprintf("cannot parse %s", path), err)
	}

	out, err := tree.MarshalCanonical(v)
	if err != nil {
		var nonJSON *tree.NonJSONValueError
		if errors.As(err, &nonJSON) {
			return f.Fail(ExitFailure, ErrCodeNonJSON, "document has no JSON rendering", err)
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, "cannot encode document", err)
	}
	f.VerboseLog("Formatted %s as %s", path, format)

	return f.Success(json.RawMessage(out), string(out)+"\n")
}
