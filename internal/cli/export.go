package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Quads  int    `json:"quads"`
	Output string `json:"output,omitempty"`
	NQuads string `json:"nquads,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the store as an N-Quads document",
		Long: `Write every quad of the store as an N-Quads document, in insertion order.

Example:
  ldlayout export --db ./quads.db -o dump.nq`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore(f)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	var buf bytes.Buffer
	if err := st.WriteNQuads(ctx, &buf); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to export quads", err)
	}
	n, err := st.Len(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to count quads", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("cannot write %s", opts.Output), err)
		}
		f.VerboseLog("Wrote %d quad(s) to %s", n, opts.Output)
		return f.Success(ExportResult{Quads: n, Output: opts.Output},
			fmt.Sprintf("Exported %d quad(s) to %s\n", n, opts.Output))
	}

	if f.Format == "json" {
		return f.Success(ExportResult{Quads: n, NQuads: buf.String()}, "")
	}
	_, err = f.Writer.Write(buf.Bytes())
	return err
}
