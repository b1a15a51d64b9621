package cli

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ldlayout/internal/rdf"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	KeepBlankNodes bool
}

// ImportResult is the payload of the import command.
type ImportResult struct {
	File       string `json:"file"`
	Read       int    `json:"read"`
	Inserted   int    `json:"inserted"`
	Total      int    `json:"total"`
	BlankNodes int    `json:"blank_nodes"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.nq>",
		Short: "Load an N-Quads document into the store",
		Long: `Load an N-Quads document into the store.

Quads already in the store are skipped. Use "-" to read standard input.

Blank nodes of the document are renamed with labels from the configured
generator (blank_nodes in the config file) that the store does not use yet,
so importing twice yields two copies of every blank node. Pass
--keep-blank-nodes to store the document's labels as they are.

Example:
  ldlayout import --db ./quads.db people.nq`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.KeepBlankNodes, "keep-blank-nodes", false, "keep the document's blank node labels")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	data, err := readInput(cmd, path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}
	quads, err := rdf.ReadNQuads(bytes.NewReader(data))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeParseFailed, fmt.Sprintf("cannot parse %s", path), err)
	}
	f.VerboseLog("Read %d quad(s) from %s", len(quads), path)

	st, err := opts.openStore(f)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	before, err := st.Len(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to count quads", err)
	}
	blankNodes := len(rdf.BlankNodeLabels(quads))
	if !opts.KeepBlankNodes && blankNodes > 0 {
		existing, err := st.Quads(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to read blank nodes", err)
		}
		interp := opts.Config.Interpretation()
		interp.Reserve(rdf.BlankNodeLabels(existing)...)
		quads = rdf.RelabelBlankNodes(interp, quads)
		f.VerboseLog("Renamed %d blank node(s)", blankNodes)
	}

	if err := st.InsertAll(ctx, quads); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to insert quads", err)
	}
	after, err := st.Len(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to count quads", err)
	}

	result := ImportResult{File: path, Read: len(quads), Inserted: after - before, Total: after, BlankNodes: blankNodes}
	slog.Info("import complete", "file", path, "read", result.Read, "inserted", result.Inserted)
	return f.Success(result, fmt.Sprintf("Imported %d of %d quad(s) from %s (%d in store)\n",
		result.Inserted, result.Read, path, result.Total))
}
