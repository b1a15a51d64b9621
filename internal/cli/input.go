package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// readInput reads the named file, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
