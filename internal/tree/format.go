package tree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/ldlayout/internal/value"
)

// Format is a tree document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("cannot infer format of %q: use .json, .yaml or .cue", path)
	}
}

// Parse decodes a document in the given format. name is used in CUE
// error positions.
func Parse(data []byte, format Format, name string) (value.Value, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatCUE:
		return ParseCUE(data, name)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
