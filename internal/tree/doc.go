// Package tree reads tree values from JSON, YAML and CUE documents and
// writes them as canonical JSON.
//
// Canonical JSON follows RFC 8785 key ordering (UTF-16 code units),
// normalizes strings to NFC and never escapes HTML characters. Numbers are
// written exactly, in plain decimal notation. Values without a JSON
// counterpart (resources, byte strings, maps with non-text keys) are
// rejected with a *NonJSONValueError.
package tree
