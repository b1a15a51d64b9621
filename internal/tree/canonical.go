package tree

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/ldlayout/internal/value"
)

// NonJSONValueError reports a value that has no JSON representation.
type NonJSONValueError struct {
	Value value.Value
}

func (e *NonJSONValueError) Error() string {
	return fmt.Sprintf("value %s has no JSON representation", e.Value)
}

// MarshalCanonical produces canonical JSON for v.
//
// Differences from encoding/json:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. Numbers are exact decimals
func MarshalCanonical(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, v value.Value) error {
	switch val := v.(type) {
	case value.Unit:
		buf.WriteString("null")
	case value.Boolean:
		buf.WriteString(val.String())
	case value.Number:
		buf.WriteString(val.Text())
	case value.Text:
		writeCanonicalString(buf, string(val))
	case value.List:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, item); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case *value.Map:
		return marshalCanonicalObject(buf, val)
	default:
		return &NonJSONValueError{Value: v}
	}
	return nil
}

type objectEntry struct {
	key   string
	units []uint16
	value value.Value
}

func marshalCanonicalObject(buf *bytes.Buffer, m *value.Map) error {
	entries := make([]objectEntry, 0, m.Len())
	for _, e := range m.Entries() {
		k, ok := e.Key.(value.Text)
		if !ok {
			return &NonJSONValueError{Value: m}
		}
		key := norm.NFC.String(string(k))
		entries = append(entries, objectEntry{key: key, units: utf16.Encode([]rune(key)), value: e.Value})
	}

	// RFC 8785 UTF-16 code unit ordering
	slices.SortFunc(entries, func(a, b objectEntry) int {
		return slices.Compare(a.units, b.units)
	})

	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, e.key)
		buf.WriteByte(':')
		if err := marshalCanonical(buf, e.value); err != nil {
			return fmt.Errorf("value for key %q: %w", e.key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeCanonicalString writes s NFC-normalized. Only control characters,
// backslash and quote are escaped.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xf])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
