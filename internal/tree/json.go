package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/ldlayout/internal/value"
)

// ParseJSON decodes a JSON document. Numbers are kept exact.
func ParseJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse json: trailing data after document")
	}
	return fromJSON(raw)
}

func fromJSON(raw any) (value.Value, error) {
	switch v := raw.(type) {
	case nil:
		return value.Unit{}, nil
	case bool:
		return value.Boolean(v), nil
	case json.Number:
		return value.ParseNumber(v.String())
	case string:
		return value.Text(v), nil
	case []any:
		out := make(value.List, len(v))
		for i, item := range v {
			x, err := fromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = x
		}
		return out, nil
	case map[string]any:
		out := value.NewMap()
		for k, item := range v {
			x, err := fromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out.Insert(value.Text(k), x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported json value %T", raw)
	}
}
