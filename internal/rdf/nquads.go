package rdf

import (
	"errors"
	"fmt"
	"io"

	"github.com/cayleygraph/quad/nquads"
)

// ReadNQuads parses an N-Quads document. Literals keep their lexical form;
// see Canonical.
func ReadNQuads(r io.Reader) ([]Quad, error) {
	reader := nquads.NewReader(r, true)
	defer reader.Close()

	var quads []Quad
	for {
		q, err := reader.ReadQuad()
		if errors.Is(err, io.EOF) {
			return quads, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read n-quads (statement %d): %w", len(quads)+1, err)
		}
		quads = append(quads, FromQuad(q))
	}
}

// WriteNQuads writes quads as an N-Quads document.
func WriteNQuads(w io.Writer, quads []Quad) error {
	writer := nquads.NewWriter(w)
	for i, q := range quads {
		if err := writer.WriteQuad(q.ToQuad()); err != nil {
			return fmt.Errorf("write n-quads (statement %d): %w", i+1, err)
		}
	}
	return writer.Close()
}
