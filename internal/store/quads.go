package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/roach88/ldlayout/internal/queryir"
	"github.com/roach88/ldlayout/internal/rdf"
)

// Insert adds q to the store. Inserting a quad that is already present
// is a no-op.
func (s *Store) Insert(ctx context.Context, q rdf.Quad) error {
	return insertQuad(ctx, s.db, q)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertQuad(ctx context.Context, db execer, q rdf.Quad) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO quads (subject, predicate, object, graph)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rdf.EncodeTerm(q.Subject),
		rdf.EncodeTerm(q.Predicate),
		rdf.EncodeTerm(q.Object),
		rdf.EncodeTerm(q.Graph),
	)
	if err != nil {
		return fmt.Errorf("insert quad: %w", err)
	}
	return nil
}

// InsertAll adds quads in a single transaction.
func (s *Store) InsertAll(ctx context.Context, quads []rdf.Quad) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert quads: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, q := range quads {
		if err := insertQuad(ctx, tx, q); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert quads: commit: %w", err)
	}
	return nil
}

// QuadPatternMatching implements rdf.PatternMatchingDataset. Matches come
// back in insertion order.
func (s *Store) QuadPatternMatching(ctx context.Context, p rdf.QuadPattern) ([]rdf.Quad, error) {
	query, params, err := s.compiler.Compile(queryir.FromQuadPattern(quadsTable, p))
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", p, err)
	}
	return s.queryQuads(ctx, query, params...)
}

// Quads returns every quad in insertion order.
func (s *Store) Quads(ctx context.Context) ([]rdf.Quad, error) {
	return s.queryQuads(ctx, `SELECT subject, predicate, object, graph FROM quads ORDER BY id ASC`)
}

// Len returns the number of quads.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quads: %w", err)
	}
	return n, nil
}

func (s *Store) queryQuads(ctx context.Context, query string, params ...any) ([]rdf.Quad, error) {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query quads: %w", err)
	}
	defer rows.Close()

	var quads []rdf.Quad
	for rows.Next() {
		var terms [4]string
		if err := rows.Scan(&terms[0], &terms[1], &terms[2], &terms[3]); err != nil {
			return nil, fmt.Errorf("scan quad: %w", err)
		}
		q, err := decodeQuad(terms)
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quads: %w", err)
	}
	return quads, nil
}

func decodeQuad(terms [4]string) (rdf.Quad, error) {
	var rs [4]rdf.Resource
	for i, t := range terms {
		r, err := rdf.DecodeTerm(t)
		if err != nil {
			return rdf.Quad{}, fmt.Errorf("decode %s: %w", queryir.QuadColumns[i], err)
		}
		rs[i] = r
	}
	return rdf.NewQuad(rs[0], rs[1], rs[2], rs[3]), nil
}

// Load reads an N-Quads document into the store.
func (s *Store) Load(ctx context.Context, r io.Reader) error {
	quads, err := rdf.ReadNQuads(r)
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	return s.InsertAll(ctx, quads)
}

// WriteNQuads writes the store as an N-Quads document.
func (s *Store) WriteNQuads(ctx context.Context, w io.Writer) error {
	quads, err := s.Quads(ctx)
	if err != nil {
		return err
	}
	return rdf.WriteNQuads(w, quads)
}
