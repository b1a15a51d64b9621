package queryir

import "github.com/roach88/ldlayout/internal/rdf"

// Quad table columns.
const (
	ColumnSubject   = "subject"
	ColumnPredicate = "predicate"
	ColumnObject    = "object"
	ColumnGraph     = "graph"
)

// QuadColumns lists the term columns in component order.
var QuadColumns = []string{ColumnSubject, ColumnPredicate, ColumnObject, ColumnGraph}

// FromQuadPattern builds the Select returning the quads of table that
// match p. An unset graph component selects the default graph.
func FromQuadPattern(table string, p rdf.QuadPattern) Select {
	terms := [4]rdf.TermPattern{p.Subject, p.Predicate, p.Object, p.Graph}

	var preds []Predicate
	firstUse := make(map[uint32]string)
	for i, t := range terms {
		column := QuadColumns[i]
		switch {
		case t.IsVar():
			x, _ := t.Variable()
			if prev, ok := firstUse[x]; ok {
				preds = append(preds, SameAs{Left: prev, Right: column})
			} else {
				firstUse[x] = column
			}
		case t.IsSet() || column == ColumnGraph:
			preds = append(preds, Equals{Field: column, Value: rdf.EncodeTerm(t.Resource())})
		}
	}

	sel := Select{From: table, Columns: QuadColumns}
	switch len(preds) {
	case 0:
	case 1:
		sel.Filter = preds[0]
	default:
		sel.Filter = And{Predicates: preds}
	}
	return sel
}
