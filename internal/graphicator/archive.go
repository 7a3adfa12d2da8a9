package graphicator

import (
	"sort"
	"time"

	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/nlp"
	"github.com/google/uuid"
)

// now is replaced in tests.
var now = time.Now

// Record converts a parse and its PGP into an archive record with a fresh
// ID. Concepts are ordered by head, links keep edge order.
func Record(parserName string, res *nlp.ParseResult, pgp *nlp.PGP) graph.QueryRecord {
	rec := graph.QueryRecord{
		ID:        uuid.NewString(),
		Parser:    parserName,
		CreatedAt: now().UTC(),
		Concepts:  []graph.ConceptNode{},
		Links:     []graph.ConceptLink{},
	}
	if res != nil {
		rec.Query = res.Sentence
	}
	if pgp == nil {
		return rec
	}

	rec.Focus = pgp.Focus
	for v, n := range pgp.Nodes {
		rec.Concepts = append(rec.Concepts, graph.ConceptNode{Var: v, Head: n.Head, Text: n.Text})
	}
	sort.Slice(rec.Concepts, func(i, j int) bool {
		return rec.Concepts[i].Head < rec.Concepts[j].Head
	})
	for _, e := range pgp.Edges {
		rec.Links = append(rec.Links, graph.ConceptLink{Subject: e.Subject, Object: e.Object, Text: e.Text})
	}
	return rec
}

// FromRecord rebuilds the PGP stored in rec.
func FromRecord(rec graph.QueryRecord) *nlp.PGP {
	pgp := nlp.NewPGP()
	for _, c := range rec.Concepts {
		pgp.Nodes[c.Var] = nlp.Node{Head: c.Head, Text: c.Text}
	}
	for _, l := range rec.Links {
		pgp.Edges = append(pgp.Edges, nlp.Edge{Subject: l.Subject, Object: l.Object, Text: l.Text})
	}
	pgp.Focus = rec.Focus
	return pgp
}
