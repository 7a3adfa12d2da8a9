// Package graphicator turns parse results into predicate-argument graphs and
// drives the parse-render-graph sequence for a query.
package graphicator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// ErrInvariantViolation is returned when a relation names a head that no
// chunk has.
var ErrInvariantViolation = errors.New("graphicator: invariant violation")

// BuildGraph assembles the PGP of res. Nodes are named from VariableSeed on
// in chunk order. The focus is the node whose head is res.Focus, or the
// first node when the focus word heads no chunk. Errors are returned as an
// *nlp.StageError with StageGraphing.
func BuildGraph(res *nlp.ParseResult) (*nlp.PGP, error) {
	pgp := nlp.NewPGP()
	if res == nil {
		return pgp, nil
	}

	byHead := make(map[int]string, len(res.BaseNounChunks))
	first := ""
	name := VariableSeed
	for i, c := range res.BaseNounChunks {
		if i > 0 {
			name = NextVariableName(name)
		}
		pgp.Nodes[name] = nlp.Node{Head: c.Head, Text: c.Text}
		byHead[c.Head] = name
		if i == 0 {
			first = name
		}
	}

	pgp.Focus = first
	if v, ok := byHead[res.Focus]; ok && res.HasFocus() {
		pgp.Focus = v
	}

	for _, r := range res.Relations {
		subj, ok := byHead[r.Subject]
		if !ok {
			return nil, graphingError(r.Subject)
		}
		obj, ok := byHead[r.Object]
		if !ok {
			return nil, graphingError(r.Object)
		}
		text, err := pathText(res.Tokens, r.Path)
		if err != nil {
			return nil, &nlp.StageError{Stage: nlp.StageGraphing, Err: err}
		}
		pgp.Edges = append(pgp.Edges, nlp.Edge{Subject: subj, Object: obj, Text: text})
	}
	return pgp, nil
}

func graphingError(head int) error {
	return &nlp.StageError{
		Stage: nlp.StageGraphing,
		Err:   fmt.Errorf("%w: relation head %d is not a chunk head", ErrInvariantViolation, head),
	}
}

// pathText joins the surface text of the path tokens with single spaces.
func pathText(tokens []nlp.Token, path []int) (string, error) {
	words := make([]string, len(path))
	for i, idx := range path {
		if idx < 0 || idx >= len(tokens) {
			return "", fmt.Errorf("%w: path token %d out of range", ErrInvariantViolation, idx)
		}
		words[i] = tokens[idx].Text
	}
	return strings.Join(words, " "), nil
}
