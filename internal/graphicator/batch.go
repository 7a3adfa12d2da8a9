package graphicator

import (
	"context"

	"github.com/Aequivinius/lodqa/internal/nlp"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one query of a batch.
type BatchResult struct {
	Query string           `json:"query"`
	Parse *nlp.ParseResult `json:"parse,omitempty"`
	PGP   *nlp.PGP         `json:"pgp,omitempty"`
	Err   error            `json:"-"`
}

// Batch graphicates queries concurrently, at most limit at a time (no bound
// when limit <= 0). Results are in input order. A failing query records its
// error in its result and does not stop the others; only cancellation of ctx
// ends the batch early, in which case the remaining results carry ctx.Err().
func (g *Graphicator) Batch(ctx context.Context, queries []string, limit int) []BatchResult {
	results := make([]BatchResult, len(queries))
	var eg errgroup.Group
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, q := range queries {
		results[i].Query = q
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := g.coord.Parse(ctx, q)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Parse = res
			pgp, err := BuildGraph(res)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].PGP = pgp
			return nil
		})
	}

	_ = eg.Wait()
	return results
}
