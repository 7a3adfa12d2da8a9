package parser

import (
	"context"
	"strings"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// Compile-time interface check.
var _ Adapter = (*SpacyAdapter)(nil)

// SpacyAdapter reads spaCy dependency parses delivered as denotations and
// relations. Dependencies are treated as predicate-argument edges from the
// head to the dependent.
type SpacyAdapter struct {
	sharedFocus
	fetcher Fetcher
}

// NewSpacyAdapter returns an adapter that fetches responses through f.
func NewSpacyAdapter(f Fetcher) *SpacyAdapter {
	return &SpacyAdapter{fetcher: f}
}

func (a *SpacyAdapter) Name() string { return NameSpacy }

func (a *SpacyAdapter) GetParse(ctx context.Context, sentence string) ([]nlp.Token, *int, error) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return []nlp.Token{}, nil, nil
	}
	body, err := a.fetcher.Fetch(ctx, sentence)
	if err != nil {
		return nil, nil, err
	}
	return DecodeDenotations(sentence, body)
}

// BaseNounChunks groups runs of noun-chunk tokens; a possessive between two
// of them stays inside the chunk.
func (a *SpacyAdapter) BaseNounChunks(tokens []nlp.Token) []nlp.BaseNounChunk {
	return nlp.SpanTerminatedChunks(tokens)
}
