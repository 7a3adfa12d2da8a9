package parser

import (
	"context"
	"strings"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// Compile-time interface check.
var _ Adapter = (*EnjuAdapter)(nil)

// EnjuAdapter reads Enju predicate-argument structures in CoNLL form. Enju
// attaches arguments to modifiers, so a chunk ends at the first head-tag
// token that governs nothing.
type EnjuAdapter struct {
	sharedFocus
	fetcher Fetcher
}

// NewEnjuAdapter returns an adapter that fetches responses through f.
func NewEnjuAdapter(f Fetcher) *EnjuAdapter {
	return &EnjuAdapter{fetcher: f}
}

func (a *EnjuAdapter) Name() string { return NameEnju }

func (a *EnjuAdapter) GetParse(ctx context.Context, sentence string) ([]nlp.Token, *int, error) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return []nlp.Token{}, nil, nil
	}
	body, err := a.fetcher.Fetch(ctx, sentence)
	if err != nil {
		return nil, nil, err
	}
	return DecodeCoNLL(sentence, body)
}

func (a *EnjuAdapter) BaseNounChunks(tokens []nlp.Token) []nlp.BaseNounChunk {
	return nlp.HeadTerminatedChunks(tokens)
}
