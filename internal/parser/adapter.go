// Package parser turns the responses of remote natural-language parsers into
// the canonical token sequence of package nlp and runs the parse pipeline on
// top of it.
package parser

import (
	"context"
	"regexp"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// Adapter is one parser vendor. GetParse talks to the vendor and decodes its
// answer; BaseNounChunks and Focus apply the vendor's heuristics to the
// decoded tokens.
type Adapter interface {
	// Name returns the registry name of the vendor.
	Name() string

	// GetParse parses a single sentence. A blank sentence yields no tokens,
	// a nil root and no error without contacting the vendor.
	GetParse(ctx context.Context, sentence string) ([]nlp.Token, *int, error)

	BaseNounChunks(tokens []nlp.Token) []nlp.BaseNounChunk
	Focus(tokens []nlp.Token, chunks []nlp.BaseNounChunk) int
}

// Fetcher retrieves the raw vendor response for a sentence.
type Fetcher interface {
	Fetch(ctx context.Context, sentence string) ([]byte, error)
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context, sentence string) ([]byte, error)

func (f FetchFunc) Fetch(ctx context.Context, sentence string) ([]byte, error) {
	return f(ctx, sentence)
}

// sharedFocus is embedded by every vendor; focus resolution works on the
// canonical tokens only.
type sharedFocus struct{}

func (sharedFocus) Focus(tokens []nlp.Token, chunks []nlp.BaseNounChunk) int {
	return nlp.ResolveFocus(tokens, chunks)
}

var emptyLineMarker = regexp.MustCompile(`(?m)^Empty line`)

// reportsEmptyLine reports whether a vendor body signals that nothing could
// be parsed.
func reportsEmptyLine(body []byte) bool {
	return emptyLineMarker.Match(body)
}
