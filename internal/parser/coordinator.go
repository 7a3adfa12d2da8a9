package parser

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// Coordinator runs one sentence through an adapter and the chunk, focus and
// relation steps. It keeps no per-call state and is safe for concurrent use
// when its adapter is.
type Coordinator struct {
	adapter Adapter
	logger  *slog.Logger
}

// NewCoordinator returns a coordinator over adapter. A nil logger uses
// slog.Default.
func NewCoordinator(adapter Adapter, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{adapter: adapter, logger: logger}
}

// Adapter returns the vendor adapter in use.
func (c *Coordinator) Adapter() Adapter {
	return c.adapter
}

// Parse parses sentence into a ParseResult. Adapter failures are returned as
// an *nlp.StageError with StageAdapter wrapping the adapter's error.
func (c *Coordinator) Parse(ctx context.Context, sentence string) (*nlp.ParseResult, error) {
	tokens, root, err := c.adapter.GetParse(ctx, sentence)
	if err != nil {
		return nil, &nlp.StageError{Stage: nlp.StageAdapter, Err: err}
	}
	if tokens == nil {
		tokens = []nlp.Token{}
	}

	chunks := c.adapter.BaseNounChunks(tokens)
	if chunks == nil {
		chunks = []nlp.BaseNounChunk{}
	}
	res := &nlp.ParseResult{
		Sentence:       strings.TrimSpace(sentence),
		Tokens:         tokens,
		Root:           root,
		Focus:          c.adapter.Focus(tokens, chunks),
		BaseNounChunks: chunks,
		Relations:      nlp.ExtractRelations(tokens, chunks),
	}

	c.logger.Debug("sentence parsed",
		"parser", c.adapter.Name(),
		"tokens", len(res.Tokens),
		"chunks", len(res.BaseNounChunks),
		"relations", len(res.Relations),
		"focus", res.Focus,
	)
	return res, nil
}
