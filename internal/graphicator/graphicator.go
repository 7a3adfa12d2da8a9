package graphicator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aequivinius/lodqa/internal/export"
	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/nlp"
	"github.com/Aequivinius/lodqa/internal/parser"
)

// Names of the events a Run pushes.
const (
	EventParseRendering = "parse_rendering"
	EventAnchoredPGP    = "anchored_pgp"
)

// PushFunc receives intermediate results of a Run as they become available.
// The payload of EventParseRendering is a ParseRendering, the payload of
// EventAnchoredPGP an *nlp.PGP. A returned error aborts the run.
type PushFunc func(ctx context.Context, event string, payload any) error

// ParseRendering pairs a parse with its token-graph rendering.
type ParseRendering struct {
	Rendering string           `json:"rendering"`
	Parse     *nlp.ParseResult `json:"parse"`
}

// Result is everything a Run produced for one query.
type Result struct {
	Query     string           `json:"query"`
	Parse     *nlp.ParseResult `json:"parse"`
	PGP       *nlp.PGP         `json:"pgp"`
	Rendering string           `json:"rendering"`
	ArchiveID string           `json:"archiveId,omitempty"`
}

// Graphicator parses questions and builds their PGPs. It holds no per-query
// state; one instance serves concurrent queries.
type Graphicator struct {
	coord   *parser.Coordinator
	archive graph.Store
	logger  *slog.Logger
}

// Option configures a Graphicator.
type Option func(*Graphicator)

// WithArchive stores every PGP built by Run in s.
func WithArchive(s graph.Store) Option {
	return func(g *Graphicator) {
		g.archive = s
	}
}

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graphicator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Graphicator over coord.
func New(coord *parser.Coordinator, opts ...Option) *Graphicator {
	g := &Graphicator{
		coord:  coord,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ParserName returns the name of the parser vendor in use.
func (g *Graphicator) ParserName() string {
	return g.coord.Adapter().Name()
}

// Parse parses query.
func (g *Graphicator) Parse(ctx context.Context, query string) (*nlp.ParseResult, error) {
	return g.coord.Parse(ctx, query)
}

// PGP parses query and builds its graph.
func (g *Graphicator) PGP(ctx context.Context, query string) (*nlp.PGP, error) {
	res, err := g.coord.Parse(ctx, query)
	if err != nil {
		return nil, err
	}
	return BuildGraph(res)
}

// Rendering returns the DOT rendering of the token graph of res.
func (g *Graphicator) Rendering(res *nlp.ParseResult) string {
	return export.DOT(res)
}

// Run parses query, pushes the parse with its rendering, builds the PGP,
// archives it when an archive is configured and pushes it. push may be nil.
func (g *Graphicator) Run(ctx context.Context, query string, push PushFunc) (*Result, error) {
	if push == nil {
		push = func(context.Context, string, any) error { return nil }
	}

	res, err := g.coord.Parse(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &Result{Query: res.Sentence, Parse: res, Rendering: g.Rendering(res)}

	if err := push(ctx, EventParseRendering, ParseRendering{Rendering: out.Rendering, Parse: res}); err != nil {
		return nil, fmt.Errorf("graphicator: push %s: %w", EventParseRendering, err)
	}

	pgp, err := BuildGraph(res)
	if err != nil {
		return nil, err
	}
	out.PGP = pgp

	if g.archive != nil {
		rec := Record(g.ParserName(), res, pgp)
		if err := g.archive.AddQuery(ctx, rec); err != nil {
			g.logger.Warn("archive pgp failed", "query", res.Sentence, "error", err)
		} else {
			out.ArchiveID = rec.ID
		}
	}

	if err := push(ctx, EventAnchoredPGP, pgp); err != nil {
		return nil, fmt.Errorf("graphicator: push %s: %w", EventAnchoredPGP, err)
	}
	return out, nil
}
