package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Aequivinius/lodqa/internal/export"
	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/graphicator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Rendering formats accepted by render_parse.
const (
	FormatDOT        = "dot"
	FormatMermaid    = "mermaid"
	FormatPGPMermaid = "pgp-mermaid"
)

const defaultSearchLimit = 20

// GraphService holds the graphicator and the optional archive used by the
// MCP tool handlers.
type GraphService struct {
	g       *graphicator.Graphicator
	archive graph.Store
}

// NewGraphService creates a GraphService. archive may be nil.
func NewGraphService(g *graphicator.Graphicator, archive graph.Store) *GraphService {
	return &GraphService{g: g, archive: archive}
}

// HasArchive reports whether search_archive can be served.
func (s *GraphService) HasArchive() bool {
	return s.archive != nil
}

// ParseQuestion parses a question and returns the full parse. A blank
// question yields an empty parse.
func (s *GraphService) ParseQuestion(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseQuestionInput,
) (*mcp.CallToolResult, ParseQuestionOutput, error) {
	res, err := s.g.Parse(ctx, input.Query)
	if err != nil {
		return nil, ParseQuestionOutput{}, fmt.Errorf("parse: %w", err)
	}
	return nil, ParseQuestionOutput{Parser: s.g.ParserName(), Parse: res}, nil
}

// BuildPGP builds the pseudo graph pattern of a question, archiving it on
// request.
func (s *GraphService) BuildPGP(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildPGPInput,
) (*mcp.CallToolResult, BuildPGPOutput, error) {
	res, err := s.g.Parse(ctx, input.Query)
	if err != nil {
		return nil, BuildPGPOutput{}, fmt.Errorf("parse: %w", err)
	}
	pgp, err := graphicator.BuildGraph(res)
	if err != nil {
		return nil, BuildPGPOutput{}, fmt.Errorf("build pgp: %w", err)
	}

	out := BuildPGPOutput{PGP: pgp}
	if input.Archive {
		if s.archive == nil {
			return nil, BuildPGPOutput{}, errors.New("no archive configured")
		}
		rec := graphicator.Record(s.g.ParserName(), res, pgp)
		if err := s.archive.AddQuery(ctx, rec); err != nil {
			return nil, BuildPGPOutput{}, fmt.Errorf("archive: %w", err)
		}
		out.ArchiveID = rec.ID
	}
	return nil, out, nil
}

// RenderParse renders the token graph or the PGP of a question.
func (s *GraphService) RenderParse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderParseInput,
) (*mcp.CallToolResult, RenderParseOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = FormatDOT
	}

	res, err := s.g.Parse(ctx, input.Query)
	if err != nil {
		return nil, RenderParseOutput{}, fmt.Errorf("parse: %w", err)
	}

	out := RenderParseOutput{Format: format}
	switch format {
	case FormatDOT:
		out.Rendering = export.DOT(res)
	case FormatMermaid:
		out.Rendering = export.Mermaid(res)
	case FormatPGPMermaid:
		pgp, err := graphicator.BuildGraph(res)
		if err != nil {
			return nil, RenderParseOutput{}, fmt.Errorf("build pgp: %w", err)
		}
		out.Rendering = export.PGPMermaid(pgp)
	default:
		return nil, RenderParseOutput{}, fmt.Errorf("unknown format %q (want %s, %s or %s)", input.Format, FormatDOT, FormatMermaid, FormatPGPMermaid)
	}
	return nil, out, nil
}

// SearchArchive lists archived queries, optionally filtered by concept text.
func (s *GraphService) SearchArchive(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchArchiveInput,
) (*mcp.CallToolResult, SearchArchiveOutput, error) {
	if s.archive == nil {
		return nil, SearchArchiveOutput{}, errors.New("no archive configured")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var (
		recs []graph.QueryRecord
		err  error
	)
	if c := strings.TrimSpace(input.Concept); c != "" {
		recs, err = s.archive.FindByConcept(ctx, c, limit)
	} else {
		recs, err = s.archive.ListQueries(ctx, limit)
	}
	if err != nil {
		return nil, SearchArchiveOutput{}, fmt.Errorf("search archive: %w", err)
	}
	queries := make([]ArchivedQuery, len(recs))
	for i, rec := range recs {
		queries[i] = toArchivedQuery(rec)
	}

	stats, err := s.archive.Stats(ctx)
	if err != nil {
		return nil, SearchArchiveOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, SearchArchiveOutput{Queries: queries, Total: len(queries), Stats: *stats}, nil
}
