package mcptools

import (
	"time"

	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/nlp"
)

// --- MCP Tool Input/Output Types ---
// The MCP Go SDK derives the JSON schema of each tool from these structs.

// ParseQuestionInput is the input for the parse_question tool.
type ParseQuestionInput struct {
	Query string `json:"query" jsonschema:"the natural-language question to parse"`
}

// ParseQuestionOutput is the result of the parse_question tool.
type ParseQuestionOutput struct {
	Parser string           `json:"parser"`
	Parse  *nlp.ParseResult `json:"parse"`
}

// BuildPGPInput is the input for the build_pgp tool.
type BuildPGPInput struct {
	Query   string `json:"query" jsonschema:"the natural-language question to graphicate"`
	Archive bool   `json:"archive,omitempty" jsonschema:"store the PGP in the archive when one is configured"`
}

// BuildPGPOutput is the result of the build_pgp tool.
type BuildPGPOutput struct {
	PGP       *nlp.PGP `json:"pgp"`
	ArchiveID string   `json:"archiveId,omitempty"`
}

// RenderParseInput is the input for the render_parse tool.
type RenderParseInput struct {
	Query  string `json:"query" jsonschema:"the natural-language question to render"`
	Format string `json:"format,omitempty" jsonschema:"dot (default), mermaid or pgp-mermaid"`
}

// RenderParseOutput is the result of the render_parse tool.
type RenderParseOutput struct {
	Format    string `json:"format"`
	Rendering string `json:"rendering"`
}

// SearchArchiveInput is the input for the search_archive tool.
type SearchArchiveInput struct {
	Concept string `json:"concept,omitempty" jsonschema:"case-insensitive substring of a concept text; empty lists the newest queries"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of queries (default: 20)"`
}

// SearchArchiveOutput is the result of the search_archive tool.
type SearchArchiveOutput struct {
	Queries []ArchivedQuery    `json:"queries"`
	Total   int                `json:"total"`
	Stats   graph.ArchiveStats `json:"stats"`
}

// ArchivedQuery is an archive record with its timestamp in RFC 3339.
type ArchivedQuery struct {
	ID        string              `json:"id"`
	Query     string              `json:"query"`
	Parser    string              `json:"parser"`
	Focus     string              `json:"focus,omitempty"`
	CreatedAt string              `json:"createdAt"`
	Concepts  []graph.ConceptNode `json:"concepts"`
	Links     []graph.ConceptLink `json:"links"`
}

func toArchivedQuery(rec graph.QueryRecord) ArchivedQuery {
	q := ArchivedQuery{
		ID:        rec.ID,
		Query:     rec.Query,
		Parser:    rec.Parser,
		Focus:     rec.Focus,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339Nano),
		Concepts:  rec.Concepts,
		Links:     rec.Links,
	}
	if q.Concepts == nil {
		q.Concepts = []graph.ConceptNode{}
	}
	if q.Links == nil {
		q.Links = []graph.ConceptLink{}
	}
	return q
}
