// Package mcptools exposes question graphication as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewMCPServer creates an MCP server with the graphication tools registered.
// search_archive is only registered when svc has an archive.
func NewMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "lodqa",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_question",
		Description: "Parse a natural-language question with the configured parser. Returns tokens with predicate-argument edges, the root, the focus word, base noun chunks and the relations between them.",
	}, svc.ParseQuestion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_pgp",
		Description: "Build the pseudo graph pattern of a question: one variable per noun chunk, one edge per relation labeled with the connecting words, and the focus variable.",
	}, svc.BuildPGP)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_parse",
		Description: "Render the token graph of a question as Graphviz DOT or Mermaid, or its pseudo graph pattern as Mermaid.",
	}, svc.RenderParse)

	if svc.HasArchive() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "search_archive",
			Description: "Search archived questions by concept text, newest first. Without a concept, lists the newest archived questions.",
		}, svc.SearchArchive)
	}

	return server
}

// RunStdio serves server on stdio, blocking until stdin is closed or ctx is
// cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves server over streamable HTTP on addr until ctx is cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
