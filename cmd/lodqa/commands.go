package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Aequivinius/lodqa/internal/app"
	"github.com/Aequivinius/lodqa/internal/export"
	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/graphicator"
	"github.com/Aequivinius/lodqa/internal/mcptools"
	"github.com/Aequivinius/lodqa/internal/push"
)

func question(args []string) (string, error) {
	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		return "", errors.New("a question is required")
	}
	return q, nil
}

func runParse(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	withPGP := fs.Bool("pgp", false, "include the pseudo graph pattern")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := question(fs.Args())
	if err != nil {
		return err
	}

	var (
		doc *export.Document
		g   = a.Graphicator
	)
	if *withPGP {
		res, err := g.Run(ctx, q, nil)
		if err != nil {
			return err
		}
		doc = export.NewDocument(g.ParserName(), res.Parse, res.PGP)
		doc.Rendering = res.Rendering
	} else {
		res, err := g.Parse(ctx, q)
		if err != nil {
			return err
		}
		doc = export.NewDocument(g.ParserName(), res, nil)
		doc.Rendering = g.Rendering(res)
	}
	return export.WriteJSON(stdout, doc)
}

// runPGP prints the PGP of each question given as argument, or of each
// non-blank stdin line when there are no arguments. Several questions run as
// a batch.
func runPGP(ctx context.Context, a *app.App, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("pgp", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	queries := fs.Args()
	if len(queries) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				queries = append(queries, line)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read questions: %w", err)
		}
	}

	switch len(queries) {
	case 0:
		return errors.New("a question is required")
	case 1:
		res, err := a.Graphicator.Run(ctx, queries[0], nil)
		if err != nil {
			return err
		}
		return export.WriteJSON(stdout, res.PGP)
	}

	results := a.Graphicator.Batch(ctx, queries, a.Config.Batch.Concurrency)
	type item struct {
		Query string `json:"query"`
		PGP   any    `json:"pgp,omitempty"`
		Error string `json:"error,omitempty"`
	}
	items := make([]item, len(results))
	failed := 0
	for i, r := range results {
		items[i] = item{Query: r.Query}
		if r.Err != nil {
			items[i].Error = r.Err.Error()
			failed++
			a.Logger.Warn("graphication failed", "query", r.Query, "error", r.Err)
			continue
		}
		items[i].PGP = r.PGP
	}
	if err := export.WriteJSON(stdout, items); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d questions failed", failed, len(results))
	}
	return nil
}

func runRender(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	format := fs.String("format", "dot", "dot, mermaid or pgp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := question(fs.Args())
	if err != nil {
		return err
	}

	res, err := a.Graphicator.Parse(ctx, q)
	if err != nil {
		return err
	}

	var out string
	switch strings.ToLower(*format) {
	case "dot":
		out = export.DOT(res)
	case "mermaid":
		out = export.Mermaid(res)
	case "pgp":
		pgp, err := graphicator.BuildGraph(res)
		if err != nil {
			return err
		}
		out = export.PGPMermaid(pgp)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if out == "" {
		return errors.New("no rendering: the parser found no root")
	}
	_, err = io.WriteString(stdout, out)
	return err
}

func runServe(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.Config.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []push.ServerOption{
		push.WithServerLogger(a.Logger),
		push.WithBatchLimit(a.Config.Batch.Concurrency),
	}
	if a.Archive != nil {
		opts = append(opts, push.WithArchive(a.Archive))
	}
	srv := push.NewServer(a.Graphicator, opts...)
	if err := srv.Start(ctx, *addr); err != nil {
		return err
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func runServeMCP(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	httpAddr := fs.String("http", "", "serve streamable HTTP on this address instead of stdio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server := mcptools.NewMCPServer(mcptools.NewGraphService(a.Graphicator, a.Archive))
	if *httpAddr != "" {
		a.Logger.Info("mcp server listening", "addr", *httpAddr)
		return mcptools.RunHTTP(ctx, server, *httpAddr)
	}
	return mcptools.RunStdio(ctx, server)
}

func runArchive(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	concept := fs.String("concept", "", "only queries with a concept containing this text")
	id := fs.String("id", "", "print one archived query as JSON")
	limit := fs.Int("limit", 20, "maximum number of queries (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.Archive == nil {
		return errors.New("no archive configured (set store.kind)")
	}

	if *id != "" {
		rec, err := a.Archive.GetQuery(ctx, *id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("query %q not found", *id)
		}
		return export.WriteJSON(stdout, rec)
	}

	var (
		recs []graph.QueryRecord
		err  error
	)
	if *concept != "" {
		recs, err = a.Archive.FindByConcept(ctx, *concept, *limit)
	} else {
		recs, err = a.Archive.ListQueries(ctx, *limit)
	}
	if err != nil {
		return err
	}
	return printRecords(stdout, recs)
}

func printRecords(w io.Writer, recs []graph.QueryRecord) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No archived queries.")
		return err
	}
	for _, r := range recs {
		concepts := make([]string, len(r.Concepts))
		for i, c := range r.Concepts {
			concepts[i] = c.Text
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %-6s %s\n    concepts: %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Parser, r.Query, strings.Join(concepts, ", ")); err != nil {
			return err
		}
	}
	return nil
}
