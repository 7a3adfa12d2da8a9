package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/graphicator"
	"github.com/Aequivinius/lodqa/internal/nlp"
	"github.com/Aequivinius/lodqa/internal/parser"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Server exposes a Graphicator over HTTP.
//
//	GET  /healthz               liveness and parser name
//	GET  /parse?query=&stream=1 Run result as JSON, or as an event stream
//	POST /pgp                   PGP of {"query"} or batch of {"queries"}
//	GET  /archive?concept=      archived queries, when an archive is set
//	GET  /archive/{id}          one archived query
type Server struct {
	g          *graphicator.Graphicator
	archive    graph.Store
	logger     *slog.Logger
	batchLimit int

	http     *http.Server
	listener net.Listener
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithArchive serves the archive endpoints from s.
func WithArchive(s graph.Store) ServerOption {
	return func(srv *Server) {
		srv.archive = s
	}
}

// WithServerLogger sets the request logger. The default is slog.Default.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// WithBatchLimit bounds how many queries of one batch request run at once.
func WithBatchLimit(n int) ServerOption {
	return func(srv *Server) {
		srv.batchLimit = n
	}
}

// NewServer creates a server for g.
func NewServer(g *graphicator.Graphicator, opts ...ServerOption) *Server {
	s := &Server{
		g:          g,
		logger:     slog.Default(),
		batchLimit: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /parse", s.handleParse)
	mux.HandleFunc("POST /pgp", s.handlePGP)
	mux.HandleFunc("GET /archive", s.handleArchiveList)
	mux.HandleFunc("GET /archive/{id}", s.handleArchiveGet)
	return s.logRequests(mux)
}

// Start listens on addr and serves in a background goroutine.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("push: listen %s: %w", addr, err)
	}
	s.listener = ln
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("push server stopped", "error", err)
		}
	}()
	s.logger.Info("push server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"parser": s.g.ParserName(),
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, errors.New("query is required"))
		return
	}

	if !wantsStream(r) {
		res, err := s.g.Run(r.Context(), query, nil)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	sw := NewSSEWriter(w)
	sw.Init()
	if _, err := s.g.Run(r.Context(), query, sw.Push(query)); err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.logger.Warn("graphication failed", "query", query, "error", err)
		m, merr := NewMessage(EventError, query, errorData(err))
		if merr == nil {
			_ = sw.WriteMessage(m)
		}
	}
}

type pgpRequest struct {
	Query   string   `json:"query"`
	Queries []string `json:"queries"`
}

type batchItem struct {
	Query string   `json:"query"`
	PGP   *nlp.PGP `json:"pgp,omitempty"`
	Error string   `json:"error,omitempty"`
}

func (s *Server) handlePGP(w http.ResponseWriter, r *http.Request) {
	var req pgpRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	if len(req.Queries) > 0 {
		results := s.g.Batch(r.Context(), req.Queries, s.batchLimit)
		items := make([]batchItem, len(results))
		for i, res := range results {
			items[i] = batchItem{Query: res.Query, PGP: res.PGP}
			if res.Err != nil {
				items[i].Error = res.Err.Error()
			}
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, errors.New("query or queries is required"))
		return
	}
	pgp, err := s.g.PGP(r.Context(), req.Query)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, pgp)
}

func (s *Server) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no archive configured"))
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	var (
		recs []graph.QueryRecord
		err  error
	)
	if concept := strings.TrimSpace(r.URL.Query().Get("concept")); concept != "" {
		recs, err = s.archive.FindByConcept(r.Context(), concept, limit)
	} else {
		recs, err = s.archive.ListQueries(r.Context(), limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleArchiveGet(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no archive configured"))
		return
	}
	rec, err := s.archive.GetQuery(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("query %q not found", r.PathValue("id")))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func wantsStream(r *http.Request) bool {
	if v := r.URL.Query().Get("stream"); v == "1" || v == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// statusFor maps a graphication error to an HTTP status. Parser service
// failures are reported as bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parser.ErrUpstreamUnavailable),
		errors.Is(err, parser.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, parser.ErrEmptyParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func errorData(err error) ErrorData {
	d := ErrorData{Message: err.Error()}
	var se *nlp.StageError
	if errors.As(err, &se) {
		d.Stage = string(se.Stage)
	}
	return d
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": errorData(err)})
}
