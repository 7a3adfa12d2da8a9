//go:build cgo

package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
//
// Each record becomes a Query node linked to one Concept node per PGP node
// through HAS_CONCEPT; PGP edges become RELATED relationships between the
// concepts, carrying the path text and their position.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection

	// mu serializes writers; a transaction belongs to the whole connection.
	mu sync.Mutex
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the leaf directory itself.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Query(
		id STRING,
		text STRING,
		parser STRING,
		focus STRING,
		created_at INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Concept(
		id STRING,
		var STRING,
		head INT64,
		text STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_CONCEPT(FROM Query TO Concept)`,
	`CREATE REL TABLE IF NOT EXISTS RELATED(FROM Concept TO Concept, text STRING, ord INT64)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddQuery inserts the Query node, its concepts and their links in one
// transaction. A failed insert leaves nothing of the record behind.
func (s *KuzuStore) AddQuery(ctx context.Context, rec QueryRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetQuery(ctx, rec.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateQuery
	}

	if err := s.exec("BEGIN TRANSACTION", nil); err != nil {
		return fmt.Errorf("kuzu: begin: %w", err)
	}
	if err := s.writeQuery(rec); err != nil {
		if rbErr := s.exec("ROLLBACK", nil); rbErr != nil {
			return errors.Join(err, fmt.Errorf("kuzu: rollback: %w", rbErr))
		}
		return err
	}
	if err := s.exec("COMMIT", nil); err != nil {
		return fmt.Errorf("kuzu: commit: %w", err)
	}
	return nil
}

func (s *KuzuStore) writeQuery(rec QueryRecord) error {
	err := s.exec(
		"CREATE (q:Query {id: $id, text: $text, parser: $parser, focus: $focus, created_at: $at})",
		map[string]any{
			"id":     rec.ID,
			"text":   rec.Query,
			"parser": rec.Parser,
			"focus":  rec.Focus,
			"at":     rec.CreatedAt.UnixNano(),
		},
	)
	if err != nil {
		return err
	}

	for _, c := range rec.Concepts {
		err := s.exec(
			`MATCH (q:Query {id: $qid})
			 CREATE (q)-[:HAS_CONCEPT]->(:Concept {id: $id, var: $var, head: $head, text: $text})`,
			map[string]any{
				"qid":  rec.ID,
				"id":   conceptID(rec.ID, c.Var),
				"var":  c.Var,
				"head": int64(c.Head),
				"text": c.Text,
			},
		)
		if err != nil {
			return err
		}
	}

	for i, l := range rec.Links {
		err := s.exec(
			`MATCH (a:Concept {id: $src}), (b:Concept {id: $dst})
			 CREATE (a)-[:RELATED {text: $text, ord: $ord}]->(b)`,
			map[string]any{
				"src":  conceptID(rec.ID, l.Subject),
				"dst":  conceptID(rec.ID, l.Object),
				"text": l.Text,
				"ord":  int64(i),
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ---------- Read operations ----------

// GetQuery retrieves a record by ID, or returns nil if not found.
func (s *KuzuStore) GetQuery(_ context.Context, id string) (*QueryRecord, error) {
	rows, err := s.query(
		"MATCH (q:Query {id: $id}) RETURN q.id, q.text, q.parser, q.focus, q.created_at",
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	rec := &QueryRecord{
		ID:        toString(r[0]),
		Query:     toString(r[1]),
		Parser:    toString(r[2]),
		Focus:     toString(r[3]),
		CreatedAt: time.Unix(0, toInt64(r[4])).UTC(),
		Concepts:  []ConceptNode{},
		Links:     []ConceptLink{},
	}

	conceptRows, err := s.query(
		`MATCH (q:Query {id: $id})-[:HAS_CONCEPT]->(c:Concept)
		 RETURN c.var, c.head, c.text ORDER BY c.head`,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	for _, cr := range conceptRows {
		rec.Concepts = append(rec.Concepts, ConceptNode{
			Var:  toString(cr[0]),
			Head: toInt(cr[1]),
			Text: toString(cr[2]),
		})
	}

	linkRows, err := s.query(
		`MATCH (q:Query {id: $id})-[:HAS_CONCEPT]->(a:Concept)-[r:RELATED]->(b:Concept)
		 RETURN a.var, b.var, r.text ORDER BY r.ord`,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	for _, lr := range linkRows {
		rec.Links = append(rec.Links, ConceptLink{
			Subject: toString(lr[0]),
			Object:  toString(lr[1]),
			Text:    toString(lr[2]),
		})
	}
	return rec, nil
}

// ListQueries returns up to limit records, most recent first.
func (s *KuzuStore) ListQueries(ctx context.Context, limit int) ([]QueryRecord, error) {
	cypher := "MATCH (q:Query) RETURN q.id ORDER BY q.created_at DESC"
	params := map[string]any{}
	if limit > 0 {
		cypher += " LIMIT $lim"
		params["lim"] = int64(limit)
	}
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, rows)
}

// FindByConcept returns records with a concept whose text contains text
// (case-insensitive), most recent first.
func (s *KuzuStore) FindByConcept(ctx context.Context, text string, limit int) ([]QueryRecord, error) {
	cypher := `MATCH (q:Query)-[:HAS_CONCEPT]->(c:Concept)
		 WHERE lower(c.text) CONTAINS lower($q)
		 RETURN DISTINCT q.id, q.created_at ORDER BY q.created_at DESC`
	params := map[string]any{"q": text}
	if limit > 0 {
		cypher += " LIMIT $lim"
		params["lim"] = int64(limit)
	}
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, rows)
}

// load fetches the full record for the ID in the first column of each row.
func (s *KuzuStore) load(ctx context.Context, rows [][]any) ([]QueryRecord, error) {
	out := make([]QueryRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := s.GetQuery(ctx, toString(r[0]))
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// ---------- Stats ----------

// Stats returns record, concept and link counts.
func (s *KuzuStore) Stats(_ context.Context) (*ArchiveStats, error) {
	queries, err := s.count("MATCH (n:Query) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	concepts, err := s.count("MATCH (n:Concept) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	links, err := s.count("MATCH ()-[r:RELATED]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	return &ArchiveStats{
		QueryCount:   queries,
		ConceptCount: concepts,
		LinkCount:    links,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a Cypher statement that produces no result rows. Statements
// without parameters, transaction control included, run unprepared.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	if len(params) == 0 {
		res, err := s.conn.Query(cypher)
		if err != nil {
			return fmt.Errorf("kuzu: execute: %w", err)
		}
		res.Close()
		return nil
	}

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// count runs a single-value count query.
func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// conceptID scopes a variable name to its query: "queryID/var".
func conceptID(queryID, v string) string {
	return queryID + "/" + v
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	return int(toInt64(v))
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
