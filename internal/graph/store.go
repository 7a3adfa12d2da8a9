package graph

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrDuplicateQuery is returned when a record with the same ID exists.
	ErrDuplicateQuery = errors.New("graph: duplicate query id")

	// ErrInvalidRecord is returned for records without an ID or with links
	// to unknown concepts.
	ErrInvalidRecord = errors.New("graph: invalid query record")
)

// Store archives graphicated queries.
// Implementations: KuzuStore (cgo), MemStore (testing and no-cgo builds).
type Store interface {
	io.Closer

	// Schema setup, called once before any record is added.
	InitSchema(ctx context.Context) error

	AddQuery(ctx context.Context, rec QueryRecord) error

	// GetQuery returns nil and no error when id is unknown.
	GetQuery(ctx context.Context, id string) (*QueryRecord, error)

	// ListQueries returns the most recent records first. A limit <= 0
	// returns all of them.
	ListQueries(ctx context.Context, limit int) ([]QueryRecord, error)

	// FindByConcept returns records having a concept whose text contains
	// text, case-insensitively, most recent first.
	FindByConcept(ctx context.Context, text string, limit int) ([]QueryRecord, error)

	Stats(ctx context.Context) (*ArchiveStats, error)
}
