package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu      sync.RWMutex
	queries map[string]QueryRecord
	order   []string // insertion order, breaks CreatedAt ties
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		queries: make(map[string]QueryRecord),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddQuery stores a copy of rec keyed by its ID.
func (m *MemStore) AddQuery(_ context.Context, rec QueryRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.queries[rec.ID]; ok {
		return ErrDuplicateQuery
	}
	m.queries[rec.ID] = rec.clone()
	m.order = append(m.order, rec.ID)
	return nil
}

// GetQuery returns the record for id, or nil if not found.
func (m *MemStore) GetQuery(_ context.Context, id string) (*QueryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.queries[id]
	if !ok {
		return nil, nil
	}
	out := rec.clone()
	return &out, nil
}

// ListQueries returns up to limit records, most recent first.
func (m *MemStore) ListQueries(_ context.Context, limit int) ([]QueryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(limit, func(QueryRecord) bool { return true }), nil
}

// FindByConcept returns records with a concept whose text contains text
// (case-insensitive), up to limit results.
func (m *MemStore) FindByConcept(_ context.Context, text string, limit int) ([]QueryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(text)
	return m.collect(limit, func(r QueryRecord) bool {
		for _, c := range r.Concepts {
			if strings.Contains(strings.ToLower(c.Text), needle) {
				return true
			}
		}
		return false
	}), nil
}

// collect returns matching records newest first. Callers hold the read lock.
func (m *MemStore) collect(limit int, match func(QueryRecord) bool) []QueryRecord {
	pos := make(map[string]int, len(m.order))
	for i, id := range m.order {
		pos[id] = i
	}

	out := []QueryRecord{}
	for _, id := range m.order {
		if r := m.queries[id]; match(r) {
			out = append(out, r.clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return pos[out[i].ID] > pos[out[j].ID]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Stats returns record, concept and link counts.
func (m *MemStore) Stats(_ context.Context) (*ArchiveStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := &ArchiveStats{QueryCount: len(m.queries)}
	for _, r := range m.queries {
		st.ConceptCount += len(r.Concepts)
		st.LinkCount += len(r.Links)
	}
	return st, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
