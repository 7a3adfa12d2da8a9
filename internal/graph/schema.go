package graph

import "time"

// --- Models ---

// QueryRecord is one archived question with the PGP built for it.
type QueryRecord struct {
	ID        string        `json:"id"`
	Query     string        `json:"query"`
	Parser    string        `json:"parser"`
	Focus     string        `json:"focus,omitempty"` // variable of the focus concept
	CreatedAt time.Time     `json:"createdAt"`
	Concepts  []ConceptNode `json:"concepts"`
	Links     []ConceptLink `json:"links"`
}

// ConceptNode is a PGP node: a noun chunk named by its variable.
type ConceptNode struct {
	Var  string `json:"var"`
	Head int    `json:"head"`
	Text string `json:"text"`
}

// ConceptLink is a PGP edge between two concepts of the same query.
type ConceptLink struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Text    string `json:"text"`
}

// ArchiveStats summarizes an archive.
type ArchiveStats struct {
	QueryCount   int `json:"queryCount"`
	ConceptCount int `json:"conceptCount"`
	LinkCount    int `json:"linkCount"`
}

// clone returns a deep copy so stored records never share slices with callers.
func (r QueryRecord) clone() QueryRecord {
	out := r
	out.Concepts = append([]ConceptNode{}, r.Concepts...)
	out.Links = append([]ConceptLink{}, r.Links...)
	return out
}

// validate checks that every link names concepts of the record.
func (r QueryRecord) validate() error {
	if r.ID == "" {
		return ErrInvalidRecord
	}
	vars := make(map[string]bool, len(r.Concepts))
	for _, c := range r.Concepts {
		vars[c.Var] = true
	}
	for _, l := range r.Links {
		if !vars[l.Subject] || !vars[l.Object] {
			return ErrInvalidRecord
		}
	}
	return nil
}
