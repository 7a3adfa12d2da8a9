package nlp

// Node is one base noun chunk in a PGP.
type Node struct {
	Head int    `json:"head"`
	Text string `json:"text"`
}

// Edge connects two PGP nodes by their variable names. Text is the surface
// text of the tokens on the relation path, empty when the heads are directly
// connected.
type Edge struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Text    string `json:"text"`
}

// PGP is the predicate-argument graph of a question: one node per chunk,
// keyed by variable name, one edge per relation and the variable of the
// focus node. Focus is empty only when there are no nodes.
type PGP struct {
	Nodes map[string]Node `json:"nodes"`
	Edges []Edge          `json:"edges"`
	Focus string          `json:"focus,omitempty"`
}

// NewPGP returns an empty graph with non-nil collections.
func NewPGP() *PGP {
	return &PGP{Nodes: map[string]Node{}, Edges: []Edge{}}
}
