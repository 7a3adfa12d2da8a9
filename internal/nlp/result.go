package nlp

// NoFocus is the Focus value of a ParseResult without a focus word.
const NoFocus = -1

// BaseNounChunk is a contiguous token span forming one noun phrase. Begin and
// End are inclusive token indices.
type BaseNounChunk struct {
	Begin int    `json:"beg"`
	End   int    `json:"end"`
	Head  int    `json:"head"`
	Text  string `json:"string"`
}

// Relation is the shortest connection between two chunk heads. Path holds the
// token indices strictly between Subject and Object.
type Relation struct {
	Subject int   `json:"subject"`
	Path    []int `json:"path"`
	Object  int   `json:"object"`
}

// ParseResult is the snapshot of one parsed sentence.
type ParseResult struct {
	Sentence       string          `json:"sentence"`
	Tokens         []Token         `json:"tokens"`
	Root           *int            `json:"root"`
	Focus          int             `json:"focus"`
	BaseNounChunks []BaseNounChunk `json:"base_noun_chunks"`
	Relations      []Relation      `json:"relations"`
}

// HasFocus reports whether a focus word was found.
func (r *ParseResult) HasFocus() bool {
	return r.Focus != NoFocus
}

// Heads returns the head index of every chunk, in chunk order.
func Heads(chunks []BaseNounChunk) []int {
	heads := make([]int, len(chunks))
	for i, c := range chunks {
		heads[i] = c.Head
	}
	return heads
}
