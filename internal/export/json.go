package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// Document is the JSON export of one graphicated query.
type Document struct {
	Query      string           `json:"query"`
	Parser     string           `json:"parser"`
	ExportedAt string           `json:"exportedAt"`
	Parse      *nlp.ParseResult `json:"parse"`
	PGP        *nlp.PGP         `json:"pgp,omitempty"`
	Rendering  string           `json:"rendering,omitempty"`
}

// NewDocument builds a Document for res and, when non-nil, its PGP.
func NewDocument(parser string, res *nlp.ParseResult, pgp *nlp.PGP) *Document {
	doc := &Document{
		Parser:     parser,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Parse:      res,
		PGP:        pgp,
	}
	if res != nil {
		doc.Query = res.Sentence
	}
	return doc
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}
