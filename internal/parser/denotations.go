package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// rootPredicate is the relation label spaCy gives the sentence root.
const rootPredicate = "ROOT"

type denotationDoc struct {
	Denotations *[]denotation `json:"denotations"`
	Relations   []relation    `json:"relations"`
}

type denotation struct {
	ID   string `json:"id"`
	Span struct {
		Begin int `json:"begin"`
		End   int `json:"end"`
	} `json:"span"`
	Obj string `json:"obj"`
}

type relation struct {
	ID   string `json:"id"`
	Subj string `json:"subj"`
	Obj  string `json:"obj"`
	Pred string `json:"pred"`
}

// DecodeDenotations decodes a spaCy JSON response for sentence.
//
// Tokens come from the denotations in order; the tag in obj is the POS and
// its first two characters the category. Every relation adds an ARG<k>
// argument to its obj token pointing at subj, except ROOT relations, which
// mark the token as the sentence root with target -1. Spans are rune offsets
// into the trimmed sentence.
func DecodeDenotations(sentence string, body []byte) ([]nlp.Token, *int, error) {
	if reportsEmptyLine(body) {
		return nil, nil, ErrEmptyParse
	}

	var doc denotationDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if doc.Denotations == nil {
		return nil, nil, fmt.Errorf("%w: no denotations", ErrMalformedResponse)
	}

	text := []rune(strings.TrimSpace(sentence))
	ids := make(map[string]int, len(*doc.Denotations))
	builders := make([]*nlp.TokenBuilder, len(*doc.Denotations))
	for i, d := range *doc.Denotations {
		if _, dup := ids[d.ID]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate denotation %q", ErrMalformedResponse, d.ID)
		}
		ids[d.ID] = i

		begin, end := d.Span.Begin, d.Span.End
		if begin < 0 || begin > end || end > len(text) {
			return nil, nil, fmt.Errorf("%w: denotation %q: span %d-%d outside sentence", ErrMalformedResponse, d.ID, begin, end)
		}
		builders[i] = nlp.NewTokenBuilder(i).
			Text(string(text[begin:end])).
			POS(d.Obj).
			Category(category(d.Obj)).
			Span(begin, end)
	}

	var root *int
	for _, r := range doc.Relations {
		i, ok := ids[r.Obj]
		if !ok {
			return nil, nil, fmt.Errorf("%w: relation %q: unknown obj %q", ErrMalformedResponse, r.ID, r.Obj)
		}
		b := builders[i]
		role := "ARG" + strconv.Itoa(b.NumArgs()+1)

		target := nlp.RootTarget
		if r.Pred == rootPredicate {
			idx := i
			root = &idx
		} else {
			target, ok = ids[r.Subj]
			if !ok {
				return nil, nil, fmt.Errorf("%w: relation %q: unknown subj %q", ErrMalformedResponse, r.ID, r.Subj)
			}
		}
		b.Type(r.Pred).Arg(role, target)
	}

	tokens := make([]nlp.Token, len(builders))
	for i, b := range builders {
		tokens[i] = b.Build()
	}
	if err := nlp.ValidateTokens(tokens); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return tokens, root, nil
}

// category coarsens a fine-grained tag to its first two characters.
func category(tag string) string {
	r := []rune(tag)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
