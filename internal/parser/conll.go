package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// CoNLL column positions.
const (
	colID = iota
	colSurface
	colBase
	colPOS
	colCategory
	colType
	colArgs
	numCoNLLCols
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// DecodeCoNLL decodes an Enju CoNLL response for sentence.
//
// Each line holds one token, tab separated: id, surface, base, POS,
// category, type and a space separated list of role:index arguments with
// 1-based indices. The first line is a synthetic root row whose first
// argument names the sentence root; it is dropped once indices have been
// shifted to 0-based. Spans are recomputed by walking sentence with a cursor
// that skips blanks and advances by each surface length.
func DecodeCoNLL(sentence string, body []byte) ([]nlp.Token, *int, error) {
	if reportsEmptyLine(body) {
		return nil, nil, ErrEmptyParse
	}

	lines := lineBreak.Split(string(body), -1)
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: no root row", ErrMalformedResponse)
	}

	rootArgs, err := conllArgs(strings.SplitN(lines[0], "\t", numCoNLLCols))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: root row: %w", ErrMalformedResponse, err)
	}

	builders := make([]*nlp.TokenBuilder, 0, len(lines)-1)
	surfaces := make([]string, 0, len(lines)-1)
	for i, line := range lines[1:] {
		cols := strings.SplitN(line, "\t", numCoNLLCols)
		if len(cols) <= colCategory {
			return nil, nil, fmt.Errorf("%w: line %d: %d columns", ErrMalformedResponse, i+2, len(cols))
		}
		b := nlp.NewTokenBuilder(i).
			Text(cols[colSurface]).
			Base(cols[colBase]).
			POS(cols[colPOS]).
			Category(cols[colCategory])
		if len(cols) > colType {
			b.Type(cols[colType])
		}
		args, err := conllArgs(cols)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %w", ErrMalformedResponse, i+2, err)
		}
		for _, a := range args {
			b.Arg(a.Role, a.Target)
		}
		builders = append(builders, b)
		surfaces = append(surfaces, cols[colSurface])
	}

	if err := spanCursor(sentence, surfaces, builders); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	tokens := make([]nlp.Token, len(builders))
	for i, b := range builders {
		tokens[i] = b.Build()
	}
	if err := nlp.ValidateTokens(tokens); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	var root *int
	if len(rootArgs) > 0 && rootArgs[0].Target != nlp.RootTarget {
		r := rootArgs[0].Target
		if r < 0 || r >= len(tokens) {
			return nil, nil, fmt.Errorf("%w: root %d out of range", ErrMalformedResponse, r)
		}
		root = &r
	}
	return tokens, root, nil
}

// conllArgs parses the argument column of a row, shifting targets to 0-based.
func conllArgs(cols []string) ([]nlp.Argument, error) {
	if len(cols) <= colArgs {
		return nil, nil
	}
	var args []nlp.Argument
	for _, field := range strings.Fields(cols[colArgs]) {
		role, ref, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("argument %q has no target", field)
		}
		n, err := strconv.Atoi(ref)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", field, err)
		}
		args = append(args, nlp.Argument{Role: role, Target: n - 1})
	}
	return args, nil
}

// spanCursor assigns character spans to the builders in order. Offsets count
// runes of the trimmed sentence; a surface running past its end is an error.
func spanCursor(sentence string, surfaces []string, builders []*nlp.TokenBuilder) error {
	text := []rune(strings.TrimSpace(sentence))
	i := 0
	for k, b := range builders {
		for i < len(text) && isBlank(text[i]) {
			i++
		}
		end := i + utf8.RuneCountInString(surfaces[k])
		if end > len(text) {
			return fmt.Errorf("token %d %q ends at %d past sentence length %d", k, surfaces[k], end, len(text))
		}
		b.Span(i, end)
		i = end
	}
	return nil
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
