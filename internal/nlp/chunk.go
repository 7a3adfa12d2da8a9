package nlp

import "strings"

// ChunkPolicy extracts base noun chunks from a token sequence.
type ChunkPolicy func(tokens []Token) []BaseNounChunk

// HeadTerminatedChunks opens a chunk at the first noun-chunk token and emits
// it at the first following head-tag token that has no arguments. A token
// outside the noun-chunk tags drops the open chunk. The head is the last
// token of the chunk.
func HeadTerminatedChunks(tokens []Token) []BaseNounChunk {
	chunks := []BaseNounChunk{}
	begin := -1
	for i, t := range tokens {
		if !NounChunkTags.Has(t.Category) {
			begin = -1
			continue
		}
		if begin < 0 {
			begin = i
		}
		if !t.HasArguments() && HeadTags.Has(t.Category) {
			chunks = append(chunks, BaseNounChunk{Begin: begin, End: i, Head: i})
			begin = -1
		}
	}
	return withText(tokens, chunks)
}

// SpanTerminatedChunks groups maximal runs of noun-chunk tokens. A possessive
// marker stays inside the run when the token after it is a noun-chunk token,
// so "Alzheimer 's disease" is one chunk. The last token of a run is both its
// end and its head.
func SpanTerminatedChunks(tokens []Token) []BaseNounChunk {
	chunks := []BaseNounChunk{}
	inside := false
	last := len(tokens) - 1
	for i, t := range tokens {
		member := NounChunkTags.Has(t.Category)
		switch {
		case member && !inside:
			inside = true
			chunks = append(chunks, BaseNounChunk{Begin: i})
		case !member && PossessiveTags.Has(t.Category) && i < last && NounChunkTags.Has(tokens[i+1].Category):
			continue
		}

		if !member && inside {
			closeChunk(&chunks[len(chunks)-1], i-1)
			inside = false
		}
		if inside && i == last {
			closeChunk(&chunks[len(chunks)-1], i)
			inside = false
		}
	}
	return withText(tokens, chunks)
}

func closeChunk(c *BaseNounChunk, end int) {
	c.End = end
	c.Head = end
}

func withText(tokens []Token, chunks []BaseNounChunk) []BaseNounChunk {
	for i := range chunks {
		chunks[i].Text = SurfaceText(tokens, chunks[i].Begin, chunks[i].End)
	}
	return chunks
}

// SurfaceText concatenates the surface text of tokens[begin..end], putting a
// single space between neighbours whose spans are not adjacent. Tokens
// without spans are always separated by a space.
func SurfaceText(tokens []Token, begin, end int) string {
	var sb strings.Builder
	for i := begin; i <= end; i++ {
		sb.WriteString(tokens[i].Text)
		if i < end && !adjacent(tokens[i], tokens[i+1]) {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func adjacent(a, b Token) bool {
	if a.Span == nil || b.Span == nil {
		return false
	}
	return a.Span.End >= b.Span.Begin
}
