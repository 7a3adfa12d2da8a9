package nlp

// ResolveFocus returns the index of the word a question asks about. For
// "What devices are used to treat heart failure?" that is 1 (devices).
//
// The first wh-word decides: its first argument target is the focus, or the
// wh-word itself when it governs nothing. A wh-word whose first argument is
// the root marker yields NoFocus. Without a wh-word the head of the first
// chunk is used, and NoFocus when there are no chunks.
func ResolveFocus(tokens []Token, chunks []BaseNounChunk) int {
	for i, t := range tokens {
		if !WhWordTags.Has(t.Category) {
			continue
		}
		if t.HasArguments() {
			if target := t.Arguments[0].Target; target != RootTarget {
				return target
			}
			return NoFocus
		}
		return i
	}
	if len(chunks) > 0 {
		return chunks[0].Head
	}
	return NoFocus
}
