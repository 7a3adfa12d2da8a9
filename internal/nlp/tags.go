package nlp

// TagSet is a set of category tags.
type TagSet map[string]struct{}

func newTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

var (
	// NounChunkTags are the categories a base noun chunk is made of.
	NounChunkTags = newTagSet("NN", "NNP", "CD", "FW", "JJ")

	// HeadTags are the categories that can close a chunk as its head.
	HeadTags = newTagSet("NN", "NNP", "CD", "FW")

	// WhWordTags are the wh-pronoun and wh-determiner categories.
	WhWordTags = newTagSet("WP", "WDT")

	// PossessiveTags mark the possessive in "Alzheimer/NNP 's/POS disease/NN".
	// spaCy categories are truncated to two characters, hence PO.
	PossessiveTags = newTagSet("POS", "PO")
)
