package nlp

// RootTarget is the argument target that marks a token as the sentence root.
const RootTarget = -1

// Span is a half-open character range [Begin, End) into the original sentence.
type Span struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Argument is a predicate-argument edge from the owning token to Target.
type Argument struct {
	Role   string `json:"role"`
	Target int    `json:"target"`
}

// Token is one word of a parsed sentence. Tokens are values; build them with
// TokenBuilder so the argument slice is never shared with the decoder.
type Token struct {
	Index     int        `json:"idx"`
	Text      string     `json:"lex"`
	Base      string     `json:"base,omitempty"`
	POS       string     `json:"pos"`
	Category  string     `json:"cat"`
	Type      string     `json:"type,omitempty"`
	Span      *Span      `json:"span,omitempty"`
	Arguments []Argument `json:"args,omitempty"`
}

// HasArguments reports whether the token governs any other token.
func (t Token) HasArguments() bool {
	return len(t.Arguments) > 0
}

// TokenBuilder accumulates token fields while a vendor response is decoded.
type TokenBuilder struct {
	tok Token
}

// NewTokenBuilder starts a token at the given sentence index.
func NewTokenBuilder(index int) *TokenBuilder {
	return &TokenBuilder{tok: Token{Index: index}}
}

func (b *TokenBuilder) Text(s string) *TokenBuilder     { b.tok.Text = s; return b }
func (b *TokenBuilder) Base(s string) *TokenBuilder     { b.tok.Base = s; return b }
func (b *TokenBuilder) POS(s string) *TokenBuilder      { b.tok.POS = s; return b }
func (b *TokenBuilder) Category(s string) *TokenBuilder { b.tok.Category = s; return b }
func (b *TokenBuilder) Type(s string) *TokenBuilder     { b.tok.Type = s; return b }

// Span sets the character offsets of the token.
func (b *TokenBuilder) Span(begin, end int) *TokenBuilder {
	b.tok.Span = &Span{Begin: begin, End: end}
	return b
}

// Arg appends an argument edge.
func (b *TokenBuilder) Arg(role string, target int) *TokenBuilder {
	b.tok.Arguments = append(b.tok.Arguments, Argument{Role: role, Target: target})
	return b
}

// NumArgs returns the number of arguments added so far.
func (b *TokenBuilder) NumArgs() int {
	return len(b.tok.Arguments)
}

// Index returns the index the token is being built for.
func (b *TokenBuilder) Index() int {
	return b.tok.Index
}

// Build freezes the builder into a Token. The builder may keep being used;
// later changes do not affect tokens already built.
func (b *TokenBuilder) Build() Token {
	t := b.tok
	if b.tok.Arguments != nil {
		t.Arguments = make([]Argument, len(b.tok.Arguments))
		copy(t.Arguments, b.tok.Arguments)
	}
	if b.tok.Span != nil {
		sp := *b.tok.Span
		t.Span = &sp
	}
	return t
}

// ValidateTokens checks that indices are exactly 0..n-1 and that every
// non-root argument target points into the sequence.
func ValidateTokens(tokens []Token) error {
	for i, t := range tokens {
		if t.Index != i {
			return &TokenError{Index: i, Reason: "index out of sequence"}
		}
		for _, a := range t.Arguments {
			if a.Target == RootTarget {
				continue
			}
			if a.Target < 0 || a.Target >= len(tokens) {
				return &TokenError{Index: i, Reason: "argument " + a.Role + " targets a missing token"}
			}
		}
	}
	return nil
}
