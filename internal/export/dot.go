package export

import (
	"fmt"
	"strings"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// Highlight colors of the token graph.
const (
	RootColor  = "blue"
	FocusColor = "red"
)

// DOT renders the token graph of res as a Graphviz digraph: one box per
// token labeled surface/POS/category and one edge per argument labeled with
// its role. The root is drawn blue and the focus red; when both are the same
// token it is red. An undetermined root yields an empty string.
func DOT(res *nlp.ParseResult) string {
	if res == nil || res.Root == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  node [shape=box, fontsize=10];\n")
	sb.WriteString("  edge [fontsize=9];\n")

	for _, t := range res.Tokens {
		attrs := fmt.Sprintf("label=%s", dotQuote(tokenLabel(t)))
		if c := highlight(res, t.Index); c != "" {
			attrs += ", color=" + c
		}
		sb.WriteString(fmt.Sprintf("  %s [%s];\n", dotQuote(fmt.Sprint(t.Index)), attrs))
	}

	for _, t := range res.Tokens {
		for _, a := range t.Arguments {
			if a.Target < 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s -> %s [label=%s];\n",
				dotQuote(fmt.Sprint(t.Index)), dotQuote(fmt.Sprint(a.Target)), dotQuote(a.Role)))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func tokenLabel(t nlp.Token) string {
	return t.Text + "/" + t.POS + "/" + t.Category
}

// highlight returns the color of token idx, or "" for none.
func highlight(res *nlp.ParseResult, idx int) string {
	switch {
	case res.HasFocus() && res.Focus == idx:
		return FocusColor
	case res.Root != nil && *res.Root == idx:
		return RootColor
	}
	return ""
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
