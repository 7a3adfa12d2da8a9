package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aequivinius/lodqa/internal/nlp"
)

// Mermaid renders the token graph of res as a Mermaid graph TD diagram with
// the same nodes, edges and highlights as DOT. An undetermined root yields an
// empty string.
func Mermaid(res *nlp.ParseResult) string {
	if res == nil || res.Root == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, t := range res.Tokens {
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", tokenID(t.Index), mermaidText(tokenLabel(t))))
	}
	for _, t := range res.Tokens {
		for _, a := range t.Arguments {
			if a.Target < 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s -->|%s| %s\n", tokenID(t.Index), mermaidText(a.Role), tokenID(a.Target)))
		}
	}
	for _, t := range res.Tokens {
		if c := highlight(res, t.Index); c != "" {
			sb.WriteString(fmt.Sprintf("  style %s stroke:%s\n", tokenID(t.Index), c))
		}
	}

	return sb.String()
}

// PGPMermaid renders a PGP as a Mermaid diagram: nodes by variable name in
// sorted order, edges in relation order labeled with their path text, the
// focus node outlined red.
func PGPMermaid(p *nlp.PGP) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	if p == nil {
		return sb.String()
	}

	vars := make([]string, 0, len(p.Nodes))
	for v := range p.Nodes {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	for _, v := range vars {
		sb.WriteString(fmt.Sprintf("  %s[\"%s: %s\"]\n", v, v, mermaidText(p.Nodes[v].Text)))
	}
	for _, e := range p.Edges {
		if e.Text == "" {
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", e.Subject, e.Object))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s -->|%s| %s\n", e.Subject, mermaidText(e.Text), e.Object))
	}
	if p.Focus != "" {
		sb.WriteString(fmt.Sprintf("  style %s stroke:%s\n", p.Focus, FocusColor))
	}

	return sb.String()
}

// tokenID returns a Mermaid-safe node id for a token index.
func tokenID(idx int) string {
	return fmt.Sprintf("N%d", idx)
}

var mermaidEscaper = strings.NewReplacer(`"`, "#quot;", "|", "#124;", "\n", " ")

func mermaidText(s string) string {
	return mermaidEscaper.Replace(s)
}
