package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Aequivinius/lodqa/internal/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallParse is "genes cause cancer" with cause as root and genes as focus.
func smallParse() *nlp.ParseResult {
	root := 1
	return &nlp.ParseResult{
		Sentence: "genes cause cancer",
		Tokens: []nlp.Token{
			nlp.NewTokenBuilder(0).Text("genes").POS("NNS").Category("N").Build(),
			nlp.NewTokenBuilder(1).Text("cause").POS("VBP").Category("V").Arg("ARG1", 0).Arg("ARG2", 2).Build(),
			nlp.NewTokenBuilder(2).Text("cancer").POS("NN").Category("N").Build(),
		},
		Root:  &root,
		Focus: 0,
		BaseNounChunks: []nlp.BaseNounChunk{
			{Begin: 0, End: 0, Head: 0, Text: "genes"},
			{Begin: 2, End: 2, Head: 2, Text: "cancer"},
		},
		Relations: []nlp.Relation{{Subject: 0, Path: []int{1}, Object: 2}},
	}
}

func TestDOT(t *testing.T) {
	want := `digraph G {
  node [shape=box, fontsize=10];
  edge [fontsize=9];
  "0" [label="genes/NNS/N", color=red];
  "1" [label="cause/VBP/V", color=blue];
  "2" [label="cancer/NN/N"];
  "1" -> "0" [label="ARG1"];
  "1" -> "2" [label="ARG2"];
}
`
	assert.Equal(t, want, DOT(smallParse()))
}

func TestDOT_NoRoot(t *testing.T) {
	res := smallParse()
	res.Root = nil
	assert.Equal(t, "", DOT(res))
	assert.Equal(t, "", DOT(nil))
}

func TestDOT_FocusWinsOverRoot(t *testing.T) {
	res := smallParse()
	res.Focus = 1
	out := DOT(res)
	assert.Contains(t, out, `"1" [label="cause/VBP/V", color=red];`)
	assert.NotContains(t, out, "blue")
}

func TestDOT_RootArgumentSkippedAndQuoted(t *testing.T) {
	root := 0
	res := &nlp.ParseResult{
		Tokens: []nlp.Token{
			nlp.NewTokenBuilder(0).Text(`say "hi"`).POS("VB").Category("V").Arg("ARG1", nlp.RootTarget).Build(),
		},
		Root:  &root,
		Focus: nlp.NoFocus,
	}
	out := DOT(res)
	assert.Contains(t, out, `label="say \"hi\"/VB/V"`)
	assert.NotContains(t, out, "->")
}

func TestMermaid(t *testing.T) {
	want := `graph TD
  N0["genes/NNS/N"]
  N1["cause/VBP/V"]
  N2["cancer/NN/N"]
  N1 -->|ARG1| N0
  N1 -->|ARG2| N2
  style N0 stroke:red
  style N1 stroke:blue
`
	assert.Equal(t, want, Mermaid(smallParse()))

	res := smallParse()
	res.Root = nil
	assert.Equal(t, "", Mermaid(res))
}

func TestPGPMermaid(t *testing.T) {
	p := &nlp.PGP{
		Nodes: map[string]nlp.Node{
			"t1": {Head: 2, Text: "cancer"},
			"t0": {Head: 0, Text: "genes"},
		},
		Edges: []nlp.Edge{
			{Subject: "t0", Object: "t1", Text: "cause"},
			{Subject: "t1", Object: "t0", Text: ""},
		},
		Focus: "t0",
	}
	want := `graph LR
  t0["t0: genes"]
  t1["t1: cancer"]
  t0 -->|cause| t1
  t1 --> t0
  style t0 stroke:red
`
	assert.Equal(t, want, PGPMermaid(p))
	assert.Equal(t, "graph LR\n", PGPMermaid(nil))
	assert.Equal(t, "graph LR\n", PGPMermaid(nlp.NewPGP()))
}

func TestMermaidText_Escapes(t *testing.T) {
	assert.Equal(t, "a #quot;b#quot; #124; c", mermaidText(`a "b" | c`))
}

func TestWriteJSON_Document(t *testing.T) {
	res := smallParse()
	pgp := &nlp.PGP{
		Nodes: map[string]nlp.Node{"t0": {Head: 0, Text: "genes"}, "t1": {Head: 2, Text: "cancer"}},
		Edges: []nlp.Edge{{Subject: "t0", Object: "t1", Text: "cause"}},
		Focus: "t0",
	}
	doc := NewDocument("enju", res, pgp)
	doc.Rendering = DOT(res)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "genes cause cancer", got["query"])
	assert.Equal(t, "enju", got["parser"])
	assert.NotEmpty(t, got["exportedAt"])
	assert.Contains(t, got, "rendering")

	parse := got["parse"].(map[string]any)
	assert.EqualValues(t, 1, parse["root"])
	assert.EqualValues(t, 0, parse["focus"])
	assert.Len(t, parse["base_noun_chunks"], 2)

	p := got["pgp"].(map[string]any)
	assert.Equal(t, "t0", p["focus"])
}

func TestWriteJSON_OmitsMissingPGP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument("spacy", smallParse(), nil)))
	assert.NotContains(t, buf.String(), `"pgp"`)
	assert.NotContains(t, buf.String(), `"rendering"`)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteJSON_WriterError(t *testing.T) {
	err := WriteJSON(failWriter{}, map[string]int{"a": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: encode json")
}
