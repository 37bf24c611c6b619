package rdf

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotWriter(t *testing.T) {
	g := exGraph(
		NewStatement(exA, exP, exB),
		NewStatement(exA, exQ, NewLiteral(`say "hi"`)),
		NewStatement(exB, exP, BlankNode{ID: "x"}),
	)
	var buf bytes.Buffer
	require.NoError(t, NewDotWriter().Write(&buf, g))

	want := `digraph {
    rankdir=BT
    charset="utf-8";

    "node_1" -> "node_2" [label="ex:p"];
    "node_1" -> "node_3" [label="ex:q"];
    "node_2" -> "node_4" [label="ex:p"];

    "node_1" [URL="http://example.org/a",label="http://example.org/a",shape=ellipse,color=blue];
    "node_2" [URL="http://example.org/b",label="http://example.org/b",shape=ellipse,color=blue];
    "node_3" [label="say \"hi\"",shape=record,color=black];
    "node_4" [label="",shape=circle,color=green];
}
`
	assert.Empty(t, cmp.Diff(want, buf.String()))
}

func TestDotWriterOptions(t *testing.T) {
	g := NewGraph(WithStatements(NewStatement(BlankNode{ID: "x"}, exP, exA)))
	opts := DefaultDotOptions()
	opts.BlankLabels = true
	opts.NodePrefix = "n"
	opts.IRIShape = "box"

	var buf bytes.Buffer
	require.NoError(t, NewDotWriter(OptDot(opts)).Write(&buf, g))
	out := buf.String()
	assert.Contains(t, out, `"n1" -> "n2" [label="http://example.org/p"];`)
	assert.Contains(t, out, `"n1" [label="x",shape=circle,color=green];`)
	assert.Contains(t, out, `"n2" [URL="http://example.org/a",label="http://example.org/a",shape=box,color=blue];`)
}

func TestDotWriterSimplifiesStatements(t *testing.T) {
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(NewStatement(NewQuoted(exA, exP, exB), exQ, exC)),
	)
	var buf bytes.Buffer
	require.NoError(t, NewDotWriter().Write(&buf, g))
	assert.Contains(t, buf.String(), `"node_1" -> "node_2" [label="http://www.w3.org/1999/02/22-rdf-syntax-ns#type"];`)
	assert.Contains(t, buf.String(), `"node_1" -> "node_6" [label="http://example.org/q"];`)
}
