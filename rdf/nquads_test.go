package rdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNQuads = `# default graph
<http://example.org/a> <http://example.org/p> <http://example.org/b> .
<http://example.org/a> <http://example.org/q> "one" <http://example.org/g> .
<http://example.org/b> <http://example.org/p> <http://example.org/c> _:g2 .
<http://example.org/b> <http://example.org/q> "two"@en <http://example.org/g> .
`

var exG = IRI{Value: "http://example.org/g"}

func TestNQuadsReadDataSet(t *testing.T) {
	ds, err := NewNQuadsReader().ReadDataSet(strings.NewReader(sampleNQuads))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	def, ok := ds.DefaultGraph()
	require.True(t, ok)
	assert.Equal(t, []Statement{NewStatement(exA, exP, exB)}, def.Statements())

	named, ok := ds.GraphNamed(GraphNameIRI(exG))
	require.True(t, ok)
	two, err := NewLiteralWithLanguage("two", "en")
	require.NoError(t, err)
	assert.Equal(t, []Statement{
		NewStatement(exA, exQ, NewLiteral("one")),
		NewStatement(exB, exQ, two),
	}, named.Statements())

	blankNamed, ok := ds.GraphNamed(GraphNameBlank(BlankNode{ID: "g2"}))
	require.True(t, ok)
	assert.True(t, blankNamed.Contains(NewStatement(exB, exP, exC)))

	assert.Same(t, def.PrefixMappings(), named.PrefixMappings())
}

func TestNQuadsReadKeepsDefaultGraph(t *testing.T) {
	g, err := NewNQuadsReader().Read(strings.NewReader(sampleNQuads))
	require.NoError(t, err)
	assert.Equal(t, []Statement{NewStatement(exA, exP, exB)}, g.Statements())
	assert.False(t, g.IsNamed())
}

func TestNQuadsReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  string
	}{
		{"quoted graph label", "<http://example.org/a> <http://example.org/p> <http://example.org/b> << <http://example.org/a> <http://example.org/p> <http://example.org/b> >> .\n", "graphLabel"},
		{"literal graph label", "<http://example.org/a> <http://example.org/p> <http://example.org/b> \"g\" .\n", "statement"},
		{"relative graph label", "<http://example.org/a> <http://example.org/p> <http://example.org/b> <g> .\n", "graphLabel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNQuadsReader().ReadDataSet(strings.NewReader(tt.input))
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "nquads", parseErr.Format)
			assert.Equal(t, tt.rule, parseErr.Rule)
		})
	}

	_, err := NewNTriplesReader().Read(strings.NewReader(
		"<http://example.org/a> <http://example.org/p> <http://example.org/b> <http://example.org/g> .\n"))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "ntriples", parseErr.Format)
	assert.Equal(t, "statement", parseErr.Rule)

	_, err = NewNQuadsReader(OptMaxTriples(2)).ReadDataSet(strings.NewReader(sampleNQuads))
	assert.Equal(t, ErrCodeTripleLimitExceeded, Code(err))
}

func TestNQuadsWriteDataSet(t *testing.T) {
	ds := NewDataSet()
	ds.Insert(NewGraph(WithStatements(NewStatement(exA, exP, exB))))
	ds.Insert(NewGraph(WithName(GraphNameBlank(BlankNode{ID: "g2"})),
		WithStatements(NewStatement(exB, exP, exC))))
	ds.Insert(NewGraph(WithName(GraphNameIRI(exG)),
		WithStatements(NewStatement(exA, exQ, NewLiteral("one")))))

	var buf bytes.Buffer
	require.NoError(t, WriteDataSet(&buf, ds, FormatNQuads))
	assert.Equal(t, `<http://example.org/a> <http://example.org/p> <http://example.org/b> .
<http://example.org/a> <http://example.org/q> "one" <http://example.org/g> .
<http://example.org/b> <http://example.org/p> <http://example.org/c> _:g2 .
`, buf.String())

	back, err := ReadDataSet(&buf, FormatNQuads)
	require.NoError(t, err)
	require.Equal(t, ds.Len(), back.Len())
	for _, g := range ds.Graphs() {
		name, _ := g.Name()
		other, ok := back.GraphNamed(name)
		require.True(t, ok, name.String())
		assert.Equal(t, g.Statements(), other.Statements())
	}
}

func TestNQuadsWriteNamedGraph(t *testing.T) {
	g := NewGraph(
		WithName(GraphNameIRI(exG)),
		WithMinter(NewSequenceMinter("B")),
		WithStatements(NewStatement(NewQuoted(exA, exP, exB), exQ, exC)),
	)
	var buf bytes.Buffer
	require.NoError(t, WriteGraph(&buf, g, FormatNQuads))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " <http://example.org/g> ."), line)
	}
	assert.NotContains(t, buf.String(), "<<")
}

func TestDataSetFormatsUnsupported(t *testing.T) {
	_, err := ReadDataSet(strings.NewReader(""), FormatNTriples)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	var buf bytes.Buffer
	err = WriteDataSet(&buf, NewDataSet(), FormatJSONLD)
	assert.Equal(t, ErrCodeUnsupportedFormat, Code(err))
}
