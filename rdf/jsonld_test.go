package rdf

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonldDoc = `{
  "@context": {
    "ex": "http://example.org/",
    "xsd": "http://www.w3.org/2001/XMLSchema#"
  },
  "@id": "ex:a",
  "ex:p": {"@id": "ex:b"},
  "ex:q": [
    "plain",
    {"@value": "hi", "@language": "en"},
    {"@value": "5", "@type": "xsd:integer"}
  ]
}`

func TestJSONLDRead(t *testing.T) {
	g, err := NewJSONLDReader().Read(strings.NewReader(jsonldDoc))
	require.NoError(t, err)
	require.Equal(t, 4, g.Len())

	hi, err := NewLiteralWithLanguage("hi", "en")
	require.NoError(t, err)
	assert.True(t, g.Contains(NewStatement(exA, exP, exB)))
	assert.True(t, g.Contains(NewStatement(exA, exQ, NewLiteral("plain"))))
	assert.True(t, g.Contains(NewStatement(exA, exQ, hi)))
	assert.True(t, g.Contains(NewStatement(exA, exQ,
		NewLiteralWithDataTypeIRI("5", IRI{Value: XSDNamespace + "integer"}))))
}

func TestJSONLDReadLogsStatements(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)

	_, err := NewJSONLDReader(OptLogger(logger)).Read(strings.NewReader(jsonldDoc))
	require.NoError(t, err)

	var traced int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.TraceLevel {
			traced++
			assert.Equal(t, "jsonld", entry.Data["format"])
		}
	}
	assert.Equal(t, 4, traced)
	assert.Equal(t, "rdf: read graph", hook.LastEntry().Message)
	assert.Equal(t, int64(4), hook.LastEntry().Data["statements"])
}

func TestJSONLDReadBlankNodes(t *testing.T) {
	doc := `{"@context": {"ex": "http://example.org/"}, "@id": "ex:a", "ex:p": {"ex:q": "inner"}}`
	g, err := NewJSONLDReader().Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	blanks := g.BlankNodeSubjects()
	require.Len(t, blanks, 1)
	assert.True(t, g.Contains(NewStatement(exA, exP, blanks[0])))
	assert.True(t, g.Contains(NewStatement(blanks[0], exQ, NewLiteral("inner"))))
}

func TestJSONLDReadDataSet(t *testing.T) {
	doc := `{
  "@context": {"ex": "http://example.org/"},
  "@id": "ex:g",
  "@graph": [{"@id": "ex:a", "ex:p": {"@id": "ex:b"}}]
}`
	g, err := NewJSONLDReader().Read(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, g.IsEmpty())

	ds, err := NewJSONLDReader().ReadDataSet(strings.NewReader(doc))
	require.NoError(t, err)
	named, ok := ds.GraphNamed(GraphNameIRI(IRI{Value: "http://example.org/g"}))
	require.True(t, ok)
	assert.Equal(t, 1, named.Len())
	assert.True(t, named.Contains(NewStatement(exA, exP, exB)))
}

func TestJSONLDReadErrors(t *testing.T) {
	_, err := NewJSONLDReader().Read(strings.NewReader(`{"@id": `))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, formatNameJSONLD, parseErr.Format)
	assert.Equal(t, "json", parseErr.Rule)

	_, err = NewJSONLDReader().Read(strings.NewReader(`{"@context": true, "@id": "http://example.org/a"}`))
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "toRDF", parseErr.Rule)
	assert.NotEmpty(t, parseErr.Token)
	assert.Equal(t, ErrCodeParseError, Code(err))
}

func TestJSONLDReadMaxTriples(t *testing.T) {
	_, err := NewJSONLDReader(OptMaxTriples(2)).Read(strings.NewReader(jsonldDoc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jsonld: statement limit 2 exceeded")
	assert.Equal(t, ErrCodeTripleLimitExceeded, Code(err))
}

func TestJSONLDWriteCompacted(t *testing.T) {
	g := exGraph(
		NewStatement(exA, exP, exB),
		NewStatement(exA, exQ, NewLiteral("v")),
	)
	var buf bytes.Buffer
	require.NoError(t, NewJSONLDWriter().Write(&buf, g))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, map[string]interface{}{"ex": "http://example.org/"}, doc["@context"])
	assert.Equal(t, "ex:a", doc["@id"])
	assert.Equal(t, map[string]interface{}{"@id": "ex:b"}, doc["ex:p"])
	assert.Equal(t, "v", doc["ex:q"])
	assert.Contains(t, buf.String(), "\n  \"@id\": \"ex:a\"")

	back, err := NewJSONLDReader().Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Len())
	assert.True(t, back.ContainsAll(g.Statements()))
}

func TestJSONLDWriteExpanded(t *testing.T) {
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(NewStatement(NewQuoted(exA, exP, exB), exQ, NewLiteral("v"))),
	)
	var buf bytes.Buffer
	opts := JSONLDOptions{}
	require.NoError(t, NewJSONLDWriter(OptJSONLD(opts)).Write(&buf, g))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	var nodes []interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	assert.NotEmpty(t, nodes)

	back, err := NewJSONLDReader().Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, back.Len())
	assert.Len(t, back.Matches(nil, exQ, NewLiteral("v")), 1)
	assert.Len(t, back.Matches(nil, RDFSubject, exA), 1)
}
