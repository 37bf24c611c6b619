package rdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRead(t *testing.T) {
	input := `{
  "http://example.org/b": {
    "http://example.org/p": [{"type": "bnode", "value": "_:x"}]
  },
  "http://example.org/a": {
    "http://example.org/q": [
      {"type": "literal", "value": "hi", "lang": "en"},
      {"type": "literal", "value": "5", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}
    ],
    "http://example.org/p": [{"type": "uri", "value": "http://example.org/b"}]
  },
  "_:x": {
    "http://example.org/q": [{"type": "literal", "value": "plain"}]
  }
}`
	g, err := NewJSONReader().Read(strings.NewReader(input))
	require.NoError(t, err)

	hi, err := NewLiteralWithLanguage("hi", "en")
	require.NoError(t, err)
	x := BlankNode{ID: "x"}
	want := []Statement{
		NewStatement(x, exQ, NewLiteral("plain")),
		NewStatement(exA, exP, exB),
		NewStatement(exA, exQ, hi),
		NewStatement(exA, exQ, NewLiteralWithDataTypeIRI("5", IRI{Value: XSDNamespace + "integer"})),
		NewStatement(exB, exP, x),
	}
	assert.Empty(t, cmp.Diff(want, g.Statements()))
}

func TestJSONReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  string
		code  ErrorCode
	}{
		{"syntax", `{"http://example.org/a": `, "json", ErrCodeParseError},
		{"null document", `null`, "graph", ErrCodeParseError},
		{"relative subject", `{"a": {}}`, "subject", ErrCodeAbsoluteIRIExpected},
		{"bnode without prefix", `{"http://example.org/a": {"http://example.org/p": [{"type": "bnode", "value": "x"}]}}`, "object", ErrCodeInvalidBlankNode},
		{"lang and datatype", `{"http://example.org/a": {"http://example.org/p": [{"type": "literal", "value": "x", "lang": "en", "datatype": "http://example.org/d"}]}}`, "object", ErrCodeInvalidLiteral},
		{"missing value", `{"http://example.org/a": {"http://example.org/p": [{"type": "uri"}]}}`, "object", ErrCodeParseError},
		{"unknown type", `{"http://example.org/a": {"http://example.org/p": [{"type": "thing", "value": "x"}]}}`, "object", ErrCodeParseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONReader().Read(strings.NewReader(tt.input))
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, formatNameJSON, parseErr.Format)
			assert.Equal(t, tt.rule, parseErr.Rule)
			assert.Equal(t, tt.code, Code(err))
		})
	}
}

func TestJSONReadMaxTriples(t *testing.T) {
	input := `{"http://example.org/a": {"http://example.org/p": [
  {"type": "uri", "value": "http://example.org/b"},
  {"type": "uri", "value": "http://example.org/c"}
]}}`
	_, err := NewJSONReader(OptMaxTriples(1)).Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json: statement limit 1 exceeded")
	assert.Equal(t, ErrCodeTripleLimitExceeded, Code(err))
}

func TestJSONWrite(t *testing.T) {
	hi, err := NewLiteralWithLanguage("hi", "en")
	require.NoError(t, err)
	x := BlankNode{ID: "x"}
	g := NewGraph(WithStatements(
		NewStatement(exA, exP, exB),
		NewStatement(exA, exQ, hi),
		NewStatement(x, exQ, IntegerLiteral(7)),
	))
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter().Write(&buf, g))

	want := `{"_:x":{"http://example.org/q":[{"type":"literal","value":"7","datatype":"http://www.w3.org/2001/XMLSchema#integer"}]},` +
		`"http://example.org/a":{"http://example.org/p":[{"type":"uri","value":"http://example.org/b"}],` +
		`"http://example.org/q":[{"type":"literal","value":"hi","lang":"en"}]}}` + "\n"
	assert.Empty(t, cmp.Diff(want, buf.String()))
}

func TestJSONWriteSimplifiesAndRoundTrips(t *testing.T) {
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(
			NewStatement(NewQuoted(exA, exP, exB), exQ, NewLiteral("v <&>")),
		),
	)
	w := NewJSONWriter()
	w.Pretty = true
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, g))
	assert.Contains(t, buf.String(), "\n  \"_:B1\": {")
	assert.Contains(t, buf.String(), `"v <&>"`)

	back, err := NewJSONReader().Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, back.Len())
	assert.True(t, back.Contains(NewStatement(BlankNode{ID: "B1"}, RDFType, RDFStatement)))
	assert.True(t, back.Contains(NewStatement(BlankNode{ID: "B1"}, exQ, NewLiteral("v <&>"))))
}
