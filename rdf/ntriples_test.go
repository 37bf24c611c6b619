package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNTriplesRead(t *testing.T) {
	input := `# a comment
<http://example.org/a> <http://example.org/p> <http://example.org/b> .

_:b1 <http://example.org/p> "v"@en .
<http://example.org/a> <http://example.org/q> "1"^^<http://www.w3.org/2001/XMLSchema#integer> . # trailing
<http://example.org/a> <http://example.org/q> "tab\there é" .
`
	g, err := NewNTriplesReader().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 4, g.Len())

	en, err := NewLiteralWithLanguage("v", "en")
	require.NoError(t, err)
	want := []Statement{
		NewStatement(exA, exP, exB),
		NewStatement(BlankNode{ID: "b1"}, exP, en),
		NewStatement(exA, exQ, IntegerLiteral(1)),
		NewStatement(exA, exQ, NewLiteral("tab\there é")),
	}
	assert.Empty(t, cmp.Diff(want, g.Statements()))
}

func TestNTriplesReadQuoted(t *testing.T) {
	input := "<< <http://example.org/a> <http://example.org/p> _:x >> <http://example.org/q> << _:y <http://example.org/p> \"o\" >> .\n"
	g, err := NewNTriplesReader().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())

	want := NewStatement(
		NewQuoted(exA, exP, BlankNode{ID: "x"}),
		exQ,
		NewQuoted(BlankNode{ID: "y"}, exP, NewLiteral("o")),
	)
	assert.True(t, want.Equal(g.Statements()[0]))
}

func TestNTriplesReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  string
		code  ErrorCode
	}{
		{"missing object", "<http://example.org/a> <http://example.org/p> .", "object", ErrCodeParseError},
		{"missing dot", "<http://example.org/a> <http://example.org/p> <http://example.org/b>", "statement", ErrCodeParseError},
		{"trailing content", "<http://example.org/a> <http://example.org/p> <http://example.org/b> . extra", "statement", ErrCodeParseError},
		{"literal subject", `"s" <http://example.org/p> <http://example.org/b> .`, "subject", ErrCodeParseError},
		{"unterminated literal", `<http://example.org/a> <http://example.org/p> "open .`, "literal", ErrCodeParseError},
		{"bad language", `<http://example.org/a> <http://example.org/p> "v"@123456789 .`, "languageTag", ErrCodeInvalidLiteral},
		{"relative IRI", `<a> <http://example.org/p> <http://example.org/b> .`, "subject", ErrCodeAbsoluteIRIExpected},
		{"unclosed quoted", "<< <http://example.org/a> <http://example.org/p> <http://example.org/b> <http://example.org/q> <http://example.org/c> .", "quotedTriple", ErrCodeParseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNTriplesReader().Read(strings.NewReader(tt.input + "\n"))
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, formatNameNTriples, parseErr.Format)
			assert.Equal(t, tt.rule, parseErr.Rule)
			assert.Equal(t, 1, parseErr.Line)
			assert.Positive(t, parseErr.Column)
			assert.Equal(t, tt.code, Code(err))
		})
	}
}

func TestNTriplesErrorMessageHasExcerpt(t *testing.T) {
	_, err := NewNTriplesReader().Read(strings.NewReader("\n<http://example.org/a> <http://example.org/p> ?x .\n"))
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "ntriples:2:"), msg)
	assert.Contains(t, msg, "in object")
	assert.Contains(t, msg, `(found "?x")`)
	assert.Contains(t, msg, "(expected IRI | blank node | literal | quoted triple)")
	assert.Contains(t, msg, "^")
}

func TestNTriplesReadBaseIRI(t *testing.T) {
	g, err := NewNTriplesReader(OptBaseIRI("http://example.org/")).Read(
		strings.NewReader("<a> <p> <b> .\n"))
	require.NoError(t, err)
	assert.True(t, g.Contains(NewStatement(exA, exP, exB)))
}

func TestNTriplesReadLimits(t *testing.T) {
	line := "<http://example.org/a> <http://example.org/p> <http://example.org/b> .\n"

	_, err := NewNTriplesReader(OptMaxLineBytes(10)).Read(strings.NewReader(line))
	assert.Equal(t, ErrCodeLineTooLong, Code(err))

	_, err = NewNTriplesReader(OptMaxTriples(1)).Read(strings.NewReader(line + line))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement limit 1 exceeded")
	assert.Equal(t, ErrCodeTripleLimitExceeded, Code(err))

	nested := "<< << <http://example.org/a> <http://example.org/p> <http://example.org/b> >> <http://example.org/p> <http://example.org/b> >> <http://example.org/p> <http://example.org/b> .\n"
	_, err = NewNTriplesReader(OptMaxDepth(1)).Read(strings.NewReader(nested))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "quotedTriple", parseErr.Rule)
	assert.Equal(t, ErrCodeDepthExceeded, Code(err))
}

func TestNTriplesReadStrictIRIValidation(t *testing.T) {
	input := "<http://example.org/a> <http://example.org/p> <http://example.org/b|c> .\n"
	_, err := NewNTriplesReader().Read(strings.NewReader(input))
	require.NoError(t, err)

	_, err = NewNTriplesReader(OptStrictIRIValidation()).Read(strings.NewReader(input))
	assert.Equal(t, ErrCodeInvalidIRI, Code(err))
}

func TestNTriplesReadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNTriplesReader(OptContext(ctx)).Read(strings.NewReader("<http://example.org/a> <http://example.org/p> <http://example.org/b> .\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrCodeContextCanceled, Code(err))
}

func TestNTriplesReadLogsStatements(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)

	_, err := NewNTriplesReader(OptLogger(logger)).Read(strings.NewReader(
		"<http://example.org/a> <http://example.org/p> <http://example.org/b> .\n"))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.TraceLevel, entries[0].Level)
	assert.Equal(t, "<http://example.org/a> <http://example.org/p> <http://example.org/b>", entries[0].Message)
	assert.Equal(t, "rdf: read graph", hook.LastEntry().Message)
	assert.Equal(t, int64(1), hook.LastEntry().Data["statements"])
}

func TestNTriplesWriteSimplifies(t *testing.T) {
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(
			NewStatement(exA, exP, NewLiteral("line\nbreak")),
			NewStatement(NewQuoted(exA, exP, exB), exQ, BlankNode{ID: "x"}),
		),
	)
	var buf bytes.Buffer
	require.NoError(t, NewNTriplesWriter().Write(&buf, g))

	want := `<http://example.org/a> <http://example.org/p> "line\nbreak" .
_:B1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/1999/02/22-rdf-syntax-ns#Statement> .
_:B1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#subject> <http://example.org/a> .
_:B1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#predicate> <http://example.org/p> .
_:B1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#object> <http://example.org/b> .
_:B1 <http://example.org/q> _:x .
`
	assert.Empty(t, cmp.Diff(want, buf.String()))
}

func TestNTriplesRoundTrip(t *testing.T) {
	fr, err := NewLiteralWithLanguage("quote \" and \\", "fr")
	require.NoError(t, err)
	g := NewGraph(WithStatements(
		NewStatement(exA, exP, fr),
		NewStatement(BlankNode{ID: "n1"}, exQ, Float64Literal(2.5)),
		NewStatement(exB, exP, BlankNode{ID: "n1"}),
	))
	var buf bytes.Buffer
	require.NoError(t, NewNTriplesWriter().Write(&buf, g))

	back, err := NewNTriplesReader().Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(g.Statements(), back.Statements()))
}
