package rdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rdfxmlHeader = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:ex="http://example.org/"`

func readRDFXML(t *testing.T, doc string, opts ...Option) *Graph {
	t.Helper()
	opts = append([]Option{OptMinter(NewSequenceMinter("B"))}, opts...)
	g, err := NewRDFXMLReader(opts...).Read(strings.NewReader(doc))
	require.NoError(t, err)
	return g
}

func TestRDFXMLReadNodesAndLiterals(t *testing.T) {
	doc := rdfxmlHeader + `
         xml:base="http://example.org/">
  <rdf:Description rdf:about="a" ex:title="Title">
    <ex:p rdf:resource="b"/>
    <ex:q xml:lang="en">hello</ex:q>
    <ex:n rdf:datatype="http://www.w3.org/2001/XMLSchema#integer">5</ex:n>
    <ex:knows>
      <ex:Person rdf:nodeID="p1">
        <ex:name>Pat</ex:name>
      </ex:Person>
    </ex:knows>
  </rdf:Description>
</rdf:RDF>`
	g := readRDFXML(t, doc)

	hello, err := NewLiteralWithLanguage("hello", "en")
	require.NoError(t, err)
	p1 := BlankNode{ID: "p1"}
	want := []Statement{
		NewStatement(exA, IRI{Value: "http://example.org/title"}, NewLiteral("Title")),
		NewStatement(exA, exP, exB),
		NewStatement(exA, exQ, hello),
		NewStatement(exA, IRI{Value: "http://example.org/n"},
			NewLiteralWithDataTypeIRI("5", IRI{Value: XSDNamespace + "integer"})),
		NewStatement(p1, RDFType, IRI{Value: "http://example.org/Person"}),
		NewStatement(p1, IRI{Value: "http://example.org/name"}, NewLiteral("Pat")),
		NewStatement(exA, IRI{Value: "http://example.org/knows"}, p1),
	}
	assert.Empty(t, cmp.Diff(want, g.Statements()))
}

func TestRDFXMLReadParseTypes(t *testing.T) {
	doc := rdfxmlHeader + `>
  <rdf:Description rdf:about="http://example.org/a">
    <ex:p rdf:parseType="Resource">
      <ex:q>inner</ex:q>
    </ex:p>
    <ex:list rdf:parseType="Collection">
      <rdf:Description rdf:about="http://example.org/b"/>
      <rdf:Description rdf:about="http://example.org/c"/>
    </ex:list>
    <ex:empty rdf:parseType="Collection"/>
  </rdf:Description>
</rdf:RDF>`
	g := readRDFXML(t, doc)

	b1, b2, b3 := BlankNode{ID: "B1"}, BlankNode{ID: "B2"}, BlankNode{ID: "B3"}
	want := []Statement{
		NewStatement(exA, exP, b1),
		NewStatement(b1, exQ, NewLiteral("inner")),
		NewStatement(b2, RDFFirst, exB),
		NewStatement(b2, RDFRest, b3),
		NewStatement(b3, RDFFirst, exC),
		NewStatement(b3, RDFRest, RDFNil),
		NewStatement(exA, IRI{Value: "http://example.org/list"}, b2),
		NewStatement(exA, IRI{Value: "http://example.org/empty"}, RDFNil),
	}
	assert.Empty(t, cmp.Diff(want, g.Statements()))
}

func TestRDFXMLReadContainersLiteralsAndReification(t *testing.T) {
	doc := rdfxmlHeader + `
         xml:base="http://example.org/doc">
  <rdf:Seq rdf:about="http://example.org/s">
    <rdf:li>one</rdf:li>
    <rdf:li rdf:resource="http://example.org/b"/>
  </rdf:Seq>
  <rdf:Description rdf:about="http://example.org/a">
    <ex:p rdf:ID="st1">v</ex:p>
    <ex:lit rdf:parseType="Literal"><span xmlns="http://www.w3.org/1999/xhtml">hi</span></ex:lit>
  </rdf:Description>
</rdf:RDF>`
	g := readRDFXML(t, doc)

	s := IRI{Value: "http://example.org/s"}
	st1 := IRI{Value: "http://example.org/doc#st1"}
	want := []Statement{
		NewStatement(s, RDFType, RDFSeq),
		NewStatement(s, RDFMember(1), NewLiteral("one")),
		NewStatement(s, RDFMember(2), exB),
		NewStatement(exA, exP, NewLiteral("v")),
		NewStatement(st1, RDFType, RDFStatement),
		NewStatement(st1, RDFSubject, exA),
		NewStatement(st1, RDFPredicate, exP),
		NewStatement(st1, RDFObject, NewLiteral("v")),
	}
	statements := g.Statements()
	require.Len(t, statements, len(want)+1)
	assert.Empty(t, cmp.Diff(want, statements[:len(want)]))

	lit, ok := statements[len(want)].Object().(Literal)
	require.True(t, ok)
	assert.Equal(t, DataTypeXMLLiteral, lit.DataType().Kind())
	assert.Equal(t, `<span xmlns="http://www.w3.org/1999/xhtml">hi</span>`, lit.Value())
}

func TestRDFXMLReadBareNodeAndLanguageInheritance(t *testing.T) {
	doc := `<ex:Thing xmlns:ex="http://example.org/" xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
    rdf:about="http://example.org/a" xml:lang="de">
  <ex:p>Hallo</ex:p>
  <ex:q ex:name="inner"/>
</ex:Thing>`
	g := readRDFXML(t, doc)

	hallo, err := NewLiteralWithLanguage("Hallo", "de")
	require.NoError(t, err)
	inner, err := NewLiteralWithLanguage("inner", "de")
	require.NoError(t, err)
	b1 := BlankNode{ID: "B1"}
	want := []Statement{
		NewStatement(exA, RDFType, IRI{Value: "http://example.org/Thing"}),
		NewStatement(exA, exP, hallo),
		NewStatement(b1, IRI{Value: "http://example.org/name"}, inner),
		NewStatement(exA, exQ, b1),
	}
	assert.Empty(t, cmp.Diff(want, g.Statements()))
}

func TestRDFXMLReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		rule string
		code ErrorCode
	}{
		{
			"about and nodeID",
			rdfxmlHeader + `><rdf:Description rdf:about="http://example.org/a" rdf:nodeID="x"/></rdf:RDF>`,
			"nodeElement", ErrCodeParseError,
		},
		{
			"property without namespace",
			rdfxmlHeader + `><rdf:Description rdf:about="http://example.org/a"><p>x</p></rdf:Description></rdf:RDF>`,
			"propertyElement", ErrCodeParseError,
		},
		{
			"relative about without base",
			rdfxmlHeader + `><rdf:Description rdf:about="a"/></rdf:RDF>`,
			"about", ErrCodeAbsoluteIRIExpected,
		},
		{
			"text in rdf:RDF",
			rdfxmlHeader + `>junk</rdf:RDF>`,
			"RDF", ErrCodeParseError,
		},
		{
			"bad rdf:ID",
			rdfxmlHeader + `><rdf:Description rdf:ID="1bad"/></rdf:RDF>`,
			"ID", ErrCodeParseError,
		},
		{
			"malformed xml",
			rdfxmlHeader + `><rdf:Description></rdf:RDF>`,
			"xml", ErrCodeParseError,
		},
		{
			"second document element",
			`<ex:A xmlns:ex="http://example.org/"/><ex:B xmlns:ex="http://example.org/"/>`,
			"document", ErrCodeParseError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRDFXMLReader(OptBaseIRI("")).Read(strings.NewReader(tt.doc))
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, formatNameRDFXML, parseErr.Format)
			assert.Equal(t, tt.rule, parseErr.Rule)
			assert.Equal(t, tt.code, Code(err))
		})
	}
}

func TestRDFXMLReadLimits(t *testing.T) {
	doc := rdfxmlHeader + `>
  <rdf:Description rdf:about="http://example.org/a">
    <ex:p><rdf:Description><ex:p><rdf:Description/></ex:p></rdf:Description></ex:p>
  </rdf:Description>
</rdf:RDF>`
	_, err := NewRDFXMLReader(OptMaxDepth(2)).Read(strings.NewReader(doc))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "nesting depth exceeds 2")
	assert.Equal(t, ErrCodeDepthExceeded, Code(err))

	_, err = NewRDFXMLReader(OptMaxTriples(1)).Read(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement limit 1 exceeded")
	assert.ErrorIs(t, err, ErrTripleLimitExceeded)
	assert.Equal(t, ErrCodeTripleLimitExceeded, Code(err))
}

func rdfxmlSampleGraph() *Graph {
	hi, _ := NewLiteralWithLanguage("hi", "en")
	x := BlankNode{ID: "x"}
	return exGraph(
		NewStatement(exA, exP, exB),
		NewStatement(exA, exQ, hi),
		NewStatement(exA, IRI{Value: "http://example.org/n"},
			NewLiteralWithDataTypeIRI("5", IRI{Value: XSDNamespace + "integer"})),
		NewStatement(exB, exP, x),
		NewStatement(x, exQ, NewLiteral("v")),
	)
}

func TestRDFXMLWriteFlat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRDFXMLWriter().Write(&buf, rdfxmlSampleGraph()))

	want := `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
		`<rdf:RDF xmlns:ex="http://example.org/" xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="http://example.org/a">` +
		`<ex:p rdf:resource="http://example.org/b"/>` +
		`<ex:q xml:lang="en">hi</ex:q>` +
		`<ex:n rdf:datatype="http://www.w3.org/2001/XMLSchema#integer">5</ex:n>` +
		`</rdf:Description>` +
		`<rdf:Description rdf:about="http://example.org/b"><ex:p rdf:nodeID="x"/></rdf:Description>` +
		`<rdf:Description rdf:nodeID="x"><ex:q>v</ex:q></rdf:Description>` +
		"</rdf:RDF>\n"
	assert.Empty(t, cmp.Diff(want, buf.String()))
}

func TestRDFXMLWriteStripedPretty(t *testing.T) {
	x, y := BlankNode{ID: "x"}, BlankNode{ID: "y"}
	g := exGraph(
		NewStatement(exA, exP, x),
		NewStatement(x, exQ, NewLiteral("a < b")),
		NewStatement(exB, exP, y),
	)
	var buf bytes.Buffer
	opts := RDFXMLOptions{Style: RDFXMLStriped, Pretty: true}
	require.NoError(t, NewRDFXMLWriter(OptRDFXML(opts)).Write(&buf, g))

	want := `<?xml version="1.0" encoding="utf-8"?>
<rdf:RDF xmlns:ex="http://example.org/" xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="http://example.org/a">
    <ex:p>
      <rdf:Description>
        <ex:q>a &lt; b</ex:q>
      </rdf:Description>
    </ex:p>
  </rdf:Description>
  <rdf:Description rdf:about="http://example.org/b">
    <ex:p rdf:parseType="Resource"/>
  </rdf:Description>
</rdf:RDF>
`
	assert.Empty(t, cmp.Diff(want, buf.String()))
}

func TestRDFXMLWriteAssignsPrefixes(t *testing.T) {
	g := NewGraph(WithStatements(
		NewStatement(exA, IRI{Value: FOAFNamespace + "name"}, NewLiteral("A")),
		NewStatement(exA, IRI{Value: "http://other.example/v#p"}, exB),
	))
	var buf bytes.Buffer
	require.NoError(t, NewRDFXMLWriter().Write(&buf, g))
	out := buf.String()
	assert.Contains(t, out, `xmlns:foaf="`+FOAFNamespace+`"`)
	assert.Contains(t, out, `xmlns:ns0="http://other.example/v#"`)
	assert.Contains(t, out, `<foaf:name>A</foaf:name>`)
	assert.Contains(t, out, `<ns0:p rdf:resource="http://example.org/b"/>`)
}

func TestRDFXMLWriteRejectsPredicateWithoutLocalName(t *testing.T) {
	g := NewGraph(WithStatements(NewStatement(exA, IRI{Value: "http://example.org/"}, exB)))
	var buf bytes.Buffer
	err := NewRDFXMLWriter().Write(&buf, g)
	assert.ErrorIs(t, err, ErrInvalidQName)
	assert.Zero(t, buf.Len())
}

func TestRDFXMLRoundTrip(t *testing.T) {
	g := rdfxmlSampleGraph()
	var buf bytes.Buffer
	require.NoError(t, NewRDFXMLWriter(OptRDFXML(RDFXMLOptions{Pretty: true})).Write(&buf, g))

	back, err := NewRDFXMLReader().Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(g.Statements(), back.Statements()))
}
