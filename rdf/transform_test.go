package rdf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkolemize(t *testing.T) {
	x, y := BlankNode{ID: "x"}, BlankNode{ID: "y"}
	g := NewGraph(WithStatements(
		NewStatement(x, exP, exA),
		NewStatement(exA, exQ, x),
		NewStatement(y, exP, NewLiteral("lit")),
	))

	out, err := g.Skolemize(IRI{Value: "http://example.org/base"})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	statements := out.Statements()
	first, ok := statements[0].Subject().(IRI)
	require.True(t, ok)
	assert.True(t, first.IsGenID())
	assert.True(t, strings.HasPrefix(first.Value, "http://example.org/.well-known/genid/"))
	assert.Equal(t, first, statements[1].Object())

	third, ok := statements[2].Subject().(IRI)
	require.True(t, ok)
	assert.NotEqual(t, first, third)
	assert.Equal(t, NewLiteral("lit"), statements[2].Object())

	assert.Empty(t, out.BlankNodeSubjects())
	assert.Equal(t, []BlankNode{x, y}, g.BlankNodeSubjects())
}

func TestSkolemizeNestedAndCollections(t *testing.T) {
	x := BlankNode{ID: "x"}
	g := NewGraph(WithStatements(
		NewStatement(NewQuoted(x, exP, exB), exQ, NewCollection(ContainerSeq, x)),
	))
	out, err := g.Skolemize(IRI{Value: "http://example.org/"})
	require.NoError(t, err)

	st := out.Statements()[0]
	nested, ok := st.Subject().(*Statement)
	require.True(t, ok)
	collection, ok := st.Object().(*Collection)
	require.True(t, ok)
	assert.Equal(t, nested.Subject(), collection.Values[0])
	assert.True(t, nested.Subject().(IRI).IsGenID())
}

func TestSkolemizeRejectsRelativeBase(t *testing.T) {
	g := NewGraph(WithStatements(NewStatement(BlankNode{ID: "x"}, exP, exA)))
	_, err := g.Skolemize(IRI{Value: "relative"})
	assert.ErrorIs(t, err, ErrAbsoluteIRIExpected)
}

func TestSimplifyNestedSubject(t *testing.T) {
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(NewStatement(NewQuoted(exA, exP, exB), exQ, NewLiteral("v"))),
	)
	out, err := g.Simplify()
	require.NoError(t, err)

	b := BlankNode{ID: "B1"}
	want := []Statement{
		NewStatement(b, RDFType, RDFStatement),
		NewStatement(b, RDFSubject, exA),
		NewStatement(b, RDFPredicate, exP),
		NewStatement(b, RDFObject, exB),
		NewStatement(b, exQ, NewLiteral("v")),
	}
	assert.Empty(t, cmp.Diff(want, out.Statements()))
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Statements()[0].IsNested())
}

func TestSimplifyNestedObjectAvoidsExistingLabels(t *testing.T) {
	taken := BlankNode{ID: "B1"}
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(
			NewStatement(taken, exP, exA),
			NewStatement(exA, exQ, NewQuoted(exB, exP, exC)),
		),
	)
	out, err := g.Simplify()
	require.NoError(t, err)

	b := BlankNode{ID: "B2"}
	want := []Statement{
		NewStatement(taken, exP, exA),
		NewStatement(b, RDFType, RDFStatement),
		NewStatement(b, RDFSubject, exB),
		NewStatement(b, RDFPredicate, exP),
		NewStatement(b, RDFObject, exC),
		NewStatement(exA, exQ, b),
	}
	assert.Empty(t, cmp.Diff(want, out.Statements()))
}

func TestSimplifyCollection(t *testing.T) {
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(NewStatement(exA, exP, NewCollection(ContainerBag, NewLiteral("a"), exB))),
	)
	out, err := g.Simplify()
	require.NoError(t, err)

	b := BlankNode{ID: "B1"}
	want := []Statement{
		NewStatement(b, RDFType, RDFBag),
		NewStatement(b, RDFMember(1), NewLiteral("a")),
		NewStatement(b, RDFMember(2), exB),
		NewStatement(exA, exP, b),
	}
	assert.Empty(t, cmp.Diff(want, out.Statements()))
}

func TestSimplifyCollectionOfStatements(t *testing.T) {
	g := NewGraph(
		WithMinter(NewSequenceMinter("B")),
		WithStatements(NewStatement(exA, exP, NewCollection(ContainerSeq, NewQuoted(exA, exQ, exB)))),
	)
	out, err := g.Simplify()
	require.NoError(t, err)
	for _, st := range out.Statements() {
		assert.False(t, st.IsNested(), st.Key())
		_, isCollection := st.Object().(*Collection)
		assert.False(t, isCollection, st.Key())
	}
	assert.Equal(t, 7, out.Len())
}

func TestSimplifyCollectionWithoutClass(t *testing.T) {
	g := NewGraph(WithStatements(NewStatement(exA, exP, NewTypedCollection(IRI{}, exB))))
	_, err := g.Simplify()
	assert.ErrorIs(t, err, ErrInvalidIRI)
}

func TestSimplifyPlainGraphCopies(t *testing.T) {
	g := NewGraph(WithStatements(sampleStatements()...))
	out, err := g.Simplify()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(g.Statements(), out.Statements()))

	out.Clear()
	assert.Equal(t, 4, g.Len())
}
