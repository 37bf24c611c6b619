package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixMappingInsertIsBijective(t *testing.T) {
	m := NewPrefixMapping()
	ns1 := IRI{Value: "http://example.org/one#"}
	ns2 := IRI{Value: "http://example.org/two#"}

	assert.Empty(t, m.Insert("ex", ns1))
	assert.Empty(t, m.Insert("ex", ns1))

	displaced := m.Insert("ex", ns2)
	assert.Equal(t, []Binding{{Prefix: "ex", Namespace: ns1}}, displaced)
	_, ok := m.Prefix(ns1)
	assert.False(t, ok)

	displaced = m.Insert("other", ns2)
	assert.Equal(t, []Binding{{Prefix: "ex", Namespace: ns2}}, displaced)
	_, ok = m.Namespace("ex")
	assert.False(t, ok)

	prefix, ok := m.Prefix(ns2)
	require.True(t, ok)
	assert.Equal(t, "other", prefix)
	assert.Equal(t, 1, m.Len())
}

func TestPrefixMappingTryInsert(t *testing.T) {
	m := NewPrefixMapping()
	ns1 := IRI{Value: "http://example.org/one#"}
	ns2 := IRI{Value: "http://example.org/two#"}

	require.NoError(t, m.TryInsert("ex", ns1))
	require.NoError(t, m.TryInsert("ex", ns1))

	err := m.TryInsert("ex", ns2)
	assert.ErrorIs(t, err, ErrPrefixConflict)
	assert.Equal(t, ErrCodePrefixConflict, Code(err))

	err = m.TryInsert("alias", ns1)
	assert.ErrorIs(t, err, ErrPrefixConflict)

	ns, _ := m.Namespace("ex")
	assert.Equal(t, ns1, ns)
}

func TestPrefixMappingDefaultNamespace(t *testing.T) {
	m := NewPrefixMapping()
	ns := IRI{Value: "http://example.org/vocab/"}
	m.SetDefaultNamespace(ns)

	got, ok := m.DefaultNamespace()
	require.True(t, ok)
	assert.Equal(t, ns, got)

	qname, ok := m.Compress(IRI{Value: "http://example.org/vocab/Thing"})
	require.True(t, ok)
	assert.Equal(t, ":Thing", qname.String())

	iri, ok := m.Expand(QName{Name: "Thing"})
	require.True(t, ok)
	assert.Equal(t, "http://example.org/vocab/Thing", iri.Value)

	m.RemoveDefaultNamespace()
	_, ok = m.DefaultNamespace()
	assert.False(t, ok)
	assert.True(t, m.IsEmpty())
}

func TestPrefixMappingExpandCompress(t *testing.T) {
	m := CommonPrefixMapping()

	iri, ok := m.Expand(QName{Prefix: "rdfs", Name: "label"})
	require.True(t, ok)
	assert.Equal(t, RDFSLabel, iri)

	qname, ok := m.Compress(RDFType)
	require.True(t, ok)
	assert.Equal(t, QName{Prefix: "rdf", Name: "type"}, qname)

	_, ok = m.Expand(QName{Prefix: "nope", Name: "x"})
	assert.False(t, ok)
	_, ok = m.Compress(IRI{Value: "http://unknown.example/x"})
	assert.False(t, ok)
	_, ok = m.Compress(IRI{Value: RDFNamespace})
	assert.False(t, ok)
}

func TestPrefixMappingMappingsSorted(t *testing.T) {
	m := NewPrefixMapping().IncludeXSD().IncludeRDF().IncludeFOAF()
	m.SetDefaultNamespace(IRI{Value: "http://example.org/"})

	var prefixes []string
	for _, b := range m.Mappings() {
		prefixes = append(prefixes, b.Prefix)
	}
	assert.Equal(t, []string{"", "foaf", "rdf", "xsd"}, prefixes)

	clone := m.Clone()
	m.Clear()
	assert.True(t, m.IsEmpty())
	assert.Equal(t, 4, clone.Len())
}

func TestCommonPrefixMapping(t *testing.T) {
	m := CommonPrefixMapping()
	for _, prefix := range []string{"dc", "owl", "rdf", "rdfs", "skos", "xsd"} {
		_, ok := m.Namespace(prefix)
		assert.True(t, ok, prefix)
	}
	assert.Equal(t, 6, m.Len())

	m.IncludeDCTerms().IncludeGeo()
	ns, ok := m.Namespace("geo")
	require.True(t, ok)
	assert.Equal(t, GeoNamespace, ns.Value)

	m.Remove("geo")
	_, ok = m.Namespace("geo")
	assert.False(t, ok)
	_, ok = m.Prefix(IRI{Value: GeoNamespace})
	assert.False(t, ok)
}
