package rdf

import (
	"sort"

	"github.com/pkg/errors"
)

// Binding is one prefix to namespace entry of a PrefixMapping. The empty Prefix
// is the default namespace.
type Binding struct {
	Prefix    string
	Namespace IRI
}

// PrefixMapping is a bijective table between prefixes and namespace IRIs. Every
// prefix maps to at most one namespace and every namespace to at most one prefix.
// The empty prefix holds the default namespace.
//
// A PrefixMapping may be shared by several graphs; it is not safe for
// concurrent mutation.
type PrefixMapping struct {
	namespaces map[string]IRI
	prefixes   map[IRI]string
}

// NewPrefixMapping returns an empty mapping.
func NewPrefixMapping() *PrefixMapping {
	return &PrefixMapping{
		namespaces: make(map[string]IRI),
		prefixes:   make(map[IRI]string),
	}
}

// CommonPrefixMapping returns a mapping holding dc, owl, rdf, rdfs, skos and xsd.
func CommonPrefixMapping() *PrefixMapping {
	return NewPrefixMapping().IncludeDC().IncludeOWL().IncludeRDF().IncludeRDFS().IncludeSKOS().IncludeXSD()
}

// Insert binds prefix to namespace, replacing any binding that used either of
// them. The displaced bindings are returned so the caller can tell a silent
// overwrite happened.
func (m *PrefixMapping) Insert(prefix string, namespace IRI) []Binding {
	var displaced []Binding
	if old, ok := m.namespaces[prefix]; ok {
		if old == namespace {
			return nil
		}
		delete(m.prefixes, old)
		delete(m.namespaces, prefix)
		displaced = append(displaced, Binding{Prefix: prefix, Namespace: old})
	}
	if old, ok := m.prefixes[namespace]; ok {
		delete(m.namespaces, old)
		delete(m.prefixes, namespace)
		displaced = append(displaced, Binding{Prefix: old, Namespace: namespace})
	}
	m.namespaces[prefix] = namespace
	m.prefixes[namespace] = prefix
	return displaced
}

// TryInsert binds prefix to namespace unless either is already bound to
// something else, in which case it returns ErrPrefixConflict.
func (m *PrefixMapping) TryInsert(prefix string, namespace IRI) error {
	if old, ok := m.namespaces[prefix]; ok && old != namespace {
		return errors.Wrapf(ErrPrefixConflict, "prefix %q is bound to <%s>", prefix, old.Value)
	}
	if old, ok := m.prefixes[namespace]; ok && old != prefix {
		return errors.Wrapf(ErrPrefixConflict, "<%s> is bound to prefix %q", namespace.Value, old)
	}
	m.Insert(prefix, namespace)
	return nil
}

// SetDefaultNamespace binds the default (empty) prefix.
func (m *PrefixMapping) SetDefaultNamespace(namespace IRI) []Binding {
	return m.Insert("", namespace)
}

// RemoveDefaultNamespace unbinds the default prefix.
func (m *PrefixMapping) RemoveDefaultNamespace() {
	m.Remove("")
}

// DefaultNamespace returns the default namespace, if set.
func (m *PrefixMapping) DefaultNamespace() (IRI, bool) {
	return m.Namespace("")
}

// Namespace returns the namespace bound to prefix.
func (m *PrefixMapping) Namespace(prefix string) (IRI, bool) {
	ns, ok := m.namespaces[prefix]
	return ns, ok
}

// Prefix returns the prefix bound to namespace.
func (m *PrefixMapping) Prefix(namespace IRI) (string, bool) {
	prefix, ok := m.prefixes[namespace]
	return prefix, ok
}

// Remove unbinds prefix.
func (m *PrefixMapping) Remove(prefix string) {
	if ns, ok := m.namespaces[prefix]; ok {
		delete(m.prefixes, ns)
		delete(m.namespaces, prefix)
	}
}

// Clear removes every binding.
func (m *PrefixMapping) Clear() {
	clear(m.namespaces)
	clear(m.prefixes)
}

// Len returns the number of bindings.
func (m *PrefixMapping) Len() int { return len(m.namespaces) }

// IsEmpty reports whether the mapping has no bindings.
func (m *PrefixMapping) IsEmpty() bool { return len(m.namespaces) == 0 }

// Mappings returns every binding sorted by prefix; the default namespace sorts first.
func (m *PrefixMapping) Mappings() []Binding {
	out := make([]Binding, 0, len(m.namespaces))
	for _, prefix := range sortedPrefixKeys(m.namespaces) {
		out = append(out, Binding{Prefix: prefix, Namespace: m.namespaces[prefix]})
	}
	return out
}

// Clone returns an independent copy.
func (m *PrefixMapping) Clone() *PrefixMapping {
	out := NewPrefixMapping()
	for prefix, ns := range m.namespaces {
		out.namespaces[prefix] = ns
		out.prefixes[ns] = prefix
	}
	return out
}

// Expand resolves qname to a full IRI. It reports false when the prefix is unmapped.
func (m *PrefixMapping) Expand(qname QName) (IRI, bool) {
	ns, ok := m.namespaces[qname.Prefix]
	if !ok {
		return IRI{}, false
	}
	return ns.MakeName(qname.Name)
}

// Compress splits iri and looks up a prefix for its namespace. It reports false
// when the IRI cannot be split or the namespace has no prefix.
func (m *PrefixMapping) Compress(iri IRI) (QName, bool) {
	ns, name, ok := iri.Split()
	if !ok {
		return QName{}, false
	}
	prefix, ok := m.prefixes[ns]
	if !ok {
		return QName{}, false
	}
	return QName{Prefix: prefix, Name: name}, true
}

// IncludeDC binds dc to the Dublin Core elements namespace.
func (m *PrefixMapping) IncludeDC() *PrefixMapping {
	m.Insert(DCPrefix, IRI{Value: DCNamespace})
	return m
}

// IncludeDCTerms binds dcterms to the Dublin Core terms namespace.
func (m *PrefixMapping) IncludeDCTerms() *PrefixMapping {
	m.Insert(DCTermsPrefix, IRI{Value: DCTermsNamespace})
	return m
}

// IncludeFOAF binds foaf.
func (m *PrefixMapping) IncludeFOAF() *PrefixMapping {
	m.Insert(FOAFPrefix, IRI{Value: FOAFNamespace})
	return m
}

// IncludeGeo binds geo to the WGS84 namespace.
func (m *PrefixMapping) IncludeGeo() *PrefixMapping {
	m.Insert(GeoPrefix, IRI{Value: GeoNamespace})
	return m
}

// IncludeOWL binds owl.
func (m *PrefixMapping) IncludeOWL() *PrefixMapping {
	m.Insert(OWLPrefix, IRI{Value: OWLNamespace})
	return m
}

// IncludeRDF binds rdf.
func (m *PrefixMapping) IncludeRDF() *PrefixMapping {
	m.Insert(RDFPrefix, IRI{Value: RDFNamespace})
	return m
}

// IncludeRDFS binds rdfs.
func (m *PrefixMapping) IncludeRDFS() *PrefixMapping {
	m.Insert(RDFSPrefix, IRI{Value: RDFSNamespace})
	return m
}

// IncludeSKOS binds skos.
func (m *PrefixMapping) IncludeSKOS() *PrefixMapping {
	m.Insert(SKOSPrefix, IRI{Value: SKOSNamespace})
	return m
}

// IncludeXSD binds xsd.
func (m *PrefixMapping) IncludeXSD() *PrefixMapping {
	m.Insert(XSDPrefix, IRI{Value: XSDNamespace})
	return m
}

func sortedPrefixKeys[V any](prefixes map[string]V) []string {
	keys := make([]string, 0, len(prefixes))
	for key := range prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
