package rdf

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RDFXMLStyle selects how subjects are laid out in the document.
type RDFXMLStyle string

const (
	// RDFXMLFlat writes every subject as a top-level rdf:Description.
	RDFXMLFlat RDFXMLStyle = "flat"
	// RDFXMLStriped nests singly referenced blank nodes inside their property element.
	RDFXMLStriped RDFXMLStyle = "striped"
)

// RDFXMLOptions configures the RDF/XML writer.
type RDFXMLOptions struct {
	Style    RDFXMLStyle `yaml:"style"`
	Pretty   bool        `yaml:"pretty"`
	Encoding string      `yaml:"encoding"`
}

// DefaultRDFXMLOptions returns flat, compact, utf-8 output.
func DefaultRDFXMLOptions() RDFXMLOptions {
	return RDFXMLOptions{Style: RDFXMLFlat, Encoding: "utf-8"}
}

// rdfxmlDefaultPrefixes are used for namespaces the graph mapping does not name.
var rdfxmlDefaultPrefixes = []Binding{
	{Prefix: DCPrefix, Namespace: IRI{Value: DCNamespace}},
	{Prefix: FOAFPrefix, Namespace: IRI{Value: FOAFNamespace}},
	{Prefix: GeoPrefix, Namespace: IRI{Value: GeoNamespace}},
	{Prefix: OWLPrefix, Namespace: IRI{Value: OWLNamespace}},
	{Prefix: RDFSPrefix, Namespace: IRI{Value: RDFSNamespace}},
	{Prefix: XSDPrefix, Namespace: IRI{Value: XSDNamespace}},
}

// RDFXMLWriter writes RDF/XML. The graph is simplified first.
type RDFXMLWriter struct {
	Options RDFXMLOptions
	logger  logrus.FieldLogger
}

// NewRDFXMLWriter creates a writer configured by opts.
func NewRDFXMLWriter(opts ...Option) *RDFXMLWriter {
	options := buildOptions(opts)
	return &RDFXMLWriter{Options: options.RDFXML, logger: options.Logger}
}

// Write serializes g. Nothing is written when the graph cannot be expressed.
func (w *RDFXMLWriter) Write(out io.Writer, g *Graph) error {
	simple, err := g.Simplify()
	if err != nil {
		return err
	}
	e := newRDFXMLEmitter(simple, w.Options)
	if err := e.assignPrefixes(g.PrefixMappings()); err != nil {
		return err
	}
	e.writeDocument()
	if e.err != nil {
		return e.err
	}
	if _, err := io.WriteString(out, e.out.String()); err != nil {
		return wrapIOError(formatNameRDFXML, err)
	}
	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{
			"statements": simple.Len(),
			"style":      w.Options.Style,
		}).Debug("rdf: wrote rdfxml")
	}
	return nil
}

// rdfxmlEmitter holds the state of one Write call.
type rdfxmlEmitter struct {
	g        *Graph
	opts     RDFXMLOptions
	out      strings.Builder
	err      error
	prefixes map[string]string // namespace -> prefix
	refs     map[BlankNode]int
	written  map[BlankNode]bool
	active   map[BlankNode]bool
}

func newRDFXMLEmitter(g *Graph, opts RDFXMLOptions) *rdfxmlEmitter {
	if opts.Encoding == "" {
		opts.Encoding = "utf-8"
	}
	if opts.Style == "" {
		opts.Style = RDFXMLFlat
	}
	e := &rdfxmlEmitter{
		g:        g,
		opts:     opts,
		prefixes: map[string]string{rdfXMLNS: RDFPrefix},
		refs:     make(map[BlankNode]int),
		written:  make(map[BlankNode]bool),
		active:   make(map[BlankNode]bool),
	}
	for _, st := range g.statements {
		if blank, ok := st.object.(BlankNode); ok {
			e.refs[blank]++
		}
	}
	return e
}

// assignPrefixes binds a prefix to every predicate namespace: the graph's own
// prefix first, then the well-known defaults, then ns0, ns1 and so on.
func (e *rdfxmlEmitter) assignPrefixes(mappings *PrefixMapping) error {
	used := map[string]bool{RDFPrefix: true, "xml": true}
	bind := func(prefix, namespace string) bool {
		if prefix == "" || used[prefix] || strings.HasPrefix(strings.ToLower(prefix), "xml") {
			return false
		}
		if _, ok := e.prefixes[namespace]; ok {
			return false
		}
		e.prefixes[namespace] = prefix
		used[prefix] = true
		return true
	}
	var namespaces []string
	seen := make(map[string]bool)
	for _, predicate := range e.g.Predicates() {
		namespace, _, err := splitPredicate(predicate)
		if err != nil {
			return err
		}
		if !seen[namespace] {
			seen[namespace] = true
			namespaces = append(namespaces, namespace)
		}
	}
	if mappings != nil {
		for _, binding := range mappings.Mappings() {
			if seen[binding.Namespace.Value] {
				bind(binding.Prefix, binding.Namespace.Value)
			}
		}
	}
	for _, binding := range rdfxmlDefaultPrefixes {
		if seen[binding.Namespace.Value] {
			bind(binding.Prefix, binding.Namespace.Value)
		}
	}
	next := 0
	for _, namespace := range namespaces {
		if _, ok := e.prefixes[namespace]; ok {
			continue
		}
		for !bind("ns"+strconv.Itoa(next), namespace) {
			next++
		}
	}
	return nil
}

func (e *rdfxmlEmitter) writeDocument() {
	e.out.WriteString(`<?xml version="1.0" encoding="`)
	e.out.WriteString(escapeXML(e.opts.Encoding))
	e.out.WriteString("\"?>\n")

	prefixes := make([]string, 0, len(e.prefixes))
	byPrefix := make(map[string]string, len(e.prefixes))
	for namespace, prefix := range e.prefixes {
		prefixes = append(prefixes, prefix)
		byPrefix[prefix] = namespace
	}
	sort.Strings(prefixes)
	e.out.WriteString("<rdf:RDF")
	for _, prefix := range prefixes {
		e.out.WriteString(" xmlns:")
		e.out.WriteString(prefix)
		e.out.WriteString(`="`)
		e.out.WriteString(escapeXML(byPrefix[prefix]))
		e.out.WriteByte('"')
	}
	e.out.WriteByte('>')
	e.newline()

	if e.opts.Style == RDFXMLStriped {
		for _, subject := range e.g.NodeSubjects() {
			e.writeSubject(subject, 1, false)
		}
		blanks := e.g.BlankNodeSubjects()
		for _, blank := range blanks {
			if !e.written[blank] && e.refs[blank] != 1 {
				e.writeSubject(blank, 1, false)
			}
		}
		for _, blank := range blanks {
			if !e.written[blank] {
				e.writeSubject(blank, 1, false)
			}
		}
	} else {
		for _, subject := range e.g.Subjects() {
			e.writeSubject(subject, 1, false)
		}
	}
	e.out.WriteString("</rdf:RDF>\n")
}

// writeSubject writes one rdf:Description. A nested blank node carries no nodeID.
func (e *rdfxmlEmitter) writeSubject(subject SubjectNode, level int, nested bool) {
	if e.err != nil {
		return
	}
	e.indent(level)
	switch s := subject.(type) {
	case IRI:
		e.out.WriteString(`<rdf:Description rdf:about="`)
		e.out.WriteString(escapeXML(s.Value))
		e.out.WriteString(`">`)
	case BlankNode:
		e.written[s] = true
		e.active[s] = true
		defer delete(e.active, s)
		if nested {
			e.out.WriteString("<rdf:Description>")
		} else {
			e.out.WriteString(`<rdf:Description rdf:nodeID="`)
			e.out.WriteString(escapeXML(s.ID))
			e.out.WriteString(`">`)
		}
	default:
		e.err = errors.Wrapf(ErrRDFStarUnsupported, "rdfxml subject %s", subject)
		return
	}
	e.newline()
	for _, predicate := range e.g.PredicatesFor(subject) {
		for _, object := range e.g.ObjectsFor(subject, predicate) {
			e.writeProperty(predicate, object, level+1)
		}
	}
	e.indent(level)
	e.out.WriteString("</rdf:Description>")
	e.newline()
}

func (e *rdfxmlEmitter) writeProperty(predicate IRI, object ObjectNode, level int) {
	if e.err != nil {
		return
	}
	namespace, local, err := splitPredicate(predicate)
	if err != nil {
		e.err = err
		return
	}
	name := e.prefixes[namespace] + ":" + local
	e.indent(level)
	e.out.WriteByte('<')
	e.out.WriteString(name)
	switch o := object.(type) {
	case IRI:
		e.out.WriteString(` rdf:resource="`)
		e.out.WriteString(escapeXML(o.Value))
		e.out.WriteString(`"/>`)
	case BlankNode:
		if e.nestable(o) {
			if !e.g.ContainsSubject(o) {
				e.written[o] = true
				e.out.WriteString(` rdf:parseType="Resource"/>`)
				break
			}
			e.out.WriteByte('>')
			e.newline()
			e.writeSubject(o, level+1, true)
			e.indent(level)
			e.out.WriteString("</")
			e.out.WriteString(name)
			e.out.WriteByte('>')
			break
		}
		e.out.WriteString(` rdf:nodeID="`)
		e.out.WriteString(escapeXML(o.ID))
		e.out.WriteString(`"/>`)
	case Literal:
		switch {
		case o.HasLanguage():
			e.out.WriteString(` xml:lang="`)
			e.out.WriteString(escapeXML(string(o.Language())))
			e.out.WriteString(`">`)
			e.out.WriteString(escapeXML(o.Value()))
		case o.DataType().Kind() == DataTypeXMLLiteral:
			e.out.WriteString(` rdf:parseType="Literal">`)
			e.out.WriteString(o.Value())
		case o.HasDataType():
			e.out.WriteString(` rdf:datatype="`)
			e.out.WriteString(escapeXML(o.DataType().IRI().Value))
			e.out.WriteString(`">`)
			e.out.WriteString(escapeXML(o.Value()))
		default:
			e.out.WriteByte('>')
			e.out.WriteString(escapeXML(o.Value()))
		}
		e.out.WriteString("</")
		e.out.WriteString(name)
		e.out.WriteByte('>')
	default:
		e.err = errors.Wrapf(ErrRDFStarUnsupported, "rdfxml object %s", object)
		return
	}
	e.newline()
}

// nestable reports whether a blank object can be written inline in striped style.
func (e *rdfxmlEmitter) nestable(blank BlankNode) bool {
	return e.opts.Style == RDFXMLStriped && e.refs[blank] == 1 && !e.written[blank] && !e.active[blank]
}

func (e *rdfxmlEmitter) indent(level int) {
	if e.opts.Pretty {
		e.out.WriteString(strings.Repeat("  ", level))
	}
}

func (e *rdfxmlEmitter) newline() {
	if e.opts.Pretty {
		e.out.WriteByte('\n')
	}
}
