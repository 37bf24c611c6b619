package rdf

import (
	"strings"

	"github.com/pkg/errors"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
	// TermStatement represents an RDF-star nested statement.
	TermStatement
	// TermCollection represents an rdf:Alt, rdf:Bag or rdf:Seq container value.
	TermCollection
)

func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "blank"
	case TermLiteral:
		return "literal"
	case TermStatement:
		return "statement"
	case TermCollection:
		return "collection"
	}
	return "unknown"
}

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// SubjectNode is the subject of a statement: an IRI, a blank node or a nested
// statement. A literal can never be a subject.
type SubjectNode interface {
	Term
	subjectNode()
}

// ObjectNode is the object of a statement: anything a subject can be, plus
// literals and collections.
type ObjectNode interface {
	Term
	objectNode()
}

// BlankNode represents an RDF blank node. Equality is by label.
type BlankNode struct {
	// ID is the blank node label without the "_:" prefix.
	ID string
}

// NewBlankNode validates label and returns the blank node. A leading "_:" is stripped.
func NewBlankNode(label string) (BlankNode, error) {
	label = strings.TrimPrefix(label, "_:")
	if !isBlankLabel(label) {
		return BlankNode{}, errors.Wrapf(ErrInvalidBlankNode, "%q", label)
	}
	return BlankNode{ID: label}, nil
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

func (BlankNode) subjectNode() {}
func (BlankNode) objectNode()  {}

// isBlankLabel accepts XML names plus labels that start with a digit, which
// N-Triples allows.
func isBlankLabel(label string) bool {
	if label == "" {
		return false
	}
	if label[0] >= '0' && label[0] <= '9' {
		return isXMLName("_" + label)
	}
	return isXMLName(label)
}

// ContainerKind selects the RDF container class of a Collection.
type ContainerKind uint8

const (
	// ContainerOther uses Collection.Type as the container class.
	ContainerOther ContainerKind = iota
	// ContainerAlt is rdf:Alt.
	ContainerAlt
	// ContainerBag is rdf:Bag.
	ContainerBag
	// ContainerSeq is rdf:Seq.
	ContainerSeq
)

// Collection is a container value used as a statement object. Simplify turns it
// into rdf:type plus rdf:_1..rdf:_n membership statements on a fresh blank node.
type Collection struct {
	Container ContainerKind
	Type      IRI
	Values    []ObjectNode
}

// NewCollection returns a container of the given kind.
func NewCollection(kind ContainerKind, values ...ObjectNode) *Collection {
	return &Collection{Container: kind, Values: values}
}

// NewTypedCollection returns a container whose class is typ.
func NewTypedCollection(typ IRI, values ...ObjectNode) *Collection {
	return &Collection{Container: ContainerOther, Type: typ, Values: values}
}

// Kind returns TermCollection.
func (c *Collection) Kind() TermKind { return TermCollection }

func (*Collection) objectNode() {}

// ClassIRI returns the rdf container class of the collection.
func (c *Collection) ClassIRI() IRI {
	switch c.Container {
	case ContainerAlt:
		return RDFAlt
	case ContainerBag:
		return RDFBag
	case ContainerSeq:
		return RDFSeq
	}
	return c.Type
}

func (c *Collection) String() string {
	var b strings.Builder
	b.WriteString("[ a <")
	b.WriteString(c.ClassIRI().Value)
	b.WriteByte('>')
	for i, value := range c.Values {
		b.WriteString(" ; <")
		b.WriteString(RDFMember(i + 1).Value)
		b.WriteString("> ")
		writeTermKey(&b, value)
	}
	b.WriteString(" ]")
	return b.String()
}
