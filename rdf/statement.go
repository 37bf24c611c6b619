package rdf

import (
	"fmt"
	"strings"
)

// Statement is an immutable (subject, predicate, object) triple. Graphs hold
// statements by value; a statement nested inside another is shared as *Statement.
type Statement struct {
	subject   SubjectNode
	predicate IRI
	object    ObjectNode
}

// NewStatement builds a statement. It panics on a nil subject or object.
func NewStatement(subject SubjectNode, predicate IRI, object ObjectNode) Statement {
	if subject == nil || object == nil {
		panic("rdf: statement subject and object must not be nil")
	}
	return Statement{subject: subject, predicate: predicate, object: object}
}

// NewQuoted builds a statement for use as the subject or object of another statement.
func NewQuoted(subject SubjectNode, predicate IRI, object ObjectNode) *Statement {
	st := NewStatement(subject, predicate, object)
	return &st
}

// Subject returns the subject.
func (s Statement) Subject() SubjectNode { return s.subject }

// Predicate returns the predicate.
func (s Statement) Predicate() IRI { return s.predicate }

// Object returns the object.
func (s Statement) Object() ObjectNode { return s.object }

// Kind returns TermStatement.
func (s Statement) Kind() TermKind { return TermStatement }

func (*Statement) subjectNode() {}
func (*Statement) objectNode()  {}

// IsNested reports whether the subject or object is itself a statement.
func (s Statement) IsNested() bool {
	if _, ok := s.subject.(*Statement); ok {
		return true
	}
	_, ok := s.object.(*Statement)
	return ok
}

// Key returns the canonical structural form "s p o" in N-Triples-star syntax.
// Two statements are equal exactly when their keys are equal.
func (s Statement) Key() string {
	var b strings.Builder
	writeTermKey(&b, s.subject)
	b.WriteByte(' ')
	writeTermKey(&b, s.predicate)
	b.WriteByte(' ')
	writeTermKey(&b, s.object)
	return b.String()
}

// String returns the quoted triple form "<< s p o >>".
func (s Statement) String() string {
	return "<< " + s.Key() + " >>"
}

// Equal reports structural equality.
func (s Statement) Equal(other Statement) bool {
	return s.predicate == other.predicate &&
		termEqual(s.subject, other.subject) &&
		termEqual(s.object, other.object)
}

// Reify decomposes the statement into the four standard reification statements
// about a fresh blank node, returned as the first value. Nested subjects and
// objects are reified first, each level with its own blank node.
func (s Statement) Reify(minter BlankNodeMinter) (BlankNode, []Statement) {
	node := minter.Next()
	out := []Statement{NewStatement(node, RDFType, RDFStatement)}

	var subject ObjectNode
	switch v := s.subject.(type) {
	case *Statement:
		root, inner := v.Reify(minter)
		out = append(out, inner...)
		subject = root
	case ObjectNode:
		subject = v
	default:
		panic(fmt.Sprintf("rdf: subject %T cannot be reified", s.subject))
	}
	out = append(out, NewStatement(node, RDFSubject, subject))
	out = append(out, NewStatement(node, RDFPredicate, s.predicate))

	object := s.object
	if nested, ok := object.(*Statement); ok {
		root, inner := nested.Reify(minter)
		out = append(out, inner...)
		object = root
	}
	out = append(out, NewStatement(node, RDFObject, object))
	return node, out
}

func termKey(t Term) string {
	var b strings.Builder
	writeTermKey(&b, t)
	return b.String()
}

func writeTermKey(b *strings.Builder, t Term) {
	switch v := t.(type) {
	case IRI:
		b.WriteByte('<')
		b.WriteString(v.Value)
		b.WriteByte('>')
	case BlankNode:
		b.WriteString(v.String())
	case Literal:
		b.WriteString(v.String())
	case *Statement:
		b.WriteString("<< ")
		b.WriteString(v.Key())
		b.WriteString(" >>")
	case *Collection:
		b.WriteString(v.String())
	default:
		panic("rdf: unknown term kind " + t.Kind().String())
	}
}

func termEqual(a, b Term) bool {
	switch x := a.(type) {
	case IRI, BlankNode, Literal:
		return a == b
	case *Statement:
		y, ok := b.(*Statement)
		return ok && (x == y || x.Equal(*y))
	case *Collection:
		y, ok := b.(*Collection)
		if !ok || x.Container != y.Container || x.Type != y.Type || len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !termEqual(x.Values[i], y.Values[i]) {
				return false
			}
		}
		return true
	}
	return false
}
