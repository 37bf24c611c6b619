package rdf

import (
	"github.com/pkg/errors"
)

// Skolemize returns a new graph in which every blank node is replaced by an IRI
// minted with base.GenID. A blank node maps to the same IRI everywhere it
// occurs. The receiver is not modified.
func (g *Graph) Skolemize(base IRI) (*Graph, error) {
	if _, err := base.GenID(); err != nil {
		return nil, err
	}
	out := g.newGraphLike()
	memo := make(map[BlankNode]IRI)
	for _, st := range g.statements {
		subject, err := skolemizeTerm(st.subject, base, memo)
		if err != nil {
			return nil, err
		}
		object, err := skolemizeTerm(st.object, base, memo)
		if err != nil {
			return nil, err
		}
		out.Insert(NewStatement(subject.(SubjectNode), st.predicate, object.(ObjectNode)))
	}
	g.logger.WithField("minted", len(memo)).Debug("rdf: skolemized graph")
	return out, nil
}

func skolemizeTerm(t Term, base IRI, memo map[BlankNode]IRI) (Term, error) {
	switch v := t.(type) {
	case BlankNode:
		if iri, ok := memo[v]; ok {
			return iri, nil
		}
		iri, err := base.GenID()
		if err != nil {
			return nil, err
		}
		memo[v] = iri
		return iri, nil
	case *Statement:
		subject, err := skolemizeTerm(v.subject, base, memo)
		if err != nil {
			return nil, err
		}
		object, err := skolemizeTerm(v.object, base, memo)
		if err != nil {
			return nil, err
		}
		return NewQuoted(subject.(SubjectNode), v.predicate, object.(ObjectNode)), nil
	case *Collection:
		values := make([]ObjectNode, len(v.Values))
		for i, value := range v.Values {
			mapped, err := skolemizeTerm(value, base, memo)
			if err != nil {
				return nil, err
			}
			values[i] = mapped.(ObjectNode)
		}
		return &Collection{Container: v.Container, Type: v.Type, Values: values}, nil
	}
	return t, nil
}

// Simplify returns a new graph holding only plain triples. A nested subject is
// reified and replaced by its reification node, then a nested object likewise,
// then a collection object becomes rdf:type plus rdf:_1..rdf:_n statements on a
// fresh blank node. Each rewritten statement is simplified again until no case
// applies. The receiver is not modified.
func (g *Graph) Simplify() (*Graph, error) {
	out := g.newGraphLike()
	if !g.hasComplexNodes() {
		out.Extend(g.statements)
		return out, nil
	}
	minter := newAvoidingMinter(g.minter, g.statements)
	before := len(minter.used)
	for _, st := range g.statements {
		if err := simplifyStatement(out, minter, st); err != nil {
			return nil, err
		}
	}
	if minted := len(minter.used) - before; minted > 0 {
		g.logger.WithField("minted", minted).Debug("rdf: simplified graph")
	}
	return out, nil
}

func simplifyStatement(out *Graph, minter BlankNodeMinter, st Statement) error {
	if nested, ok := st.subject.(*Statement); ok {
		root, reified := nested.Reify(minter)
		for _, r := range reified {
			if err := simplifyStatement(out, minter, r); err != nil {
				return err
			}
		}
		return simplifyStatement(out, minter, NewStatement(root, st.predicate, st.object))
	}
	if nested, ok := st.object.(*Statement); ok {
		root, reified := nested.Reify(minter)
		for _, r := range reified {
			if err := simplifyStatement(out, minter, r); err != nil {
				return err
			}
		}
		return simplifyStatement(out, minter, NewStatement(st.subject, st.predicate, root))
	}
	if collection, ok := st.object.(*Collection); ok {
		class := collection.ClassIRI()
		if class.IsZero() {
			return errors.Wrap(ErrInvalidIRI, "collection has no container class")
		}
		node := minter.Next()
		if err := simplifyStatement(out, minter, NewStatement(node, RDFType, class)); err != nil {
			return err
		}
		for i, value := range collection.Values {
			if err := simplifyStatement(out, minter, NewStatement(node, RDFMember(i+1), value)); err != nil {
				return err
			}
		}
		return simplifyStatement(out, minter, NewStatement(st.subject, st.predicate, node))
	}
	out.Insert(st)
	return nil
}

// hasComplexNodes reports whether any statement needs Simplify before it can be
// written as a plain triple.
func (g *Graph) hasComplexNodes() bool {
	for _, st := range g.statements {
		if st.IsNested() {
			return true
		}
		if _, ok := st.object.(*Collection); ok {
			return true
		}
	}
	return false
}
