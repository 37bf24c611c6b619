// Package rdf provides an in-memory RDF graph model with RDF-star statements
// and readers/writers for the common serializations.
//
// The model:
//   - IRI, BlankNode and Literal are the terms. QName and PrefixMapping handle
//     prefixed names.
//   - Statement is a subject/predicate/object triple. A *Statement can itself be
//     the subject or object of another statement (RDF-star), and a *Collection
//     can be an object.
//   - Graph keeps statements in insertion order, optionally unique, with a name,
//     prefix mappings and a blank node minter. IndexedGraph adds lookup indices.
//   - DataSet holds a default graph and named graphs.
//
// Transforms:
//   - Graph.Skolemize replaces blank nodes with .well-known/genid IRIs.
//   - Graph.Simplify rewrites nested statements as rdf:Statement reifications
//     and collections as rdf containers, so formats without RDF-star can hold them.
//
// Supported formats:
//   - Read: N-Triples (with quoted triples), N-Quads, RDF/XML, RDF/JSON, JSON-LD
//   - Write: Turtle, N-Triples, N-Quads, RDF/XML, RDF/JSON, JSON-LD, GraphViz dot
//
// ReadDataSet and WriteDataSet handle every graph of an N-Quads document;
// JSON-LD data sets can be read.
//
// Writers other than Turtle simplify the graph first. The Turtle
// writer output is deterministic: subjects, predicates and objects are sorted
// and single-reference blank nodes are nested.
//
// Example (reading and writing):
//
//	g, err := rdf.ReadGraph(strings.NewReader(input), rdf.FormatNTriples,
//	    rdf.OptBaseIRI("http://example.org/"))
//	if err != nil {
//	    // rdf.Code(err) gives a stable error code
//	}
//	g.PrefixMappings().Insert("ex", rdf.IRI{Value: "http://example.org/"})
//	if err := rdf.WriteGraph(os.Stdout, g, rdf.FormatTurtle); err != nil {
//	    // handle error
//	}
//
// Reader options bound untrusted input with OptMaxLineBytes, OptMaxDepth and
// OptMaxTriples, or OptSafeLimits for all three. Parse failures are *ParseError
// values carrying the format, grammar rule, position and offending token.
//
// Config loads the same options from YAML for the rdfconv command.
package rdf
