package rdf

import "strconv"

// Namespace IRIs for the vocabularies the core and its writers know about.
const (
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace    = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
	OWLNamespace     = "http://www.w3.org/2002/07/owl#"
	DCNamespace      = "http://purl.org/dc/elements/1.1/"
	DCTermsNamespace = "http://purl.org/dc/terms/"
	FOAFNamespace    = "http://xmlns.com/foaf/0.1/"
	GeoNamespace     = "http://www.w3.org/2003/01/geo/wgs84_pos#"
	SKOSNamespace    = "http://www.w3.org/2004/02/skos/core#"
	XMLNamespace     = "http://www.w3.org/XML/1998/namespace"
)

// Default prefixes for the namespaces above.
const (
	RDFPrefix     = "rdf"
	RDFSPrefix    = "rdfs"
	XSDPrefix     = "xsd"
	OWLPrefix     = "owl"
	DCPrefix      = "dc"
	DCTermsPrefix = "dcterms"
	FOAFPrefix    = "foaf"
	GeoPrefix     = "geo"
	SKOSPrefix    = "skos"
)

var (
	RDFType       = IRI{Value: RDFNamespace + "type"}
	RDFStatement  = IRI{Value: RDFNamespace + "Statement"}
	RDFSubject    = IRI{Value: RDFNamespace + "subject"}
	RDFPredicate  = IRI{Value: RDFNamespace + "predicate"}
	RDFObject     = IRI{Value: RDFNamespace + "object"}
	RDFAlt        = IRI{Value: RDFNamespace + "Alt"}
	RDFBag        = IRI{Value: RDFNamespace + "Bag"}
	RDFSeq        = IRI{Value: RDFNamespace + "Seq"}
	RDFFirst      = IRI{Value: RDFNamespace + "first"}
	RDFRest       = IRI{Value: RDFNamespace + "rest"}
	RDFNil        = IRI{Value: RDFNamespace + "nil"}
	RDFLi         = IRI{Value: RDFNamespace + "li"}
	RDFXMLLiteral = IRI{Value: RDFNamespace + "XMLLiteral"}

	RDFSLabel   = IRI{Value: RDFSNamespace + "label"}
	RDFSComment = IRI{Value: RDFSNamespace + "comment"}

	FOAFName      = IRI{Value: FOAFNamespace + "name"}
	DCTitle       = IRI{Value: DCNamespace + "title"}
	DCDescription = IRI{Value: DCNamespace + "description"}
)

// RDFMember returns the container membership property rdf:_index (1-based).
func RDFMember(index int) IRI {
	return IRI{Value: RDFNamespace + "_" + strconv.Itoa(index)}
}
