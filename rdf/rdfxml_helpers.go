package rdf

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	formatNameRDFXML = "rdfxml"

	rdfXMLNS = RDFNamespace
	xmlNS    = XMLNamespace

	parseTypeLiteral    = "Literal"
	parseTypeResource   = "Resource"
	parseTypeCollection = "Collection"
)

// xmlScope carries the inherited xml:base and xml:lang of an element.
type xmlScope struct {
	base string
	lang string
}

// child applies the xml:base and xml:lang attributes of el.
func (s xmlScope) child(el xml.StartElement) xmlScope {
	out := s
	for _, attr := range el.Attr {
		if attr.Name.Space != xmlNS {
			continue
		}
		switch attr.Name.Local {
		case "base":
			if hasScheme(attr.Value) || s.base == "" {
				out.base = attr.Value
			} else {
				out.base = resolveIRI(s.base, attr.Value)
			}
		case "lang":
			out.lang = attr.Value
		}
	}
	return out
}

// attrValue returns the value of the attribute space:local and whether it is present.
func attrValue(attrs []xml.Attr, space, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == space && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// isSyntaxAttr reports whether attr is handled by the grammar rather than being
// a property attribute.
func isSyntaxAttr(attr xml.Attr) bool {
	switch {
	case attr.Name.Space == "" || attr.Name.Space == xmlNS || attr.Name.Space == "xmlns":
		return true
	case attr.Name.Space != rdfXMLNS:
		return false
	}
	switch attr.Name.Local {
	case "about", "ID", "nodeID", "resource", "datatype", "parseType", "aboutEach", "aboutEachPrefix", "bagID":
		return true
	}
	return false
}

// isForbiddenNodeElement reports names that may not be used for node elements.
func isForbiddenNodeElement(name xml.Name) bool {
	if name.Space != rdfXMLNS {
		return false
	}
	switch name.Local {
	case "RDF", "ID", "about", "parseType", "resource", "nodeID", "datatype", "li", "aboutEach", "aboutEachPrefix", "bagID":
		return true
	}
	return false
}

// isForbiddenPropertyElement reports names that may not be used for property elements.
func isForbiddenPropertyElement(name xml.Name) bool {
	if name.Space != rdfXMLNS {
		return false
	}
	switch name.Local {
	case "RDF", "Description", "ID", "about", "parseType", "resource", "nodeID", "datatype", "aboutEach", "aboutEachPrefix", "bagID":
		return true
	}
	return false
}

// containerIndex parses the n of an rdf:_n element name.
func containerIndex(local string) (int, bool) {
	if !strings.HasPrefix(local, "_") {
		return 0, false
	}
	n, err := strconv.Atoi(local[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func elementIRI(name xml.Name) IRI {
	return IRI{Value: name.Space + name.Local}
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + name.Local
}

// splitPredicate splits a predicate IRI into a namespace and an XML element
// name for the writer.
func splitPredicate(predicate IRI) (string, string, error) {
	value := predicate.Value
	idx := strings.LastIndexAny(value, "#/")
	if idx <= 0 || idx+1 >= len(value) {
		return "", "", errors.Wrapf(ErrInvalidQName, "predicate %q has no local name", value)
	}
	local := value[idx+1:]
	if !isXMLName(local) {
		return "", "", errors.Wrapf(ErrInvalidQName, "predicate %q local name %q is not an XML name", value, local)
	}
	return value[:idx+1], local, nil
}

var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

// writeInnerXML re-serializes a token of an rdf:parseType="Literal" body.
// inherited is the default namespace in effect at the token.
func writeInnerXML(b *strings.Builder, tok xml.Token, inherited string) {
	switch t := tok.(type) {
	case xml.StartElement:
		b.WriteByte('<')
		b.WriteString(t.Name.Local)
		if t.Name.Space != inherited {
			b.WriteString(` xmlns="`)
			b.WriteString(escapeXML(t.Name.Space))
			b.WriteByte('"')
		}
		for _, attr := range t.Attr {
			if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
				continue
			}
			b.WriteByte(' ')
			if attr.Name.Space == xmlNS {
				b.WriteString("xml:")
			}
			b.WriteString(attr.Name.Local)
			b.WriteString(`="`)
			b.WriteString(escapeXML(attr.Value))
			b.WriteByte('"')
		}
		b.WriteByte('>')
	case xml.EndElement:
		b.WriteString("</")
		b.WriteString(t.Name.Local)
		b.WriteByte('>')
	case xml.CharData:
		_ = xml.EscapeText(b, t)
	case xml.Comment:
		b.WriteString("<!--")
		b.Write(t)
		b.WriteString("-->")
	}
}
