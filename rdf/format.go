package rdf

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatRDFXML   Format = "rdfxml"
	FormatJSON     Format = "json"
	FormatJSONLD   Format = "jsonld"
	FormatDot      Format = "dot"
)

// CanRead reports whether ReadGraph supports the format.
func (f Format) CanRead() bool {
	switch f {
	case FormatNTriples, FormatNQuads, FormatRDFXML, FormatJSON, FormatJSONLD:
		return true
	}
	return false
}

// CanWrite reports whether WriteGraph supports the format.
func (f Format) CanWrite() bool {
	switch f {
	case FormatTurtle, FormatNTriples, FormatNQuads, FormatRDFXML, FormatJSON, FormatJSONLD, FormatDot:
		return true
	}
	return false
}

// CanReadDataSet reports whether ReadDataSet supports the format.
func (f Format) CanReadDataSet() bool {
	return f == FormatNQuads || f == FormatJSONLD
}

// CanWriteDataSet reports whether WriteDataSet supports the format.
func (f Format) CanWriteDataSet() bool {
	return f == FormatNQuads
}

// ContentType returns the media type registered for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatTurtle:
		return "text/turtle"
	case FormatNTriples:
		return "application/n-triples"
	case FormatNQuads:
		return "application/n-quads"
	case FormatRDFXML:
		return "application/rdf+xml"
	case FormatJSON:
		return "application/rdf+json"
	case FormatJSONLD:
		return "application/ld+json"
	case FormatDot:
		return "text/vnd.graphviz"
	}
	return ""
}

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, true
	case "nquads", "n-quads", "nq":
		return FormatNQuads, true
	case "rdfxml", "rdf/xml", "rdf", "xml":
		return FormatRDFXML, true
	case "json", "rdfjson", "rj":
		return FormatJSON, true
	case "jsonld", "json-ld":
		return FormatJSONLD, true
	case "dot", "graphviz", "gv":
		return FormatDot, true
	default:
		return "", false
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl":
		return FormatTurtle, nil
	case ".nt":
		return FormatNTriples, nil
	case ".nq":
		return FormatNQuads, nil
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML, nil
	case ".json", ".rj":
		return FormatJSON, nil
	case ".jsonld":
		return FormatJSONLD, nil
	case ".dot", ".gv":
		return FormatDot, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "no format for path %q", path)
	}
}

// FormatFromContentType infers the format from a media type, ignoring parameters.
func FormatFromContentType(contentType string) (Format, error) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "text/turtle", "application/x-turtle":
		return FormatTurtle, nil
	case "application/n-triples", "text/plain":
		return FormatNTriples, nil
	case "application/n-quads":
		return FormatNQuads, nil
	case "application/rdf+xml", "application/xml", "text/xml":
		return FormatRDFXML, nil
	case "application/rdf+json", "application/json":
		return FormatJSON, nil
	case "application/ld+json":
		return FormatJSONLD, nil
	case "text/vnd.graphviz":
		return FormatDot, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "no format for content type %q", contentType)
	}
}

const formatDetectionBufferSize = 512

// DetectFormat peeks at the start of r, without consuming it, and guesses the format.
func DetectFormat(r *bufio.Reader) (Format, bool) {
	buf, err := r.Peek(formatDetectionBufferSize)
	if err != nil && len(buf) == 0 {
		return "", false
	}
	sample := strings.TrimSpace(string(buf))
	if sample == "" {
		return "", false
	}

	if strings.HasPrefix(sample, "{") || strings.HasPrefix(sample, "[") {
		if strings.Contains(sample, "@context") || strings.Contains(sample, "@id") ||
			strings.Contains(sample, "@type") || strings.Contains(sample, "@graph") {
			return FormatJSONLD, true
		}
		return FormatJSON, true
	}

	if strings.HasPrefix(sample, "<?xml") || strings.HasPrefix(sample, "<rdf:") || strings.HasPrefix(sample, "<rdf ") {
		return FormatRDFXML, true
	}

	upper := strings.ToUpper(sample)
	if strings.HasPrefix(upper, "@PREFIX") || strings.HasPrefix(upper, "PREFIX") ||
		strings.HasPrefix(upper, "@BASE") || strings.HasPrefix(upper, "BASE") {
		return FormatTurtle, true
	}

	if strings.HasPrefix(sample, "<") || strings.HasPrefix(sample, "_:") || strings.HasPrefix(sample, "#") {
		return FormatNTriples, true
	}
	return "", false
}
