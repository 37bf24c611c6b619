package rdf

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const genidPath = "/.well-known/genid/"

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// IsZero reports whether the IRI is empty.
func (i IRI) IsZero() bool { return i.Value == "" }

func (IRI) subjectNode() {}
func (IRI) objectNode()  {}

// ParseIRI validates value and returns it as an absolute IRI.
func ParseIRI(value string) (IRI, error) {
	if err := ValidateIRI(value); err != nil {
		return IRI{}, err
	}
	if !hasScheme(value) {
		return IRI{}, errors.Wrapf(ErrAbsoluteIRIExpected, "%q", value)
	}
	return IRI{Value: value}, nil
}

// Split separates the IRI into a namespace and a local name.
//
// The local name is the fragment when the IRI has one, otherwise the final path
// segment. The namespace keeps the trailing '#' or '/'. Split reports false when
// the IRI has no such suffix, when the suffix is not a valid XML name, or when a
// query component follows the path.
func (i IRI) Split() (IRI, string, bool) {
	value := i.Value
	if idx := strings.IndexByte(value, '#'); idx >= 0 {
		fragment := value[idx+1:]
		if fragment == "" || !isXMLName(fragment) {
			return IRI{}, "", false
		}
		return IRI{Value: value[:idx+1]}, fragment, true
	}
	if strings.IndexByte(value, '?') >= 0 {
		return IRI{}, "", false
	}
	pathStart := iriPathStart(value)
	if pathStart < 0 {
		return IRI{}, "", false
	}
	lastSlash := strings.LastIndexByte(value, '/')
	if lastSlash < pathStart || lastSlash == len(value)-1 {
		return IRI{}, "", false
	}
	name := value[lastSlash+1:]
	if !isXMLName(name) {
		return IRI{}, "", false
	}
	return IRI{Value: value[:lastSlash+1]}, name, true
}

// MakeName appends name to a namespace IRI. The IRI must end with an empty
// fragment ('#') or, when it has neither fragment nor query, with '/'.
func (i IRI) MakeName(name string) (IRI, bool) {
	value := i.Value
	if name == "" || value == "" {
		return IRI{}, false
	}
	if strings.HasSuffix(value, "#") && strings.Count(value, "#") == 1 {
		return IRI{Value: value + name}, true
	}
	if strings.ContainsAny(value, "#?") {
		return IRI{}, false
	}
	if strings.HasSuffix(value, "/") {
		return IRI{Value: value + name}, true
	}
	return IRI{}, false
}

// GenID mints a fresh skolem IRI under the scheme and authority of i, using the
// well-known genid path and a random UUID.
func (i IRI) GenID() (IRI, error) {
	parsed, err := url.Parse(i.Value)
	if err != nil {
		return IRI{}, errors.Wrapf(ErrInvalidIRI, "%q: %v", i.Value, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return IRI{}, errors.Wrapf(ErrAbsoluteIRIExpected, "skolem base %q", i.Value)
	}
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return IRI{Value: parsed.Scheme + "://" + parsed.Host + genidPath + id}, nil
}

// IsGenID reports whether the IRI was minted by GenID.
func (i IRI) IsGenID() bool {
	return strings.Contains(i.Value, genidPath)
}

// Resolve resolves ref against i according to RFC 3986.
func (i IRI) Resolve(ref string) (IRI, error) {
	if hasScheme(ref) {
		return ParseIRI(ref)
	}
	if i.Value == "" {
		return IRI{}, errors.Wrapf(ErrAbsoluteIRIExpected, "no base to resolve %q", ref)
	}
	return IRI{Value: resolveIRI(i.Value, ref)}, nil
}

// ValidateIRI validates an IRI string according to RFC 3987.
// Returns an error if the IRI is invalid, nil otherwise.
//
// The check is structural: a scheme, when present, must start with a letter, and
// characters that must always be percent-encoded are rejected.
func ValidateIRI(iri string) error {
	if iri == "" {
		return errors.Wrap(ErrInvalidIRI, "empty IRI")
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return errors.Wrapf(ErrInvalidIRI, "syntax: %v", err)
	}

	if parsed.Scheme == "" {
		if strings.HasPrefix(iri, "//") {
			return errors.Wrapf(ErrInvalidIRI, "relative IRI without scheme: %s", iri)
		}
	} else {
		first := parsed.Scheme[0]
		if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
			return errors.Wrapf(ErrInvalidIRI, "scheme must start with a letter: %s", iri)
		}
	}

	for i, r := range iri {
		if r < 0x20 {
			return errors.Wrapf(ErrInvalidIRI, "control character at position %d in %q", i, iri)
		}
		switch r {
		case '<', '>', '"', ' ', '{', '}', '|', '\\', '^', '`':
			return errors.Wrap(ErrInvalidIRI, fmt.Sprintf("character %q at position %d must be percent-encoded", r, i))
		}
	}

	return nil
}

func hasScheme(value string) bool {
	colon := strings.IndexByte(value, ':')
	if colon <= 0 {
		return false
	}
	for idx := 0; idx < colon; idx++ {
		ch := value[idx]
		isAlpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		if idx == 0 && !isAlpha {
			return false
		}
		if !isAlpha && !(ch >= '0' && ch <= '9') && ch != '+' && ch != '-' && ch != '.' {
			return false
		}
	}
	return true
}

// iriPathStart returns the byte offset where the path of value begins, or -1
// when the IRI has no path.
func iriPathStart(value string) int {
	colon := strings.IndexByte(value, ':')
	if colon < 0 || !hasScheme(value) {
		return -1
	}
	rest := value[colon+1:]
	if strings.HasPrefix(rest, "//") {
		slash := strings.IndexByte(rest[2:], '/')
		if slash < 0 {
			return -1
		}
		return colon + 1 + 2 + slash
	}
	if rest == "" {
		return -1
	}
	return colon + 1
}

// resolveIRI resolves a relative IRI against a base IRI according to RFC 3986.
func resolveIRI(baseStr, relative string) string {
	baseURL, err := url.Parse(baseStr)
	if err != nil {
		return concatIRI(baseStr, relative)
	}

	relURL, err := url.Parse(relative)
	if err != nil {
		return concatIRI(baseStr, relative)
	}

	if relURL.Scheme != "" {
		return relative
	}

	return baseURL.ResolveReference(relURL).String()
}

func concatIRI(baseStr, relative string) string {
	if strings.HasSuffix(baseStr, "/") || strings.HasSuffix(baseStr, "#") {
		return baseStr + relative
	}
	lastSlash := strings.LastIndex(baseStr, "/")
	if lastSlash >= 0 {
		return baseStr[:lastSlash+1] + relative
	}
	return baseStr + "/" + relative
}
