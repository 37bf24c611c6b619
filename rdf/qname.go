package rdf

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// QName is a compressed IRI written as prefix:name. An empty Prefix refers to
// the default namespace of a PrefixMapping.
type QName struct {
	Prefix string
	Name   string
}

// NewQName validates both parts and returns the QName.
func NewQName(prefix, name string) (QName, error) {
	if name == "" {
		return QName{}, ErrEmptyQName
	}
	if prefix != "" && !isXMLName(prefix) {
		return QName{}, errors.Wrapf(ErrInvalidQName, "prefix %q", prefix)
	}
	if !isXMLName(name) {
		return QName{}, errors.Wrapf(ErrInvalidQName, "name %q", name)
	}
	return QName{Prefix: prefix, Name: name}, nil
}

// ParseQName parses "prefix:name", ":name" or "name".
func ParseQName(value string) (QName, error) {
	if value == "" {
		return QName{}, ErrEmptyQName
	}
	prefix, name, found := strings.Cut(value, ":")
	if !found {
		return NewQName("", value)
	}
	if strings.Contains(name, ":") {
		return QName{}, errors.Wrapf(ErrInvalidQName, "%q has more than one ':'", value)
	}
	return NewQName(prefix, name)
}

// HasPrefix reports whether the QName names a prefix rather than the default namespace.
func (q QName) HasPrefix() bool { return q.Prefix != "" }

// String returns "prefix:name", or ":name" for the default namespace.
func (q QName) String() string {
	return q.Prefix + ":" + q.Name
}

// CURIE returns the safe CURIE form "[prefix:name]".
func (q QName) CURIE() string {
	return "[" + q.String() + "]"
}

// isXMLName reports whether value is an XML NCName (a Name without colons).
func isXMLName(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		if i == 0 {
			if !isNameStartRune(r) {
				return false
			}
		} else if !isNameRune(r) {
			return false
		}
	}
	return true
}

func isNameStartRune(r rune) bool {
	switch {
	case r == '_':
		return true
	case r < 0x80:
		return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
	default:
		return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
	}
}

func isNameRune(r rune) bool {
	if isNameStartRune(r) {
		return true
	}
	switch {
	case r == '-' || r == '.' || r == 0xB7:
		return true
	case r < 0x80:
		return r >= '0' && r <= '9'
	default:
		return unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
	}
}
