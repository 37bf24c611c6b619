package rdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of statements was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInvalidIRI indicates an invalid IRI was encountered.
	ErrCodeInvalidIRI ErrorCode = "INVALID_IRI"
	// ErrCodeAbsoluteIRIExpected indicates a relative IRI was supplied where an absolute one is required.
	ErrCodeAbsoluteIRIExpected ErrorCode = "ABSOLUTE_IRI_EXPECTED"
	// ErrCodeInvalidLiteral indicates an invalid literal was encountered.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"
	// ErrCodeInvalidBlankNode indicates an invalid blank node label.
	ErrCodeInvalidBlankNode ErrorCode = "INVALID_BLANK_NODE"
	// ErrCodeInvalidQName indicates a malformed QName.
	ErrCodeInvalidQName ErrorCode = "INVALID_QNAME"
	// ErrCodeEmptyQName indicates a QName with an empty name part.
	ErrCodeEmptyQName ErrorCode = "EMPTY_QNAME"
	// ErrCodeCoercion indicates a literal could not be coerced to the requested type.
	ErrCodeCoercion ErrorCode = "COERCION"
	// ErrCodePrefixConflict indicates a prefix or namespace is already bound.
	ErrCodePrefixConflict ErrorCode = "PREFIX_CONFLICT"
	// ErrCodeRDFStarUnsupported indicates a nested statement reached a format that cannot hold it.
	ErrCodeRDFStarUnsupported ErrorCode = "RDF_STAR_UNSUPPORTED"
	// ErrCodeInvalidConfig indicates a configuration that failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrDepthExceeded = errors.New("rdf: nesting depth exceeded configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of statements was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of statements exceeded")
	// ErrInvalidIRI indicates a string that is not a usable IRI.
	ErrInvalidIRI = errors.New("rdf: invalid IRI")
	// ErrAbsoluteIRIExpected indicates a relative IRI where an absolute one is required.
	ErrAbsoluteIRIExpected = errors.New("rdf: absolute IRI expected")
	// ErrInvalidLiteral indicates an invalid literal value or language tag.
	ErrInvalidLiteral = errors.New("rdf: invalid literal")
	// ErrInvalidBlankNode indicates an invalid blank node label.
	ErrInvalidBlankNode = errors.New("rdf: invalid blank node label")
	// ErrEmptyQName indicates a QName with an empty name part.
	ErrEmptyQName = errors.New("rdf: QName may not have an empty name part")
	// ErrInvalidQName indicates a malformed QName.
	ErrInvalidQName = errors.New("rdf: invalid QName")
	// ErrPrefixConflict indicates that TryInsert found an existing, different binding.
	ErrPrefixConflict = errors.New("rdf: prefix or namespace already bound")
	// ErrRDFStarUnsupported indicates a nested statement in a representation without RDF-star.
	ErrRDFStarUnsupported = errors.New("rdf: nested statements are not supported by this representation")
	// ErrInvalidConfig indicates a configuration that failed validation.
	ErrInvalidConfig = errors.New("rdf: invalid configuration")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	// EOF is not an error condition
	if err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrDepthExceeded):
		return ErrCodeDepthExceeded
	case errors.Is(err, ErrTripleLimitExceeded):
		return ErrCodeTripleLimitExceeded
	case errors.Is(err, ErrAbsoluteIRIExpected):
		return ErrCodeAbsoluteIRIExpected
	case errors.Is(err, ErrInvalidIRI):
		return ErrCodeInvalidIRI
	case errors.Is(err, ErrInvalidLiteral):
		return ErrCodeInvalidLiteral
	case errors.Is(err, ErrInvalidBlankNode):
		return ErrCodeInvalidBlankNode
	case errors.Is(err, ErrEmptyQName):
		return ErrCodeEmptyQName
	case errors.Is(err, ErrInvalidQName):
		return ErrCodeInvalidQName
	case errors.Is(err, ErrPrefixConflict):
		return ErrCodePrefixConflict
	case errors.Is(err, ErrRDFStarUnsupported):
		return ErrCodeRDFStarUnsupported
	case errors.Is(err, ErrInvalidConfig):
		return ErrCodeInvalidConfig
	}

	var coercionErr *CoercionError
	if errors.As(err, &coercionErr) {
		return ErrCodeCoercion
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return ErrCodeIOError
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		// Check underlying error for more specific codes
		underlyingCode := Code(parseErr.Err)
		if underlyingCode != ErrCodeParseError && underlyingCode != "" {
			return underlyingCode
		}
		return ErrCodeParseError
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeContextCanceled
	}

	return ErrCodeParseError
}

// CoercionError reports a literal that cannot be represented as the requested Go or RDF type.
type CoercionError struct {
	From string // Declared data type of the literal ("" for untyped)
	To   string // Requested target type
}

func (e *CoercionError) Error() string {
	from := e.From
	if from == "" {
		from = "untyped literal"
	}
	return fmt.Sprintf("rdf: cannot coerce %s to %s", from, e.To)
}

// IOError wraps a failure from the underlying reader or writer.
type IOError struct {
	Format string
	Err    error
}

func (e *IOError) Error() string {
	return e.Format + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

func wrapIOError(format string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Format: format, Err: errors.WithStack(err)}
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string   // Format name (e.g., "ntriples", "rdfxml")
	Rule      string   // Grammar rule that failed (e.g., "literal", "predicate")
	Token     string   // Offending token, if any
	Expected  []string // Alternatives the rule would have accepted
	Statement string   // Offending statement or input excerpt
	Line      int      // 1-based line number (0 if unknown)
	Column    int      // 1-based column number (0 if unknown)
	Offset    int      // Byte offset in input (-1 if unknown)
	Err       error    // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&msg, ":%d", e.Line)
	case e.Offset >= 0:
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}
	msg.WriteString(": ")
	if e.Rule != "" {
		fmt.Fprintf(&msg, "in %s: ", e.Rule)
	}
	msg.WriteString(e.Err.Error())
	if e.Token != "" {
		fmt.Fprintf(&msg, " (found %q)", e.Token)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&msg, " (expected %s)", strings.Join(e.Expected, " | "))
	}
	if excerpt := e.excerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// excerptRadius is the number of bytes shown on each side of the error column.
const excerptRadius = 40

// excerpt shows the statement around the error column with a caret under it.
// Without a column the statement is shown truncated to two radii.
func (e *ParseError) excerpt() string {
	if e.Statement == "" {
		return ""
	}
	if e.Column <= 0 {
		if len(e.Statement) > 2*excerptRadius {
			return e.Statement[:2*excerptRadius] + "..."
		}
		return e.Statement
	}
	at := e.Column - 1
	if at > len(e.Statement) {
		at = len(e.Statement)
	}
	from, to := at-excerptRadius, at+excerptRadius
	if from < 0 {
		from = 0
	}
	if to > len(e.Statement) {
		to = len(e.Statement)
	}
	var b strings.Builder
	caret := at - from
	if from > 0 {
		b.WriteString("...")
		caret += 3
	}
	b.WriteString(e.Statement[from:to])
	if to < len(e.Statement) {
		b.WriteString("...")
	}
	b.WriteString("\n  ")
	b.WriteString(strings.Repeat(" ", caret))
	b.WriteByte('^')
	return b.String()
}
