package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const formatNameNTriples = "ntriples"

// NTriplesReader parses N-Triples, including the RDF-star << s p o >> form.
type NTriplesReader struct {
	options Options
}

// NewNTriplesReader creates a reader configured by opts.
func NewNTriplesReader(opts ...Option) *NTriplesReader {
	return &NTriplesReader{options: buildOptions(opts)}
}

// Read parses every line of in into a new graph.
func (r *NTriplesReader) Read(in io.Reader) (*Graph, error) {
	g := r.options.newGraph()
	if err := r.ReadInto(in, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadInto parses in and inserts the statements into g.
func (r *NTriplesReader) ReadInto(in io.Reader, g *Graph) error {
	log := r.options.Logger.WithField("format", formatNameNTriples)
	count, err := scanLines(in, r.options, formatNameNTriples, log, func(st Statement, _ GraphName) {
		g.Insert(st)
	})
	if err != nil {
		return err
	}
	log.WithField("statements", count).Debug("rdf: read graph")
	return nil
}

// scanLines parses in line by line and hands every statement, with its graph
// label for N-Quads, to emit. It returns the number of statements read.
func scanLines(in io.Reader, opts Options, format string, log *logrus.Entry, emit func(Statement, GraphName)) (int64, error) {
	reader := bufio.NewReader(&contextReader{ctx: opts.Context, r: in})
	lineNo := 0
	var count int64
	for {
		line, err := readLineWithLimit(reader, opts.MaxLineBytes)
		if err == io.EOF {
			return count, nil
		}
		lineNo++
		if err != nil {
			return count, lineReadError(log, format, lineNo, err)
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		st, name, err := parseLine(trimmed, lineNo, opts, format)
		if err != nil {
			logParseFailure(log, err)
			return count, err
		}
		count++
		if err := opts.tripleLimit(format, count); err != nil {
			return count, err
		}
		log.WithField("line", lineNo).Trace(st.Key())
		emit(st, name)
	}
}

func lineReadError(log logrus.FieldLogger, format string, lineNo int, err error) error {
	switch {
	case errors.Is(err, ErrLineTooLong):
		parseErr := &ParseError{Format: format, Rule: "line", Line: lineNo, Offset: -1, Err: err}
		logParseFailure(log, parseErr)
		return parseErr
	case Code(err) == ErrCodeContextCanceled:
		return err
	default:
		return wrapIOError(format, err)
	}
}

func logParseFailure(log logrus.FieldLogger, err error) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		log.WithFields(logrus.Fields{
			"rule": parseErr.Rule,
			"line": parseErr.Line,
		}).WithError(parseErr.Err).Debug("rdf: parse failed")
		return
	}
	log.WithError(err).Debug("rdf: parse failed")
}

// parseLine parses one statement. In N-Quads an optional graph label may
// follow the object.
func parseLine(line string, lineNo int, opts Options, format string) (Statement, GraphName, error) {
	cursor := &ntCursor{input: line, line: lineNo, opts: opts, format: format}
	subject, err := cursor.parseSubject()
	if err != nil {
		return Statement{}, GraphName{}, err
	}
	predicate, err := cursor.parseIRI("predicate")
	if err != nil {
		return Statement{}, GraphName{}, err
	}
	object, err := cursor.parseObject()
	if err != nil {
		return Statement{}, GraphName{}, err
	}
	var name GraphName
	if format == formatNameNQuads {
		if name, err = cursor.parseGraphLabel(); err != nil {
			return Statement{}, GraphName{}, err
		}
	}
	if !cursor.consume('.') {
		return Statement{}, GraphName{}, cursor.errorf("statement", []string{"'.'"}, "expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Statement{}, GraphName{}, cursor.errorf("statement", []string{"end of line", "comment"}, "trailing content after '.'")
	}
	return NewStatement(subject, predicate, object), name, nil
}

type ntCursor struct {
	input  string
	pos    int
	line   int
	depth  int
	opts   Options
	format string
}

// parseGraphLabel reads the IRI or blank node naming the graph of a quad, if any.
func (c *ntCursor) parseGraphLabel() (GraphName, error) {
	c.skipWS()
	switch {
	case strings.HasPrefix(c.rest(), "<<"):
		return GraphName{}, c.errorf("graphLabel", []string{"IRI", "blank node"}, "quoted triple cannot name a graph")
	case strings.HasPrefix(c.rest(), "<"):
		iri, err := c.parseIRI("graphLabel")
		if err != nil {
			return GraphName{}, err
		}
		return GraphNameIRI(iri), nil
	case strings.HasPrefix(c.rest(), "_:"):
		blank, err := c.parseBlankNode()
		if err != nil {
			return GraphName{}, err
		}
		return GraphNameBlank(blank), nil
	}
	return GraphName{}, nil
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) rest() string {
	return c.input[c.pos:]
}

func (c *ntCursor) parseSubject() (SubjectNode, error) {
	c.skipWS()
	switch {
	case c.pos >= len(c.input):
		return nil, c.errorf("subject", []string{"IRI", "blank node", "quoted triple"}, "unexpected end of line")
	case strings.HasPrefix(c.rest(), "<<"):
		return c.parseQuoted()
	case c.input[c.pos] == '<':
		return c.parseIRI("subject")
	case strings.HasPrefix(c.rest(), "_:"):
		return c.parseBlankNode()
	default:
		return nil, c.errorf("subject", []string{"IRI", "blank node", "quoted triple"}, "unexpected token")
	}
}

func (c *ntCursor) parseObject() (ObjectNode, error) {
	c.skipWS()
	switch {
	case c.pos >= len(c.input):
		return nil, c.errorf("object", []string{"IRI", "blank node", "literal", "quoted triple"}, "unexpected end of line")
	case strings.HasPrefix(c.rest(), "<<"):
		return c.parseQuoted()
	case c.input[c.pos] == '<':
		return c.parseIRI("object")
	case strings.HasPrefix(c.rest(), "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		return c.parseLiteral()
	default:
		return nil, c.errorf("object", []string{"IRI", "blank node", "literal", "quoted triple"}, "unexpected token")
	}
}

func (c *ntCursor) parseIRI(rule string) (IRI, error) {
	c.skipWS()
	if !c.consume('<') {
		return IRI{}, c.errorf(rule, []string{"IRI"}, "expected IRI")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		switch c.input[c.pos] {
		case ' ', '\t', '<', '"':
			return IRI{}, c.errorf(rule, []string{"'>'"}, "invalid character in IRI")
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		c.pos = start
		return IRI{}, c.errorf(rule, []string{"'>'"}, "unterminated IRI")
	}
	value := c.input[start:c.pos]
	c.pos++
	if strings.IndexByte(value, '\\') >= 0 {
		unescaped, err := UnescapeString(value)
		if err != nil {
			c.pos = start
			return IRI{}, c.wrap(rule, err)
		}
		value = unescaped
	}
	return c.absoluteIRI(rule, start, value)
}

func (c *ntCursor) absoluteIRI(rule string, start int, value string) (IRI, error) {
	iri, err := c.opts.absoluteIRI(value)
	if err != nil {
		c.pos = start
		return IRI{}, c.wrap(rule, err)
	}
	return iri, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.skipWS()
	if !strings.HasPrefix(c.rest(), "_:") {
		return BlankNode{}, c.errorf("blankNode", []string{"'_:'"}, "expected blank node")
	}
	start := c.pos
	c.pos += 2
	labelStart := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A trailing '.' belongs to the statement, not the label.
	for c.pos > labelStart && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if labelStart == c.pos {
		return BlankNode{}, c.errorf("blankNode", []string{"label"}, "blank node label missing")
	}
	node, err := NewBlankNode(c.input[labelStart:c.pos])
	if err != nil {
		c.pos = start
		return BlankNode{}, c.wrap("blankNode", err)
	}
	return node, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.skipWS()
	if !c.consume('"') {
		return Literal{}, c.errorf("literal", []string{"'\"'"}, "expected literal")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '"' {
		if c.input[c.pos] == '\\' {
			c.pos++
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		c.pos = start - 1
		return Literal{}, c.errorf("literal", []string{"'\"'"}, "unterminated string")
	}
	raw := c.input[start:c.pos]
	c.pos++
	value, err := UnescapeString(raw)
	if err != nil {
		c.pos = start
		return Literal{}, c.wrap("literal", err)
	}

	switch {
	case strings.HasPrefix(c.rest(), "@"):
		c.pos++
		tagStart := c.pos
		for c.pos < len(c.input) && isLangTagChar(c.input[c.pos]) {
			c.pos++
		}
		lit, err := NewLiteralWithLanguage(value, c.input[tagStart:c.pos])
		if err != nil {
			c.pos = tagStart
			return Literal{}, c.wrap("languageTag", err)
		}
		return lit, nil
	case strings.HasPrefix(c.rest(), "^^"):
		c.pos += 2
		dt, err := c.parseIRI("datatype")
		if err != nil {
			return Literal{}, err
		}
		return NewLiteralWithDataTypeIRI(value, dt), nil
	}
	return NewLiteral(value), nil
}

func (c *ntCursor) parseQuoted() (*Statement, error) {
	if !strings.HasPrefix(c.rest(), "<<") {
		return nil, c.errorf("quotedTriple", []string{"'<<'"}, "expected '<<'")
	}
	c.depth++
	if c.opts.MaxDepth > 0 && c.depth > c.opts.MaxDepth {
		return nil, c.wrap("quotedTriple", errors.Wrapf(ErrDepthExceeded, "nesting depth exceeds %d", c.opts.MaxDepth))
	}
	c.pos += 2
	subject, err := c.parseSubject()
	if err != nil {
		return nil, err
	}
	predicate, err := c.parseIRI("predicate")
	if err != nil {
		return nil, err
	}
	object, err := c.parseObject()
	if err != nil {
		return nil, err
	}
	c.skipWS()
	if !strings.HasPrefix(c.rest(), ">>") {
		return nil, c.errorf("quotedTriple", []string{"'>>'"}, "expected '>>'")
	}
	c.pos += 2
	c.depth--
	return NewQuoted(subject, predicate, object), nil
}

// token returns the text at the cursor up to the next delimiter.
func (c *ntCursor) token() string {
	if c.pos >= len(c.input) {
		return ""
	}
	end := c.pos + 1
	for end < len(c.input) && c.input[end] != ' ' && c.input[end] != '\t' {
		end++
	}
	return c.input[c.pos:end]
}

func (c *ntCursor) errorf(rule string, expected []string, format string, args ...interface{}) error {
	parseErr := c.wrap(rule, errors.Errorf(format, args...))
	parseErr.Expected = expected
	return parseErr
}

func (c *ntCursor) wrap(rule string, err error) *ParseError {
	return &ParseError{
		Format:    c.format,
		Rule:      rule,
		Token:     c.token(),
		Statement: c.input,
		Line:      c.line,
		Column:    c.pos + 1,
		Offset:    -1,
		Err:       err,
	}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '<', '>', '"':
		return true
	default:
		return false
	}
}

func isLangTagChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-'
}

// NTriplesWriter writes one statement per line. Nested statements and
// collections are simplified into plain triples first.
type NTriplesWriter struct {
	logger logrus.FieldLogger
}

// NewNTriplesWriter creates an N-Triples writer.
func NewNTriplesWriter(opts ...Option) *NTriplesWriter {
	return &NTriplesWriter{logger: buildOptions(opts).Logger}
}

// Write serializes g in graph order.
func (w *NTriplesWriter) Write(out io.Writer, g *Graph) error {
	simple, err := g.Simplify()
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(out)
	for _, st := range simple.statements {
		if _, err := fmt.Fprintf(writer, "%s .\n", st.Key()); err != nil {
			return wrapIOError(formatNameNTriples, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return wrapIOError(formatNameNTriples, err)
	}
	if w.logger != nil {
		w.logger.WithField("statements", simple.Len()).Debug("rdf: wrote ntriples")
	}
	return nil
}
