package rdf

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const formatNameJSON = "json"

// Object types of the RDF/JSON shape.
const (
	jsonTypeLiteral = "literal"
	jsonTypeBNode   = "bnode"
	jsonTypeURI     = "uri"
)

// jsonObject is one entry of a predicate's object array.
type jsonObject struct {
	Type     string  `json:"type"`
	Value    *string `json:"value"`
	Lang     *string `json:"lang,omitempty"`
	Datatype *string `json:"datatype,omitempty"`
}

// jsonDocument maps subject -> predicate -> objects.
type jsonDocument map[string]map[string][]jsonObject

// JSONReader parses the RDF/JSON object shape.
type JSONReader struct {
	options Options
}

// NewJSONReader creates a reader configured by opts.
func NewJSONReader(opts ...Option) *JSONReader {
	return &JSONReader{options: buildOptions(opts)}
}

// Read parses in into a new graph.
func (r *JSONReader) Read(in io.Reader) (*Graph, error) {
	g := r.options.newGraph()
	if err := r.ReadInto(in, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadInto parses in and inserts the statements into g. Subjects and
// predicates are visited in sorted order so the statement order is stable.
func (r *JSONReader) ReadInto(in io.Reader, g *Graph) error {
	log := r.options.Logger.WithField("format", formatNameJSON)
	var doc jsonDocument
	dec := json.NewDecoder(&contextReader{ctx: r.options.Context, r: in})
	if err := dec.Decode(&doc); err != nil {
		err = classifyJSONError(formatNameJSON, err)
		logParseFailure(log, err)
		return err
	}
	if doc == nil {
		err := &ParseError{Format: formatNameJSON, Rule: "graph", Offset: -1, Err: errors.New("expected a JSON object")}
		logParseFailure(log, err)
		return err
	}

	var count int64
	for _, subjectKey := range sortedPrefixKeys(doc) {
		subject, err := r.subject(subjectKey)
		if err != nil {
			logParseFailure(log, err)
			return err
		}
		predicates := doc[subjectKey]
		for _, predicateKey := range sortedPrefixKeys(predicates) {
			predicate, err := r.options.absoluteIRI(predicateKey)
			if err != nil {
				err = jsonParseError("predicate", predicateKey, err)
				logParseFailure(log, err)
				return err
			}
			for i, entry := range predicates[predicateKey] {
				object, err := r.object(entry)
				if err != nil {
					err = jsonParseError("object", subjectKey+" "+predicateKey+"["+strconv.Itoa(i)+"]", err)
					logParseFailure(log, err)
					return err
				}
				count++
				if err := r.options.tripleLimit(formatNameJSON, count); err != nil {
					return err
				}
				st := NewStatement(subject, predicate, object)
				log.Trace(st.Key())
				g.Insert(st)
			}
		}
	}
	log.WithField("statements", count).Debug("rdf: read graph")
	return nil
}

func (r *JSONReader) subject(key string) (SubjectNode, error) {
	if strings.HasPrefix(key, "_:") {
		blank, err := NewBlankNode(key)
		if err != nil {
			return nil, jsonParseError("subject", key, err)
		}
		return blank, nil
	}
	iri, err := r.options.absoluteIRI(key)
	if err != nil {
		return nil, jsonParseError("subject", key, err)
	}
	return iri, nil
}

func (r *JSONReader) object(entry jsonObject) (ObjectNode, error) {
	if entry.Value == nil {
		return nil, errors.New("object has no value")
	}
	value := *entry.Value
	switch entry.Type {
	case jsonTypeURI:
		return r.options.absoluteIRI(value)
	case jsonTypeBNode:
		if !strings.HasPrefix(value, "_:") {
			return nil, errors.Wrapf(ErrInvalidBlankNode, "%q lacks the _: prefix", value)
		}
		return NewBlankNode(value)
	case jsonTypeLiteral:
		switch {
		case entry.Lang != nil && entry.Datatype != nil:
			return nil, errors.Wrap(ErrInvalidLiteral, "literal has both lang and datatype")
		case entry.Lang != nil:
			return NewLiteralWithLanguage(value, *entry.Lang)
		case entry.Datatype != nil:
			dt, err := r.options.absoluteIRI(*entry.Datatype)
			if err != nil {
				return nil, err
			}
			return NewLiteralWithDataTypeIRI(value, dt), nil
		}
		return NewLiteral(value), nil
	}
	return nil, errors.Errorf("unknown object type %q", entry.Type)
}

func jsonParseError(rule, statement string, err error) error {
	return &ParseError{Format: formatNameJSON, Rule: rule, Statement: statement, Offset: -1, Err: err}
}

// classifyJSONError maps encoding/json failures onto ParseError or IOError.
func classifyJSONError(format string, err error) error {
	if Code(err) == ErrCodeContextCanceled {
		return err
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Format: format, Rule: "json", Offset: int(syntaxErr.Offset), Err: err}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ParseError{Format: format, Rule: typeErr.Field, Token: typeErr.Value, Offset: int(typeErr.Offset), Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Format: format, Rule: "json", Offset: -1, Err: errors.Wrap(err, "truncated document")}
	}
	return wrapIOError(format, err)
}

// JSONWriter writes the RDF/JSON object shape. Keys are sorted; object arrays
// keep graph order.
type JSONWriter struct {
	Pretty bool
	logger logrus.FieldLogger
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(opts ...Option) *JSONWriter {
	return &JSONWriter{logger: buildOptions(opts).Logger}
}

// Write serializes the simplified form of g.
func (w *JSONWriter) Write(out io.Writer, g *Graph) error {
	simple, err := g.Simplify()
	if err != nil {
		return err
	}
	doc := make(jsonDocument)
	for _, subject := range simple.Subjects() {
		key := subject.String()
		predicates := make(map[string][]jsonObject)
		for _, predicate := range simple.PredicatesFor(subject) {
			var objects []jsonObject
			for _, object := range simple.ObjectsFor(subject, predicate) {
				entry, err := toJSONObject(object)
				if err != nil {
					return err
				}
				objects = append(objects, entry)
			}
			predicates[predicate.Value] = objects
		}
		doc[key] = predicates
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if w.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return wrapIOError(formatNameJSON, err)
	}
	if w.logger != nil {
		w.logger.WithField("statements", simple.Len()).Debug("rdf: wrote json")
	}
	return nil
}

func toJSONObject(object ObjectNode) (jsonObject, error) {
	switch o := object.(type) {
	case IRI:
		return jsonObject{Type: jsonTypeURI, Value: &o.Value}, nil
	case BlankNode:
		value := o.String()
		return jsonObject{Type: jsonTypeBNode, Value: &value}, nil
	case Literal:
		value := o.Value()
		entry := jsonObject{Type: jsonTypeLiteral, Value: &value}
		if o.HasLanguage() {
			lang := string(o.Language())
			entry.Lang = &lang
		} else if o.HasDataType() {
			dt := o.DataType().IRI().Value
			entry.Datatype = &dt
		}
		return entry, nil
	}
	return jsonObject{}, errors.Wrapf(ErrRDFStarUnsupported, "json object %s", object)
}
