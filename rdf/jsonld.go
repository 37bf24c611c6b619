package rdf

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	formatNameJSONLD = "jsonld"
	ldDefaultGraph   = "@default"
)

// JSONLDOptions configures JSON-LD processing.
type JSONLDOptions struct {
	// Base overrides Options.BaseIRI for JSON-LD documents.
	Base string `yaml:"base"`
	// Compact compacts writer output with a context built from the graph's prefixes.
	Compact bool `yaml:"compact"`
	// Pretty indents writer output.
	Pretty bool `yaml:"pretty"`
	// ProcessingMode is "json-ld-1.0" or "json-ld-1.1".
	ProcessingMode string `yaml:"processing_mode"`
	// UseNativeTypes writes booleans and numbers as JSON values.
	UseNativeTypes bool `yaml:"use_native_types"`
	// UseRdfType keeps rdf:type as a property instead of @type.
	UseRdfType bool `yaml:"use_rdf_type"`
	// SafeMode fails on constructs that would be silently dropped.
	SafeMode bool `yaml:"safe_mode"`
	// DocumentLoader resolves remote contexts; nil uses the json-gold default.
	DocumentLoader ld.DocumentLoader `yaml:"-"`
}

// DefaultJSONLDOptions returns compacted, indented output.
func DefaultJSONLDOptions() JSONLDOptions {
	return JSONLDOptions{Compact: true, Pretty: true}
}

func (o JSONLDOptions) goldOptions(base string) *ld.JsonLdOptions {
	if o.Base != "" {
		base = o.Base
	}
	opts := ld.NewJsonLdOptions(base)
	if o.ProcessingMode != "" {
		opts.ProcessingMode = o.ProcessingMode
	}
	opts.UseNativeTypes = o.UseNativeTypes
	opts.UseRdfType = o.UseRdfType
	opts.SafeMode = o.SafeMode
	if o.DocumentLoader != nil {
		opts.DocumentLoader = o.DocumentLoader
	}
	return opts
}

// JSONLDReader converts a JSON-LD document to RDF and keeps its default graph.
type JSONLDReader struct {
	options Options
}

// NewJSONLDReader creates a reader configured by opts.
func NewJSONLDReader(opts ...Option) *JSONLDReader {
	return &JSONLDReader{options: buildOptions(opts)}
}

// Read parses in into a new graph.
func (r *JSONLDReader) Read(in io.Reader) (*Graph, error) {
	g := r.options.newGraph()
	if err := r.ReadInto(in, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadInto parses in and inserts the default-graph statements into g.
// Statements of named graphs are skipped.
func (r *JSONLDReader) ReadInto(in io.Reader, g *Graph) error {
	log := r.options.Logger.WithField("format", formatNameJSONLD)
	dataset, err := r.toRDF(in, log)
	if err != nil {
		return err
	}
	for name, quads := range dataset.Graphs {
		if name != ldDefaultGraph {
			log.WithFields(logrus.Fields{"graph": name, "statements": len(quads)}).Debug("rdf: skipped named graph")
		}
	}
	count, err := r.insertQuads(log, dataset.Graphs[ldDefaultGraph], g, 0)
	if err != nil {
		return err
	}
	log.WithField("statements", count).Debug("rdf: read graph")
	return nil
}

// ReadDataSet parses in into a DataSet holding the default graph and every
// named graph of the document.
func (r *JSONLDReader) ReadDataSet(in io.Reader) (*DataSet, error) {
	log := r.options.Logger.WithField("format", formatNameJSONLD)
	dataset, err := r.toRDF(in, log)
	if err != nil {
		return nil, err
	}
	out := NewDataSet()
	var count int64
	for _, name := range jsonldGraphNames(dataset) {
		g := r.options.newGraph()
		if name != ldDefaultGraph {
			graphName, err := graphNameFromLD(name)
			if err != nil {
				err = jsonldError("graphName", err)
				logParseFailure(log, err)
				return nil, err
			}
			g.SetName(graphName)
		}
		if count, err = r.insertQuads(log, dataset.Graphs[name], g, count); err != nil {
			return nil, err
		}
		out.Insert(g)
	}
	log.WithFields(logrus.Fields{"graphs": out.Len(), "statements": count}).Debug("rdf: read dataset")
	return out, nil
}

func (r *JSONLDReader) toRDF(in io.Reader, log *logrus.Entry) (*ld.RDFDataset, error) {
	var doc interface{}
	if err := json.NewDecoder(&contextReader{ctx: r.options.Context, r: in}).Decode(&doc); err != nil {
		err = classifyJSONError(formatNameJSONLD, err)
		logParseFailure(log, err)
		return nil, err
	}
	result, err := ld.NewJsonLdProcessor().ToRDF(doc, r.options.JSONLD.goldOptions(r.options.BaseIRI))
	if err != nil {
		err = jsonldError("toRDF", err)
		logParseFailure(log, err)
		return nil, err
	}
	if err := checkDecodeContext(r.options.Context); err != nil {
		return nil, err
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, errors.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	return dataset, nil
}

func (r *JSONLDReader) insertQuads(log *logrus.Entry, quads []*ld.Quad, g *Graph, count int64) (int64, error) {
	for _, quad := range quads {
		st, err := statementFromQuad(quad)
		if err != nil {
			err = jsonldError("quad", err)
			logParseFailure(log, err)
			return count, err
		}
		count++
		if err := r.options.tripleLimit(formatNameJSONLD, count); err != nil {
			return count, err
		}
		log.Trace(st.Key())
		g.Insert(st)
	}
	return count, nil
}

func graphNameFromLD(name string) (GraphName, error) {
	if strings.HasPrefix(name, "_:") {
		blank, err := NewBlankNode(name)
		if err != nil {
			return GraphName{}, err
		}
		return GraphNameBlank(blank), nil
	}
	iri, err := ParseIRI(name)
	if err != nil {
		return GraphName{}, err
	}
	return GraphNameIRI(iri), nil
}

func statementFromQuad(quad *ld.Quad) (Statement, error) {
	subject, err := termFromLD(quad.Subject)
	if err != nil {
		return Statement{}, err
	}
	s, ok := subject.(SubjectNode)
	if !ok {
		return Statement{}, errors.Errorf("literal subject %q", quad.Subject.GetValue())
	}
	predicate, err := termFromLD(quad.Predicate)
	if err != nil {
		return Statement{}, err
	}
	p, ok := predicate.(IRI)
	if !ok {
		return Statement{}, errors.Errorf("predicate %q is not an IRI", quad.Predicate.GetValue())
	}
	object, err := termFromLD(quad.Object)
	if err != nil {
		return Statement{}, err
	}
	return NewStatement(s, p, object), nil
}

func termFromLD(node ld.Node) (ObjectNode, error) {
	switch n := node.(type) {
	case *ld.IRI:
		return IRI{Value: n.Value}, nil
	case ld.IRI:
		return IRI{Value: n.Value}, nil
	case *ld.BlankNode:
		return NewBlankNode(n.Attribute)
	case ld.BlankNode:
		return NewBlankNode(n.Attribute)
	case *ld.Literal:
		return literalFromLD(*n)
	case ld.Literal:
		return literalFromLD(n)
	}
	return nil, errors.Errorf("unsupported node %T", node)
}

func literalFromLD(lit ld.Literal) (Literal, error) {
	switch {
	case lit.Language != "":
		return NewLiteralWithLanguage(lit.Value, lit.Language)
	case lit.Datatype == "" || lit.Datatype == XSDNamespace+"string":
		return NewLiteral(lit.Value), nil
	}
	return NewLiteralWithDataTypeIRI(lit.Value, IRI{Value: lit.Datatype}), nil
}

func jsonldError(rule string, err error) error {
	parseErr := &ParseError{Format: formatNameJSONLD, Rule: rule, Offset: -1, Err: err}
	var ldErr *ld.JsonLdError
	if errors.As(err, &ldErr) {
		parseErr.Token = string(ldErr.Code)
	}
	return parseErr
}

// JSONLDWriter writes JSON-LD built with json-gold's FromRDF from the
// simplified graph, compacted against the graph's prefixes when enabled.
type JSONLDWriter struct {
	Options JSONLDOptions
	logger  logrus.FieldLogger
}

// NewJSONLDWriter creates a writer configured by opts.
func NewJSONLDWriter(opts ...Option) *JSONLDWriter {
	options := buildOptions(opts)
	return &JSONLDWriter{Options: options.JSONLD, logger: options.Logger}
}

// Write serializes g.
func (w *JSONLDWriter) Write(out io.Writer, g *Graph) error {
	simple, err := g.Simplify()
	if err != nil {
		return err
	}
	var nquads strings.Builder
	for _, st := range simple.statements {
		nquads.WriteString(st.Key())
		nquads.WriteString(" .\n")
	}

	proc := ld.NewJsonLdProcessor()
	opts := w.Options.goldOptions("")
	opts.Format = "application/n-quads"
	doc, err := proc.FromRDF(nquads.String(), opts)
	if err != nil {
		return errors.Wrap(err, "jsonld: fromRDF")
	}
	if w.Options.Compact {
		opts.Format = ""
		doc, err = proc.Compact(doc, jsonldContext(g.PrefixMappings()), opts)
		if err != nil {
			return errors.Wrap(err, "jsonld: compact")
		}
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if w.Options.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return wrapIOError(formatNameJSONLD, err)
	}
	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{
			"statements": simple.Len(),
			"compact":    w.Options.Compact,
		}).Debug("rdf: wrote jsonld")
	}
	return nil
}

// jsonldContext builds {"@context": {...}} from mappings. The default
// namespace becomes @vocab.
func jsonldContext(mappings *PrefixMapping) map[string]interface{} {
	context := make(map[string]interface{})
	if mappings != nil {
		for _, binding := range mappings.Mappings() {
			if binding.Prefix == "" {
				context["@vocab"] = binding.Namespace.Value
				continue
			}
			context[binding.Prefix] = binding.Namespace.Value
		}
	}
	return map[string]interface{}{"@context": context}
}

// jsonldGraphNames lists the graph names of a dataset, default first.
func jsonldGraphNames(dataset *ld.RDFDataset) []string {
	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		if name != ldDefaultGraph {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := dataset.Graphs[ldDefaultGraph]; ok {
		names = append([]string{ldDefaultGraph}, names...)
	}
	return names
}
