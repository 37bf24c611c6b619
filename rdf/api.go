package rdf

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxLineBytes bounds one N-Triples line.
	DefaultMaxLineBytes = 1 << 20
	// DefaultMaxDepth bounds element nesting in RDF/XML and nested statements.
	DefaultMaxDepth = 256
	// DefaultMaxTriples is unlimited.
	DefaultMaxTriples = 0
)

// GraphReader parses a serialization into a Graph.
type GraphReader interface {
	Read(r io.Reader) (*Graph, error)
}

// GraphWriter serializes a Graph. Writers hold no state between calls.
type GraphWriter interface {
	Write(w io.Writer, g *Graph) error
}

// DataSetReader parses a serialization that can hold several graphs.
type DataSetReader interface {
	ReadDataSet(r io.Reader) (*DataSet, error)
}

// DataSetWriter serializes every graph of a DataSet.
type DataSetWriter interface {
	WriteDataSet(w io.Writer, ds *DataSet) error
}

// Option configures reader/writer behavior.
type Option func(*Options)

// Options configures parser/encoder behavior.
type Options struct {
	// Context for cancellation
	Context context.Context
	// Logger receives trace and debug events; defaults to logrus.StandardLogger()
	Logger logrus.FieldLogger

	// BaseIRI resolves relative references while reading
	BaseIRI string

	// Security limits for untrusted input
	MaxLineBytes int
	MaxDepth     int
	MaxTriples   int64

	// StrictIRIValidation validates every IRI read from the input
	StrictIRIValidation bool

	// Graph construction
	Storage  Storage
	Mappings *PrefixMapping
	Minter   BlankNodeMinter

	// Writer configuration
	Turtle TurtleOptions
	RDFXML RDFXMLOptions
	Dot    DotOptions
	JSONLD JSONLDOptions
}

// ReadGraph parses r in the given format into a new graph.
func ReadGraph(r io.Reader, format Format, opts ...Option) (*Graph, error) {
	options := buildOptions(opts)
	reader, err := newGraphReader(format, options)
	if err != nil {
		return nil, err
	}
	return reader.Read(r)
}

// WriteGraph serializes g to w in the given format.
func WriteGraph(w io.Writer, g *Graph, format Format, opts ...Option) error {
	options := buildOptions(opts)
	writer, err := newGraphWriter(format, options)
	if err != nil {
		return err
	}
	if err := checkDecodeContext(options.Context); err != nil {
		return err
	}
	return writer.Write(w, g)
}

// ReadDataSet parses r in the given format into a new data set.
func ReadDataSet(r io.Reader, format Format, opts ...Option) (*DataSet, error) {
	options := buildOptions(opts)
	var reader DataSetReader
	switch format {
	case FormatNQuads:
		reader = &NQuadsReader{options: options}
	case FormatJSONLD:
		reader = &JSONLDReader{options: options}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q cannot hold a data set", string(format))
	}
	return reader.ReadDataSet(r)
}

// WriteDataSet serializes ds to w in the given format.
func WriteDataSet(w io.Writer, ds *DataSet, format Format, opts ...Option) error {
	options := buildOptions(opts)
	if format != FormatNQuads {
		return errors.Wrapf(ErrUnsupportedFormat, "%q cannot hold a data set", string(format))
	}
	if err := checkDecodeContext(options.Context); err != nil {
		return err
	}
	var writer DataSetWriter = &NQuadsWriter{logger: options.Logger}
	return writer.WriteDataSet(w, ds)
}

func newGraphReader(format Format, options Options) (GraphReader, error) {
	switch format {
	case FormatNTriples:
		return &NTriplesReader{options: options}, nil
	case FormatNQuads:
		return &NQuadsReader{options: options}, nil
	case FormatRDFXML:
		return &RDFXMLReader{options: options}, nil
	case FormatJSON:
		return &JSONReader{options: options}, nil
	case FormatJSONLD:
		return &JSONLDReader{options: options}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q cannot be read", string(format))
	}
}

func newGraphWriter(format Format, options Options) (GraphWriter, error) {
	switch format {
	case FormatTurtle:
		return &TurtleWriter{Options: options.Turtle, logger: options.Logger}, nil
	case FormatNTriples:
		return &NTriplesWriter{logger: options.Logger}, nil
	case FormatNQuads:
		return &NQuadsWriter{logger: options.Logger}, nil
	case FormatRDFXML:
		return &RDFXMLWriter{Options: options.RDFXML, logger: options.Logger}, nil
	case FormatJSON:
		return &JSONWriter{logger: options.Logger}, nil
	case FormatJSONLD:
		return &JSONLDWriter{Options: options.JSONLD, logger: options.Logger}, nil
	case FormatDot:
		return &DotWriter{Options: options.Dot, logger: options.Logger}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q cannot be written", string(format))
	}
}

// Option helpers

// OptContext sets the context for cancellation.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptLogger sets the logger for parse and write events.
func OptLogger(logger logrus.FieldLogger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// OptBaseIRI sets the base IRI for resolving relative references.
func OptBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.BaseIRI = base
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxDepth sets the maximum nesting depth limit.
func OptMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

// OptMaxTriples sets the maximum number of statements to read; zero is unlimited.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptSafeLimits applies limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		opts.MaxLineBytes = 64 << 10
		opts.MaxDepth = 64
		opts.MaxTriples = 1_000_000
	}
}

// OptStrictIRIValidation validates every IRI read from the input with ValidateIRI.
func OptStrictIRIValidation() Option {
	return func(opts *Options) {
		opts.StrictIRIValidation = true
	}
}

// OptStorage sets the storage discipline of graphs created by readers.
func OptStorage(storage Storage) Option {
	return func(opts *Options) {
		opts.Storage = storage
	}
}

// OptMappings seeds graphs created by readers with mappings.
func OptMappings(mappings *PrefixMapping) Option {
	return func(opts *Options) {
		opts.Mappings = mappings
	}
}

// OptMinter sets the blank node minter of graphs created by readers.
func OptMinter(minter BlankNodeMinter) Option {
	return func(opts *Options) {
		opts.Minter = minter
	}
}

// OptTurtle sets the Turtle writer options.
func OptTurtle(turtle TurtleOptions) Option {
	return func(opts *Options) {
		opts.Turtle = turtle
	}
}

// OptRDFXML sets the RDF/XML writer options.
func OptRDFXML(rdfxml RDFXMLOptions) Option {
	return func(opts *Options) {
		opts.RDFXML = rdfxml
	}
}

// OptDot sets the GraphViz writer options.
func OptDot(dot DotOptions) Option {
	return func(opts *Options) {
		opts.Dot = dot
	}
}

// OptJSONLD sets the JSON-LD options.
func OptJSONLD(jsonld JSONLDOptions) Option {
	return func(opts *Options) {
		opts.JSONLD = jsonld
	}
}

// Internal helpers

func defaultOptions() Options {
	return Options{
		Context:      context.Background(),
		Logger:       logrus.StandardLogger(),
		MaxLineBytes: DefaultMaxLineBytes,
		MaxDepth:     DefaultMaxDepth,
		MaxTriples:   DefaultMaxTriples,
		Storage:      StorageNonUnique,
		Turtle:       DefaultTurtleOptions(),
		RDFXML:       DefaultRDFXMLOptions(),
		Dot:          DefaultDotOptions(),
		JSONLD:       DefaultJSONLDOptions(),
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Logger == nil {
		options.Logger = logrus.StandardLogger()
	}
	return options
}

// newGraph creates the graph a reader fills.
func (o Options) newGraph() *Graph {
	graphOpts := []GraphOption{WithStorage(o.Storage), WithGraphLogger(o.Logger)}
	if o.Mappings != nil {
		graphOpts = append(graphOpts, WithMappings(o.Mappings))
	}
	if o.Minter != nil {
		graphOpts = append(graphOpts, WithMinter(o.Minter))
	}
	return NewGraph(graphOpts...)
}

// tripleLimit reports an error once a reader has produced more than MaxTriples statements.
func (o Options) tripleLimit(format string, count int64) error {
	if o.MaxTriples > 0 && count > o.MaxTriples {
		return errors.Wrapf(ErrTripleLimitExceeded, "%s: statement limit %d exceeded", format, o.MaxTriples)
	}
	return nil
}

// absoluteIRI resolves ref against BaseIRI when it is relative and validates it
// when StrictIRIValidation is set.
func (o Options) absoluteIRI(ref string) (IRI, error) {
	value := ref
	if !hasScheme(value) {
		if o.BaseIRI == "" {
			return IRI{}, errors.Wrapf(ErrAbsoluteIRIExpected, "%q", ref)
		}
		value = resolveIRI(o.BaseIRI, ref)
	}
	if o.StrictIRIValidation {
		if err := ValidateIRI(value); err != nil {
			return IRI{}, err
		}
	}
	return IRI{Value: value}, nil
}
