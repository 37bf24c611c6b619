package rdf

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"
)

const formatNameNQuads = "nquads"

// NQuadsReader parses N-Quads: N-Triples lines with an optional graph label.
type NQuadsReader struct {
	options Options
}

// NewNQuadsReader creates a reader configured by opts.
func NewNQuadsReader(opts ...Option) *NQuadsReader {
	return &NQuadsReader{options: buildOptions(opts)}
}

// Read parses in into a new graph holding the default-graph statements.
func (r *NQuadsReader) Read(in io.Reader) (*Graph, error) {
	g := r.options.newGraph()
	if err := r.ReadInto(in, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadInto parses in and inserts the default-graph statements into g.
// Statements of named graphs are skipped.
func (r *NQuadsReader) ReadInto(in io.Reader, g *Graph) error {
	log := r.options.Logger.WithField("format", formatNameNQuads)
	var skipped int
	count, err := scanLines(in, r.options, formatNameNQuads, log, func(st Statement, name GraphName) {
		if !name.IsZero() {
			skipped++
			return
		}
		g.Insert(st)
	})
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.WithField("statements", skipped).Debug("rdf: skipped named graph statements")
	}
	log.WithField("statements", count-int64(skipped)).Debug("rdf: read graph")
	return nil
}

// ReadDataSet parses in into a DataSet with one graph per graph label. Graphs
// share the reader's prefix mappings and minter.
func (r *NQuadsReader) ReadDataSet(in io.Reader) (*DataSet, error) {
	log := r.options.Logger.WithField("format", formatNameNQuads)
	opts := r.options
	if opts.Mappings == nil {
		opts.Mappings = NewPrefixMapping()
	}
	if opts.Minter == nil {
		opts.Minter = NewSequenceMinter("B")
	}
	out := NewDataSet()
	count, err := scanLines(in, opts, formatNameNQuads, log, func(st Statement, name GraphName) {
		g, ok := out.GraphNamed(name)
		if !ok {
			g = opts.newGraph()
			if !name.IsZero() {
				g.SetName(name)
			}
			out.Insert(g)
		}
		g.Insert(st)
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"graphs": out.Len(), "statements": count}).Debug("rdf: read dataset")
	return out, nil
}

// NQuadsWriter writes one quad per line, labelled with the graph name when the
// graph is named. Nested statements and collections are simplified first.
type NQuadsWriter struct {
	logger logrus.FieldLogger
}

// NewNQuadsWriter creates an N-Quads writer.
func NewNQuadsWriter(opts ...Option) *NQuadsWriter {
	return &NQuadsWriter{logger: buildOptions(opts).Logger}
}

// Write serializes g in graph order.
func (w *NQuadsWriter) Write(out io.Writer, g *Graph) error {
	writer := bufio.NewWriter(out)
	n, err := writeQuads(writer, g)
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return wrapIOError(formatNameNQuads, err)
	}
	if w.logger != nil {
		w.logger.WithField("statements", n).Debug("rdf: wrote nquads")
	}
	return nil
}

// WriteDataSet serializes the default graph, then each named graph by name.
func (w *NQuadsWriter) WriteDataSet(out io.Writer, ds *DataSet) error {
	writer := bufio.NewWriter(out)
	var total int
	for _, g := range ds.Graphs() {
		n, err := writeQuads(writer, g)
		if err != nil {
			return err
		}
		total += n
	}
	if err := writer.Flush(); err != nil {
		return wrapIOError(formatNameNQuads, err)
	}
	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{"graphs": ds.Len(), "statements": total}).Debug("rdf: wrote nquads")
	}
	return nil
}

func writeQuads(writer *bufio.Writer, g *Graph) (int, error) {
	simple, err := g.Simplify()
	if err != nil {
		return 0, err
	}
	label := ""
	if name, ok := g.Name(); ok {
		label = " " + name.String()
	}
	for _, st := range simple.statements {
		if _, err := writer.WriteString(st.Key() + label + " .\n"); err != nil {
			return 0, wrapIOError(formatNameNQuads, err)
		}
	}
	return simple.Len(), nil
}
