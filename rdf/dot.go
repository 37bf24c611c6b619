package rdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const formatNameDot = "dot"

// DotOptions sets the shapes and colors of the GraphViz rendering.
type DotOptions struct {
	BlankShape   string `yaml:"blank_shape"`
	BlankColor   string `yaml:"blank_color"`
	BlankLabels  bool   `yaml:"blank_labels"`
	IRIShape     string `yaml:"iri_shape"`
	IRIColor     string `yaml:"iri_color"`
	LiteralShape string `yaml:"literal_shape"`
	LiteralColor string `yaml:"literal_color"`
	NodePrefix   string `yaml:"node_prefix"`
}

// DefaultDotOptions returns green circles for blank nodes, blue ellipses for
// IRIs and black records for literals.
func DefaultDotOptions() DotOptions {
	return DotOptions{
		BlankShape:   "circle",
		BlankColor:   "green",
		IRIShape:     "ellipse",
		IRIColor:     "blue",
		LiteralShape: "record",
		LiteralColor: "black",
		NodePrefix:   "node_",
	}
}

// DotWriter renders a graph as a GraphViz digraph for diagnostics.
type DotWriter struct {
	Options DotOptions
	logger  logrus.FieldLogger
}

// NewDotWriter creates a writer configured by opts.
func NewDotWriter(opts ...Option) *DotWriter {
	options := buildOptions(opts)
	return &DotWriter{Options: options.Dot, logger: options.Logger}
}

type dotNode struct {
	id    int
	term  ObjectNode
	label string
}

// Write serializes g. Node ids are assigned in first-seen order.
func (w *DotWriter) Write(out io.Writer, g *Graph) error {
	simple, err := g.Simplify()
	if err != nil {
		return err
	}
	var (
		b     strings.Builder
		nodes []*dotNode
		ids   = make(map[string]*dotNode)
	)
	nodeFor := func(t ObjectNode) (*dotNode, error) {
		key := termKey(t)
		if node, ok := ids[key]; ok {
			return node, nil
		}
		node := &dotNode{id: len(nodes) + 1, term: t}
		switch v := t.(type) {
		case IRI:
			node.label = v.Value
		case BlankNode:
			node.label = v.ID
		case Literal:
			node.label = v.Value()
		default:
			return nil, errors.Wrapf(ErrRDFStarUnsupported, "dot node %s", t)
		}
		ids[key] = node
		nodes = append(nodes, node)
		return node, nil
	}

	b.WriteString("digraph {\n    rankdir=BT\n    charset=\"utf-8\";\n\n")
	mappings := g.PrefixMappings()
	for _, st := range simple.statements {
		subject, err := nodeFor(st.subject.(ObjectNode))
		if err != nil {
			return err
		}
		object, err := nodeFor(st.object)
		if err != nil {
			return err
		}
		label := st.predicate.Value
		if mappings != nil {
			if qname, ok := mappings.Compress(st.predicate); ok {
				label = qname.String()
			}
		}
		fmt.Fprintf(&b, "    %q -> %q [label=\"%s\"];\n", w.nodeID(subject), w.nodeID(object), escapeDot(label))
	}
	b.WriteByte('\n')
	for _, node := range nodes {
		w.writeNode(&b, node)
	}
	b.WriteString("}\n")

	if _, err := io.WriteString(out, b.String()); err != nil {
		return wrapIOError(formatNameDot, err)
	}
	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{"statements": simple.Len(), "nodes": len(nodes)}).Debug("rdf: wrote dot")
	}
	return nil
}

func (w *DotWriter) nodeID(node *dotNode) string {
	return w.Options.NodePrefix + strconv.Itoa(node.id)
}

func (w *DotWriter) writeNode(b *strings.Builder, node *dotNode) {
	id := w.nodeID(node)
	switch node.term.(type) {
	case BlankNode:
		label := ""
		if w.Options.BlankLabels {
			label = node.label
		}
		fmt.Fprintf(b, "    %q [label=\"%s\",shape=%s,color=%s];\n", id, escapeDot(label), w.Options.BlankShape, w.Options.BlankColor)
	case IRI:
		label := escapeDot(node.label)
		fmt.Fprintf(b, "    %q [URL=\"%s\",label=\"%s\",shape=%s,color=%s];\n", id, label, label, w.Options.IRIShape, w.Options.IRIColor)
	case Literal:
		fmt.Fprintf(b, "    %q [label=\"%s\",shape=%s,color=%s];\n", id, escapeDot(node.label), w.Options.LiteralShape, w.Options.LiteralColor)
	}
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func escapeDot(value string) string {
	return dotEscaper.Replace(value)
}
