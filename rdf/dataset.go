package rdf

import "sort"

// DataSet is a collection of graphs: at most one default graph and any number
// of named graphs. Graphs may share a PrefixMapping.
type DataSet struct {
	defaultGraph *Graph
	named        map[GraphName]*Graph
}

// NewDataSet returns an empty data set.
func NewDataSet() *DataSet {
	return &DataSet{named: make(map[GraphName]*Graph)}
}

// Len returns the number of graphs, the default graph included.
func (d *DataSet) Len() int {
	n := len(d.named)
	if d.defaultGraph != nil {
		n++
	}
	return n
}

// IsEmpty reports whether the data set holds no graphs.
func (d *DataSet) IsEmpty() bool { return d.Len() == 0 }

// DefaultGraph returns the unnamed graph, if present.
func (d *DataSet) DefaultGraph() (*Graph, bool) {
	return d.defaultGraph, d.defaultGraph != nil
}

// GraphNamed returns the graph with the given name.
func (d *DataSet) GraphNamed(name GraphName) (*Graph, bool) {
	if name.IsZero() {
		return d.DefaultGraph()
	}
	g, ok := d.named[name]
	return g, ok
}

// Insert adds g under its own name, replacing any graph with the same name.
// The replaced graph is returned.
func (d *DataSet) Insert(g *Graph) *Graph {
	name, named := g.Name()
	if !named {
		old := d.defaultGraph
		d.defaultGraph = g
		return old
	}
	old := d.named[name]
	d.named[name] = g
	return old
}

// Remove deletes the graph with the given name; the zero name is the default graph.
func (d *DataSet) Remove(name GraphName) (*Graph, bool) {
	if name.IsZero() {
		old := d.defaultGraph
		d.defaultGraph = nil
		return old, old != nil
	}
	old, ok := d.named[name]
	delete(d.named, name)
	return old, ok
}

// Graphs returns the default graph first, then named graphs sorted by name.
func (d *DataSet) Graphs() []*Graph {
	out := make([]*Graph, 0, d.Len())
	if d.defaultGraph != nil {
		out = append(out, d.defaultGraph)
	}
	names := make([]GraphName, 0, len(d.named))
	for name := range d.named {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })
	for _, name := range names {
		out = append(out, d.named[name])
	}
	return out
}

// Clear removes every graph.
func (d *DataSet) Clear() {
	d.defaultGraph = nil
	clear(d.named)
}
