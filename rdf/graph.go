package rdf

import (
	"github.com/sirupsen/logrus"
)

// Storage selects how a Graph treats duplicate statements. It is fixed for the
// life of the graph.
type Storage uint8

const (
	// StorageNonUnique keeps every inserted statement, duplicates included.
	StorageNonUnique Storage = iota
	// StorageUnique keeps at most one copy of each statement.
	StorageUnique
)

func (s Storage) String() string {
	if s == StorageUnique {
		return "unique"
	}
	return "non-unique"
}

// GraphName names a graph with an IRI or a blank node.
type GraphName struct {
	node SubjectNode
}

// GraphNameIRI returns a graph name for iri.
func GraphNameIRI(iri IRI) GraphName { return GraphName{node: iri} }

// GraphNameBlank returns a graph name for a blank node.
func GraphNameBlank(blank BlankNode) GraphName { return GraphName{node: blank} }

// IsZero reports whether the name is unset.
func (n GraphName) IsZero() bool { return n.node == nil }

// IRI returns the name as an IRI.
func (n GraphName) IRI() (IRI, bool) {
	iri, ok := n.node.(IRI)
	return iri, ok
}

// Blank returns the name as a blank node.
func (n GraphName) Blank() (BlankNode, bool) {
	blank, ok := n.node.(BlankNode)
	return blank, ok
}

// String returns "<iri>" or "_:label", or "" when unset.
func (n GraphName) String() string {
	if n.node == nil {
		return ""
	}
	return termKey(n.node)
}

// Graph is an in-memory collection of statements with a prefix mapping and an
// optional name. Statements keep insertion order so iteration is deterministic.
// A Graph is not safe for concurrent use.
type Graph struct {
	name       GraphName
	storage    Storage
	statements []Statement
	counts     map[string]int
	mappings   *PrefixMapping
	minter     BlankNodeMinter
	logger     logrus.FieldLogger
}

// GraphOption configures a new Graph.
type GraphOption func(*Graph)

// WithStorage sets the storage discipline.
func WithStorage(storage Storage) GraphOption {
	return func(g *Graph) { g.storage = storage }
}

// WithName names the graph.
func WithName(name GraphName) GraphOption {
	return func(g *Graph) { g.name = name }
}

// WithMappings uses mappings as the graph's prefix mapping. The mapping is
// shared, not copied.
func WithMappings(mappings *PrefixMapping) GraphOption {
	return func(g *Graph) { g.mappings = mappings }
}

// WithMinter sets the blank node minter used by parsers and transforms.
func WithMinter(minter BlankNodeMinter) GraphOption {
	return func(g *Graph) { g.minter = minter }
}

// WithGraphLogger sets the logger used by graph transforms.
func WithGraphLogger(logger logrus.FieldLogger) GraphOption {
	return func(g *Graph) { g.logger = logger }
}

// WithStatements inserts statements after the graph is configured.
func WithStatements(statements ...Statement) GraphOption {
	return func(g *Graph) { g.statements = append(g.statements, statements...) }
}

// NewGraph creates an empty graph. The default storage is StorageNonUnique.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{counts: make(map[string]int)}
	for _, opt := range opts {
		opt(g)
	}
	if g.mappings == nil {
		g.mappings = NewPrefixMapping()
	}
	if g.minter == nil {
		g.minter = NewSequenceMinter("B")
	}
	if g.logger == nil {
		g.logger = logrus.StandardLogger()
	}
	pending := g.statements
	g.statements = nil
	g.Extend(pending)
	return g
}

// NewUniqueGraph creates an empty graph that ignores duplicate inserts.
func NewUniqueGraph(opts ...GraphOption) *Graph {
	return NewGraph(append([]GraphOption{WithStorage(StorageUnique)}, opts...)...)
}

// newGraphLike returns an empty graph with g's configuration and mappings.
func (g *Graph) newGraphLike() *Graph {
	return NewGraph(
		WithStorage(g.storage),
		WithName(g.name),
		WithMappings(g.mappings),
		WithMinter(g.minter),
		WithGraphLogger(g.logger),
	)
}

// Storage returns the storage discipline.
func (g *Graph) Storage() Storage { return g.storage }

// Len returns the number of statements, duplicates included.
func (g *Graph) Len() int { return len(g.statements) }

// IsEmpty reports whether the graph has no statements.
func (g *Graph) IsEmpty() bool { return len(g.statements) == 0 }

// Name returns the graph name, if set.
func (g *Graph) Name() (GraphName, bool) { return g.name, !g.name.IsZero() }

// IsNamed reports whether the graph has a name.
func (g *Graph) IsNamed() bool { return !g.name.IsZero() }

// SetName names the graph.
func (g *Graph) SetName(name GraphName) { g.name = name }

// UnsetName removes the graph name.
func (g *Graph) UnsetName() { g.name = GraphName{} }

// PrefixMappings returns the graph's prefix mapping.
func (g *Graph) PrefixMappings() *PrefixMapping { return g.mappings }

// SetPrefixMappings replaces the graph's prefix mapping.
func (g *Graph) SetPrefixMappings(mappings *PrefixMapping) {
	if mappings == nil {
		mappings = NewPrefixMapping()
	}
	g.mappings = mappings
}

// Minter returns the graph's blank node minter.
func (g *Graph) Minter() BlankNodeMinter { return g.minter }

// NewBlankNode mints a fresh blank node from the graph's minter.
func (g *Graph) NewBlankNode() BlankNode { return g.minter.Next() }

// Statements returns a copy of the statements in insertion order.
func (g *Graph) Statements() []Statement {
	out := make([]Statement, len(g.statements))
	copy(out, g.statements)
	return out
}

// Contains reports whether st is in the graph.
func (g *Graph) Contains(st Statement) bool {
	return g.counts[st.Key()] > 0
}

// ContainsAll reports whether every statement is in the graph.
func (g *Graph) ContainsAll(statements []Statement) bool {
	for _, st := range statements {
		if !g.Contains(st) {
			return false
		}
	}
	return true
}

// ContainsSubject reports whether any statement has the given subject.
func (g *Graph) ContainsSubject(subject SubjectNode) bool {
	for _, st := range g.statements {
		if termEqual(st.subject, subject) {
			return true
		}
	}
	return false
}

// Matches returns the statements matching the pattern. A nil subject or object,
// or a zero predicate, matches anything.
func (g *Graph) Matches(subject SubjectNode, predicate IRI, object ObjectNode) []Statement {
	var out []Statement
	for _, st := range g.statements {
		if statementMatches(st, subject, predicate, object) {
			out = append(out, st)
		}
	}
	return out
}

func statementMatches(st Statement, subject SubjectNode, predicate IRI, object ObjectNode) bool {
	if subject != nil && !termEqual(st.subject, subject) {
		return false
	}
	if !predicate.IsZero() && st.predicate != predicate {
		return false
	}
	if object != nil && !termEqual(st.object, object) {
		return false
	}
	return true
}

// Subjects returns the distinct subjects in first-seen order.
func (g *Graph) Subjects() []SubjectNode {
	seen := make(map[string]struct{})
	var out []SubjectNode
	for _, st := range g.statements {
		key := termKey(st.subject)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, st.subject)
	}
	return out
}

// NodeSubjects returns the distinct IRI and statement subjects.
func (g *Graph) NodeSubjects() []SubjectNode {
	var out []SubjectNode
	for _, subject := range g.Subjects() {
		if _, ok := subject.(BlankNode); !ok {
			out = append(out, subject)
		}
	}
	return out
}

// BlankNodeSubjects returns the distinct blank subjects.
func (g *Graph) BlankNodeSubjects() []BlankNode {
	var out []BlankNode
	for _, subject := range g.Subjects() {
		if blank, ok := subject.(BlankNode); ok {
			out = append(out, blank)
		}
	}
	return out
}

// Predicates returns the distinct predicates in first-seen order.
func (g *Graph) Predicates() []IRI {
	return distinctPredicates(g.statements, nil)
}

// PredicatesFor returns the distinct predicates used with subject.
func (g *Graph) PredicatesFor(subject SubjectNode) []IRI {
	return distinctPredicates(g.statements, subject)
}

func distinctPredicates(statements []Statement, subject SubjectNode) []IRI {
	seen := make(map[IRI]struct{})
	var out []IRI
	for _, st := range statements {
		if subject != nil && !termEqual(st.subject, subject) {
			continue
		}
		if _, ok := seen[st.predicate]; ok {
			continue
		}
		seen[st.predicate] = struct{}{}
		out = append(out, st.predicate)
	}
	return out
}

// Objects returns the distinct objects in first-seen order.
func (g *Graph) Objects() []ObjectNode {
	return distinctObjects(g.statements, nil, IRI{})
}

// ObjectsFor returns the distinct objects of statements with subject and predicate.
func (g *Graph) ObjectsFor(subject SubjectNode, predicate IRI) []ObjectNode {
	return distinctObjects(g.statements, subject, predicate)
}

func distinctObjects(statements []Statement, subject SubjectNode, predicate IRI) []ObjectNode {
	seen := make(map[string]struct{})
	var out []ObjectNode
	for _, st := range statements {
		if !statementMatches(st, subject, predicate, nil) {
			continue
		}
		key := termKey(st.object)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, st.object)
	}
	return out
}

// Insert adds st. A unique graph ignores a statement it already holds.
func (g *Graph) Insert(st Statement) {
	key := st.Key()
	if g.storage == StorageUnique && g.counts[key] > 0 {
		return
	}
	g.counts[key]++
	g.statements = append(g.statements, st)
}

// Extend inserts every statement in order.
func (g *Graph) Extend(statements []Statement) {
	for _, st := range statements {
		g.Insert(st)
	}
}

// Merge inserts the statements of other and adds its prefix bindings that do
// not conflict with bindings already present.
func (g *Graph) Merge(other *Graph) {
	if other == nil || other == g {
		return
	}
	g.Extend(other.statements)
	g.mergeMappings(other)
}

// mergeMappings adds the bindings of other that do not conflict with g's.
func (g *Graph) mergeMappings(other *Graph) {
	if other.mappings == g.mappings {
		return
	}
	for _, binding := range other.mappings.Mappings() {
		_ = g.mappings.TryInsert(binding.Prefix, binding.Namespace)
	}
}

// Dedup removes duplicate statements, keeping the first copy of each, and
// returns the removed copies. It is a no-op on a unique graph.
func (g *Graph) Dedup() []Statement {
	if g.storage == StorageUnique {
		return nil
	}
	seen := make(map[string]struct{}, len(g.statements))
	kept := g.statements[:0:0]
	var removed []Statement
	for _, st := range g.statements {
		key := st.Key()
		if _, ok := seen[key]; ok {
			removed = append(removed, st)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, st)
	}
	if len(removed) == 0 {
		return nil
	}
	g.statements = kept
	for key := range g.counts {
		g.counts[key] = 1
	}
	return removed
}

// Remove deletes one copy of st. It reports whether a copy was found.
func (g *Graph) Remove(st Statement) bool {
	key := st.Key()
	if g.counts[key] == 0 {
		return false
	}
	for i := range g.statements {
		if g.statements[i].Key() == key {
			g.statements = append(g.statements[:i], g.statements[i+1:]...)
			g.decrement(key)
			return true
		}
	}
	return false
}

// RemoveAllFor deletes every statement with the given subject and returns them.
func (g *Graph) RemoveAllFor(subject SubjectNode) []Statement {
	var removed []Statement
	kept := g.statements[:0]
	for _, st := range g.statements {
		if termEqual(st.subject, subject) {
			removed = append(removed, st)
			g.decrement(st.Key())
			continue
		}
		kept = append(kept, st)
	}
	g.statements = kept
	return removed
}

// Clear removes every statement. The name and mappings are kept.
func (g *Graph) Clear() {
	g.statements = nil
	clear(g.counts)
}

func (g *Graph) decrement(key string) {
	if g.counts[key] <= 1 {
		delete(g.counts, key)
		return
	}
	g.counts[key]--
}
