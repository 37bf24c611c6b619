package rdf

// IndexedGraph is a Graph with subject, predicate and object indices. Matches
// intersects only the index buckets of the components that are constrained.
type IndexedGraph struct {
	graph       *Graph
	bySubject   map[string][]Statement
	byPredicate map[IRI][]Statement
	byObject    map[string][]Statement
}

// NewIndexedGraph creates an empty indexed graph.
func NewIndexedGraph(opts ...GraphOption) *IndexedGraph {
	ig := &IndexedGraph{
		graph:       NewGraph(opts...),
		bySubject:   make(map[string][]Statement),
		byPredicate: make(map[IRI][]Statement),
		byObject:    make(map[string][]Statement),
	}
	for _, st := range ig.graph.statements {
		ig.index(st)
	}
	return ig
}

// IndexGraph builds an indexed copy of g.
func IndexGraph(g *Graph) *IndexedGraph {
	ig := NewIndexedGraph(
		WithStorage(g.storage),
		WithName(g.name),
		WithMappings(g.mappings),
		WithMinter(g.minter),
		WithGraphLogger(g.logger),
	)
	ig.Extend(g.statements)
	return ig
}

// Graph returns a plain copy of the indexed statements.
func (ig *IndexedGraph) Graph() *Graph {
	out := ig.graph.newGraphLike()
	out.Extend(ig.graph.statements)
	return out
}

func (ig *IndexedGraph) index(st Statement) {
	subjectKey := termKey(st.subject)
	objectKey := termKey(st.object)
	ig.bySubject[subjectKey] = append(ig.bySubject[subjectKey], st)
	ig.byPredicate[st.predicate] = append(ig.byPredicate[st.predicate], st)
	ig.byObject[objectKey] = append(ig.byObject[objectKey], st)
}

func (ig *IndexedGraph) unindex(st Statement) {
	subjectKey := termKey(st.subject)
	objectKey := termKey(st.object)
	ig.bySubject[subjectKey] = removeOne(ig.bySubject[subjectKey], st)
	if len(ig.bySubject[subjectKey]) == 0 {
		delete(ig.bySubject, subjectKey)
	}
	ig.byPredicate[st.predicate] = removeOne(ig.byPredicate[st.predicate], st)
	if len(ig.byPredicate[st.predicate]) == 0 {
		delete(ig.byPredicate, st.predicate)
	}
	ig.byObject[objectKey] = removeOne(ig.byObject[objectKey], st)
	if len(ig.byObject[objectKey]) == 0 {
		delete(ig.byObject, objectKey)
	}
}

// removeOne drops the first statement equal to st by scanning the bucket.
func removeOne(bucket []Statement, st Statement) []Statement {
	for i := range bucket {
		if bucket[i].Equal(st) {
			return append(bucket[:i], bucket[i+1:]...)
		}
	}
	return bucket
}

// Storage returns the storage discipline.
func (ig *IndexedGraph) Storage() Storage { return ig.graph.storage }

// Len returns the number of statements.
func (ig *IndexedGraph) Len() int { return ig.graph.Len() }

// IsEmpty reports whether the graph has no statements.
func (ig *IndexedGraph) IsEmpty() bool { return ig.graph.IsEmpty() }

// Name returns the graph name, if set.
func (ig *IndexedGraph) Name() (GraphName, bool) { return ig.graph.Name() }

// SetName names the graph.
func (ig *IndexedGraph) SetName(name GraphName) { ig.graph.SetName(name) }

// UnsetName removes the graph name.
func (ig *IndexedGraph) UnsetName() { ig.graph.UnsetName() }

// PrefixMappings returns the prefix mapping.
func (ig *IndexedGraph) PrefixMappings() *PrefixMapping { return ig.graph.mappings }

// SetPrefixMappings replaces the prefix mapping.
func (ig *IndexedGraph) SetPrefixMappings(mappings *PrefixMapping) {
	ig.graph.SetPrefixMappings(mappings)
}

// Statements returns a copy of the statements in insertion order.
func (ig *IndexedGraph) Statements() []Statement { return ig.graph.Statements() }

// Contains reports whether st is in the graph.
func (ig *IndexedGraph) Contains(st Statement) bool { return ig.graph.Contains(st) }

// ContainsSubject reports whether any statement has subject.
func (ig *IndexedGraph) ContainsSubject(subject SubjectNode) bool {
	return len(ig.bySubject[termKey(subject)]) > 0
}

// Matches returns statements matching the pattern. Only constrained components
// contribute a bucket; an unconstrained pattern returns every statement.
func (ig *IndexedGraph) Matches(subject SubjectNode, predicate IRI, object ObjectNode) []Statement {
	var buckets [][]Statement
	if subject != nil {
		buckets = append(buckets, ig.bySubject[termKey(subject)])
	}
	if !predicate.IsZero() {
		buckets = append(buckets, ig.byPredicate[predicate])
	}
	if object != nil {
		buckets = append(buckets, ig.byObject[termKey(object)])
	}
	if len(buckets) == 0 {
		return ig.graph.Statements()
	}
	smallest := buckets[0]
	for _, bucket := range buckets[1:] {
		if len(bucket) < len(smallest) {
			smallest = bucket
		}
	}
	var out []Statement
	for _, st := range smallest {
		if statementMatches(st, subject, predicate, object) {
			out = append(out, st)
		}
	}
	return out
}

// Subjects returns the distinct subjects in first-seen order.
func (ig *IndexedGraph) Subjects() []SubjectNode { return ig.graph.Subjects() }

// Predicates returns the distinct predicates in first-seen order.
func (ig *IndexedGraph) Predicates() []IRI { return ig.graph.Predicates() }

// PredicatesFor returns the distinct predicates used with subject.
func (ig *IndexedGraph) PredicatesFor(subject SubjectNode) []IRI {
	return distinctPredicates(ig.bySubject[termKey(subject)], nil)
}

// Objects returns the distinct objects in first-seen order.
func (ig *IndexedGraph) Objects() []ObjectNode { return ig.graph.Objects() }

// ObjectsFor returns the distinct objects for subject and predicate.
func (ig *IndexedGraph) ObjectsFor(subject SubjectNode, predicate IRI) []ObjectNode {
	return distinctObjects(ig.bySubject[termKey(subject)], nil, predicate)
}

// Insert adds st, keeping every index in step.
func (ig *IndexedGraph) Insert(st Statement) {
	before := ig.graph.Len()
	ig.graph.Insert(st)
	if ig.graph.Len() > before {
		ig.index(st)
	}
}

// Extend inserts every statement in order.
func (ig *IndexedGraph) Extend(statements []Statement) {
	for _, st := range statements {
		ig.Insert(st)
	}
}

// Merge inserts the statements of other.
func (ig *IndexedGraph) Merge(other *Graph) {
	if other == nil || other == ig.graph {
		return
	}
	ig.Extend(other.statements)
	ig.graph.mergeMappings(other)
}

// Remove deletes one copy of st.
func (ig *IndexedGraph) Remove(st Statement) bool {
	if !ig.graph.Remove(st) {
		return false
	}
	ig.unindex(st)
	return true
}

// RemoveAllFor deletes every statement with subject and returns them.
func (ig *IndexedGraph) RemoveAllFor(subject SubjectNode) []Statement {
	removed := ig.graph.RemoveAllFor(subject)
	for _, st := range removed {
		ig.unindex(st)
	}
	return removed
}

// Dedup collapses duplicates, first seen wins, and purges the discarded copies
// from every index.
func (ig *IndexedGraph) Dedup() []Statement {
	removed := ig.graph.Dedup()
	for _, st := range removed {
		ig.unindex(st)
	}
	return removed
}

// Clear removes every statement.
func (ig *IndexedGraph) Clear() {
	ig.graph.Clear()
	clear(ig.bySubject)
	clear(ig.byPredicate)
	clear(ig.byObject)
}
