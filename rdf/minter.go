package rdf

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// BlankNodeMinter generates fresh blank nodes. A Graph holds one and uses it for
// parsing and for every transformation that introduces blank nodes.
type BlankNodeMinter interface {
	Next() BlankNode
}

// SequenceMinter generates blank nodes from a counter: B1, B2, B3 and so on.
// It is not safe for concurrent use.
type SequenceMinter struct {
	prefix  string
	counter int
}

// NewSequenceMinter creates a counter-based minter. An empty prefix becomes "B".
func NewSequenceMinter(prefix string) *SequenceMinter {
	if prefix == "" {
		prefix = "B"
	}
	return &SequenceMinter{prefix: prefix}
}

// Next generates the next blank node.
func (m *SequenceMinter) Next() BlankNode {
	m.counter++
	return BlankNode{ID: m.prefix + strconv.Itoa(m.counter)}
}

// Reset restarts the counter.
func (m *SequenceMinter) Reset() {
	m.counter = 0
}

type uuidMinter struct{}

// NewUUIDMinter returns a minter producing "b" followed by 32 hex digits of a random UUID.
func NewUUIDMinter() BlankNodeMinter {
	return uuidMinter{}
}

func (uuidMinter) Next() BlankNode {
	return BlankNode{ID: "b" + strings.ReplaceAll(uuid.New().String(), "-", "")}
}

// avoidingMinter skips labels that are already in use in a graph.
type avoidingMinter struct {
	inner BlankNodeMinter
	used  map[string]struct{}
}

func newAvoidingMinter(inner BlankNodeMinter, statements []Statement) *avoidingMinter {
	used := make(map[string]struct{})
	for _, st := range statements {
		collectBlankLabels(st.subject, used)
		collectBlankLabels(st.object, used)
	}
	return &avoidingMinter{inner: inner, used: used}
}

func (m *avoidingMinter) Next() BlankNode {
	for {
		node := m.inner.Next()
		if _, taken := m.used[node.ID]; !taken {
			m.used[node.ID] = struct{}{}
			return node
		}
	}
}

func collectBlankLabels(t Term, used map[string]struct{}) {
	switch v := t.(type) {
	case BlankNode:
		used[v.ID] = struct{}{}
	case *Statement:
		collectBlankLabels(v.subject, used)
		collectBlankLabels(v.object, used)
	case *Collection:
		for _, value := range v.Values {
			collectBlankLabels(value, used)
		}
	}
}
