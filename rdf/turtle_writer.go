package rdf

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const formatNameTurtle = "turtle"

// TurtleOptions configures the Turtle writer.
type TurtleOptions struct {
	// Base is emitted as @base and IRIs under it are written relative to it.
	Base string `yaml:"base"`
	// NestBlankNodes writes a blank node referenced once as an object inline as [ ... ].
	NestBlankNodes bool `yaml:"nest_blank_nodes"`
	// SPARQLStyle writes PREFIX/BASE instead of @prefix/@base.
	SPARQLStyle bool `yaml:"sparql_style"`
	// PlaceTypeOnSubjectLine writes "a <type>" on the subject's own line.
	PlaceTypeOnSubjectLine bool `yaml:"type_on_subject_line"`
	// ConvertToBase writes IRIs starting with this string as relative references.
	ConvertToBase string `yaml:"convert_to_base"`
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int `yaml:"indent_width"`
}

// DefaultTurtleOptions nests blank nodes and indents by two spaces.
func DefaultTurtleOptions() TurtleOptions {
	return TurtleOptions{NestBlankNodes: true, IndentWidth: 2}
}

// TurtleWriter writes deterministic Turtle. Subjects, predicates and objects are
// sorted by their rendered text, so set-equal graphs produce identical bytes.
type TurtleWriter struct {
	Options TurtleOptions
	logger  logrus.FieldLogger
}

// NewTurtleWriter creates a writer with the given options.
func NewTurtleWriter(options TurtleOptions) *TurtleWriter {
	return &TurtleWriter{Options: options, logger: logrus.StandardLogger()}
}

// Write renders g completely before writing anything to out.
func (w *TurtleWriter) Write(out io.Writer, g *Graph) error {
	c := newTurtleCursor(g, w.Options, false)
	c.writeDocument()
	if c.err != nil {
		return c.err
	}
	if _, err := io.WriteString(out, c.b.String()); err != nil {
		return wrapIOError(formatNameTurtle, err)
	}
	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{
			"format":     formatNameTurtle,
			"statements": g.Len(),
		}).Debug("rdf: wrote graph")
	}
	return nil
}

type predicateGroup uint8

const (
	groupType predicateGroup = iota
	groupLabel
	groupComment
	groupOther
)

func classifyPredicate(predicate IRI) predicateGroup {
	switch predicate {
	case RDFType:
		return groupType
	case RDFSLabel, FOAFName, DCTitle:
		return groupLabel
	case RDFSComment, DCDescription:
		return groupComment
	}
	return groupOther
}

// turtleEntry is one predicate with its sorted objects.
type turtleEntry struct {
	group   predicateGroup
	text    string
	objects []ObjectNode
}

// turtleCursor carries all mutable state of a single write.
type turtleCursor struct {
	g          *Graph
	opts       TurtleOptions
	b          strings.Builder
	err        error
	singleLine bool
	// objectRefs counts how a blank node is referenced; 1 means exactly once as
	// a plain object, which makes it eligible for nesting.
	objectRefs map[BlankNode]int
	written    map[BlankNode]bool
	inProgress map[BlankNode]bool
}

func newTurtleCursor(g *Graph, opts TurtleOptions, singleLine bool) *turtleCursor {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 2
	}
	return &turtleCursor{
		g:          g,
		opts:       opts,
		singleLine: singleLine,
		objectRefs: countBlankObjectRefs(g),
		written:    make(map[BlankNode]bool),
		inProgress: make(map[BlankNode]bool),
	}
}

func countBlankObjectRefs(g *Graph) map[BlankNode]int {
	refs := make(map[BlankNode]int)
	var embedded func(t Term)
	embedded = func(t Term) {
		switch v := t.(type) {
		case BlankNode:
			refs[v] += 2
		case *Statement:
			embedded(v.subject)
			embedded(v.object)
		case *Collection:
			for _, value := range v.Values {
				embedded(value)
			}
		}
	}
	for _, st := range g.statements {
		if blank, ok := st.object.(BlankNode); ok {
			refs[blank]++
		} else {
			embedded(st.object)
		}
		if _, ok := st.subject.(*Statement); ok {
			embedded(st.subject)
		}
	}
	return refs
}

func (c *turtleCursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *turtleCursor) indent(level int) string {
	return strings.Repeat(" ", level*c.opts.IndentWidth)
}

func (c *turtleCursor) nestable(blank BlankNode) bool {
	return c.opts.NestBlankNodes && c.objectRefs[blank] == 1 && !c.inProgress[blank] && !c.written[blank]
}

func (c *turtleCursor) writeDocument() {
	c.writeHeader()

	var subjects []SubjectNode
	var blanks []BlankNode
	for _, subject := range c.g.Subjects() {
		if blank, ok := subject.(BlankNode); ok {
			blanks = append(blanks, blank)
			continue
		}
		subjects = append(subjects, subject)
	}

	keys := make(map[SubjectNode]string, len(subjects))
	for _, subject := range subjects {
		keys[subject] = c.subjectText(subject)
	}
	sort.SliceStable(subjects, func(i, j int) bool { return keys[subjects[i]] < keys[subjects[j]] })
	sort.Slice(blanks, func(i, j int) bool { return blanks[i].ID < blanks[j].ID })

	blocks := 0
	for _, subject := range subjects {
		c.writeBlock(subject, &blocks)
	}
	// Blank subjects nobody nests come first; what is left after that can only
	// be a cycle of singly referenced blank nodes.
	for _, blank := range blanks {
		if !c.written[blank] && !c.nestable(blank) {
			c.writeBlock(blank, &blocks)
		}
	}
	for _, blank := range blanks {
		if !c.written[blank] {
			c.writeBlock(blank, &blocks)
		}
	}
}

func (c *turtleCursor) writeHeader() {
	header := false
	if c.opts.Base != "" {
		if c.opts.SPARQLStyle {
			fmt.Fprintf(&c.b, "BASE <%s>\n", c.opts.Base)
		} else {
			fmt.Fprintf(&c.b, "@base <%s> .\n", c.opts.Base)
		}
		header = true
	}
	for _, binding := range c.g.mappings.Mappings() {
		if c.opts.SPARQLStyle {
			fmt.Fprintf(&c.b, "PREFIX %s: <%s>\n", binding.Prefix, binding.Namespace.Value)
		} else {
			fmt.Fprintf(&c.b, "@prefix %s: <%s> .\n", binding.Prefix, binding.Namespace.Value)
		}
		header = true
	}
	if header {
		c.b.WriteByte('\n')
	}
}

func (c *turtleCursor) writeBlock(subject SubjectNode, blocks *int) {
	if *blocks > 0 {
		c.b.WriteByte('\n')
	}
	*blocks++
	if blank, ok := subject.(BlankNode); ok {
		c.inProgress[blank] = true
		defer func() {
			delete(c.inProgress, blank)
			c.written[blank] = true
		}()
	}
	c.b.WriteString(c.subjectText(subject))
	c.writeEntries(c.entriesFor(subject), 0, true)
	c.b.WriteString(" .\n")
}

// entriesFor groups the predicates of subject and sorts predicates and objects.
func (c *turtleCursor) entriesFor(subject SubjectNode) []turtleEntry {
	var entries []turtleEntry
	for _, predicate := range c.g.PredicatesFor(subject) {
		group := classifyPredicate(predicate)
		text := "a"
		if group != groupType {
			text = c.iri(predicate)
		}
		objects := c.g.ObjectsFor(subject, predicate)
		keys := make([]string, len(objects))
		for i, object := range objects {
			keys[i] = c.objectSortKey(object)
		}
		sort.Sort(objectsByKey{objects: objects, keys: keys})
		entries = append(entries, turtleEntry{group: group, text: text, objects: objects})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].group != entries[j].group {
			return entries[i].group < entries[j].group
		}
		return entries[i].text < entries[j].text
	})
	return entries
}

type objectsByKey struct {
	objects []ObjectNode
	keys    []string
}

func (o objectsByKey) Len() int           { return len(o.objects) }
func (o objectsByKey) Less(i, j int) bool { return o.keys[i] < o.keys[j] }
func (o objectsByKey) Swap(i, j int) {
	o.objects[i], o.objects[j] = o.objects[j], o.objects[i]
	o.keys[i], o.keys[j] = o.keys[j], o.keys[i]
}

// writeEntries writes the predicate-object list of a subject whose line sits at
// level. A top-level subject with a single predicate stays on one line.
func (c *turtleCursor) writeEntries(entries []turtleEntry, level int, topLevel bool) {
	if len(entries) == 0 {
		return
	}
	if c.singleLine {
		for i, entry := range entries {
			if i > 0 {
				c.b.WriteString(" ;")
			}
			c.b.WriteByte(' ')
			c.b.WriteString(entry.text)
			c.b.WriteByte(' ')
			c.writeObjectList(entry.objects, level, "")
		}
		return
	}

	if topLevel && len(entries) == 1 {
		c.b.WriteByte(' ')
		c.b.WriteString(entries[0].text)
		c.b.WriteByte(' ')
		c.writeObjectList(entries[0].objects, level, "")
		return
	}

	if topLevel && c.opts.PlaceTypeOnSubjectLine && entries[0].group == groupType {
		c.b.WriteString(" a ")
		c.writeObjectList(entries[0].objects, level, "")
		c.b.WriteString(" ;")
		entries = entries[1:]
	}

	width := 0
	for _, entry := range entries {
		if n := utf8.RuneCountInString(entry.text); n > width {
			width = n
		}
	}
	width++
	predicateIndent := c.indent(level + 1)
	continuation := "\n" + predicateIndent + strings.Repeat(" ", width)
	for i, entry := range entries {
		c.b.WriteByte('\n')
		c.b.WriteString(predicateIndent)
		fmt.Fprintf(&c.b, "%-*s", width, entry.text)
		c.writeObjectList(entry.objects, level+1, continuation)
		if i < len(entries)-1 {
			c.b.WriteString(" ;")
		}
	}
}

// writeObjectList separates objects with ", " on one line, or with "," and
// continuation when it is set.
func (c *turtleCursor) writeObjectList(objects []ObjectNode, level int, continuation string) {
	for i, object := range objects {
		if i > 0 {
			if continuation == "" || c.singleLine {
				c.b.WriteString(", ")
			} else {
				c.b.WriteByte(',')
				c.b.WriteString(continuation)
			}
		}
		c.writeObject(object, level)
	}
}

func (c *turtleCursor) writeObject(object ObjectNode, level int) {
	switch v := object.(type) {
	case IRI:
		c.b.WriteString(c.iri(v))
	case Literal:
		c.b.WriteString(c.literal(v))
	case BlankNode:
		if c.nestable(v) {
			c.writeNestedBlank(v, level)
			return
		}
		c.b.WriteString(v.String())
	case *Statement:
		c.b.WriteString(c.quoted(v))
	case *Collection:
		c.writeCollection(v, level)
	default:
		panic("rdf: unknown object kind " + object.Kind().String())
	}
}

func (c *turtleCursor) writeNestedBlank(blank BlankNode, level int) {
	c.inProgress[blank] = true
	entries := c.entriesFor(blank)
	c.writeBracketed(entries, level)
	delete(c.inProgress, blank)
	if !c.singleLine {
		c.written[blank] = true
	}
}

func (c *turtleCursor) writeCollection(collection *Collection, level int) {
	class := collection.ClassIRI()
	if class.IsZero() {
		c.fail(errors.Wrap(ErrInvalidIRI, "collection has no container class"))
		return
	}
	entries := make([]turtleEntry, 0, len(collection.Values)+1)
	entries = append(entries, turtleEntry{group: groupType, text: "a", objects: []ObjectNode{class}})
	for i, value := range collection.Values {
		entries = append(entries, turtleEntry{
			group:   groupOther,
			text:    c.iri(RDFMember(i + 1)),
			objects: []ObjectNode{value},
		})
	}
	c.writeBracketed(entries, level)
}

func (c *turtleCursor) writeBracketed(entries []turtleEntry, level int) {
	if len(entries) == 0 {
		c.b.WriteString("[]")
		return
	}
	c.b.WriteByte('[')
	c.writeEntries(entries, level, false)
	if c.singleLine {
		c.b.WriteString(" ]")
		return
	}
	c.b.WriteByte('\n')
	c.b.WriteString(c.indent(level))
	c.b.WriteByte(']')
}

func (c *turtleCursor) subjectText(subject SubjectNode) string {
	switch v := subject.(type) {
	case IRI:
		return c.iri(v)
	case BlankNode:
		return v.String()
	case *Statement:
		return c.quoted(v)
	}
	panic("rdf: unknown subject kind " + subject.Kind().String())
}

// quoted renders a nested statement as Turtle-star. Blank nodes inside it are
// always written by label.
func (c *turtleCursor) quoted(st *Statement) string {
	var b strings.Builder
	b.WriteString("<< ")
	b.WriteString(c.subjectText(st.subject))
	b.WriteByte(' ')
	b.WriteString(c.iri(st.predicate))
	b.WriteByte(' ')
	switch v := st.object.(type) {
	case IRI:
		b.WriteString(c.iri(v))
	case Literal:
		b.WriteString(c.literal(v))
	case BlankNode:
		b.WriteString(v.String())
	case *Statement:
		b.WriteString(c.quoted(v))
	case *Collection:
		c.fail(errors.Wrap(ErrRDFStarUnsupported, "collection inside a quoted triple"))
	}
	b.WriteString(" >>")
	return b.String()
}

// iri compresses an IRI: ConvertToBase, then Base, then the prefix mapping.
func (c *turtleCursor) iri(iri IRI) string {
	value := iri.Value
	if strings.ContainsAny(value, "<>\" {}|\\^`") {
		c.fail(errors.Wrapf(ErrInvalidIRI, "cannot write <%s>", value))
	}
	if prefix := c.opts.ConvertToBase; prefix != "" && strings.HasPrefix(value, prefix) {
		return "<" + value[len(prefix):] + ">"
	}
	if base := c.opts.Base; base != "" && strings.HasPrefix(value, base) {
		return "<" + value[len(base):] + ">"
	}
	if qname, ok := c.g.mappings.Compress(iri); ok && !strings.HasSuffix(qname.Name, ".") {
		return qname.String()
	}
	return "<" + value + ">"
}

func (c *turtleCursor) literal(l Literal) string {
	dt := l.DataType()
	if !dt.IsZero() && isBareTurtleLiteral(dt.Kind(), l.LexicalForm()) {
		return l.LexicalForm()
	}
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(l.LexicalForm())
	b.WriteByte('"')
	if l.HasLanguage() {
		b.WriteByte('@')
		b.WriteString(string(l.Language()))
	} else if !dt.IsZero() {
		b.WriteString("^^")
		b.WriteString(c.iri(dt.IRI()))
	}
	return b.String()
}

// objectSortKey renders object on a single line, reflecting the graph's prefix
// mapping and nesting decisions, without touching the cursor's own state.
func (c *turtleCursor) objectSortKey(object ObjectNode) string {
	key := &turtleCursor{
		g:          c.g,
		opts:       c.opts,
		singleLine: true,
		objectRefs: c.objectRefs,
		written:    make(map[BlankNode]bool),
		inProgress: make(map[BlankNode]bool, len(c.inProgress)),
	}
	for blank := range c.inProgress {
		key.inProgress[blank] = true
	}
	key.writeObject(object, 0)
	return key.b.String()
}

// objectSortKey returns the single-line Turtle rendering used to order objects.
func objectSortKey(g *Graph, opts TurtleOptions, object ObjectNode) string {
	return newTurtleCursor(g, opts, true).objectSortKey(object)
}

// isBareTurtleLiteral reports whether lexical can be written without quotes and
// read back with the same datatype.
func isBareTurtleLiteral(kind DataTypeKind, lexical string) bool {
	switch kind {
	case DataTypeBoolean:
		return lexical == "true" || lexical == "false"
	case DataTypeInteger:
		return isTurtleInteger(lexical)
	case DataTypeDecimal:
		return isTurtleDecimal(lexical)
	case DataTypeDouble:
		return isTurtleDouble(lexical)
	}
	return false
}

func trimSign(s string) string {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isTurtleInteger(s string) bool {
	return isDigits(trimSign(s))
}

func isTurtleDecimal(s string) bool {
	whole, frac, found := strings.Cut(trimSign(s), ".")
	return found && (whole == "" || isDigits(whole)) && isDigits(frac)
}

func isTurtleDouble(s string) bool {
	mantissa, exponent, found := strings.Cut(strings.ToLower(s), "e")
	if !found || !isDigits(trimSign(exponent)) {
		return false
	}
	mantissa = trimSign(mantissa)
	whole, frac, dotted := strings.Cut(mantissa, ".")
	if !dotted {
		return isDigits(whole)
	}
	return (whole == "" && isDigits(frac)) || (isDigits(whole) && (frac == "" || isDigits(frac)))
}
