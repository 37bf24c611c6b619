package rdf

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RDFXMLReader parses RDF/XML documents.
type RDFXMLReader struct {
	options Options
}

// NewRDFXMLReader creates a reader configured by opts.
func NewRDFXMLReader(opts ...Option) *RDFXMLReader {
	return &RDFXMLReader{options: buildOptions(opts)}
}

// Read parses in into a new graph.
func (r *RDFXMLReader) Read(in io.Reader) (*Graph, error) {
	g := r.options.newGraph()
	if err := r.ReadInto(in, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadInto parses in and inserts the statements into g.
func (r *RDFXMLReader) ReadInto(in io.Reader, g *Graph) error {
	p := &rdfxmlParser{
		dec:  xml.NewDecoder(&contextReader{ctx: r.options.Context, r: in}),
		opts: r.options,
		g:    g,
		log:  r.options.Logger.WithField("format", formatNameRDFXML),
	}
	if err := p.parseDocument(); err != nil {
		err = p.classify(err)
		logParseFailure(p.log, err)
		return err
	}
	p.log.WithField("statements", p.count).Debug("rdf: read graph")
	return nil
}

type rdfxmlParser struct {
	dec   *xml.Decoder
	opts  Options
	g     *Graph
	log   logrus.FieldLogger
	count int64
	depth int
}

func (p *rdfxmlParser) parseDocument() error {
	root := xmlScope{base: p.opts.BaseIRI}
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if el.Name.Space == rdfXMLNS && el.Name.Local == "RDF" {
			if err := p.parseRDF(el, root); err != nil {
				return err
			}
		} else if _, err := p.parseNode(el, root); err != nil {
			return err
		}
		return p.drain()
	}
}

// drain consumes trailing misc tokens so that malformed trailers are reported.
func (p *rdfxmlParser) drain() error {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if el, ok := tok.(xml.StartElement); ok {
			return p.errorf("document", el.Name, nil, "content after the document element")
		}
	}
}

func (p *rdfxmlParser) parseRDF(el xml.StartElement, scope xmlScope) error {
	scope = scope.child(el)
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if _, err := p.parseNode(t, scope); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if err := p.whitespaceOnly(t, "RDF"); err != nil {
				return err
			}
		}
	}
}

// parseNode reads a node element and its property elements, returning the subject.
func (p *rdfxmlParser) parseNode(el xml.StartElement, scope xmlScope) (SubjectNode, error) {
	if err := p.enter("nodeElement", el.Name); err != nil {
		return nil, err
	}
	defer p.leave()
	if isForbiddenNodeElement(el.Name) {
		return nil, p.errorf("nodeElement", el.Name, []string{"rdf:Description", "typed node"}, "illegal node element")
	}
	scope = scope.child(el)
	subject, err := p.nodeSubject(el, scope)
	if err != nil {
		return nil, err
	}
	if el.Name.Space != rdfXMLNS || el.Name.Local != "Description" {
		if err := p.emit(NewStatement(subject, RDFType, elementIRI(el.Name))); err != nil {
			return nil, err
		}
	}
	if err := p.propertyAttributes(subject, el, scope); err != nil {
		return nil, err
	}
	return subject, p.parsePropertyElements(subject, scope)
}

func (p *rdfxmlParser) nodeSubject(el xml.StartElement, scope xmlScope) (SubjectNode, error) {
	about, hasAbout := attrValue(el.Attr, rdfXMLNS, "about")
	id, hasID := attrValue(el.Attr, rdfXMLNS, "ID")
	nodeID, hasNodeID := attrValue(el.Attr, rdfXMLNS, "nodeID")
	present := 0
	for _, has := range []bool{hasAbout, hasID, hasNodeID} {
		if has {
			present++
		}
	}
	if present > 1 {
		return nil, p.errorf("nodeElement", el.Name, nil, "rdf:about, rdf:ID and rdf:nodeID are mutually exclusive")
	}
	switch {
	case hasAbout:
		return p.resolve("about", el.Name, scope, about)
	case hasID:
		return p.resolveID(el.Name, scope, id)
	case hasNodeID:
		return p.blankNode(el.Name, nodeID)
	}
	return p.g.NewBlankNode(), nil
}

// propertyAttributes turns non-syntax attributes into statements about subject.
func (p *rdfxmlParser) propertyAttributes(subject SubjectNode, el xml.StartElement, scope xmlScope) error {
	for _, attr := range el.Attr {
		if isSyntaxAttr(attr) {
			continue
		}
		if attr.Name.Space == rdfXMLNS && attr.Name.Local == "li" {
			return p.errorf("propertyAttribute", attr.Name, nil, "rdf:li is not allowed as an attribute")
		}
		predicate := elementIRI(attr.Name)
		var object ObjectNode
		if predicate == RDFType {
			typ, err := p.resolve("propertyAttribute", attr.Name, scope, attr.Value)
			if err != nil {
				return err
			}
			object = typ
		} else {
			lit, err := p.literal(attr.Name, attr.Value, "", scope)
			if err != nil {
				return err
			}
			object = lit
		}
		if err := p.emit(NewStatement(subject, predicate, object)); err != nil {
			return err
		}
	}
	return nil
}

// parsePropertyElements reads property elements up to the end of the enclosing element.
func (p *rdfxmlParser) parsePropertyElements(subject SubjectNode, scope xmlScope) error {
	members := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.parseProperty(subject, t, scope, &members); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if err := p.whitespaceOnly(t, "propertyElement"); err != nil {
				return err
			}
		}
	}
}

func (p *rdfxmlParser) parseProperty(subject SubjectNode, el xml.StartElement, scope xmlScope, members *int) error {
	if err := p.enter("propertyElement", el.Name); err != nil {
		return err
	}
	defer p.leave()
	if el.Name.Space == "" {
		return p.errorf("propertyElement", el.Name, []string{"namespaced element"}, "property element has no namespace")
	}
	if isForbiddenPropertyElement(el.Name) {
		return p.errorf("propertyElement", el.Name, nil, "illegal property element")
	}
	scope = scope.child(el)

	predicate := elementIRI(el.Name)
	if el.Name.Space == rdfXMLNS {
		if el.Name.Local == "li" {
			*members++
			predicate = RDFMember(*members)
		} else if n, ok := containerIndex(el.Name.Local); ok && n > *members {
			*members = n
		}
	}

	resource, hasResource := attrValue(el.Attr, rdfXMLNS, "resource")
	nodeID, hasNodeID := attrValue(el.Attr, rdfXMLNS, "nodeID")
	parseType, hasParseType := attrValue(el.Attr, rdfXMLNS, "parseType")
	if hasResource && hasNodeID {
		return p.errorf("propertyElement", el.Name, nil, "rdf:resource and rdf:nodeID are mutually exclusive")
	}
	if hasParseType && (hasResource || hasNodeID) {
		return p.errorf("propertyElement", el.Name, nil, "rdf:parseType cannot be combined with rdf:resource or rdf:nodeID")
	}

	var (
		object ObjectNode
		err    error
	)
	switch {
	case hasParseType && parseType == parseTypeResource:
		object, err = p.parseTypeResource(subject, predicate, scope)
		if err != nil {
			return err
		}
		return p.reifyProperty(el, scope, subject, predicate, object)
	case hasParseType && parseType == parseTypeCollection:
		object, err = p.parseTypeCollection(scope)
	case hasParseType:
		object, err = p.parseTypeLiteral(el)
	case hasResource || hasNodeID:
		object, err = p.emptyProperty(el, scope, resource, hasResource, nodeID)
	default:
		object, err = p.propertyContent(el, scope)
	}
	if err != nil {
		return err
	}
	if err := p.emit(NewStatement(subject, predicate, object)); err != nil {
		return err
	}
	return p.reifyProperty(el, scope, subject, predicate, object)
}

// parseTypeResource emits subject predicate _:b and reads the element body as
// the properties of _:b.
func (p *rdfxmlParser) parseTypeResource(subject SubjectNode, predicate IRI, scope xmlScope) (ObjectNode, error) {
	node := p.g.NewBlankNode()
	if err := p.emit(NewStatement(subject, predicate, node)); err != nil {
		return nil, err
	}
	return node, p.parsePropertyElements(node, scope)
}

// parseTypeCollection reads node elements into an RDF list.
func (p *rdfxmlParser) parseTypeCollection(scope xmlScope) (ObjectNode, error) {
	var items []SubjectNode
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			item, err := p.parseNode(t, scope)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case xml.EndElement:
			return p.emitList(items)
		case xml.CharData:
			if err := p.whitespaceOnly(t, "collection"); err != nil {
				return nil, err
			}
		}
	}
}

func (p *rdfxmlParser) emitList(items []SubjectNode) (ObjectNode, error) {
	if len(items) == 0 {
		return RDFNil, nil
	}
	nodes := make([]BlankNode, len(items))
	for i := range items {
		nodes[i] = p.g.NewBlankNode()
	}
	for i, item := range items {
		if err := p.emit(NewStatement(nodes[i], RDFFirst, item.(ObjectNode))); err != nil {
			return nil, err
		}
		var rest ObjectNode = RDFNil
		if i+1 < len(nodes) {
			rest = nodes[i+1]
		}
		if err := p.emit(NewStatement(nodes[i], RDFRest, rest)); err != nil {
			return nil, err
		}
	}
	return nodes[0], nil
}

// parseTypeLiteral captures the element body verbatim as an rdf:XMLLiteral.
func (p *rdfxmlParser) parseTypeLiteral(el xml.StartElement) (ObjectNode, error) {
	var b strings.Builder
	spaces := []string{el.Name.Space}
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			writeInnerXML(&b, t, spaces[len(spaces)-1])
			spaces = append(spaces, t.Name.Space)
			continue
		case xml.EndElement:
			if len(spaces) == 1 {
				return NewLiteralWithDataTypeIRI(b.String(), RDFXMLLiteral), nil
			}
			spaces = spaces[:len(spaces)-1]
		}
		writeInnerXML(&b, tok, spaces[len(spaces)-1])
	}
}

// emptyProperty handles a property element carrying rdf:resource or rdf:nodeID.
func (p *rdfxmlParser) emptyProperty(el xml.StartElement, scope xmlScope, resource string, hasResource bool, nodeID string) (ObjectNode, error) {
	var object SubjectNode
	if hasResource {
		iri, err := p.resolve("resource", el.Name, scope, resource)
		if err != nil {
			return nil, err
		}
		object = iri
	} else {
		blank, err := p.blankNode(el.Name, nodeID)
		if err != nil {
			return nil, err
		}
		object = blank
	}
	if err := p.propertyAttributes(object, el, scope); err != nil {
		return nil, err
	}
	if err := p.expectEnd(el.Name); err != nil {
		return nil, err
	}
	return object.(ObjectNode), nil
}

// propertyContent reads a literal or a single nested node element.
func (p *rdfxmlParser) propertyContent(el xml.StartElement, scope xmlScope) (ObjectNode, error) {
	var (
		text   strings.Builder
		object ObjectNode
	)
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if object != nil || strings.TrimSpace(text.String()) != "" {
				return nil, p.errorf("propertyElement", t.Name, []string{"end of property"}, "mixed content in property element")
			}
			node, err := p.parseNode(t, scope)
			if err != nil {
				return nil, err
			}
			object = node.(ObjectNode)
		case xml.CharData:
			if object != nil {
				if err := p.whitespaceOnly(t, "propertyElement"); err != nil {
					return nil, err
				}
				continue
			}
			text.Write(t)
		case xml.EndElement:
			if object != nil {
				return object, nil
			}
			return p.finishLiteral(el, scope, text.String())
		}
	}
}

// finishLiteral builds the object of a property element without child elements.
func (p *rdfxmlParser) finishLiteral(el xml.StartElement, scope xmlScope, text string) (ObjectNode, error) {
	hasPropertyAttrs := false
	for _, attr := range el.Attr {
		if !isSyntaxAttr(attr) {
			hasPropertyAttrs = true
			break
		}
	}
	if hasPropertyAttrs && text == "" {
		node := p.g.NewBlankNode()
		if err := p.propertyAttributes(node, el, scope); err != nil {
			return nil, err
		}
		return node, nil
	}
	datatype, _ := attrValue(el.Attr, rdfXMLNS, "datatype")
	return p.literal(el.Name, text, datatype, scope)
}

func (p *rdfxmlParser) literal(name xml.Name, text, datatype string, scope xmlScope) (Literal, error) {
	if datatype != "" {
		dt, err := p.resolve("datatype", name, scope, datatype)
		if err != nil {
			return Literal{}, err
		}
		return NewLiteralWithDataTypeIRI(text, dt), nil
	}
	if scope.lang != "" {
		lit, err := NewLiteralWithLanguage(text, scope.lang)
		if err != nil {
			return Literal{}, p.wrap("languageTag", name, err)
		}
		return lit, nil
	}
	return NewLiteral(text), nil
}

// reifyProperty emits the reification quad when the property element has rdf:ID.
func (p *rdfxmlParser) reifyProperty(el xml.StartElement, scope xmlScope, subject SubjectNode, predicate IRI, object ObjectNode) error {
	id, ok := attrValue(el.Attr, rdfXMLNS, "ID")
	if !ok {
		return nil
	}
	node, err := p.resolveID(el.Name, scope, id)
	if err != nil {
		return err
	}
	for _, st := range []Statement{
		NewStatement(node, RDFType, RDFStatement),
		NewStatement(node, RDFSubject, subject.(ObjectNode)),
		NewStatement(node, RDFPredicate, predicate),
		NewStatement(node, RDFObject, object),
	} {
		if err := p.emit(st); err != nil {
			return err
		}
	}
	return nil
}

func (p *rdfxmlParser) expectEnd(name xml.Name) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.CharData:
			if err := p.whitespaceOnly(t, "propertyElement"); err != nil {
				return err
			}
		case xml.StartElement:
			return p.errorf("propertyElement", t.Name, []string{"end of " + qualifiedName(name)}, "property element must be empty")
		}
	}
}

func (p *rdfxmlParser) resolve(rule string, name xml.Name, scope xmlScope, ref string) (IRI, error) {
	opts := p.opts
	opts.BaseIRI = scope.base
	iri, err := opts.absoluteIRI(ref)
	if err != nil {
		return IRI{}, p.wrap(rule, name, err)
	}
	return iri, nil
}

func (p *rdfxmlParser) resolveID(name xml.Name, scope xmlScope, id string) (IRI, error) {
	if !isXMLName(id) {
		return IRI{}, p.errorf("ID", name, []string{"XML name"}, "invalid rdf:ID %q", id)
	}
	return p.resolve("ID", name, scope, "#"+id)
}

func (p *rdfxmlParser) blankNode(name xml.Name, label string) (BlankNode, error) {
	if !isXMLName(label) {
		return BlankNode{}, p.wrap("nodeID", name, errors.Wrapf(ErrInvalidBlankNode, "%q", label))
	}
	return BlankNode{ID: label}, nil
}

func (p *rdfxmlParser) emit(st Statement) error {
	p.count++
	if err := p.opts.tripleLimit(formatNameRDFXML, p.count); err != nil {
		return err
	}
	line, _ := p.dec.InputPos()
	p.log.WithField("line", line).Trace(st.Key())
	p.g.Insert(st)
	return nil
}

func (p *rdfxmlParser) enter(rule string, name xml.Name) error {
	p.depth++
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return p.wrap(rule, name, errors.Wrapf(ErrDepthExceeded, "nesting depth exceeds %d", p.opts.MaxDepth))
	}
	return nil
}

func (p *rdfxmlParser) leave() { p.depth-- }

func (p *rdfxmlParser) whitespaceOnly(data xml.CharData, rule string) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	return p.wrap(rule, xml.Name{}, errors.Errorf("unexpected text %q", strings.TrimSpace(string(data))))
}

func (p *rdfxmlParser) errorf(rule string, name xml.Name, expected []string, format string, args ...interface{}) error {
	parseErr := p.wrap(rule, name, errors.Errorf(format, args...))
	parseErr.Expected = expected
	return parseErr
}

func (p *rdfxmlParser) wrap(rule string, name xml.Name, err error) *ParseError {
	line, column := p.dec.InputPos()
	return &ParseError{
		Format: formatNameRDFXML,
		Rule:   rule,
		Token:  qualifiedName(name),
		Line:   line,
		Column: column,
		Offset: int(p.dec.InputOffset()),
		Err:    err,
	}
}

// classify turns decoder failures into parse, I/O or cancellation errors.
func (p *rdfxmlParser) classify(err error) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	if Code(err) == ErrCodeContextCanceled {
		return err
	}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{
			Format: formatNameRDFXML,
			Rule:   "xml",
			Line:   syntaxErr.Line,
			Offset: int(p.dec.InputOffset()),
			Err:    err,
		}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return p.wrap("xml", xml.Name{}, err)
	}
	if errors.Is(err, ErrTripleLimitExceeded) {
		return err
	}
	return wrapIOError(formatNameRDFXML, err)
}
