package rdf

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// DataTypeKind enumerates the datatypes a Literal may declare.
type DataTypeKind uint8

const (
	dataTypeNone DataTypeKind = iota
	DataTypeAnyURI
	DataTypeBase64Binary
	DataTypeBoolean
	DataTypeByte
	DataTypeDate
	DataTypeDateTime
	DataTypeDecimal
	DataTypeDouble
	DataTypeDuration
	DataTypeFloat
	DataTypeHexBinary
	DataTypeInt
	DataTypeInteger
	DataTypeLanguage
	DataTypeLong
	DataTypeName
	DataTypeQName
	DataTypeShort
	DataTypeString
	DataTypeTime
	DataTypeUnsignedByte
	DataTypeUnsignedInt
	DataTypeUnsignedLong
	DataTypeUnsignedShort
	DataTypeXMLLiteral
	// DataTypeOther is any datatype IRI outside the known set.
	DataTypeOther
)

var dataTypeIRIs = map[DataTypeKind]string{
	DataTypeAnyURI:        XSDNamespace + "anyURI",
	DataTypeBase64Binary:  XSDNamespace + "base64Binary",
	DataTypeBoolean:       XSDNamespace + "boolean",
	DataTypeByte:          XSDNamespace + "byte",
	DataTypeDate:          XSDNamespace + "date",
	DataTypeDateTime:      XSDNamespace + "dateTime",
	DataTypeDecimal:       XSDNamespace + "decimal",
	DataTypeDouble:        XSDNamespace + "double",
	DataTypeDuration:      XSDNamespace + "duration",
	DataTypeFloat:         XSDNamespace + "float",
	DataTypeHexBinary:     XSDNamespace + "hexBinary",
	DataTypeInt:           XSDNamespace + "int",
	DataTypeInteger:       XSDNamespace + "integer",
	DataTypeLanguage:      XSDNamespace + "language",
	DataTypeLong:          XSDNamespace + "long",
	DataTypeName:          XSDNamespace + "Name",
	DataTypeQName:         XSDNamespace + "QName",
	DataTypeShort:         XSDNamespace + "short",
	DataTypeString:        XSDNamespace + "string",
	DataTypeTime:          XSDNamespace + "time",
	DataTypeUnsignedByte:  XSDNamespace + "unsignedByte",
	DataTypeUnsignedInt:   XSDNamespace + "unsignedInt",
	DataTypeUnsignedLong:  XSDNamespace + "unsignedLong",
	DataTypeUnsignedShort: XSDNamespace + "unsignedShort",
	DataTypeXMLLiteral:    RDFNamespace + "XMLLiteral",
}

var dataTypeKinds = func() map[string]DataTypeKind {
	kinds := make(map[string]DataTypeKind, len(dataTypeIRIs))
	for kind, iri := range dataTypeIRIs {
		kinds[iri] = kind
	}
	return kinds
}()

// DataType is the declared datatype of a literal. The zero value means the
// literal has no datatype.
type DataType struct {
	kind  DataTypeKind
	other IRI
}

// NewDataType returns the datatype for a known kind. It panics for DataTypeOther,
// which needs an IRI; use DataTypeFromIRI instead.
func NewDataType(kind DataTypeKind) DataType {
	if _, ok := dataTypeIRIs[kind]; !ok {
		panic(fmt.Sprintf("rdf: no fixed IRI for datatype kind %d", kind))
	}
	return DataType{kind: kind}
}

// DataTypeFromIRI maps iri onto the known datatypes by exact match, falling back to DataTypeOther.
func DataTypeFromIRI(iri IRI) DataType {
	if kind, ok := dataTypeKinds[iri.Value]; ok {
		return DataType{kind: kind}
	}
	return DataType{kind: DataTypeOther, other: iri}
}

// Kind returns the datatype kind.
func (d DataType) Kind() DataTypeKind { return d.kind }

// IsZero reports whether no datatype is set.
func (d DataType) IsZero() bool { return d.kind == dataTypeNone }

// IRI returns the datatype IRI, or the zero IRI when no datatype is set.
func (d DataType) IRI() IRI {
	if d.kind == DataTypeOther {
		return d.other
	}
	return IRI{Value: dataTypeIRIs[d.kind]}
}

func (d DataType) String() string { return d.IRI().Value }

// IsNumeric reports whether the datatype is one of the XSD numeric types.
func (d DataType) IsNumeric() bool {
	switch d.kind {
	case DataTypeByte, DataTypeDecimal, DataTypeDouble, DataTypeFloat, DataTypeInt,
		DataTypeInteger, DataTypeLong, DataTypeShort, DataTypeUnsignedByte,
		DataTypeUnsignedInt, DataTypeUnsignedLong, DataTypeUnsignedShort:
		return true
	}
	return false
}

func (d DataType) compare(other DataType) int {
	if d.kind != other.kind {
		if d.kind < other.kind {
			return -1
		}
		return 1
	}
	return strings.Compare(d.other.Value, other.other.Value)
}

// LanguageTag is a well-formed BCP 47 language tag. The empty tag means none.
type LanguageTag string

// ParseLanguageTag checks that tag is well-formed BCP 47. Tags with subtags
// unknown to the registry are accepted; the original spelling is kept.
func ParseLanguageTag(tag string) (LanguageTag, error) {
	if tag == "" {
		return "", errors.Wrap(ErrInvalidLiteral, "empty language tag")
	}
	if _, err := language.Parse(tag); err != nil {
		var valueErr language.ValueError
		if !errors.As(err, &valueErr) {
			return "", errors.Wrapf(ErrInvalidLiteral, "language tag %q: %v", tag, err)
		}
	}
	return LanguageTag(tag), nil
}

// Literal is an RDF literal. The lexical form is stored escaped, the way it is
// written inside double quotes. A literal never carries both a datatype and a
// language tag.
type Literal struct {
	lexical  string
	dataType DataType
	language LanguageTag
}

// NewLiteral returns an untyped literal for value.
func NewLiteral(value string) Literal {
	return Literal{lexical: escapeLexical(value)}
}

// NewLiteralWithLanguage returns a language-tagged literal.
func NewLiteralWithLanguage(value, lang string) (Literal, error) {
	tag, err := ParseLanguageTag(lang)
	if err != nil {
		return Literal{}, err
	}
	return Literal{lexical: escapeLexical(value), language: tag}, nil
}

// NewTypedLiteral returns a literal with the given datatype.
func NewTypedLiteral(value string, dataType DataType) Literal {
	return Literal{lexical: escapeLexical(value), dataType: dataType}
}

// NewLiteralWithDataTypeIRI returns a literal whose datatype is looked up from iri.
func NewLiteralWithDataTypeIRI(value string, iri IRI) Literal {
	return NewTypedLiteral(value, DataTypeFromIRI(iri))
}

// StringLiteral returns an xsd:string literal.
func StringLiteral(value string) Literal {
	return NewTypedLiteral(value, NewDataType(DataTypeString))
}

// BoolLiteral returns an xsd:boolean literal.
func BoolLiteral(value bool) Literal {
	return NewTypedLiteral(strconv.FormatBool(value), NewDataType(DataTypeBoolean))
}

// IntegerLiteral returns an xsd:integer literal.
func IntegerLiteral(value int64) Literal {
	return NewTypedLiteral(strconv.FormatInt(value, 10), NewDataType(DataTypeInteger))
}

// Int64Literal returns an xsd:long literal.
func Int64Literal(value int64) Literal {
	return NewTypedLiteral(strconv.FormatInt(value, 10), NewDataType(DataTypeLong))
}

// Int32Literal returns an xsd:int literal.
func Int32Literal(value int32) Literal {
	return NewTypedLiteral(strconv.FormatInt(int64(value), 10), NewDataType(DataTypeInt))
}

// Float64Literal returns an xsd:double literal in canonical exponent form.
func Float64Literal(value float64) Literal {
	return NewTypedLiteral(canonicalFloat(value, 64), NewDataType(DataTypeDouble))
}

// Float32Literal returns an xsd:float literal in canonical exponent form.
func Float32Literal(value float32) Literal {
	return NewTypedLiteral(canonicalFloat(float64(value), 32), NewDataType(DataTypeFloat))
}

// DurationLiteral returns an xsd:duration literal of the form PT{s}S or PT{s}.{frac}S.
func DurationLiteral(value time.Duration) Literal {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	secs := int64(value / time.Second)
	nanos := int64(value % time.Second)
	lexical := fmt.Sprintf("%sPT%dS", sign, secs)
	if nanos != 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", nanos), "0")
		lexical = fmt.Sprintf("%sPT%d.%sS", sign, secs, frac)
	}
	return NewTypedLiteral(lexical, NewDataType(DataTypeDuration))
}

// NewHexLiteral returns an xsd:hexBinary literal encoding data in upper case.
func NewHexLiteral(data []byte) Literal {
	return NewTypedLiteral(strings.ToUpper(hex.EncodeToString(data)), NewDataType(DataTypeHexBinary))
}

// NewBase64Literal returns an xsd:base64Binary literal.
func NewBase64Literal(data []byte) Literal {
	return NewTypedLiteral(base64.StdEncoding.EncodeToString(data), NewDataType(DataTypeBase64Binary))
}

// IRILiteral returns an xsd:anyURI literal.
func IRILiteral(iri IRI) Literal {
	return NewTypedLiteral(iri.Value, NewDataType(DataTypeAnyURI))
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

func (Literal) objectNode() {}

// LexicalForm returns the escaped lexical form.
func (l Literal) LexicalForm() string { return l.lexical }

// Value returns the unescaped lexical form.
func (l Literal) Value() string {
	value, err := UnescapeString(l.lexical)
	if err != nil {
		return l.lexical
	}
	return value
}

// DataType returns the declared datatype; the zero DataType means none.
func (l Literal) DataType() DataType { return l.dataType }

// HasDataType reports whether a datatype is declared.
func (l Literal) HasDataType() bool { return !l.dataType.IsZero() }

// Language returns the language tag, if any.
func (l Literal) Language() LanguageTag { return l.language }

// HasLanguage reports whether a language tag is present.
func (l Literal) HasLanguage() bool { return l.language != "" }

// String returns the literal in N-Triples syntax.
func (l Literal) String() string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(l.lexical)
	b.WriteByte('"')
	if l.language != "" {
		b.WriteByte('@')
		b.WriteString(string(l.language))
	} else if l.HasDataType() {
		b.WriteString("^^<")
		b.WriteString(l.dataType.IRI().Value)
		b.WriteByte('>')
	}
	return b.String()
}

// Compare orders literals by datatype (untyped first), then language, then lexical form.
func (l Literal) Compare(other Literal) int {
	if c := l.dataType.compare(other.dataType); c != 0 {
		return c
	}
	if c := strings.Compare(string(l.language), string(other.language)); c != 0 {
		return c
	}
	return strings.Compare(l.lexical, other.lexical)
}

func (l Literal) coercionError(to string) error {
	return &CoercionError{From: l.dataType.String(), To: to}
}

// AsIRI returns the value of an xsd:anyURI literal.
func (l Literal) AsIRI() (IRI, error) {
	if l.dataType.kind != DataTypeAnyURI {
		return IRI{}, l.coercionError("IRI")
	}
	return ParseIRI(l.Value())
}

// AsBool returns the value of an xsd:boolean literal.
func (l Literal) AsBool() (bool, error) {
	if l.dataType.kind != DataTypeBoolean {
		return false, l.coercionError("bool")
	}
	switch strings.TrimSpace(l.Value()) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, l.coercionError("bool")
}

// AsInt64 returns the value of an integer-valued literal.
func (l Literal) AsInt64() (int64, error) {
	switch l.dataType.kind {
	case DataTypeByte, DataTypeInt, DataTypeInteger, DataTypeLong, DataTypeShort,
		DataTypeUnsignedByte, DataTypeUnsignedInt, DataTypeUnsignedLong, DataTypeUnsignedShort:
	default:
		return 0, l.coercionError("int64")
	}
	value, err := strconv.ParseInt(strings.TrimSpace(l.Value()), 10, 64)
	if err != nil {
		return 0, l.coercionError("int64")
	}
	return value, nil
}

// AsFloat64 returns the value of a numeric literal.
func (l Literal) AsFloat64() (float64, error) {
	if !l.dataType.IsNumeric() {
		return 0, l.coercionError("float64")
	}
	text := strings.TrimSpace(l.Value())
	switch text {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, l.coercionError("float64")
	}
	return value, nil
}

// AsBytes decodes an xsd:hexBinary or xsd:base64Binary literal.
func (l Literal) AsBytes() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch l.dataType.kind {
	case DataTypeHexBinary:
		data, err = hex.DecodeString(l.Value())
	case DataTypeBase64Binary:
		data, err = base64.StdEncoding.DecodeString(l.Value())
	default:
		return nil, l.coercionError("[]byte")
	}
	if err != nil {
		return nil, l.coercionError("[]byte")
	}
	return data, nil
}

// canonicalFloat renders value as an XSD canonical double, e.g. 1.5E0.
func canonicalFloat(value float64, bitSize int) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "INF"
	case math.IsInf(value, -1):
		return "-INF"
	}
	text := strconv.FormatFloat(value, 'E', -1, bitSize)
	mantissa, exponent, _ := strings.Cut(text, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return text
	}
	return mantissa + "E" + strconv.Itoa(exp)
}

// escapeLexical escapes quote, backslash and control characters.
func escapeLexical(value string) string {
	if !needsEscape(value) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value) + 8)
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func needsEscape(value string) bool {
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch == '\\' || ch == '"' || ch < 0x20 || ch == 0x7f {
			return true
		}
	}
	return false
}
