package rdf

import (
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the file form of reader and writer options.
//
//	base_iri: http://example.org/
//	storage: unique
//	prefixes:
//	  ex: http://example.org/ns#
//	turtle:
//	  nest_blank_nodes: true
//	  indent_width: 4
//	rdfxml:
//	  style: striped
//	  pretty: true
type Config struct {
	BaseIRI             string            `yaml:"base_iri"`
	Prefixes            map[string]string `yaml:"prefixes"`
	Storage             string            `yaml:"storage"`
	StrictIRIValidation bool              `yaml:"strict_iri_validation"`
	MaxLineBytes        int               `yaml:"max_line_bytes"`
	MaxDepth            int               `yaml:"max_depth"`
	MaxTriples          int64             `yaml:"max_triples"`

	Turtle TurtleOptions `yaml:"turtle"`
	RDFXML RDFXMLOptions `yaml:"rdfxml"`
	Dot    DotOptions    `yaml:"dot"`
	JSONLD JSONLDOptions `yaml:"jsonld"`
}

// DefaultConfig returns the configuration equivalent to no options at all.
func DefaultConfig() *Config {
	return &Config{
		Storage:      StorageNonUnique.String(),
		MaxLineBytes: DefaultMaxLineBytes,
		MaxDepth:     DefaultMaxDepth,
		MaxTriples:   DefaultMaxTriples,
		Turtle:       DefaultTurtleOptions(),
		RDFXML:       DefaultRDFXMLOptions(),
		Dot:          DefaultDotOptions(),
		JSONLD:       DefaultJSONLDOptions(),
	}
}

// LoadConfig decodes YAML from r over DefaultConfig and validates the result.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads the YAML configuration at path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports every problem in the configuration at once. Each problem
// wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var result *multierror.Error
	fail := func(format string, args ...interface{}) {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, format, args...))
	}

	if c.BaseIRI != "" {
		if _, err := ParseIRI(c.BaseIRI); err != nil {
			fail("base_iri: %v", err)
		}
	}
	for _, prefix := range sortedPrefixKeys(c.Prefixes) {
		if prefix != "" && !isXMLName(prefix) {
			fail("prefixes: %q is not a valid prefix", prefix)
		}
		if _, err := ParseIRI(c.Prefixes[prefix]); err != nil {
			fail("prefixes: %s: %v", prefix, err)
		}
	}
	if _, err := parseStorage(c.Storage); err != nil {
		fail("storage: %v", err)
	}
	if c.MaxLineBytes < 0 {
		fail("max_line_bytes: must not be negative")
	}
	if c.MaxDepth < 0 {
		fail("max_depth: must not be negative")
	}
	if c.MaxTriples < 0 {
		fail("max_triples: must not be negative")
	}

	if c.Turtle.IndentWidth < 0 {
		fail("turtle.indent_width: must not be negative")
	}
	if c.Turtle.Base != "" {
		if _, err := ParseIRI(c.Turtle.Base); err != nil {
			fail("turtle.base: %v", err)
		}
	}
	switch c.RDFXML.Style {
	case "", RDFXMLFlat, RDFXMLStriped:
	default:
		fail("rdfxml.style: %q is not flat or striped", c.RDFXML.Style)
	}
	if c.Dot.NodePrefix == "" {
		fail("dot.node_prefix: must not be empty")
	}
	switch c.JSONLD.ProcessingMode {
	case "", "json-ld-1.0", "json-ld-1.1":
	default:
		fail("jsonld.processing_mode: unknown mode %q", c.JSONLD.ProcessingMode)
	}
	return result.ErrorOrNil()
}

// Mappings returns the configured prefixes as a PrefixMapping. The empty
// prefix sets the default namespace.
func (c *Config) Mappings() *PrefixMapping {
	mappings := NewPrefixMapping()
	for _, prefix := range sortedPrefixKeys(c.Prefixes) {
		mappings.Insert(prefix, IRI{Value: c.Prefixes[prefix]})
	}
	return mappings
}

// Options converts the configuration into reader and writer options.
func (c *Config) Options() []Option {
	storage, _ := parseStorage(c.Storage)
	opts := []Option{
		OptBaseIRI(c.BaseIRI),
		OptStorage(storage),
		OptMaxLineBytes(c.MaxLineBytes),
		OptMaxDepth(c.MaxDepth),
		OptMaxTriples(c.MaxTriples),
		OptTurtle(c.Turtle),
		OptRDFXML(c.RDFXML),
		OptDot(c.Dot),
		OptJSONLD(c.JSONLD),
	}
	if len(c.Prefixes) > 0 {
		opts = append(opts, OptMappings(c.Mappings()))
	}
	if c.StrictIRIValidation {
		opts = append(opts, OptStrictIRIValidation())
	}
	return opts
}

func parseStorage(value string) (Storage, error) {
	switch value {
	case "", "non-unique", "nonunique":
		return StorageNonUnique, nil
	case "unique":
		return StorageUnique, nil
	}
	valid := []string{StorageNonUnique.String(), StorageUnique.String()}
	sort.Strings(valid)
	return StorageNonUnique, errors.Errorf("%q is not one of %v", value, valid)
}
