package main

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdftk-go/rdf"
)

// graphIO holds the flags shared by commands that read one graph and write one.
// The positional arguments are [in] [out]; a missing argument or "-" means
// stdin or stdout.
type graphIO struct {
	from      string
	to        string
	config    string
	base      string
	defaultTo rdf.Format
}

func (o *graphIO) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.from, "from", "f", "", "input format (default: from the input extension or content)")
	cmd.Flags().StringVarP(&o.to, "to", "t", "", "output format (default: from the output extension, else "+string(o.defaultTo)+")")
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&o.base, "base", "b", "", "base IRI, overriding base_iri from the configuration")
}

// options loads the configuration and applies the command line overrides.
func (o *graphIO) options(cmd *cobra.Command, root *rootOpts) ([]rdf.Option, error) {
	cfg := rdf.DefaultConfig()
	if o.config != "" {
		loaded, err := rdf.LoadConfigFile(o.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.base != "" {
		if _, err := rdf.ParseIRI(o.base); err != nil {
			return nil, errors.WithMessage(err, "--base")
		}
		cfg.BaseIRI = o.base
	}
	opts := append(cfg.Options(), rdf.OptLogger(root.logger), rdf.OptContext(cmd.Context()))
	return opts, nil
}

func (o *graphIO) read(cmd *cobra.Command, args []string, opts []rdf.Option) (*rdf.Graph, error) {
	var g *rdf.Graph
	err := o.input(cmd, args, func(in io.Reader, format rdf.Format) error {
		var err error
		g, err = rdf.ReadGraph(in, format, opts...)
		return err
	})
	return g, err
}

// input opens the input named by args and calls read with it and its format.
func (o *graphIO) input(cmd *cobra.Command, args []string, read func(io.Reader, rdf.Format) error) error {
	var (
		in   = bufio.NewReader(cmd.InOrStdin())
		path string
	)
	if len(args) > 0 && args[0] != "-" {
		path = args[0]
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		in = bufio.NewReader(f)
	}
	format, err := o.inputFormat(path, in)
	if err != nil {
		return err
	}
	return read(in, format)
}

func (o *graphIO) inputFormat(path string, in *bufio.Reader) (rdf.Format, error) {
	switch {
	case o.from != "":
		format, ok := rdf.ParseFormat(o.from)
		if !ok {
			return "", errors.Wrapf(rdf.ErrUnsupportedFormat, "--from %q", o.from)
		}
		return format, nil
	case path != "":
		return rdf.FormatFromPath(path)
	}
	format, ok := rdf.DetectFormat(in)
	if !ok {
		return "", errors.Wrap(rdf.ErrUnsupportedFormat, "cannot detect the input format, use --from")
	}
	return format, nil
}

func (o *graphIO) write(cmd *cobra.Command, args []string, g *rdf.Graph, opts []rdf.Option, log logrus.FieldLogger) error {
	return o.output(cmd, args, func(out io.Writer, format rdf.Format) error {
		log.WithFields(logrus.Fields{"format": format, "statements": g.Len()}).Debug("rdfconv: writing graph")
		return rdf.WriteGraph(out, g, format, opts...)
	})
}

// outputPath returns the output file named by args, or "" for stdout.
func outputPath(args []string) string {
	if len(args) > 1 && args[1] != "-" {
		return args[1]
	}
	return ""
}

// output creates the output named by args and calls write with it and its format.
func (o *graphIO) output(cmd *cobra.Command, args []string, write func(io.Writer, rdf.Format) error) error {
	path := outputPath(args)
	format, err := o.outputFormat(path)
	if err != nil {
		return err
	}
	if path == "" {
		return write(cmd.OutOrStdout(), format)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := write(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (o *graphIO) outputFormat(path string) (rdf.Format, error) {
	switch {
	case o.to != "":
		format, ok := rdf.ParseFormat(o.to)
		if !ok {
			return "", errors.Wrapf(rdf.ErrUnsupportedFormat, "--to %q", o.to)
		}
		return format, nil
	case path != "":
		return rdf.FormatFromPath(path)
	}
	return o.defaultTo, nil
}
