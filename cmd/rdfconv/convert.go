package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdftk-go/rdf"
)

func newConvertCmd(root *rootOpts) *cobra.Command {
	o := &graphIO{defaultTo: rdf.FormatTurtle}
	cmd := &cobra.Command{
		Use:   "convert [in] [out]",
		Short: "read a graph in one format and write it in another",
		Args:  cobra.MaximumNArgs(2),
		Example: `rdfconv convert --from nt --to turtle data.nt
rdfconv convert --config rdf.yaml onto.rdf onto.ttl
rdfconv convert --from jsonld dump.jsonld dump.nq
cat data.jsonld | rdfconv convert --to rdfxml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := o.options(cmd, root)
			if err != nil {
				return err
			}
			to, err := o.outputFormat(outputPath(args))
			if err != nil {
				return err
			}
			if to.CanWriteDataSet() {
				return o.convertDataSet(cmd, args, opts, root.logger)
			}
			g, err := o.read(cmd, args, opts)
			if err != nil {
				return err
			}
			return o.write(cmd, args, g, opts, root.logger)
		},
	}
	o.bindFlags(cmd)
	return cmd
}

// convertDataSet copies every graph of the input when the input format can
// hold a data set; otherwise the input graph becomes the default graph.
func (o *graphIO) convertDataSet(cmd *cobra.Command, args []string, opts []rdf.Option, log logrus.FieldLogger) error {
	ds := rdf.NewDataSet()
	err := o.input(cmd, args, func(in io.Reader, format rdf.Format) error {
		if format.CanReadDataSet() {
			var err error
			ds, err = rdf.ReadDataSet(in, format, opts...)
			return err
		}
		g, err := rdf.ReadGraph(in, format, opts...)
		if err != nil {
			return err
		}
		ds.Insert(g)
		return nil
	})
	if err != nil {
		return err
	}
	return o.output(cmd, args, func(out io.Writer, format rdf.Format) error {
		log.WithFields(logrus.Fields{"format": format, "graphs": ds.Len()}).Debug("rdfconv: writing data set")
		return rdf.WriteDataSet(out, ds, format, opts...)
	})
}
