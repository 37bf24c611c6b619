package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdftk-go/rdf"
)

func newSkolemizeCmd(root *rootOpts) *cobra.Command {
	o := &graphIO{defaultTo: rdf.FormatNTriples}
	cmd := &cobra.Command{
		Use:     "skolemize --base IRI [in] [out]",
		Short:   "replace blank nodes with .well-known/genid IRIs under the base authority",
		Args:    cobra.MaximumNArgs(2),
		Example: `rdfconv skolemize --base http://example.org/ data.nt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := o.options(cmd, root)
			if err != nil {
				return err
			}
			base, err := rdf.ParseIRI(o.base)
			if err != nil {
				return errors.WithMessage(err, "--base")
			}
			g, err := o.read(cmd, args, opts)
			if err != nil {
				return err
			}
			skolem, err := g.Skolemize(base)
			if err != nil {
				return err
			}
			root.logger.WithField("blank_subjects", len(g.BlankNodeSubjects())).Debug("rdfconv: skolemized graph")
			return o.write(cmd, args, skolem, opts, root.logger)
		},
	}
	o.bindFlags(cmd)
	_ = cmd.MarkFlagRequired("base")
	return cmd
}
