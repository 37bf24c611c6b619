package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOpts struct {
	verbose bool
	logger  *logrus.Logger
}

// newRootCmd builds the command tree. Errors are returned to main, not printed.
func newRootCmd() *cobra.Command {
	opts := &rootOpts{logger: logrus.New()}
	cmd := &cobra.Command{
		Use:           "rdfconv",
		Short:         "convert RDF graphs between serializations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger.SetOutput(cmd.ErrOrStderr())
			opts.logger.SetLevel(logrus.WarnLevel)
			if opts.verbose {
				opts.logger.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.AddCommand(newConvertCmd(opts), newSkolemizeCmd(opts))
	cmd.DisableAutoGenTag = true
	return cmd
}
