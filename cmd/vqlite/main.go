// Command vqlite runs the single-file relational store's REPL.
package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vqlite/internal/repl"
	"vqlite/table"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Errorf("%+v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	log := logrus.New()
	var verbose bool

	cmd := &cobra.Command{
		Use:           "vqlite <database-file-path>",
		Short:         "A single-file relational store with an interactive REPL",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  false,
		SilenceErrors: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatabase(cmd.Context(), args[0], log, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func runDatabase(ctx context.Context, path string, log *logrus.Logger, out io.Writer) error {
	tbl, err := table.Open(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "open database %q", path)
	}
	defer func() {
		if cerr := tbl.Close(ctx); cerr != nil {
			log.WithError(cerr).Error("close database")
		}
	}()

	in, err := repl.NewStdinReader()
	if err != nil {
		return errors.Wrap(err, "open input reader")
	}
	defer in.Close()

	if err := repl.Run(ctx, tbl, in, out, log); err != nil {
		return errors.Wrap(err, "repl")
	}
	return nil
}
