package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

type rootOptions struct {
	verbose    bool
	diagFormat string
	manifest   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tapacc",
		Short:         "task-parallel dataflow compiler",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.diagFormat, "diag-format", "text",
		"diagnostic output format (text or json)")
	cmd.PersistentFlags().StringVar(&opts.manifest, "config", "",
		"project manifest path (default tapa.toml if present)")

	cmd.AddCommand(newCompileCmd(opts))
	cmd.AddCommand(newGraphCmd(opts))
	return cmd
}

func (o *rootOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
