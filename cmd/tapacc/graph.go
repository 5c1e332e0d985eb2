package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lutherstrike/tapa/internal/compile"
	"github.com/lutherstrike/tapa/internal/diag"
	"github.com/lutherstrike/tapa/internal/graph"
)

func newGraphCmd(root *rootOptions) *cobra.Command {
	var (
		top    string
		format string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "graph [sources...]",
		Short: "print the dataflow graph without generating code",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(root.manifest)
			if err != nil {
				return err
			}
			opts := compile.Options{
				Sources:   args,
				Top:       top,
				BuildTags: tags,
				Reporter:  diag.NewReporter(os.Stderr, root.diagFormat),
				Logger:    root.logger(),
			}
			if len(opts.Sources) == 0 {
				opts.Sources = m.Sources
			}
			if opts.Top == "" {
				opts.Top = m.Top
			}
			if len(opts.BuildTags) == 0 {
				opts.BuildTags = m.Tags
			}
			if opts.Top == "" {
				return fmt.Errorf("no top task given; use --top or set top in tapa.toml")
			}

			_, model, err := compile.Analyze(opts)
			if err != nil {
				return err
			}

			switch format {
			case "text":
				graph.Dump(model, cmd.OutOrStdout())
			case "json":
				meta, err := graph.MetadataJSON(model.Top)
				if err != nil {
					return err
				}
				cmd.OutOrStdout().Write(meta)
			default:
				return fmt.Errorf("unknown format %q; want text or json", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&top, "top", "", "name of the top-level task")
	cmd.Flags().StringVar(&format, "format", "json", "output format (text or json)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "build tags for loading the program")
	return cmd
}
