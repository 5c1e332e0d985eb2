package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lutherstrike/tapa/internal/compile"
	"github.com/lutherstrike/tapa/internal/diag"
)

func newCompileCmd(root *rootOptions) *cobra.Command {
	var (
		top     string
		workDir string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "compile [sources...]",
		Short: "lower a dataflow program into per-task translation units",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(root.manifest)
			if err != nil {
				return err
			}
			opts := compile.Options{
				Sources:   args,
				Top:       top,
				WorkDir:   workDir,
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
			if opts.WorkDir == "" {
				opts.WorkDir = m.Work
			}
			if len(opts.BuildTags) == 0 {
				opts.BuildTags = m.Tags
			}
			if opts.Top == "" {
				return fmt.Errorf("no top task given; use --top or set top in tapa.toml")
			}

			result, err := compile.Run(opts)
			if err != nil {
				return err
			}
			for _, file := range result.Files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&top, "top", "", "name of the top-level task")
	cmd.Flags().StringVar(&workDir, "work", "", "output directory for generated files")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "build tags for loading the program")
	return cmd
}
