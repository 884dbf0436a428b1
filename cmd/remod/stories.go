package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/remod/pkg/report"
	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/storybook"
)

func newStoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stories",
		Short: "Create a story file next to every component file",
		Long: `Write <stem><story_file_ext> beside each matched file, exporting a default
story for the first component in the file. Existing story files are never
touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := a.discover()
			if err != nil {
				return err
			}

			s := scanner.NewScanner(a.log)
			defer s.Close()

			printer := report.NewPrinter(cmd.OutOrStdout())
			gen := &storybook.Generator{
				Scanner:     s,
				Synthesizer: storybook.NewSynthesizer(a.cfg.StoryExt()),
				Typescript:  a.cfg.Typescript,
				Printer:     printer,
				RootDir:     a.cfg.RootDir,
				Ignore:      a.cfg.Ignore,
				Log:         a.log,
			}

			stats, err := gen.Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			printer.Summary(stats, report.ModeStories)
			return nil
		},
	}
}
