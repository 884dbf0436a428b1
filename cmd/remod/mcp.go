package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/remod/pkg/displayname"
	mcpserver "github.com/gnana997/remod/pkg/mcp"
	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/storybook"
)

func newMCPCmd(a *app) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server on stdin/stdout",
		Long: `Expose list_components, add_display_names, remove_display_names,
rename_display_names and create_story as Model Context Protocol tools.
With --journal every tool call is appended to a JSONL file.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			journal, err := mcpserver.OpenJournal(journalPath)
			if err != nil {
				return err
			}
			defer journal.Close()

			s := scanner.NewScanner(a.log)
			defer s.Close()

			srv := mcpserver.NewServer(mcpserver.Config{
				Scanner: s,
				Engine:  displayname.NewEngine(s, a.cfg.Typescript, a.log),
				Generator: &storybook.Generator{
					Scanner:     s,
					Synthesizer: storybook.NewSynthesizer(a.cfg.StoryExt()),
					Typescript:  a.cfg.Typescript,
					RootDir:     a.cfg.RootDir,
					Ignore:      a.cfg.Ignore,
					Log:         a.log,
				},
				Typescript: a.cfg.Typescript,
				RootDir:    a.cfg.RootDir,
				Ignore:     a.cfg.Ignore,
				Prefix:     a.cfg.DisplayNamePrefix,
				Version:    version,
				Journal:    journal,
				Logger:     a.log,
			})
			return srv.ServeStdio()
		},
	}
	cmd.Flags().StringVar(&journalPath, "journal", "", "append every tool call to this JSONL file")
	return cmd
}
