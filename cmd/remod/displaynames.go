package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/remod/pkg/displayname"
	"github.com/gnana997/remod/pkg/report"
	"github.com/gnana997/remod/pkg/scanner"
)

func newDisplayNamesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "display-names",
		Aliases: []string{"dn"},
		Short:   "Add, remove or rename displayName assignments",
	}
	cmd.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "print a diff of each edit instead of writing files")

	var addPrefix string
	add := &cobra.Command{
		Use:   "add",
		Short: "Append a displayName assignment for every component that lacks one",
		Long: `Append <Component>.displayName = "<prefix>_<Component>" at the end of each
file for every discovered component without an assignment. The prefix
defaults to display_name_prefix from the configuration; with neither set the
assignment reads "_<Component>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefix := addPrefix
			if prefix == "" {
				prefix = a.cfg.DisplayNamePrefix
			}
			return a.runDisplayNames(cmd, displayname.OpAdd, prefix)
		},
	}
	add.Flags().StringVarP(&addPrefix, "prefix", "p", "", "display name prefix")

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Delete every displayName assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDisplayNames(cmd, displayname.OpRemove, "")
		},
	}

	var renamePrefix string
	rename := &cobra.Command{
		Use:   "rename",
		Short: "Rewrite every displayName assignment with a new prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDisplayNames(cmd, displayname.OpRename, renamePrefix)
		},
	}
	rename.Flags().StringVarP(&renamePrefix, "prefix", "p", "", "new display name prefix")
	_ = rename.MarkFlagRequired("prefix")

	cmd.AddCommand(add, remove, rename)
	return cmd
}

func (a *app) runDisplayNames(cmd *cobra.Command, op displayname.Operation, prefix string) error {
	files, err := a.discover()
	if err != nil {
		return err
	}

	s := scanner.NewScanner(a.log)
	defer s.Close()

	engine := displayname.NewEngine(s, a.cfg.Typescript, a.log)
	if a.dryRun {
		engine = engine.WithDryRun()
	}

	printer := report.NewPrinter(cmd.OutOrStdout())
	batch := &displayname.Batch{
		Engine:  engine,
		Printer: printer,
		RootDir: a.cfg.RootDir,
		Ignore:  a.cfg.Ignore,
		Log:     a.log,
	}

	stats, err := batch.Run(cmd.Context(), files, op, prefix)
	if err != nil {
		return err
	}
	printer.Summary(stats, report.ModeDisplayNames)
	return nil
}
