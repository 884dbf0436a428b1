package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/remod/pkg/config"
)

func newInitCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Create .remodrc (JSON), remod.yaml or remod.toml in the current directory,
populated with the defaults. An existing file is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := a.configPath
			if target == "" {
				switch format {
				case "json":
					target = config.DefaultFile
				case "yaml", "yml":
					target = config.YAMLFile
				case "toml":
					target = config.TOMLFile
				default:
					return fmt.Errorf("unknown format %q: want json, yaml or toml", format)
				}
			}

			if err := config.Write(target, config.Default()); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			cmd.Printf("wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "file format: json, yaml or toml")
	return cmd
}
