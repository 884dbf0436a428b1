package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gnana997/remod/pkg/config"
	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/util"
)

const rootLongDescription = `remod finds React components in JavaScript and TypeScript sources and
maintains their displayName assignments and Storybook stories.

Batch commands visit every file matched by the configured glob under the
configured root directory. The serve command runs a language server that
offers a "Create Story" code lens above each component.`

// app carries the persistent flags and what PersistentPreRunE derives from
// them. Subcommands read cfg and log after the root has run.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	dryRun     bool

	cfg config.Config
	log *slog.Logger
}

// Replaceable for testing.
var statFunc = os.Stat

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "remod",
		Short:        "Maintain displayName assignments and stories for React components",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default .remodrc, remod.yaml or remod.toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to a rotated file instead of stderr")

	cmd.AddCommand(
		newInitCmd(a),
		newDisplayNamesCmd(a),
		newStoriesCmd(a),
		newComponentsCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newSetupCmd(),
		newVersionCmd(),
	)
	return cmd
}

// load reads the configuration, applies flag overrides and builds the
// logger. A malformed config file is logged and replaced by the defaults.
func (a *app) load(cmd *cobra.Command) error {
	// REMOD_* overrides may also come from a .env file; real environment
	// variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(a.resolveConfigPath())
	if err != nil && !errors.Is(err, config.ErrInvalidConfig) {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	a.cfg = cfg

	lc := util.DefaultLoggerConfig()
	lc.Level = util.LogLevel(cfg.Log.Level)
	lc.Format = util.LogFormat(cfg.Log.Format)
	lc.File = cfg.Log.File
	// stdout belongs to reports and, for serve and mcp, to the protocol.
	lc.Output = cmd.ErrOrStderr()
	a.log = util.NewLogger(lc)
	util.SetDefault(a.log)

	if err != nil {
		a.log.Warn("using default configuration", "error", err)
	}
	return nil
}

func (a *app) resolveConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	for _, candidate := range []string{config.DefaultFile, config.YAMLFile, config.TOMLFile} {
		if _, err := statFunc(candidate); err == nil {
			return candidate
		}
	}
	return config.DefaultFile
}

// discover lists the files a batch command visits. Ignored files are
// included so that they are counted.
func (a *app) discover() ([]string, error) {
	sc := scanner.ScanConfig{
		Exclude: scanner.DefaultExcludes,
		Ignore:  a.cfg.Ignore,
	}
	if a.cfg.Glob != "" {
		sc.Include = []string{a.cfg.Glob}
	}
	return scanner.DiscoverFiles(a.cfg.RootDir, sc)
}
