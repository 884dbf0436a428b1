// Package config holds the flat remod configuration read once at startup.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the config file looked up in the working directory.
	DefaultFile = ".remodrc"
	// YAMLFile and TOMLFile are looked up, in that order, when DefaultFile
	// is absent.
	YAMLFile = "remod.yaml"
	TOMLFile = "remod.toml"

	DefaultRootDir      = "./"
	DefaultGlob         = "**/*/*.tsx"
	DefaultStoryFileExt = ".stories.tsx"

	envPrefix = "REMOD"
)

// ErrInvalidConfig is returned alongside the defaults when a config file
// exists but cannot be decoded.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the flat key/value configuration shared by the batch commands,
// the language server and the tool server.
type Config struct {
	// RootDir is the directory the glob is resolved against.
	RootDir string `mapstructure:"root_dir" json:"root_dir" yaml:"root_dir" toml:"root_dir"`
	// Glob selects the files the batch commands visit.
	Glob string `mapstructure:"glob" json:"glob" yaml:"glob" toml:"glob"`
	// Typescript forces the TSX grammar (true) or the JavaScript grammar
	// (false). Unset means "decide by file extension".
	Typescript *bool `mapstructure:"typescript" json:"typescript,omitempty" yaml:"typescript,omitempty" toml:"typescript,omitempty"`
	// DisplayNamePrefix is the default prefix for `display-names add`.
	DisplayNamePrefix string `mapstructure:"display_name_prefix" json:"display_name_prefix,omitempty" yaml:"display_name_prefix,omitempty" toml:"display_name_prefix,omitempty"`
	// StoryFileExt is appended to a component file's stem to name its story.
	StoryFileExt string `mapstructure:"story_file_ext" json:"story_file_ext" yaml:"story_file_ext" toml:"story_file_ext"`
	// Ignore lists glob patterns for files that are counted but never touched.
	Ignore []string `mapstructure:"ignore" json:"ignore" yaml:"ignore" toml:"ignore"`

	Log LogConfig `mapstructure:"log" json:"log,omitempty" yaml:"log,omitempty" toml:"log,omitempty"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	File   string `mapstructure:"file" json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		RootDir:      DefaultRootDir,
		Glob:         DefaultGlob,
		StoryFileExt: DefaultStoryFileExt,
		Ignore:       []string{},
		Log:          LogConfig{Level: "info", Format: "text"},
	}
}

// StoryExt returns the configured story extension, falling back to the default.
func (c Config) StoryExt() string {
	if strings.TrimSpace(c.StoryFileExt) == "" {
		return DefaultStoryFileExt
	}
	return c.StoryFileExt
}

// Load reads the config file at path.
//
// A missing file yields Default() and no error. A file that exists but cannot
// be decoded yields Default() together with an error wrapping ErrInvalidConfig,
// so callers can warn and carry on. Values may be overridden through
// REMOD_* environment variables (REMOD_ROOT_DIR, REMOD_GLOB, ...).
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultFile
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType(configType(path))

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fromViper(v)
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fromViper(v)
		}
		return Default(), fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	cfg, err := fromViper(v)
	if err != nil {
		return Default(), fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("root_dir", d.RootDir)
	v.SetDefault("glob", d.Glob)
	v.SetDefault("display_name_prefix", d.DisplayNamePrefix)
	v.SetDefault("story_file_ext", d.StoryFileExt)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), err
	}
	if cfg.Ignore == nil {
		cfg.Ignore = []string{}
	}
	return cfg, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Write serializes cfg to path in the format its extension names, JSON
// when it names none. An existing file is never overwritten.
func Write(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	switch configType(path) {
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
