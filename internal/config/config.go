// Package config loads dtreectl settings from defaults, an optional YAML
// file and DTREECTL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/joshuapare/dtreekit/pkg/types"
)

// EnvPrefix prefixes environment overrides, e.g. DTREECTL_TREE_ROOT.
const EnvPrefix = "DTREECTL"

// Config is the complete dtreectl configuration.
type Config struct {
	Tree    TreeConfig    `mapstructure:"tree"`
	Bus     BusConfig     `mapstructure:"bus"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TreeConfig controls device-tree scanning.
type TreeConfig struct {
	Root       string `mapstructure:"root"`
	MaxDepth   int    `mapstructure:"max_depth"`
	RegFile    string `mapstructure:"reg_file"`
	CompatFile string `mapstructure:"compat_file"`
}

// BusConfig controls register access.
type BusConfig struct {
	MemPath string `mapstructure:"mem_path"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "console"}
)

// Load reads configuration. An empty path searches for dtreectl.yaml in
// the working directory and /etc/dtreectl and tolerates its absence; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dtreectl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/dtreectl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tree: TreeConfig{
			Root:       types.DefaultRoot,
			MaxDepth:   types.DefaultMaxDepth,
			RegFile:    types.RegFile,
			CompatFile: types.CompatFile,
		},
		Bus: BusConfig{MemPath: "/dev/mem"},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			Output:     "stderr",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("tree.root", d.Tree.Root)
	v.SetDefault("tree.max_depth", d.Tree.MaxDepth)
	v.SetDefault("tree.reg_file", d.Tree.RegFile)
	v.SetDefault("tree.compat_file", d.Tree.CompatFile)

	v.SetDefault("bus.mem_path", d.Bus.MemPath)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)
	v.SetDefault("logging.compress", d.Logging.Compress)
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.Tree.Root == "" {
		return errors.New("tree.root is required")
	}
	if c.Tree.MaxDepth < 1 {
		return fmt.Errorf("tree.max_depth must be at least 1, got %d", c.Tree.MaxDepth)
	}
	if c.Tree.RegFile == "" || c.Tree.CompatFile == "" {
		return errors.New("tree.reg_file and tree.compat_file must not be empty")
	}
	if c.Bus.MemPath == "" {
		return errors.New("bus.mem_path is required")
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %v", validFormats)
	}
	return nil
}
