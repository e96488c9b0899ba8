// Package config loads promptshelf settings from defaults, an optional TOML
// file, PROMPTSHELF_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
)

// EnvPrefix is prepended to every environment variable, e.g. PROMPTSHELF_PATH
const EnvPrefix = "PROMPTSHELF"

// Config is the typed view of all settings
type Config struct {
	// Path is the library base directory; prompts live in <Path>/prompts
	Path string `mapstructure:"path"`
	// Editor overrides $VISUAL and $EDITOR
	Editor string `mapstructure:"editor"`
	// Watch rescans the library when files change while the TUI runs
	Watch bool      `mapstructure:"watch"`
	Log   LogConfig `mapstructure:"log"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("path", "~/.promptshelf")
	v.SetDefault("editor", "")
	v.SetDefault("watch", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
}

// NewViper returns a viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/promptshelf/config.toml, which is
// ~/.config/promptshelf/config.toml unless XDG_CONFIG_HOME is set
func DefaultConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "promptshelf", "config.toml")
}

// ReadConfigFile merges a TOML file into v. An explicitly named file must
// exist; the default file is optional.
func ReadConfigFile(v *viper.Viper, explicit string) error {
	path := explicit
	if path == "" {
		path = DefaultConfigFile()
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	v.SetConfigFile(ExpandPath(path))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return apperrors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// Load unmarshals v into a Config and expands ~ in paths
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal config")
	}

	if strings.TrimSpace(cfg.Path) == "" {
		cfg.Path = "~/.promptshelf"
	}
	cfg.Path = ExpandPath(cfg.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)
	return &cfg, nil
}

// ExpandPath replaces a leading ~ with the home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
