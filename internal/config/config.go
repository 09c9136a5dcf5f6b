package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ReaderConfig tunes the paced navigator index reader.
type ReaderConfig struct {
	// Chunk is how long one incremental read resume may run before
	// yielding.
	Chunk time.Duration `mapstructure:"chunk"`
}

// DiffConfig tunes archive comparison.
type DiffConfig struct {
	Workers int `mapstructure:"workers"`
}

type Config struct {
	ArchiveDir string       `mapstructure:"archive_dir"`
	Reader     ReaderConfig `mapstructure:"reader"`
	Diff       DiffConfig   `mapstructure:"diff"`
}

// cacheBase returns the base cache directory for docpack.
// Checks XDG_CACHE_HOME, then ~/.cache, then the temp dir as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "docpack")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "docpack")
	}
	return filepath.Join(os.TempDir(), "docpack")
}

// DBPath returns the path to the search index database file.
func DBPath() string {
	return filepath.Join(cacheBase(), "search.db")
}

// DefaultArchiveDir returns where `build` places archives when the caller
// does not choose a directory.
func DefaultArchiveDir() string {
	return filepath.Join(cacheBase(), "archives")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "docpack"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "docpack"))
	}

	viper.SetDefault("archive_dir", DefaultArchiveDir())
	viper.SetDefault("reader.chunk", "25ms")
	viper.SetDefault("diff.workers", 8)

	viper.SetEnvPrefix("DOCPACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		// Environment overrides arrive as strings.
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}
