// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/tapdrill/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode     *string `toml:"mode"`
	Length   *string `toml:"length"`
	Storage  *string `toml:"storage"`
	WordList *string `toml:"wordlist"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Options are the raw practice settings after flags and file are merged.
type Options struct {
	Mode     string
	Length   string
	Storage  string
	WordList string
}

// Resolve validates raw options into a model.Config.
func Resolve(opts Options) (model.Config, error) {
	mode, err := model.ParseMode(opts.Mode)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid mode: %w", err)
	}
	length, err := model.ParsePassageLength(opts.Length)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid length: %w", err)
	}
	storage := opts.Storage
	switch storage {
	case "":
		storage = model.StorageJSON
	case model.StorageJSON, model.StorageSQLite:
	default:
		return model.Config{}, fmt.Errorf("invalid storage %q (want %s or %s)", storage, model.StorageJSON, model.StorageSQLite)
	}
	return model.Config{
		Mode:     mode,
		Length:   length,
		Storage:  storage,
		WordList: opts.WordList,
	}, nil
}

// Template returns the commented config file written by `tapdrill config`.
func Template() string {
	return fmt.Sprintf(`# tapdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q          # normal, weak, or a finger drill such as "left-index"
# length = %q        # short, medium or long
# storage = %q         # json or sqlite
# wordlist = ""            # Path to a custom word list, one word per line

[log]
# level = %q           # panic, fatal, error, warn, info, debug or trace
# file = %q
`,
		model.Normal().Slug(),
		"medium",
		model.StorageJSON,
		"warn",
		DefaultLogPath(),
	)
}
