// Package config loads the application settings file. Settings choose the
// provider and ambient behavior; per-provider chat parameters are validated
// later by the provider's own schema.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up in the search path.
const FileName = "converse.toml"

// Settings is the application configuration.
type Settings struct {
	// Provider selects which adapter the session talks to.
	Provider string `toml:"provider"`
	// HistoryDir is where transcripts are saved.
	HistoryDir string `toml:"history_dir"`
	// Params are raw initial values applied to the provider's config
	// schema at startup, same validation as the config command.
	Params map[string]string `toml:"params"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Provider:   "groq",
		HistoryDir: "historico",
	}
}

// Load reads settings from path. An empty path searches the working
// directory, then the user config directory; a missing file yields the
// defaults without error, but an unreadable or invalid file is reported.
func Load(path string) (Settings, error) {
	settings := Default()

	if path == "" {
		path = findFile()
		if path == "" {
			return settings, nil
		}
	}

	if _, err := toml.DecodeFile(path, &settings); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("loading %s: %w", path, err)
	}

	if settings.Provider == "" {
		settings.Provider = Default().Provider
	}
	if settings.HistoryDir == "" {
		settings.HistoryDir = Default().HistoryDir
	}
	return settings, nil
}

func findFile() string {
	candidates := []string{FileName}
	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, "converse", FileName))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
