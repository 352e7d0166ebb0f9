// Package config loads studio configuration from a TOML file.
//
// Configuration is optional: every field has a working default, and a
// missing config file is not an error. The default location follows the
// XDG convention (~/.config/studio/config.toml); commands accept a
// --config flag to point elsewhere.
//
// Secrets never live in the file itself. The text section names an
// environment variable holding the API key, and [Config.TextAPIKey]
// reads it at call time.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is used for default config and cache directories.
const appName = "studio"

// Config is the root configuration.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Text     TextConfig     `toml:"text"`
	Server   ServerConfig   `toml:"server"`
	Generate GenerateConfig `toml:"generate"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty means the XDG cache dir.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects and configures the spec store backend.
type StoreConfig struct {
	// Backend is one of "file", "mongo".
	Backend string `toml:"backend"`

	// Dir is the file store directory. Empty means ~/.config/studio/specs.
	Dir string `toml:"dir"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// TextConfig configures the text generation endpoint.
type TextConfig struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// GenerateConfig carries generation defaults overridable per command.
type GenerateConfig struct {
	Cap        int      `toml:"cap"`
	Formats    []string `toml:"formats"`
	PNGScale   float64  `toml:"png_scale"`
	Background string   `toml:"background"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{Backend: "file"},
		Store: StoreConfig{Backend: "file", MongoDatabase: appName},
		Text: TextConfig{
			Endpoint:  "https://api.openai.com/v1/chat/completions",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "STUDIO_API_KEY",
		},
		Server: ServerConfig{Addr: ":8080"},
		Generate: GenerateConfig{
			Cap:      40,
			Formats:  []string{"svg"},
			PNGScale: 1.0,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.config/studio/config.toml, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads configuration from path, layered over the defaults. An
// empty path means the default location; a missing file just yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// TextAPIKey reads the API key from the configured environment variable.
func (c *Config) TextAPIKey() string {
	if c.Text.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Text.APIKeyEnv)
}
