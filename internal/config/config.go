// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Provider string `mapstructure:"provider" json:"provider"`
	Model    string `mapstructure:"model" json:"model"`
	Ollama   struct {
		Host string `mapstructure:"host" json:"host"`
	} `mapstructure:"ollama" json:"ollama"`
	Refresh struct {
		IntervalMs int `mapstructure:"interval_ms" json:"interval_ms"`
	} `mapstructure:"refresh" json:"refresh"`
	Diagnostics struct {
		Enabled bool   `mapstructure:"enabled" json:"enabled"`
		Path    string `mapstructure:"path" json:"path"`
	} `mapstructure:"diagnostics" json:"diagnostics"`
	Output struct {
		Format string `mapstructure:"format" json:"format"`
		Color  bool   `mapstructure:"color" json:"color"`
	} `mapstructure:"output" json:"output"`
}

// Load reads the configuration from ~/.sheetmind/config.yaml and environment
// variables (SHEETMIND_* overrides).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())

	// Defaults
	v.SetDefault("provider", "anthropic")
	v.SetDefault("model", "")
	v.SetDefault("refresh.interval_ms", 2000)
	v.SetDefault("diagnostics.enabled", true)
	v.SetDefault("output.color", true)
	v.SetDefault("output.format", "text")

	v.SetEnvPrefix("SHEETMIND")
	v.AutomaticEnv()

	// Config file is optional
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Diagnostics.Path == "" {
		cfg.Diagnostics.Path = filepath.Join(Dir(), "diagnostics.jsonl")
	}

	return &cfg, nil
}

// Dir returns the configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetmind"
	}
	return filepath.Join(home, ".sheetmind")
}

// Path returns the config file path, whether or not it exists.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

const defaultConfigFile = `# SheetMind configuration
# Environment variables with a SHEETMIND_ prefix override these values,
# e.g. SHEETMIND_PROVIDER=ollama.

provider: anthropic   # anthropic | openai | ollama | none
model: ""             # provider default when empty

ollama:
  host: ""            # default http://localhost:11434

refresh:
  interval_ms: 2000

diagnostics:
  enabled: true
  path: ""            # default ~/.sheetmind/diagnostics.jsonl

output:
  format: text
  color: true
`

// WriteDefault creates the config directory and writes a commented default
// config file. It refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return "", err
	}
	path := Path()
	if _, err := os.Stat(path); err == nil {
		return path, os.ErrExist
	}
	if err := os.WriteFile(path, []byte(defaultConfigFile), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
