package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when ORIZON_CONFIG is unset.
var DefaultConfigPath = filepath.Join(".orizon", "driver.yaml")

// Config represents the front-end configuration file.
type Config struct {
	Verbose          bool     `yaml:"verbose"`
	Debug            bool     `yaml:"debug"`
	LogLevel         string   `yaml:"log_level"`
	ToolDirs         []string `yaml:"tool_dirs"`
	SuggestThreshold float64  `yaml:"suggest_threshold"`
	MaxSuggestions   int      `yaml:"max_suggestions"`
	TTYDetection     string   `yaml:"tty_detection"`
	ShowTimings      bool     `yaml:"show_timings"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		SuggestThreshold: 0.2,
		MaxSuggestions:   5,
	}
}

// ConfigPath returns the configuration file location for this process.
func ConfigPath() string {
	if p := os.Getenv("ORIZON_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigPath
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	defer applyEnv(config)

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if config.SuggestThreshold < 0 || config.SuggestThreshold > 1 {
		return nil, fmt.Errorf("config %s: suggest_threshold must be within [0, 1], got %v",
			configPath, config.SuggestThreshold)
	}
	return config, nil
}

func applyEnv(c *Config) {
	if env := os.Getenv("ORIZON_TTY_DETECT"); env != "" {
		c.TTYDetection = env
	}
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
