package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds application configuration.
type Config struct {
	LogLevel           string   `json:"logLevel"`
	PrettyLog          *bool    `json:"prettyLog,omitempty"`
	CullExcludeDomains []string `json:"cullExcludeDomains"`
	CheckConcurrency   int      `json:"checkConcurrency"`
	CheckTimeout       Duration `json:"checkTimeout"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	pretty := true
	return Config{
		LogLevel:           "warn",
		PrettyLog:          &pretty,
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
		CheckConcurrency:   10,
		CheckTimeout:       Duration(10 * time.Second),
	}
}

// LoadConfig reads config from the JSON file. Comments and trailing commas
// are allowed. Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(standardized, &config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.PrettyLog == nil {
		config.PrettyLog = defaults.PrettyLog
	}
	if config.CullExcludeDomains == nil {
		config.CullExcludeDomains = defaults.CullExcludeDomains
	}
	if config.CheckConcurrency <= 0 {
		config.CheckConcurrency = defaults.CheckConcurrency
	}
	if config.CheckTimeout <= 0 {
		config.CheckTimeout = defaults.CheckTimeout
	}

	return &config, nil
}

// ApplyEnv overrides config values from BM_LOG_LEVEL and BM_PRETTY_LOG.
func (c *Config) ApplyEnv(env map[string]string) error {
	if lvl := env["BM_LOG_LEVEL"]; lvl != "" {
		c.LogLevel = lvl
	}
	if raw := env["BM_PRETTY_LOG"]; raw != "" {
		pretty, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("BM_PRETTY_LOG: %w", err)
		}
		c.PrettyLog = &pretty
	}
	return nil
}

// Pretty reports whether human-readable log output is enabled.
func (c *Config) Pretty() bool {
	return c.PrettyLog == nil || *c.PrettyLog
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ConfigFilePath returns the config path: $XDG_CONFIG_HOME/bm/config.json,
// falling back to ~/.config/bm/config.json. Returns an empty string if
// neither variable is set.
func ConfigFilePath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "bm", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "bm", "config.json")
	}

	return ""
}
