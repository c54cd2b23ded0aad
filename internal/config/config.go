package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	Version  int            `toml:"version"`
	API      APIConfig      `toml:"api"`
	Scanning ScanningConfig `toml:"scanning"`
	Store    StoreConfig    `toml:"store"`
	Verbose  bool           `toml:"verbose"`
}

type APIConfig struct {
	Key   string `toml:"key"`
	Model string `toml:"model"`
	// MaxPromptChars caps the sanitized tweet text sent per classification.
	MaxPromptChars int `toml:"max_prompt_chars"`
}

type ScanningConfig struct {
	AutoScan bool `toml:"auto_scan"`
	Paused   bool `toml:"paused"`
	Headless bool `toml:"headless"`
	// IgnoredHandles are author handles to skip, with or without a leading "@".
	IgnoredHandles []string `toml:"ignored_handles"`
	// MinTextLen rejects short/image-only posts.
	MinTextLen int `toml:"min_text_len"`
	// MaxConcurrent bounds classification calls in flight.
	MaxConcurrent int `toml:"max_concurrent"`
	// DailyLimit caps classification calls per UTC day.
	DailyLimit int `toml:"daily_limit"`
	// MaxSaved soft-caps the in-memory result collection.
	MaxSaved int `toml:"max_saved"`
	// ConfidenceThreshold is the minimum verdict confidence to accept.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	// DebounceMillis is the quiescence window after feed mutations.
	DebounceMillis int `toml:"debounce_millis"`
}

type StoreConfig struct {
	// Port for the loopback sync server.
	Port int `toml:"port"`
}

// Default returns a Config with the stock thresholds.
func Default() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			Model:          "claude-haiku-4-5-20251001",
			MaxPromptChars: 500,
		},
		Scanning: ScanningConfig{
			AutoScan:            true,
			Headless:            false,
			MinTextLen:          50,
			MaxConcurrent:       2,
			DailyLimit:          1000,
			MaxSaved:            200,
			ConfidenceThreshold: 0.6,
			DebounceMillis:      1500,
		},
		Store: StoreConfig{
			Port: 7849,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tweet-tool-finder"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults backfills zero values a hand-edited config may leave
// behind. A limit of 0 would otherwise mean "never classify anything",
// not "unlimited".
func (c *Config) applyDefaults() {
	def := Default()

	if c.API.Model == "" {
		c.API.Model = def.API.Model
	}
	if c.API.MaxPromptChars <= 0 {
		c.API.MaxPromptChars = def.API.MaxPromptChars
	}
	if c.Scanning.MinTextLen <= 0 {
		c.Scanning.MinTextLen = def.Scanning.MinTextLen
	}
	if c.Scanning.MaxConcurrent <= 0 {
		c.Scanning.MaxConcurrent = def.Scanning.MaxConcurrent
	}
	if c.Scanning.DailyLimit <= 0 {
		c.Scanning.DailyLimit = def.Scanning.DailyLimit
	}
	if c.Scanning.MaxSaved <= 0 {
		c.Scanning.MaxSaved = def.Scanning.MaxSaved
	}
	if c.Scanning.ConfidenceThreshold <= 0 {
		c.Scanning.ConfidenceThreshold = def.Scanning.ConfidenceThreshold
	}
	if c.Scanning.DebounceMillis <= 0 {
		c.Scanning.DebounceMillis = def.Scanning.DebounceMillis
	}
	if c.Store.Port <= 0 {
		c.Store.Port = def.Store.Port
	}
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
