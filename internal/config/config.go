// Package config loads and saves the Perch configuration file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// FeedConfig controls the background fetch collaborator.
type FeedConfig struct {
	// DumpPath points at a local JSON feed dump served by the built-in
	// file source. If empty, read from env PERCH_FEED.
	DumpPath string `yaml:"dumpPath"`
	// PageSize is the number of posts per fetched page.
	PageSize int `yaml:"pageSize"`
	// Timeout bounds a single fetch; an overrun surfaces as a
	// recoverable error event rather than hanging the event loop.
	Timeout time.Duration `yaml:"timeout"`
	// RPS and Burst configure the fetch rate limiter.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// StorageConfig locates the SQLite database holding starred accounts
// and display-name history.
type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

// LogConfig locates the JSON log file. Stdout belongs to the TUI.
type LogConfig struct {
	Path string `yaml:"path"`
}

// Default returns a sensible default configuration rooted at ~/.perch.
func Default() Config {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, ".perch")

	return Config{
		Feed: FeedConfig{
			DumpPath: "",
			PageSize: 50,
			Timeout:  10 * time.Second,
			RPS:      2.0,
			Burst:    5,
		},
		Storage: StorageConfig{DBPath: filepath.Join(base, "perch.db")},
		Log:     LogConfig{Path: filepath.Join(base, "perch.log")},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Feed.DumpPath == "" {
		c.Feed.DumpPath = os.Getenv("PERCH_FEED")
	}
}

// Load reads YAML config from path, layered over defaults. A missing
// file is not an error: first runs proceed on defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.ResolveEnv()
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
