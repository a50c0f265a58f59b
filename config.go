package codex

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all codex configuration.
type Config struct {
	// DBPath is the SQLite database file. Parent directories are created
	// on open.
	DBPath string `yaml:"db_path"`
	// Search tunes query behaviour.
	Search SearchConfig `yaml:"search"`
}

// SearchConfig tunes catalog and full-text queries.
type SearchConfig struct {
	// DefaultLimit caps paginated and full-text results when the caller
	// passes no limit.
	DefaultLimit int `yaml:"default_limit"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "codex.db"
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
}

// LoadConfigFile reads a YAML config file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.defaults()
	return &cfg, nil
}
