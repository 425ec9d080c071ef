// Package config manages the alpha-term settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	// DirName is the config directory under the user's home.
	DirName = ".alpha-term"

	configFileName = "config.yaml"
)

// Config holds the persisted settings. Explicit CLI flags override these
// per invocation without being written back.
type Config struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	SoundEnabled bool          `yaml:"sound"`
	SaveToFile   string        `yaml:"save_file,omitempty"`
	CSVFile      string        `yaml:"csv_file,omitempty"`
	ArchiveDB    string        `yaml:"archive_db,omitempty"`
	ClientID     string        `yaml:"client_id"`
}

// setDefaults fills in missing fields.
func (c *Config) setDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
	if c.ClientID == "" {
		c.ClientID = uuid.New().String()
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s")
	}
	return nil
}

// Store reads and writes the config file.
type Store struct {
	dir string
}

// DefaultDir returns the config directory under the user's home.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// NewStore creates a config store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path() string {
	return filepath.Join(s.dir, configFileName)
}

// Load reads the config file, creating it with defaults on first run.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.setDefaults()
			if err := s.Save(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config file.
func (s *Store) Save(cfg *Config) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Update loads the config, applies fn, and saves the result.
func (s *Store) Update(fn func(*Config)) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	fn(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return s.Save(cfg)
}
