package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Store handles persistence of profiles and settings to a YAML or TOML file.
type Store struct {
	path string
}

// Config is the top-level structure of the configuration file.
type Config struct {
	Profiles []Profile `yaml:"profiles" toml:"profiles"`
	Settings Settings  `yaml:"settings" toml:"settings"`
}

// NewStore creates a store for path. The format follows the extension:
// .toml is TOML, anything else YAML.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns $MDSTUDIO_CONFIG or the per-user config location.
func DefaultPath() string {
	if p := os.Getenv("MDSTUDIO_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "mdstudio", "config.yaml")
}

func (s *Store) isTOML() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".toml")
}

// Load reads config from the file. A missing file yields the defaults.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Profiles: []Profile{}, Settings: DefaultSettings()}, nil
		}
		return nil, err
	}

	var config Config
	if s.isTOML() {
		err = toml.Unmarshal(data, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	config.Settings = config.Settings.withDefaults()
	if err := config.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	for _, p := range config.Profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
	}
	return &config, nil
}

// Save writes config to the file.
func (s *Store) Save(config *Config) error {
	var (
		data []byte
		err  error
	)
	if s.isTOML() {
		data, err = toml.Marshal(config)
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Profile returns the profile with the given id.
func (c *Config) Profile(id string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}
