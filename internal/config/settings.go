package config

import (
	"errors"
	"fmt"
	"time"
)

// Settings represents global CLI configuration.
type Settings struct {
	DefaultProfile string `yaml:"default_profile" toml:"default_profile" json:"default_profile"`
	Prefix         string `yaml:"prefix" toml:"prefix" json:"prefix"`
	ReadFiles      *bool  `yaml:"read_files,omitempty" toml:"read_files,omitempty" json:"read_files,omitempty"`
	TimeoutMS      int    `yaml:"timeout_ms" toml:"timeout_ms" json:"timeout_ms"`
	LogLevel       string `yaml:"log_level" toml:"log_level" json:"log_level"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DefaultProfile: "default",
		Prefix:         "-",
		TimeoutMS:      30000,
		LogLevel:       "info",
	}
}

// ShouldReadFiles reports whether file paths are replaced by their contents.
func (s Settings) ShouldReadFiles() bool {
	return s.ReadFiles == nil || *s.ReadFiles
}

// Timeout returns the invocation timeout.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// Validate checks the settings for values the CLI cannot work with.
func (s Settings) Validate() error {
	if s.Prefix == "" {
		return errors.New("prefix must not be empty")
	}
	if s.TimeoutMS < 0 {
		return fmt.Errorf("timeout_ms must not be negative, got %d", s.TimeoutMS)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	return nil
}

// withDefaults fills zero values from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DefaultProfile == "" {
		s.DefaultProfile = d.DefaultProfile
	}
	if s.Prefix == "" {
		s.Prefix = d.Prefix
	}
	if s.TimeoutMS == 0 {
		s.TimeoutMS = d.TimeoutMS
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	return s
}
