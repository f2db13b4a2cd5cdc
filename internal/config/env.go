package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment overrides understood by the CLI.
type Env struct {
	Profile   string `env:"MDSTUDIO_PROFILE"`
	Endpoint  string `env:"MDSTUDIO_ENDPOINT"`
	Token     string `env:"MDSTUDIO_TOKEN"`
	TimeoutMS int    `env:"MDSTUDIO_TIMEOUT"`
	LogLevel  string `env:"MDSTUDIO_LOG_LEVEL"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply overlays non-empty environment values on settings and the selected
// profile.
func (e Env) Apply(s Settings, p Profile) (Settings, Profile) {
	if e.TimeoutMS > 0 {
		s.TimeoutMS = e.TimeoutMS
	}
	if e.LogLevel != "" {
		s.LogLevel = e.LogLevel
	}
	if e.Endpoint != "" {
		p.Endpoint = e.Endpoint
	}
	if e.Token != "" {
		p.Token = e.Token
		if p.AuthMode == "" || p.AuthMode == AuthNone {
			p.AuthMode = AuthToken
		}
	}
	return s, p
}
