// Package config loads profiles and settings for the mdstudio CLI.
package config

import (
	"errors"
	"fmt"
)

// AuthMode selects how requests to a profile's endpoint are authenticated.
type AuthMode string

const (
	AuthNone     AuthMode = "none"
	AuthToken    AuthMode = "token"
	AuthKeychain AuthMode = "keychain"
	AuthOAuth2   AuthMode = "oauth2"
)

// Profile describes one MDStudio endpoint and how to reach it.
type Profile struct {
	// Unique identifier for the profile (e.g., "local", "cluster")
	ID string `yaml:"id" toml:"id" json:"id"`

	// Endpoint is an http(s) URL or a wasm:// module path
	Endpoint string `yaml:"endpoint" toml:"endpoint" json:"endpoint"`

	AuthMode AuthMode `yaml:"auth_mode,omitempty" toml:"auth_mode,omitempty" json:"auth_mode,omitempty"`

	// Token is used as a static bearer token in "token" mode
	Token string `yaml:"token,omitempty" toml:"token,omitempty" json:"-"`

	// OAuth2 client credentials
	ClientID     string   `yaml:"client_id,omitempty" toml:"client_id,omitempty" json:"client_id,omitempty"`
	ClientSecret string   `yaml:"client_secret,omitempty" toml:"client_secret,omitempty" json:"-"`
	TokenURL     string   `yaml:"token_url,omitempty" toml:"token_url,omitempty" json:"token_url,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty" toml:"scopes,omitempty" json:"scopes,omitempty"`

	// Env is the environment of wasm:// method modules
	Env map[string]string `yaml:"env,omitempty" toml:"env,omitempty" json:"env,omitempty"`
}

// Validate checks if the profile configuration is valid.
func (p Profile) Validate() error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	switch p.AuthMode {
	case "", AuthNone, AuthKeychain:
	case AuthToken:
		if p.Token == "" {
			return fmt.Errorf("profile %s: token auth requires a token", p.ID)
		}
	case AuthOAuth2:
		if p.ClientID == "" || p.TokenURL == "" {
			return fmt.Errorf("profile %s: oauth2 auth requires client_id and token_url", p.ID)
		}
	default:
		return fmt.Errorf("profile %s: unknown auth mode %q", p.ID, p.AuthMode)
	}
	return nil
}
