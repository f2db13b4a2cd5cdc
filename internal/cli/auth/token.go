// Package auth builds the credentials used to reach an MDStudio endpoint.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mdstudio/mdstudio-cli/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// KeychainPrefix namespaces tokens stored in the OS credential store.
const KeychainPrefix = "mdstudio"

// SecretGetter reads a stored secret by id.
type SecretGetter interface {
	GetSecret(id string) (string, error)
}

// ErrNoToken is returned when a keychain profile has no stored token.
var ErrNoToken = errors.New("no token stored for profile")

// TokenSource returns the token source for p, or nil when the profile
// does not authenticate.
func TokenSource(ctx context.Context, p config.Profile, secrets SecretGetter) (oauth2.TokenSource, error) {
	switch p.AuthMode {
	case "", config.AuthNone:
		return nil, nil
	case config.AuthToken:
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: p.Token, TokenType: "Bearer"}), nil
	case config.AuthKeychain:
		if secrets == nil {
			secrets = NewKeychain(KeychainPrefix)
		}
		tok, err := secrets.GetSecret(p.ID)
		if err != nil {
			return nil, fmt.Errorf("keychain lookup for profile %s: %w", p.ID, err)
		}
		if tok == "" {
			return nil, fmt.Errorf("profile %s: %w", p.ID, ErrNoToken)
		}
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}), nil
	case config.AuthOAuth2:
		cc := &clientcredentials.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			TokenURL:     p.TokenURL,
			Scopes:       p.Scopes,
		}
		return cc.TokenSource(ctx), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", p.AuthMode)
	}
}

// HTTPClient returns an http.Client that authenticates with ts. A nil ts
// yields a plain client.
func HTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	if ts == nil {
		return &http.Client{}
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, ts))
}
