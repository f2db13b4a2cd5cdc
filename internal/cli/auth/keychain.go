package auth

import (
	"fmt"

	"github.com/danieljoos/wincred"
)

// SecretStore keeps profile tokens by profile id.
type SecretStore interface {
	SecretGetter
	SetSecret(id, secret string) error
	RemoveSecret(id string) error
}

var _ SecretStore = (*Keychain)(nil)

// Keychain stores profile tokens in the OS credential store under
// "<prefix>:<profile id>".
type Keychain struct {
	prefix string
}

func NewKeychain(prefix string) *Keychain {
	return &Keychain{prefix: prefix}
}

func (k *Keychain) target(id string) string {
	return k.prefix + ":" + id
}

// SetSecret saves the token for profile id, replacing any previous one.
func (k *Keychain) SetSecret(id, secret string) error {
	if secret == "" {
		return fmt.Errorf("profile %s: %w", id, ErrNoToken)
	}
	cred := wincred.NewGenericCredential(k.target(id))
	cred.UserName = id
	cred.Comment = "mdstudio endpoint token"
	cred.CredentialBlob = []byte(secret)
	cred.Persist = wincred.PersistLocalMachine
	if err := cred.Write(); err != nil {
		return fmt.Errorf("store token for profile %s: %w", id, err)
	}
	return nil
}

func (k *Keychain) GetSecret(id string) (string, error) {
	cred, err := wincred.GetGenericCredential(k.target(id))
	if err != nil {
		return "", err
	}
	return string(cred.CredentialBlob), nil
}

// RemoveSecret deletes the token for profile id.
func (k *Keychain) RemoveSecret(id string) error {
	cred, err := wincred.GetGenericCredential(k.target(id))
	if err != nil {
		return fmt.Errorf("find token for profile %s: %w", id, err)
	}
	if err := cred.Delete(); err != nil {
		return fmt.Errorf("remove token for profile %s: %w", id, err)
	}
	return nil
}
