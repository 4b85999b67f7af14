package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

const (
	serviceName = "tabcal"
	tokenKey    = "oauth_token"
)

// TokenStore is the host-managed token cache. The keyring implementation is
// the real one; tests substitute their own.
type TokenStore interface {
	// Load returns (nil, nil) when no token is cached.
	Load() (*oauth2.Token, error)
	Store(token *oauth2.Token) error
	// Delete is a no-op when nothing is cached.
	Delete() error
}

// keyringStore persists the single-account token in the OS keyring as JSON.
type keyringStore struct{}

func NewKeyringStore() TokenStore {
	return keyringStore{}
}

func (keyringStore) Load() (*oauth2.Token, error) {
	tokenJSON, err := keyring.Get(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token from keyring: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return &token, nil
}

func (keyringStore) Store(token *oauth2.Token) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	return keyring.Set(serviceName, tokenKey, string(tokenJSON))
}

func (keyringStore) Delete() error {
	err := keyring.Delete(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
