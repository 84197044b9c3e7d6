package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "ghdigest"
	keyringUser    = "oauth"
)

// CachedToken is the token record persisted in the OS keyring.
type CachedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Scope       []string  `json:"scope"`
	Expiry      time.Time `json:"expiry,omitzero"`
}

// Masked returns the access token with all but the last four
// characters hidden, for status display.
func (t *CachedToken) Masked() string {
	if len(t.AccessToken) <= 4 {
		return "****"
	}
	return "****" + t.AccessToken[len(t.AccessToken)-4:]
}

// Cache stores the OAuth token in the OS keyring.
type Cache struct {
	service string
}

// NewCache returns the default token cache.
func NewCache() *Cache {
	return &Cache{service: keyringService}
}

// Load returns the cached token, or nil when none is stored. A token
// that no longer parses (serialization format changed) reads as
// missing rather than failing the run.
func (c *Cache) Load() (*CachedToken, error) {
	secret, err := keyring.Get(c.service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}

	var tok CachedToken
	if err := json.Unmarshal([]byte(secret), &tok); err != nil {
		return nil, nil
	}
	return &tok, nil
}

// Store persists the token.
func (c *Cache) Store(tok *CachedToken) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("serialize token: %w", err)
	}
	if err := keyring.Set(c.service, keyringUser, string(data)); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}

// Delete removes the stored token. Deleting a missing token is not an
// error.
func (c *Cache) Delete() error {
	err := keyring.Delete(c.service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
