// Package auth supplies the GitHub access token for a digest run.
// Precedence: an explicitly supplied token, then a keyring-cached
// OAuth token, then an interactive device-flow authorization whose
// result is cached back into the OS keyring.
package auth

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/joss/ghdigest/internal/logging"
)

// oauthScopes is what the tool asks for. Public activity needs no
// scopes at all; a cached token with different scopes is discarded.
var oauthScopes = []string{}

// Provider acquires and caches access tokens.
type Provider struct {
	clientID string
	cache    *Cache
	log      *logging.Logger
}

// NewProvider returns a provider using the given OAuth app client id.
// The client id may be empty if a cached or explicit token is
// available; the device flow then fails with a clear error.
func NewProvider(clientID string) *Provider {
	return &Provider{
		clientID: clientID,
		cache:    NewCache(),
		log:      logging.New("auth"),
	}
}

// Token returns a usable access token, re-authenticating when the
// cached one is missing, expired, or was granted different scopes.
func (p *Provider) Token(ctx context.Context) (string, error) {
	if cached, err := p.cache.Load(); err != nil {
		p.log.Warn("keyring_load_failed", nil, err)
	} else if cached != nil {
		if p.valid(cached) {
			return cached.AccessToken, nil
		}
		p.log.Info("cached_token_discarded", map[string]any{"scope": cached.Scope})
		if err := p.cache.Delete(); err != nil {
			p.log.Warn("keyring_delete_failed", nil, err)
		}
	}

	tok, err := p.deviceFlow(ctx)
	if err != nil {
		return "", err
	}
	if err := p.cache.Store(tok); err != nil {
		p.log.Warn("keyring_store_failed", nil, err)
	}
	return tok.AccessToken, nil
}

// valid reports whether a cached token can be reused: same scopes,
// not expired. A zero expiry means the token does not expire.
func (p *Provider) valid(tok *CachedToken) bool {
	if !slices.Equal(normalizeScopes(tok.Scope), normalizeScopes(oauthScopes)) {
		return false
	}
	if !tok.Expiry.IsZero() && !time.Now().Before(tok.Expiry) {
		return false
	}
	return tok.AccessToken != ""
}

// deviceFlow performs the interactive GitHub device authorization.
// The verification prompt goes to stderr so stdout stays reserved for
// the digest.
func (p *Provider) deviceFlow(ctx context.Context) (*CachedToken, error) {
	if p.clientID == "" {
		return nil, fmt.Errorf("no OAuth client id configured: set GHDIGEST_CLIENT_ID or pass an access token")
	}

	cfg := &oauth2.Config{
		ClientID: p.clientID,
		Scopes:   oauthScopes,
		Endpoint: endpoints.GitHub,
	}

	da, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("start device authorization: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Go to %s and enter the following code: %s\n", da.VerificationURI, da.UserCode)

	tok, err := cfg.DeviceAccessToken(ctx, da)
	if err != nil {
		return nil, fmt.Errorf("complete device authorization: %w", err)
	}

	cached := &CachedToken{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Scope:       grantedScopes(tok),
		Expiry:      tok.Expiry,
	}
	return cached, nil
}

// Logout drops the cached token.
func (p *Provider) Logout() error {
	return p.cache.Delete()
}

// Status returns the cached token, or nil when none is stored.
func (p *Provider) Status() (*CachedToken, error) {
	return p.cache.Load()
}

// grantedScopes extracts the scope list GitHub reports on the token
// response ("scope" is a comma-separated string).
func grantedScopes(tok *oauth2.Token) []string {
	raw, _ := tok.Extra("scope").(string)
	return normalizeScopes(strings.Split(raw, ","))
}

func normalizeScopes(scopes []string) []string {
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}
