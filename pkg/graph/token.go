package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// Token is the canonical token representation used by the SDK.
type Token oauth2.Token

// TokenProvider supplies request headers for every API call and refreshes
// the underlying credential when the client sees a 401. Implementations must
// be safe for concurrent use: a header read never observes a half-updated
// token.
type TokenProvider interface {
	Headers(ctx context.Context) (map[string]string, error)
	Refresh(ctx context.Context) error
}

// OAuthTokenProvider is a TokenProvider backed by an oauth2 refresh token.
// Refresh exchanges the stored refresh token for a new access token and
// invokes the persistence callback so the new token survives the process.
type OAuthTokenProvider struct {
	mu         sync.Mutex
	config     *oauth2.Config
	token      *oauth2.Token
	onNewToken func(*Token) error
}

// NewOAuthTokenProvider wraps an initial token. onNewToken may be nil when
// the caller does not need refreshed tokens persisted.
func NewOAuthTokenProvider(config *oauth2.Config, initial *Token, onNewToken func(*Token) error) *OAuthTokenProvider {
	return &OAuthTokenProvider{
		config:     config,
		token:      (*oauth2.Token)(initial),
		onNewToken: onNewToken,
	}
}

// Headers returns the bearer authorization headers for the current token.
func (p *OAuthTokenProvider) Headers(ctx context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == nil || p.token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token available", ErrReauthRequired)
	}
	return map[string]string{
		"Authorization": "Bearer " + p.token.AccessToken,
		"Accept":        "application/json",
	}, nil
}

// Refresh exchanges the refresh token for a fresh access token. The token is
// swapped under the lock so subsequent Headers calls see either the old or
// the new token, never a partial one.
func (p *OAuthTokenProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == nil || p.token.RefreshToken == "" {
		return errors.New("no refresh token available")
	}

	// Build a source seeded with only the refresh token so the oauth2
	// library performs a real refresh instead of returning the cached,
	// possibly expired, access token.
	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: p.token.RefreshToken})
	fresh, err := source.Token()
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = p.token.RefreshToken
	}
	p.token = fresh

	if p.onNewToken != nil {
		if err := p.onNewToken((*Token)(fresh)); err != nil {
			// The refreshed token is valid in memory even if persisting
			// it failed; surface the problem without discarding it.
			return fmt.Errorf("persisting refreshed token: %w", err)
		}
	}
	return nil
}

// CurrentToken returns a copy of the provider's token, for persistence and
// status display.
func (p *OAuthTokenProvider) CurrentToken() Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == nil {
		return Token{}
	}
	return Token(*p.token)
}

// StaticTokenProvider serves a fixed access token and fails refresh. Useful
// for tests and for short-lived app-only tokens.
type StaticTokenProvider string

// Headers returns bearer headers for the fixed token.
func (t StaticTokenProvider) Headers(ctx context.Context) (map[string]string, error) {
	if t == "" {
		return nil, fmt.Errorf("%w: empty static token", ErrReauthRequired)
	}
	return map[string]string{
		"Authorization": "Bearer " + string(t),
		"Accept":        "application/json",
	}, nil
}

// Refresh always fails; static tokens cannot be renewed.
func (t StaticTokenProvider) Refresh(ctx context.Context) error {
	return errors.New("static token cannot be refreshed")
}
