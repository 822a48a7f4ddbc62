// Package app wires configuration, credentials, sessions and the Graph
// client into a single container the commands run against.
package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/spanalyzer/spanalyzer/internal/config"
	"github.com/spanalyzer/spanalyzer/internal/credstore"
	"github.com/spanalyzer/spanalyzer/internal/logger"
	"github.com/spanalyzer/spanalyzer/internal/session"
	"github.com/spanalyzer/spanalyzer/internal/ui"
	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

// ErrLoginPending signals that a device code flow has been started but the
// user has not finished the browser step yet.
var ErrLoginPending = errors.New("login pending")

// App holds everything a command needs.
type App struct {
	Config   *config.Configuration
	Sessions *session.Manager
	Logger   logger.Logger
	Printer  *ui.Printer
	SDK      SDK
}

// Load builds the container without an authenticated client. Commands that
// manage credentials or start a login use this directly.
func Load(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}

	// Keyring-stored credentials beat the built-in default registration but
	// never an ID set explicitly in the config file or environment.
	if cfg.ClientID == config.DefaultClientID {
		if creds, err := credstore.New().Load(); err == nil {
			cfg.ClientID = creds.ClientID
			if creds.TenantID != "" {
				cfg.TenantID = creds.TenantID
			}
		}
	}

	return &App{
		Config:   cfg,
		Sessions: session.NewManager(cfg.Dir()),
		Logger:   logger.NewDefault(cfg.Debug),
		Printer:  ui.Default(),
	}, nil
}

// New builds the container and an authenticated Graph client. A pending
// device code login is completed here if the user has finished the browser
// step since the last invocation.
func New(cmd *cobra.Command) (*App, error) {
	a, err := Load(cmd)
	if err != nil {
		return nil, err
	}

	if err := a.completePendingLogin(); err != nil {
		return nil, err
	}

	if a.Config.Token.AccessToken == "" {
		return nil, graph.ErrReauthRequired
	}

	oauthConfig := graph.OAuthConfig(a.Config.ClientID, a.Config.TenantID)
	tokens := graph.NewOAuthTokenProvider(oauthConfig, &a.Config.Token, func(t *graph.Token) error {
		return a.Config.UpdateToken(*t)
	})

	a.SDK = NewLiveSDK(newGraphClient(a.Config, a.Logger, tokens))
	return a, nil
}

// newGraphClient builds the Graph client from the loaded configuration,
// applying the per-request timeout and the retry tuning knobs.
func newGraphClient(cfg *config.Configuration, log logger.Logger, tokens graph.TokenProvider) *graph.Client {
	opts := []graph.Option{
		graph.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
		graph.WithLogger(log),
		graph.WithRetryAfterDefault(cfg.RetryAfterDefault()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, graph.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxAttempts > 0 {
		opts = append(opts, graph.WithMaxAttempts(cfg.MaxAttempts))
	}
	return graph.NewClient(tokens, opts...)
}

// completePendingLogin polls the token endpoint once for a stored device
// code. No pending state is a no-op.
func (a *App) completePendingLogin() error {
	pending, err := a.Sessions.Load()
	if err != nil {
		return fmt.Errorf("loading auth state: %w", err)
	}
	if pending == nil {
		return nil
	}

	token, err := graph.VerifyDeviceCode(a.Config.ClientID, a.Config.TenantID, pending.DeviceCode)
	if err != nil {
		if errors.Is(err, graph.ErrAuthorizationPending) {
			return fmt.Errorf("%w: go to %s and enter code %s",
				ErrLoginPending, pending.VerificationURI, pending.UserCode)
		}
		// Declined, expired or otherwise dead; the stored state is useless.
		_ = a.Sessions.Delete()
		return fmt.Errorf("authentication failed, please run 'auth login' again: %w", err)
	}

	if err := a.Config.UpdateToken(*token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	if err := a.Sessions.Delete(); err != nil {
		a.Logger.Warn("could not delete auth session file", "error", err)
	}
	a.Printer.Success("Login successful!")
	return nil
}

// Logout clears the stored token and any pending login.
func (a *App) Logout() error {
	a.Config.Token = graph.Token{}
	if err := a.Config.Save(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	if err := a.Sessions.Delete(); err != nil {
		a.Logger.Warn("could not delete auth session file during logout", "error", err)
	}
	return nil
}
