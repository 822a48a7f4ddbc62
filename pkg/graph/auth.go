// OAuth2 flows against the Microsoft identity platform: the Device Code
// Flow for browserless CLI logins, and the Authorization Code Grant with
// PKCE for environments where opening a browser is acceptable.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cv "github.com/nirasan/go-oauth-pkce-code-verifier"
	"golang.org/x/oauth2"
)

// Scopes requested by the analyzer. Sites.Read.All covers the whole crawl;
// offline_access gives us a refresh token.
var oAuthScopes = []string{"offline_access", "Sites.Read.All", "User.Read"}

const (
	authURLTemplate   = "https://login.microsoftonline.com/%s/oauth2/v2.0/authorize"
	tokenURLTemplate  = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	deviceURLTemplate = "https://login.microsoftonline.com/%s/oauth2/v2.0/devicecode"
)

// Test hooks: when non-empty these replace the Microsoft endpoints.
var (
	customAuthURL   string
	customTokenURL  string
	customDeviceURL string
)

// SetCustomEndpoints overrides the identity-platform endpoints, for tests
// targeting a mock OAuth server. Empty strings restore the defaults.
func SetCustomEndpoints(authURL, tokenURL, deviceURL string) {
	customAuthURL = authURL
	customTokenURL = tokenURL
	customDeviceURL = deviceURL
}

func authURL(tenantID string) string {
	if customAuthURL != "" {
		return customAuthURL
	}
	return fmt.Sprintf(authURLTemplate, tenantID)
}

func tokenURL(tenantID string) string {
	if customTokenURL != "" {
		return customTokenURL
	}
	return fmt.Sprintf(tokenURLTemplate, tenantID)
}

func deviceURL(tenantID string) string {
	if customDeviceURL != "" {
		return customDeviceURL
	}
	return fmt.Sprintf(deviceURLTemplate, tenantID)
}

// OAuthConfig returns the oauth2 configuration for a client application in
// the given tenant. Use "common" for multi-tenant logins.
func OAuthConfig(clientID, tenantID string) *oauth2.Config {
	if tenantID == "" {
		tenantID = "common"
	}
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   oAuthScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL(tenantID),
			TokenURL: tokenURL(tenantID),
		},
	}
}

// DeviceCodeResponse is the identity platform's answer to a device code
// request; Message is ready to show to the user verbatim.
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
	Message         string `json:"message"`
}

// StartAuthentication begins the PKCE authorization-code flow. It returns
// the URL the user must visit and the code verifier the caller has to hold
// on to for CompleteAuthentication.
func StartAuthentication(config *oauth2.Config) (authURL, codeVerifier string, err error) {
	verifier, err := cv.CreateCodeVerifier()
	if err != nil {
		return "", "", fmt.Errorf("creating PKCE code verifier: %w", err)
	}

	pkceParams := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", verifier.CodeChallengeS256()),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	return config.AuthCodeURL("state", pkceParams...), verifier.String(), nil
}

// CompleteAuthentication exchanges the authorization code for a token,
// sending the PKCE verifier from StartAuthentication.
func CompleteAuthentication(ctx context.Context, config *oauth2.Config, code, verifier string) (*Token, error) {
	token, err := config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	ensureExpiry(token)
	return (*Token)(token), nil
}

// InitiateDeviceCodeFlow requests a device code. The caller shows the
// response's Message to the user and then polls with VerifyDeviceCode.
func InitiateDeviceCodeFlow(clientID, tenantID string) (*DeviceCodeResponse, error) {
	if tenantID == "" {
		tenantID = "common"
	}
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("scope", strings.Join(oAuthScopes, " "))

	res, err := postForm(deviceURL(tenantID), form)
	if err != nil {
		return nil, fmt.Errorf("requesting device code: %w", err)
	}
	defer res.Body.Close()

	var dcr DeviceCodeResponse
	if err := json.NewDecoder(res.Body).Decode(&dcr); err != nil {
		return nil, fmt.Errorf("decoding device code response: %w", err)
	}
	return &dcr, nil
}

// VerifyDeviceCode polls the token endpoint for a device-flow token. While
// the user has not finished the browser step it returns
// ErrAuthorizationPending; callers poll at the interval from the device code
// response.
func VerifyDeviceCode(clientID, tenantID, deviceCode string) (*Token, error) {
	if tenantID == "" {
		tenantID = "common"
	}
	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")
	form.Set("client_id", clientID)
	form.Set("device_code", deviceCode)

	res, err := postForm(tokenURL(tenantID), form)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	// The oauth2 type does not map expires_in from a raw token payload, and
	// a zero Expiry disables refresh logic downstream.
	var extra struct {
		ExpiresIn json.Number `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &extra); err == nil && extra.ExpiresIn != "" {
		if secs, err := extra.ExpiresIn.Int64(); err == nil && secs > 0 {
			token.Expiry = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}

	return (*Token)(&token), nil
}

// ensureExpiry backfills Token.Expiry from the expires_in extra when the
// exchange left it zero.
func ensureExpiry(token *oauth2.Token) {
	if !token.Expiry.IsZero() {
		return
	}
	if expiresIn, ok := token.Extra("expires_in").(float64); ok && expiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
}

// postForm posts an unauthenticated form to an identity-platform endpoint
// and maps the well-known OAuth error codes onto sentinels.
func postForm(endpoint string, form url.Values) (*http.Response, error) {
	client := &http.Client{Timeout: DefaultTimeout}
	res, err := client.Post(endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("network error calling %s: %w", endpoint, err)
	}

	if res.StatusCode >= 400 {
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)

		var oauthError struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if err := json.Unmarshal(body, &oauthError); err == nil && oauthError.Error != "" {
			switch oauthError.Error {
			case "authorization_pending":
				return nil, ErrAuthorizationPending
			case "authorization_declined":
				return nil, ErrAuthorizationDeclined
			case "expired_token":
				return nil, ErrTokenExpired
			case "invalid_request", "invalid_grant":
				return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, oauthError.ErrorDescription)
			default:
				return nil, fmt.Errorf("oauth error %q: %s", oauthError.Error, oauthError.ErrorDescription)
			}
		}
		return nil, fmt.Errorf("HTTP error %s from %s: %s", res.Status, endpoint, string(body))
	}

	return res, nil
}
