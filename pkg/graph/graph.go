// Package graph is a small Microsoft Graph SDK covering the endpoints the
// SharePoint permissions analyzer needs: site discovery, document library
// enumeration, and per-library shared link and permission listings.
//
// The package is deliberately read-only. All calls are GETs against the
// Graph v1.0 REST surface, authenticated with a bearer token supplied by a
// TokenProvider. Transient failures (expired token, rate limiting) are
// recovered inside the client; everything else surfaces as a sentinel-wrapped
// error the caller can match with errors.Is.
package graph

import (
	"errors"
	"time"
)

// DefaultBaseURL is the Microsoft Graph v1.0 root used unless the client is
// configured with an override.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0/"

// Default request behavior. All of these can be overridden per client via
// options; the values mirror Graph's documented throttling guidance.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultMaxAttempts       = 10
	DefaultRetryAfterBackoff = 60 * time.Second
)

// Sentinel errors returned (wrapped) by the client. Match with errors.Is.
var (
	ErrReauthRequired   = errors.New("re-authentication required")
	ErrAccessDenied     = errors.New("access denied")
	ErrRetryLater       = errors.New("retry later")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrResourceNotFound = errors.New("resource not found")
	ErrTooManyRetries   = errors.New("retry limit exceeded")
	ErrSiteUnavailable  = errors.New("site unavailable")

	ErrAuthorizationPending  = errors.New("authorization pending")
	ErrAuthorizationDeclined = errors.New("authorization declined")
	ErrTokenExpired          = errors.New("token expired")
)

// Logger is the interface the SDK logs through. It matches the slog-style
// message-plus-attributes shape so any leveled logger can be plugged in.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}
