package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client is a stateful Microsoft Graph client. It handles expired-token
// refresh (single-flight across concurrent callers) and rate-limit backoff
// internally; callers only ever see final payloads or sentinel errors.
type Client struct {
	httpClient        *http.Client
	tokens            TokenProvider
	logger            Logger
	baseURL           string
	maxAttempts       int
	retryAfterDefault time.Duration

	// sleep is swapped out in tests to avoid real waiting.
	sleep func(time.Duration)

	refreshGroup singleflight.Group
	// backoffMu gates the whole batch while one call waits out a 429 so
	// concurrent crawls don't retry-storm the server.
	backoffMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger the client reports through.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseURL overrides the Graph API root. The URL must end with a slash.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithMaxAttempts caps how many times a single logical call may be retried
// after rate limiting before giving up.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryAfterDefault sets the backoff used when a 429 response carries no
// usable Retry-After header.
func WithRetryAfterDefault(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryAfterDefault = d
		}
	}
}

// NewClient creates a Graph client around a token provider.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		httpClient:        &http.Client{Timeout: DefaultTimeout},
		tokens:            tokens,
		logger:            noopLogger{},
		baseURL:           DefaultBaseURL,
		maxAttempts:       DefaultMaxAttempts,
		retryAfterDefault: DefaultRetryAfterBackoff,
		sleep:             time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiCall issues one authenticated request and recovers from the two
// transient failure modes:
//
//   - 401: refresh the token exactly once (single-flight) and retry the
//     identical call once. A second 401, or a failed refresh, is final.
//   - 429: honor Retry-After (default when absent or unparsable), sleep,
//     and retry. Retries are bounded by maxAttempts; exceeding the cap
//     returns ErrTooManyRetries.
//
// Any other non-2xx status, transport error, or header failure returns
// immediately without retry. The caller owns the response body on success.
func (c *Client) apiCall(ctx context.Context, method, url, contentType string, body io.ReadSeeker) (*http.Response, error) {
	refreshed := false

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		headers, err := c.tokens.Headers(ctx)
		if err != nil {
			return nil, fmt.Errorf("building request headers: %w", err)
		}

		if body != nil {
			if _, err := body.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		c.logger.Debug("graph request", "method", method, "url", url, "attempt", attempt)
		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s %s: %w", method, url, err)
		}

		switch {
		case res.StatusCode == http.StatusUnauthorized && !refreshed:
			res.Body.Close()
			refreshed = true
			c.logger.Debug("401 received, refreshing token", "url", url)
			if err := c.refreshToken(ctx); err != nil {
				return nil, fmt.Errorf("%w: token refresh failed: %v", ErrReauthRequired, err)
			}
			continue

		case res.StatusCode == http.StatusTooManyRequests:
			wait := parseRetryAfter(res.Header.Get("Retry-After"), c.retryAfterDefault)
			res.Body.Close()
			c.logger.Warn("rate limited", "url", url, "wait", wait.String(), "attempt", attempt)
			c.backoffMu.Lock()
			c.sleep(wait)
			c.backoffMu.Unlock()
			continue
		}

		if res.StatusCode >= 400 {
			return nil, newStatusError(res)
		}
		return res, nil
	}

	return nil, fmt.Errorf("%w: %s %s after %d attempts", ErrTooManyRetries, method, url, c.maxAttempts)
}

// refreshToken collapses concurrent refresh requests into a single call to
// the provider, so parallel site crawls hitting 401 at once refresh once.
func (c *Client) refreshToken(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return nil, c.tokens.Refresh(ctx)
	})
	return err
}

// getJSON executes a GET and decodes the payload into out. A 200 with a
// malformed body is an error, never a panic.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	res, err := c.apiCall(ctx, http.MethodGet, url, "", nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %v", url, err)
	}
	return nil
}

// GetMe retrieves the signed-in user's profile. Used as a cheap check that
// authentication and basic Graph access work before a crawl starts.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var user User
	if err := c.getJSON(ctx, c.baseURL+"me", &user); err != nil {
		return user, err
	}
	return user, nil
}

// parseRetryAfter interprets a Retry-After header as delta seconds. Absent
// or unparsable values fall back to the configured default.
func parseRetryAfter(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

// newStatusError maps a non-2xx response onto the sentinel error taxonomy,
// carrying the status and body text. It consumes and closes the body.
func newStatusError(res *http.Response) error {
	defer res.Body.Close()
	bodyText, _ := io.ReadAll(res.Body)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(bodyText, &envelope); err == nil && envelope.Error.Code != "" {
		switch envelope.Error.Code {
		case "accessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, envelope.Error.Message)
		case "itemNotFound":
			return fmt.Errorf("%w: %s", ErrResourceNotFound, envelope.Error.Message)
		case "unauthenticated", "InvalidAuthenticationToken":
			return fmt.Errorf("%w: %s", ErrReauthRequired, envelope.Error.Message)
		case "activityLimitReached", "serviceNotAvailable":
			return fmt.Errorf("%w: %s", ErrRetryLater, envelope.Error.Message)
		case "invalidRequest", "notSupported", "notAllowed", "generalException":
			return fmt.Errorf("%w: %s", ErrInvalidRequest, envelope.Error.Message)
		default:
			return fmt.Errorf("graph error %s: %s - %s", res.Status, envelope.Error.Code, envelope.Error.Message)
		}
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrReauthRequired, res.Status)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAccessDenied, res.Status)
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %s", ErrResourceNotFound, res.Status)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrRetryLater, res.Status)
	default:
		return fmt.Errorf("HTTP error: %s - %s", res.Status, string(bodyText))
	}
}
