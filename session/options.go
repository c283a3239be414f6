package session

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultRenewalTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the URL that paths passed to Request are resolved against.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTransport sets the round tripper used for the original request and the retry.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		if transport != nil {
			c.transport = transport
		}
	}
}

// WithSessionEnded registers the callback fired when the session can no longer be renewed.
// The hosting application decides what to do, typically sending the user to a login surface.
func WithSessionEnded(fn func(err error)) Option {
	return func(c *Client) {
		c.sessionEnded = fn
	}
}

// WithLogger replaces the default session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRenewalTimeout bounds a single exchange call.
func WithRenewalTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.renewalTimeout = timeout
		}
	}
}

// WithRequestID adds an X-Request-ID header to requests that do not carry one.
// The original request and its retry share the same ID.
func WithRequestID(enabled bool) Option {
	return func(c *Client) {
		c.requestID = enabled
	}
}
