// Package session performs HTTP calls against a protected API with automatic bearer
// authentication. A 401 triggers a renewal of the access token through an Exchanger;
// concurrent 401s share a single exchange and every request is retried at most once.
package session

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-portfolio-session/credentials"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var _ http.RoundTripper = (*Client)(nil)

// Client owns request dispatch for one logical session.
type Client struct {
	store          credentials.Store
	exchanger      Exchanger
	transport      http.RoundTripper
	baseURL        string
	sessionEnded   func(err error)
	logger         zerolog.Logger
	renewalTimeout time.Duration
	requestID      bool

	lock     sync.Mutex
	inflight *renewal // non-nil while RENEWING
}

// New returns a client that authenticates requests with the credentials in store.
func New(store credentials.Store, exchanger Exchanger, options ...Option) *Client {
	c := &Client{
		store:          store,
		exchanger:      exchanger,
		transport:      http.DefaultTransport,
		logger:         log.With().Str("component", "session").Logger(),
		renewalTimeout: defaultRenewalTimeout,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Do sends req with the stored access token attached. On a 401 the session is renewed and
// req is re-issued once. Non-401 responses are returned unchanged.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	call, err := c.newReplayableRequest(req)
	if err != nil {
		return nil, err
	}

	sent := c.store.GetAccessToken()
	resp, err := c.send(call, sent)
	if err != nil {
		return nil, &TransportError{Op: OpRequest, Err: err}
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	discard(resp)

	access, err := c.renew(req.Context(), sent)
	if err != nil {
		return nil, err
	}

	resp, err = c.send(call, access)
	if err != nil {
		return nil, &TransportError{Op: OpRetry, Err: err}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		discard(resp)
		c.logger.Warn().Str("method", req.Method).Str("url", req.URL.Redacted()).Msg("request refused after renewal")
		return nil, ErrRetryExhausted
	}
	return resp, nil
}

// RoundTrip lets the client act as the transport of an http.Client or resty client.
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	return c.Do(req)
}

// HTTPClient returns an *http.Client whose transport is c.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{Transport: c}
}

// Request issues method against path, resolved against the base URL, with the given
// headers and body.
func (c *Client) Request(ctx context.Context, method, path string, header http.Header, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		req.Header[key] = append([]string(nil), values...)
	}
	return c.Do(req)
}

// State reports whether an exchange is in flight.
func (c *Client) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.inflight != nil {
		return StateRenewing
	}
	return StateIdle
}

// Login stores a freshly issued credential pair.
func (c *Client) Login(access, refresh string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.store.SetCredentials(access, refresh)
}

// Logout clears the stored credentials. When the exchanger is a Revoker the session is
// also ended on the server; a failure there is returned but the local credentials stay cleared.
func (c *Client) Logout(ctx context.Context) error {
	c.lock.Lock()
	pair := c.store.Pair()
	c.store.Clear()
	c.lock.Unlock()

	revoker, ok := c.exchanger.(Revoker)
	if !ok || pair.IsZero() {
		return nil
	}
	if err := revoker.Revoke(ctx, pair); err != nil {
		c.logger.Warn().Err(err).Msg("server side logout failed")
		return err
	}
	return nil
}

func (c *Client) resolve(path string) string {
	if c.baseURL == "" || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) send(call *replayableRequest, token string) (*http.Response, error) {
	req, err := call.build(token)
	if err != nil {
		return nil, err
	}
	return c.transport.RoundTrip(req)
}

func (c *Client) endSession(err error) {
	c.logger.Info().Err(err).Msg("session ended")
	if c.sessionEnded != nil {
		c.sessionEnded(err)
	}
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
