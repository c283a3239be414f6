package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/jrsteele09/go-portfolio-session/server"
	"github.com/jrsteele09/go-portfolio-session/token/jwt"
	"github.com/jrsteele09/go-portfolio-session/token/refresh"
	"github.com/stretchr/testify/require"
)

const (
	testSubject     = "admin@example.com"
	testAllowOrigin = "http://localhost:3000"
)

type testConfig struct {
	config.Config
	issuer    string
	rotate    bool
	bootstrap string
}

func (c *testConfig) GetEnv() string { return config.EnvProd }
func (c *testConfig) GetIssuer() string { return c.issuer }
func (c *testConfig) GetAudience() string { return "portfolio-api" }
func (c *testConfig) GetAuthSecret() string { return "server-test-secret" }
func (c *testConfig) GetRotateRefreshTokens() bool { return c.rotate }
func (c *testConfig) GetBootstrapSubject() string { return c.bootstrap }
func (c *testConfig) GetBootstrapRole() string { return "admin" }
func (c *testConfig) GetBootstrapClientID() string { return "portfolioctl" }
func (c *testConfig) GetDefaultAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}
func (c *testConfig) GetAllowedOrigins() config.AllowedOrigins {
	return config.AllowedOrigins{testAllowOrigin: {}}
}

// testFixture runs the auth service on an httptest server with a controllable clock
type testFixture struct {
	cfg    *testConfig
	server *server.Server
	srv    *httptest.Server
	now    time.Time
	lock   sync.Mutex
}

func setupTestFixture(t *testing.T, rotate bool) *testFixture {
	t.Helper()

	f := &testFixture{now: time.Now()}
	clock := func() time.Time {
		f.lock.Lock()
		defer f.lock.Unlock()
		return f.now
	}
	jwt.NowTimeFunc = clock
	refresh.NowTimeFunc = clock
	t.Cleanup(func() {
		jwt.NowTimeFunc = time.Now
		refresh.NowTimeFunc = time.Now
	})

	f.cfg = &testConfig{Config: config.New(), rotate: rotate, bootstrap: testSubject}
	tokens, err := server.NewTokenManager(f.cfg)
	require.NoError(t, err)

	f.server = server.New(f.cfg, tokens)
	f.srv = httptest.NewServer(f.server)
	f.cfg.issuer = f.srv.URL
	t.Cleanup(f.srv.Close)
	return f
}

func (f *testFixture) advance(d time.Duration) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.now = f.now.Add(d)
}

func (f *testFixture) bootstrap(t *testing.T) *oauth2.TokenResponse {
	t.Helper()
	pair, err := f.server.Bootstrap()
	require.NoError(t, err)
	require.NotNil(t, pair)
	return pair
}

func (f *testFixture) postJSON(t *testing.T, path string, body any, accessToken string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
