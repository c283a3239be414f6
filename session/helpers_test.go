package session_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-portfolio-session/credentials"
	"github.com/jrsteele09/go-portfolio-session/session"
)

// protectedAPI accepts a configurable set of bearer tokens and echoes request bodies.
type protectedAPI struct {
	*httptest.Server
	lock       sync.Mutex
	valid      map[string]bool
	tokens     []string
	requestIDs []string
	onRequest  func(token string)
}

func newProtectedAPI(t *testing.T, validTokens ...string) *protectedAPI {
	t.Helper()
	api := &protectedAPI{valid: map[string]bool{}}
	for _, token := range validTokens {
		api.valid[token] = true
	}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serveHTTP))
	t.Cleanup(api.Close)
	return api
}

func (a *protectedAPI) serveHTTP(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	body, _ := io.ReadAll(r.Body)

	a.lock.Lock()
	a.tokens = append(a.tokens, token)
	a.requestIDs = append(a.requestIDs, r.Header.Get("X-Request-ID"))
	valid := a.valid[token]
	hook := a.onRequest
	a.lock.Unlock()

	if hook != nil {
		hook(token)
	}
	if !valid {
		w.Header().Set("WWW-Authenticate", "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if r.URL.Path == "/status/500" {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte("ok:" + string(body)))
}

func (a *protectedAPI) allow(token string) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.valid[token] = true
}

func (a *protectedAPI) seenTokens() []string {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]string(nil), a.tokens...)
}

func (a *protectedAPI) seenRequestIDs() []string {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]string(nil), a.requestIDs...)
}

// fakeExchanger counts exchange calls and optionally blocks until released.
type fakeExchanger struct {
	calls    atomic.Int32
	release  chan struct{}
	renewal  session.Renewal
	err      error
	lock     sync.Mutex
	received []string
	revoked  []credentials.Pair
}

func (f *fakeExchanger) Exchange(ctx context.Context, refreshToken string) (*session.Renewal, error) {
	f.calls.Add(1)
	f.lock.Lock()
	f.received = append(f.received, refreshToken)
	f.lock.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	renewed := f.renewal
	return &renewed, nil
}

func (f *fakeExchanger) Revoke(_ context.Context, pair credentials.Pair) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.revoked = append(f.revoked, pair)
	return nil
}

type endedCounter struct {
	count atomic.Int32
	lock  sync.Mutex
	last  error
}

func (e *endedCounter) record(err error) {
	e.count.Add(1)
	e.lock.Lock()
	e.last = err
	e.lock.Unlock()
}

func (e *endedCounter) lastErr() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.last
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(data)
}
