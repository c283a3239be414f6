package session_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-session/credentials"
	"github.com/jrsteele09/go-portfolio-session/session"
	"github.com/stretchr/testify/require"
)

type result struct {
	body string
	err  error
}

// fire issues n concurrent GET requests and returns once every request has joined the
// in-flight renewal.
func fire(t *testing.T, client *session.Client, n int) <-chan result {
	t.Helper()
	results := make(chan result, n)
	for i := 0; i < n; i++ {
		go func() {
			resp, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
			if err != nil {
				results <- result{err: err}
				return
			}
			defer resp.Body.Close()
			data, _ := io.ReadAll(resp.Body)
			results <- result{body: string(data)}
		}()
	}
	require.Eventually(t, func() bool {
		return session.Waiters(client) == n
	}, 5*time.Second, 5*time.Millisecond)
	return results
}

func collect(t *testing.T, results <-chan result, n int) []result {
	t.Helper()
	out := make([]result, 0, n)
	for i := 0; i < n; i++ {
		select {
		case r := <-results:
			out = append(out, r)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for request %d", i)
		}
	}
	return out
}

func TestClient_HappyPathIsTransparent(t *testing.T) {
	api := newProtectedAPI(t, "A1")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{}
	client := session.New(store, exchanger, session.WithBaseURL(api.URL))

	t.Run("success", func(t *testing.T) {
		resp, err := client.Request(context.Background(), http.MethodPost, "/echo", nil, []byte("hello"))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "ok:hello", readBody(t, resp))
	})

	t.Run("non 401 failures are returned unchanged", func(t *testing.T) {
		resp, err := client.Request(context.Background(), http.MethodGet, "/status/500", nil, nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		resp.Body.Close()
	})

	require.Zero(t, exchanger.calls.Load())
	require.Equal(t, credentials.Pair{AccessToken: "A1", RefreshToken: "R1"}, store.Pair())
	require.Equal(t, []string{"A1", "A1"}, api.seenTokens())
}

func TestClient_ConcurrentUnauthorizedShareOneExchange(t *testing.T) {
	// A1 has expired, R1 is valid and the exchange does not rotate it.
	api := newProtectedAPI(t, "A2")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{
		release: make(chan struct{}),
		renewal: session.Renewal{AccessToken: "A2"},
	}
	client := session.New(store, exchanger, session.WithBaseURL(api.URL))

	results := fire(t, client, 3)
	require.Equal(t, session.StateRenewing, client.State())
	close(exchanger.release)

	for _, r := range collect(t, results, 3) {
		require.NoError(t, r.err)
		require.Equal(t, "ok:", r.body)
	}
	require.EqualValues(t, 1, exchanger.calls.Load())
	require.Equal(t, []string{"R1"}, exchanger.received)
	require.Equal(t, credentials.Pair{AccessToken: "A2", RefreshToken: "R1"}, store.Pair())
	require.Equal(t, session.StateIdle, client.State())

	tokens := api.seenTokens()
	require.Len(t, tokens, 6)
	require.ElementsMatch(t, []string{"A1", "A1", "A1", "A2", "A2", "A2"}, tokens)
}

func TestClient_ManyConcurrentUnauthorized(t *testing.T) {
	const n = 25
	api := newProtectedAPI(t, "fresh")
	store := credentials.NewMemoryStore()
	store.SetCredentials("stale", "refresh")
	exchanger := &fakeExchanger{
		release: make(chan struct{}),
		renewal: session.Renewal{AccessToken: "fresh", RefreshToken: "refresh-2"},
	}
	client := session.New(store, exchanger, session.WithBaseURL(api.URL))

	results := fire(t, client, n)
	close(exchanger.release)
	for _, r := range collect(t, results, n) {
		require.NoError(t, r.err)
	}
	require.EqualValues(t, 1, exchanger.calls.Load())
	require.Equal(t, credentials.Pair{AccessToken: "fresh", RefreshToken: "refresh-2"}, store.Pair())
}

func TestClient_RenewalFailureEndsSessionOnce(t *testing.T) {
	api := newProtectedAPI(t)
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{
		release: make(chan struct{}),
		err:     &session.RejectedError{StatusCode: http.StatusUnauthorized, Message: "refresh token expired"},
	}
	ended := &endedCounter{}
	client := session.New(store, exchanger,
		session.WithBaseURL(api.URL),
		session.WithSessionEnded(ended.record),
	)

	results := fire(t, client, 5)
	close(exchanger.release)

	for _, r := range collect(t, results, 5) {
		require.ErrorIs(t, r.err, session.ErrRenewalFailed)
		require.ErrorIs(t, r.err, session.ErrAuthentication)
		require.ErrorIs(t, r.err, session.ErrExchangeRejected)
		var rejected *session.RejectedError
		require.ErrorAs(t, r.err, &rejected)
		require.Equal(t, http.StatusUnauthorized, rejected.StatusCode)
	}
	require.EqualValues(t, 1, exchanger.calls.Load())
	require.EqualValues(t, 1, ended.count.Load())
	require.ErrorIs(t, ended.lastErr(), session.ErrRenewalFailed)
	require.True(t, store.Pair().IsZero())

	t.Run("later requests fail fast without another signal", func(t *testing.T) {
		_, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
		require.ErrorIs(t, err, session.ErrUnauthenticated)
		require.EqualValues(t, 1, exchanger.calls.Load())
		require.EqualValues(t, 1, ended.count.Load())
	})
}

func TestClient_SessionEndedFiresBeforeCallersReturn(t *testing.T) {
	api := newProtectedAPI(t)
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{err: &session.RejectedError{StatusCode: http.StatusUnauthorized}}
	ended := &endedCounter{}
	client := session.New(store, exchanger,
		session.WithBaseURL(api.URL),
		session.WithSessionEnded(func(err error) {
			time.Sleep(20 * time.Millisecond)
			ended.record(err)
		}),
	)

	_, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	require.ErrorIs(t, err, session.ErrRenewalFailed)
	require.EqualValues(t, 1, ended.count.Load())
	require.ErrorIs(t, ended.lastErr(), session.ErrRenewalFailed)
}

func TestClient_UnauthenticatedFastPath(t *testing.T) {
	api := newProtectedAPI(t)
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "")
	exchanger := &fakeExchanger{}
	ended := &endedCounter{}
	client := session.New(store, exchanger,
		session.WithBaseURL(api.URL),
		session.WithSessionEnded(ended.record),
	)

	_, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	require.ErrorIs(t, err, session.ErrUnauthenticated)
	require.ErrorIs(t, err, session.ErrAuthentication)
	require.NotErrorIs(t, err, session.ErrRenewalFailed)
	require.Zero(t, exchanger.calls.Load())
	require.EqualValues(t, 1, ended.count.Load())
	require.True(t, store.Pair().IsZero())

	t.Run("no credentials at all", func(t *testing.T) {
		_, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
		require.ErrorIs(t, err, session.ErrUnauthenticated)
		require.Zero(t, exchanger.calls.Load())
		require.EqualValues(t, 1, ended.count.Load(), "an empty store is already ended")
		require.Equal(t, []string{"A1", ""}, api.seenTokens())
	})
}

func TestClient_RetryIsBoundedToOnce(t *testing.T) {
	api := newProtectedAPI(t)
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{renewal: session.Renewal{AccessToken: "A2"}}
	ended := &endedCounter{}
	client := session.New(store, exchanger,
		session.WithBaseURL(api.URL),
		session.WithSessionEnded(ended.record),
	)

	resp, err := client.Request(context.Background(), http.MethodGet, "/admin", nil, nil)
	require.Nil(t, resp)
	require.ErrorIs(t, err, session.ErrRetryExhausted)
	require.ErrorIs(t, err, session.ErrAuthentication)
	require.NotErrorIs(t, err, session.ErrRenewalFailed)

	require.EqualValues(t, 1, exchanger.calls.Load())
	require.Equal(t, []string{"A1", "A2"}, api.seenTokens())
	require.Zero(t, ended.count.Load())
	require.Equal(t, "A2", store.GetAccessToken())
}

func TestClient_ExchangeTransportErrorKeepsCredentials(t *testing.T) {
	api := newProtectedAPI(t)
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	cause := errors.New("dial tcp: connection refused")
	exchanger := &fakeExchanger{err: cause}
	ended := &endedCounter{}
	client := session.New(store, exchanger,
		session.WithBaseURL(api.URL),
		session.WithSessionEnded(ended.record),
	)

	_, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	var transportErr *session.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, session.OpExchange, transportErr.Op)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, session.ErrAuthentication)

	require.Equal(t, credentials.Pair{AccessToken: "A1", RefreshToken: "R1"}, store.Pair())
	require.Zero(t, ended.count.Load())
}

func TestClient_RequestTransportError(t *testing.T) {
	api := newProtectedAPI(t)
	url := api.URL
	api.Close()

	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{}
	client := session.New(store, exchanger, session.WithBaseURL(url))

	_, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	var transportErr *session.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, session.OpRequest, transportErr.Op)
	require.Zero(t, exchanger.calls.Load())
	require.Equal(t, credentials.Pair{AccessToken: "A1", RefreshToken: "R1"}, store.Pair())
}

func TestClient_RotatedRefreshTokenIsStored(t *testing.T) {
	api := newProtectedAPI(t, "A2")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{renewal: session.Renewal{AccessToken: "A2", RefreshToken: "R2"}}
	client := session.New(store, exchanger, session.WithBaseURL(api.URL))

	resp, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, credentials.Pair{AccessToken: "A2", RefreshToken: "R2"}, store.Pair())
}

func TestClient_StaleTokenRetriesWithoutExchange(t *testing.T) {
	api := newProtectedAPI(t, "A2")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")

	// Another renewal completes while the request carrying A1 is in flight.
	var once sync.Once
	api.onRequest = func(token string) {
		if token == "A1" {
			once.Do(func() { store.SetCredentials("A2", "R1") })
		}
	}
	exchanger := &fakeExchanger{}
	client := session.New(store, exchanger, session.WithBaseURL(api.URL))

	resp, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Zero(t, exchanger.calls.Load())
	require.Equal(t, []string{"A1", "A2"}, api.seenTokens())
}

func TestClient_CancelledWaiterDoesNotStopRenewal(t *testing.T) {
	api := newProtectedAPI(t, "A2")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{
		release: make(chan struct{}),
		renewal: session.Renewal{AccessToken: "A2"},
	}
	client := session.New(store, exchanger, session.WithBaseURL(api.URL))

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := client.Request(ctx, http.MethodGet, "/items", nil, nil)
		errs <- err
	}()
	require.Eventually(t, func() bool { return session.Waiters(client) == 1 }, 5*time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-errs, context.Canceled)
	require.Equal(t, session.StateRenewing, client.State())

	close(exchanger.release)
	require.Eventually(t, func() bool { return client.State() == session.StateIdle }, 5*time.Second, 5*time.Millisecond)
	require.Equal(t, "A2", store.GetAccessToken())
}

func TestClient_RenewalTimeout(t *testing.T) {
	api := newProtectedAPI(t)
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{release: make(chan struct{})}
	defer close(exchanger.release)
	client := session.New(store, exchanger,
		session.WithBaseURL(api.URL),
		session.WithRenewalTimeout(50*time.Millisecond),
	)

	_, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	var transportErr *session.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, session.OpExchange, transportErr.Op)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, credentials.Pair{AccessToken: "A1", RefreshToken: "R1"}, store.Pair())
}

func TestClient_BodyIsReplayedOnRetry(t *testing.T) {
	api := newProtectedAPI(t, "A2")
	newClient := func() (*session.Client, *credentials.MemoryStore) {
		store := credentials.NewMemoryStore()
		store.SetCredentials("A1", "R1")
		return session.New(store, &fakeExchanger{renewal: session.Renewal{AccessToken: "A2"}}), store
	}

	t.Run("rewindable body", func(t *testing.T) {
		client, _ := newClient()
		req, err := http.NewRequest(http.MethodPost, api.URL+"/echo", strings.NewReader(`{"title":"hello"}`))
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, `ok:{"title":"hello"}`, readBody(t, resp))
	})

	t.Run("one shot body", func(t *testing.T) {
		client, _ := newClient()
		req, err := http.NewRequest(http.MethodPut, api.URL+"/echo", io.NopCloser(strings.NewReader("payload")))
		require.NoError(t, err)
		require.Nil(t, req.GetBody)
		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, "ok:payload", readBody(t, resp))
	})
}

func TestClient_RequestIDSharedByRetry(t *testing.T) {
	api := newProtectedAPI(t, "A2")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	client := session.New(store, &fakeExchanger{renewal: session.Renewal{AccessToken: "A2"}},
		session.WithBaseURL(api.URL),
		session.WithRequestID(true),
	)

	resp, err := client.Request(context.Background(), http.MethodGet, "/items", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	ids := api.seenRequestIDs()
	require.Len(t, ids, 2)
	require.NotEmpty(t, ids[0])
	require.Equal(t, ids[0], ids[1])

	t.Run("caller supplied ID is kept", func(t *testing.T) {
		header := http.Header{"X-Request-Id": []string{"caller-id"}}
		resp, err := client.Request(context.Background(), http.MethodGet, "/items", header, nil)
		require.NoError(t, err)
		resp.Body.Close()
		ids := api.seenRequestIDs()
		require.Equal(t, "caller-id", ids[len(ids)-1])
	})
}

func TestClient_AsHTTPClientTransport(t *testing.T) {
	api := newProtectedAPI(t, "A2")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	client := session.New(store, &fakeExchanger{renewal: session.Renewal{AccessToken: "A2"}})

	resp, err := client.HTTPClient().Get(api.URL + "/items")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestClient_LoginAndLogout(t *testing.T) {
	store := credentials.NewMemoryStore()
	exchanger := &fakeExchanger{}
	client := session.New(store, exchanger)

	client.Login("A1", "R1")
	require.Equal(t, credentials.Pair{AccessToken: "A1", RefreshToken: "R1"}, store.Pair())

	require.NoError(t, client.Logout(context.Background()))
	require.True(t, store.Pair().IsZero())
	require.Equal(t, []credentials.Pair{{AccessToken: "A1", RefreshToken: "R1"}}, exchanger.revoked)

	t.Run("logout without a session does not call the server", func(t *testing.T) {
		require.NoError(t, client.Logout(context.Background()))
		require.Len(t, exchanger.revoked, 1)
	})
}

func TestClient_LogoutDuringRenewalDiscardsResult(t *testing.T) {
	api := newProtectedAPI(t, "A2")
	store := credentials.NewMemoryStore()
	store.SetCredentials("A1", "R1")
	exchanger := &fakeExchanger{
		release: make(chan struct{}),
		renewal: session.Renewal{AccessToken: "A2", RefreshToken: "R2"},
	}
	client := session.New(store, exchanger, session.WithBaseURL(api.URL))

	results := fire(t, client, 1)
	require.NoError(t, client.Logout(context.Background()))
	close(exchanger.release)

	r := collect(t, results, 1)[0]
	require.ErrorIs(t, r.err, session.ErrUnauthenticated)
	require.True(t, store.Pair().IsZero())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "IDLE", session.StateIdle.String())
	require.Equal(t, "RENEWING", session.StateRenewing.String())
}
