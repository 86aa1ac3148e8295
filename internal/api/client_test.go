package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"jobtrack/internal/netcheck"
)

// ---- fakes ----

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) Get() (string, error) { return f.token, f.err }

// flipChecker reports online for the first n calls, offline afterwards.
type flipChecker struct {
	calls  int32
	online int32
}

func (f *flipChecker) Online(context.Context) bool {
	n := atomic.AddInt32(&f.calls, 1)
	return n <= f.online
}

func newTestClient(t *testing.T, srvURL string, tokens TokenSource, checker netcheck.Checker) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: srvURL + "/", Tokens: tokens, Net: checker})
	require.NoError(t, err)
	return c
}

// ---- tests ----

func TestOfflineShortCircuitsBeforeTransport(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, netcheck.Static(false))

	_, err := c.Get(context.Background(), "auth/myProfile")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindNoConnectivity, apiErr.Kind)
	require.Equal(t, "No internet connection", apiErr.Message)
	require.True(t, apiErr.IsNetworkError)
	require.Zero(t, apiErr.Status)
	require.Zero(t, atomic.LoadInt32(&hits), "transport must not be invoked while offline")
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotCT, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{token: "tok-1"}, netcheck.Static(true))

	payload, err := c.Post(context.Background(), "auth/myProfile", map[string]string{"a": "b"})
	require.NoError(t, err)
	require.Equal(t, true, payload["ok"])
	require.Equal(t, "Bearer tok-1", gotAuth)
	require.Equal(t, "application/json", gotCT)
	require.NotEmpty(t, gotReqID)
}

func TestTokenReadFailureSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{err: errors.New("keychain locked")}, netcheck.Static(true))

	_, err := c.Get(context.Background(), "auth/login")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestNoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{}, netcheck.Static(true))

	_, err := c.Get(context.Background(), "auth/register")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestServerErrorUsesMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, netcheck.Static(true))

	_, err := c.Post(context.Background(), "auth/login", map[string]string{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindServer, apiErr.Kind)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Equal(t, 401, apiErr.Status)
	require.False(t, apiErr.IsNetworkError)
}

func TestServerErrorFallsBackToErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"email already registered"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, netcheck.Static(true))

	_, err := c.Post(context.Background(), "auth/register", map[string]string{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "email already registered", apiErr.Message)
	require.Equal(t, 409, apiErr.Status)
}

func TestServerErrorGenericFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>boom</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, netcheck.Static(true))

	_, err := c.Get(context.Background(), "jobs")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Server error", apiErr.Message)
	require.Equal(t, 500, apiErr.Status)
}

func TestUnreachableWhenConnectionIsLive(t *testing.T) {
	// reserve a port with nothing behind it
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadURL := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	c := newTestClient(t, deadURL, nil, netcheck.Static(true))

	_, err = c.Get(context.Background(), "auth/myProfile")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindUnreachable, apiErr.Kind)
	require.Equal(t, "Server not reachable", apiErr.Message)
	require.False(t, apiErr.IsNetworkError)
	require.Zero(t, apiErr.Status)
}

func TestSendFailureReclassifiedWhenConnectionDied(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadURL := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	// online at pre-flight, offline at the secondary check
	c := newTestClient(t, deadURL, nil, &flipChecker{online: 1})

	_, err = c.Get(context.Background(), "auth/myProfile")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindNoConnectivity, apiErr.Kind)
	require.True(t, apiErr.IsNetworkError)
}

func TestClientSetupError(t *testing.T) {
	c, err := New(Config{BaseURL: "http://127.0.0.1:1/", Net: netcheck.Static(true)})
	require.NoError(t, err)

	// a channel cannot be marshaled to JSON
	_, err = c.Post(context.Background(), "auth/login", map[string]any{"ch": make(chan int)})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindClientSetup, apiErr.Kind)
	require.False(t, apiErr.IsNetworkError)
}

func TestEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, netcheck.Static(true))

	payload, err := c.Post(context.Background(), "users/logout", nil)
	require.NoError(t, err)
	require.Empty(t, payload)
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not-a-url"})
	require.Error(t, err)
}
