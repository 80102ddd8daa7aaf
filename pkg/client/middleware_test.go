package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoppro/shoppro/pkg/domain"
	"github.com/shoppro/shoppro/pkg/session"
)

// authServer answers /auth/refresh with refreshStatus and every other path
// with 200 only when the bearer token equals valid.
type authServer struct {
	valid         string
	refreshStatus int
	refreshCalls  atomic.Int32
	calls         atomic.Int32

	mu     sync.Mutex
	bodies []string
}

func (a *authServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/auth/refresh" {
		a.refreshCalls.Add(1)
		if a.refreshStatus != http.StatusOK {
			w.WriteHeader(a.refreshStatus)
			json.NewEncoder(w).Encode(map[string]string{"message": "refresh token revoked"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.AuthTokens{AccessToken: a.valid, RefreshToken: "r2"}) //nolint:errcheck
		return
	}
	a.calls.Add(1)
	body, _ := io.ReadAll(r.Body)
	a.mu.Lock()
	a.bodies = append(a.bodies, string(body))
	a.mu.Unlock()
	if r.Header.Get(HeaderAuthorization) != "Bearer "+a.valid {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"}) //nolint:errcheck
		return
	}
	json.NewEncoder(w).Encode(domain.Cart{ID: "c1"}) //nolint:errcheck
}

func newStore(t *testing.T, access, refresh, tenant string) *session.Store {
	t.Helper()
	s := session.NewMemoryStore()
	require.NoError(t, s.SetTokens(access, refresh))
	require.NoError(t, s.SetTenant(tenant))
	return s
}

func TestRefreshAndReplay(t *testing.T) {
	as := &authServer{valid: "fresh", refreshStatus: http.StatusOK}
	srv := httptest.NewServer(as)
	defer srv.Close()

	store := newStore(t, "stale", "r1", "acme")
	c := New(srv.URL, store)

	cart, err := c.GetCart(context.Background())
	require.NoError(t, err)
	require.Equal(t, "c1", cart.ID)
	require.EqualValues(t, 1, as.refreshCalls.Load())
	require.EqualValues(t, 2, as.calls.Load())

	snap := store.Get()
	require.Equal(t, "fresh", snap.AccessToken)
	require.Equal(t, "r2", snap.RefreshToken)
	require.Equal(t, "acme", snap.TenantSlug)
}

func TestReplayRebuildsBody(t *testing.T) {
	as := &authServer{valid: "fresh", refreshStatus: http.StatusOK}
	srv := httptest.NewServer(as)
	defer srv.Close()

	c := New(srv.URL, newStore(t, "stale", "r1", "acme"))
	_, err := c.CreateTenant(context.Background(), "Shop")
	require.NoError(t, err)
	as.mu.Lock()
	defer as.mu.Unlock()
	require.Len(t, as.bodies, 2)
	require.Equal(t, as.bodies[0], as.bodies[1])
	require.JSONEq(t, `{"name":"Shop"}`, as.bodies[1])
}

func TestSecond401IsNotRefreshedAgain(t *testing.T) {
	// refresh succeeds but the server keeps rejecting the new token
	var as authServer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			as.refreshCalls.Add(1)
			json.NewEncoder(w).Encode(domain.AuthTokens{AccessToken: "still-bad"}) //nolint:errcheck
			return
		}
		as.calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := newStore(t, "stale", "r1", "acme")
	c := New(srv.URL, store)

	_, err := c.GetCart(context.Background())
	require.Error(t, err)
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.False(t, errors.Is(err, ErrSessionExpired))
	require.EqualValues(t, 1, as.refreshCalls.Load())
	require.EqualValues(t, 2, as.calls.Load())
	require.Equal(t, "still-bad", store.Get().AccessToken)
	require.Equal(t, "r1", store.Get().RefreshToken, "empty refresh token in response keeps the old one")
}

func TestRefreshFailureExpiresSession(t *testing.T) {
	as := &authServer{valid: "fresh", refreshStatus: http.StatusUnauthorized}
	srv := httptest.NewServer(as)
	defer srv.Close()

	storage := session.NewMemoryStorage()
	store, err := session.Open(storage)
	require.NoError(t, err)
	require.NoError(t, store.SetTokens("stale", "r1"))
	require.NoError(t, store.SetTenant("acme"))

	var expired atomic.Int32
	c := New(srv.URL, store, WithSessionExpired(func() { expired.Add(1) }))

	_, err = c.GetCart(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, SessionExpiredMessage, Message(err, "fallback"))
	require.EqualValues(t, 1, expired.Load())
	require.EqualValues(t, 1, as.calls.Load(), "request is not replayed after a failed refresh")

	require.Equal(t, session.Session{}, store.Get())
	for _, key := range []string{session.KeyAccessToken, session.KeyRefreshToken, session.KeyTenantSlug} {
		_, ok, err := storage.Get(key)
		require.NoError(t, err)
		require.False(t, ok, "%s should be removed", key)
	}
}

func TestNoRefreshTokenPropagates401(t *testing.T) {
	as := &authServer{valid: "fresh", refreshStatus: http.StatusOK}
	srv := httptest.NewServer(as)
	defer srv.Close()

	store := newStore(t, "stale", "", "acme")
	var expired bool
	c := New(srv.URL, store, WithSessionExpired(func() { expired = true }))

	_, err := c.GetCart(context.Background())
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, "Unauthorized", Message(err, "fallback"))
	require.Zero(t, as.refreshCalls.Load())
	require.False(t, expired)
	require.Equal(t, "stale", store.Get().AccessToken, "session is left alone")
}

func TestNon401PassesThrough(t *testing.T) {
	var refreshed bool
	mw := WithRefresh(RefreshConfig{
		Store: newStore(t, "a", "r", "t"),
		Refresher: RefresherFunc(func(context.Context, string) (*domain.AuthTokens, error) {
			refreshed = true
			return nil, errors.New("unexpected")
		}),
	})
	d := mw(DoerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(strings.NewReader(""))}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/cart", nil)
	resp, err := d.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.False(t, refreshed)
}

func TestRefreshWithEmptyAccessTokenExpires(t *testing.T) {
	store := newStore(t, "a", "r", "t")
	var expired bool
	mw := WithRefresh(RefreshConfig{
		Store: store,
		Refresher: RefresherFunc(func(context.Context, string) (*domain.AuthTokens, error) {
			return &domain.AuthTokens{}, nil
		}),
		OnSessionExpired: func() { expired = true },
	})
	d := mw(DoerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusUnauthorized, Body: io.NopCloser(strings.NewReader(""))}, nil
	}))

	_, err := d.Do(httptest.NewRequest(http.MethodGet, "http://example.test/cart", nil))
	require.ErrorIs(t, err, ErrSessionExpired)
	require.True(t, expired)
	require.False(t, store.IsAuthenticated())
}

func TestCredentialsDoNotMutateRequest(t *testing.T) {
	var seen string
	d := WithCredentials(newStore(t, "tok", "", "acme"))(DoerFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header.Get(HeaderAuthorization)
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/cart", nil)
	_, err := d.Do(req)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok", seen)
	require.Empty(t, req.Header.Get(HeaderAuthorization))
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Doer) Doer {
			return DoerFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.Do(r)
			})
		}
	}
	base := DoerFunc(func(*http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	_, err := Chain(base, tag("outer"), tag("inner")).Do(httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
	require.NoError(t, err)
	require.Equal(t, []string{"outer", "inner", "base"}, order)
}
