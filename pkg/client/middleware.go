package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoppro/shoppro/pkg/domain"
	"github.com/shoppro/shoppro/pkg/session"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a Doer.
type Middleware func(next Doer) Doer

// Chain wraps base with mws. The first middleware is the outermost.
func Chain(base Doer, mws ...Middleware) Doer {
	d := base
	for i := len(mws) - 1; i >= 0; i-- {
		d = mws[i](d)
	}
	return d
}

// CredentialSource exposes the current session.
type CredentialSource interface {
	Get() session.Session
}

// SessionStore is the part of *session.Store the client needs.
type SessionStore interface {
	CredentialSource
	SetTokens(access, refresh string) error
	Clear() error
}

// WithCredentials attaches the bearer token and the tenant header from the
// session, read fresh for every request. The caller's request is not modified.
func WithCredentials(src CredentialSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			snap := src.Get()
			out := req.Clone(req.Context())
			if snap.AccessToken != "" {
				out.Header.Set(HeaderAuthorization, "Bearer "+snap.AccessToken)
			}
			if snap.TenantSlug != "" {
				out.Header.Set(HeaderTenantSlug, snap.TenantSlug)
			}
			return next.Do(out)
		})
	}
}

// WithLogging logs every dispatched request at debug level.
func WithLogging(log zerolog.Logger) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.Do(req)
			ev := log.Debug().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Dur("took", time.Since(start)).
				Bool("retry", isRetried(req.Context()))
			if err != nil {
				ev.Err(err).Msg("request failed")
				return resp, err
			}
			ev.Int("status", resp.StatusCode).Msg("request")
			return resp, nil
		})
	}
}

type retriedKey struct{}

// markRetried flags ctx as belonging to a request that already had its one refresh.
func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey{}).(bool)
	return v
}

// Refresher exchanges a refresh token for new tokens.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthTokens, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*domain.AuthTokens, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*domain.AuthTokens, error) {
	return f(ctx, refreshToken)
}

// RefreshConfig configures WithRefresh.
type RefreshConfig struct {
	Store     SessionStore
	Refresher Refresher
	// OnSessionExpired runs after a failed refresh cleared the session.
	OnSessionExpired func()
	Logger           zerolog.Logger
}

// WithRefresh recovers from an expired access token. A 401 response to a
// request that has not been retried triggers one refresh; the new tokens are
// persisted and the request is replayed through next, so the credentials
// stage must sit downstream. The replay's response is returned as is, even
// when it is another 401.
//
// Without a refresh token the original 401 is returned. When the refresh
// itself fails the session is cleared, OnSessionExpired runs, and the error
// wraps ErrSessionExpired.
func WithRefresh(cfg RefreshConfig) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized || isRetried(req.Context()) {
				return resp, err
			}
			refreshToken := cfg.Store.Get().RefreshToken
			if refreshToken == "" {
				return resp, nil
			}
			if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
				// body already consumed and cannot be rebuilt
				return resp, nil
			}
			drain(resp)

			ctx := markRetried(req.Context())
			log := cfg.Logger.With().Str("path", req.URL.Path).Logger()
			log.Info().Msg("access token rejected, refreshing")

			tokens, err := cfg.Refresher.Refresh(ctx, refreshToken)
			if err == nil && (tokens == nil || tokens.AccessToken == "") {
				err = errors.New("refresh response has no access token")
			}
			if err != nil {
				log.Warn().Err(err).Msg("token refresh failed, clearing session")
				if clearErr := cfg.Store.Clear(); clearErr != nil {
					log.Error().Err(clearErr).Msg("clear session")
				}
				if cfg.OnSessionExpired != nil {
					cfg.OnSessionExpired()
				}
				return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
			}
			if err := cfg.Store.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
				return nil, fmt.Errorf("persist refreshed tokens: %w", err)
			}

			replay := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("rebuild request body: %w", err)
				}
				replay.Body = body
			}
			replay.Header.Del(HeaderAuthorization)
			return next.Do(replay)
		})
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16)) //nolint:errcheck // best-effort drain for connection reuse
	resp.Body.Close()                                     //nolint:errcheck // best-effort close
}
