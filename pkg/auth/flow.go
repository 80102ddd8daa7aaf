package auth

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shoppro/shoppro/pkg/client"
	"github.com/shoppro/shoppro/pkg/domain"
	"github.com/shoppro/shoppro/pkg/session"
)

// Default failure messages, used when the server sent none.
const (
	LoginFailedMessage    = "Login failed. Please check your credentials."
	RegisterFailedMessage = "Registration failed. Please try again."
)

// API is the part of the client the flow calls. *client.Client implements it.
type API interface {
	Login(ctx context.Context, email, password string) (*domain.AuthTokens, error)
	Register(ctx context.Context, email, password string) (*domain.AuthTokens, error)
	Logout(ctx context.Context) error
}

// Result is the outcome of Login or Register.
type Result struct {
	Success bool
	Error   string
}

// Flow drives session transitions.
type Flow struct {
	api   API
	store *session.Store
	log   zerolog.Logger
}

// NewFlow creates a Flow.
func NewFlow(api API, store *session.Store, log zerolog.Logger) *Flow {
	return &Flow{api: api, store: store, log: log}
}

// Login signs in to the selected store. On failure the session is unchanged.
func (f *Flow) Login(ctx context.Context, email, password string) Result {
	tokens, err := f.api.Login(ctx, email, password)
	if err != nil {
		f.log.Info().Err(err).Msg("login failed")
		return Result{Error: client.Message(err, LoginFailedMessage)}
	}
	return f.establish(tokens, LoginFailedMessage)
}

// Register creates an account in the selected store and signs in.
func (f *Flow) Register(ctx context.Context, email, password string) Result {
	tokens, err := f.api.Register(ctx, email, password)
	if err != nil {
		f.log.Info().Err(err).Msg("registration failed")
		return Result{Error: client.Message(err, RegisterFailedMessage)}
	}
	return f.establish(tokens, RegisterFailedMessage)
}

func (f *Flow) establish(tokens *domain.AuthTokens, fallback string) Result {
	if tokens == nil || tokens.AccessToken == "" {
		f.log.Warn().Msg("auth response has no access token")
		return Result{Error: fallback}
	}
	if err := f.store.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		f.log.Error().Err(err).Msg("persist tokens")
		return Result{Error: fallback}
	}
	f.setIdentity(tokens.AccessToken)
	return Result{Success: true}
}

// Logout ends the session. The server call is best effort; local credentials
// are cleared regardless of its outcome.
func (f *Flow) Logout(ctx context.Context) {
	if err := f.api.Logout(ctx); err != nil {
		f.log.Warn().Err(err).Msg("logout request failed")
	}
	if err := f.store.Clear(); err != nil {
		f.log.Error().Err(err).Msg("clear session")
	}
}

// SelectTenant records slug as the active store. No request is made.
func (f *Flow) SelectTenant(slug string) error {
	return f.store.SetTenant(slug)
}

// Restore decodes the identity of a persisted access token, if any.
func (f *Flow) Restore() {
	snap := f.store.Get()
	if snap.AccessToken == "" || snap.User != nil {
		return
	}
	f.setIdentity(snap.AccessToken)
}

func (f *Flow) setIdentity(token string) {
	id, err := identityFor(token)
	if err != nil {
		f.log.Debug().Err(err).Msg("access token claims unreadable, using placeholder identity")
	}
	f.store.SetUser(id)
}
