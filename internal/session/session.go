// Package session owns the authenticated user and access token.
//
// A Session is created once by the composition root and injected wherever
// credentials are needed; there is no package-level state. It implements
// api.TokenStore so the REST client reads and refreshes tokens through it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/pkg/logger"
)

// ErrNoAuthenticator is returned when no backend was bound.
var ErrNoAuthenticator = errors.New("session: no authenticator bound")

// Authenticator performs the auth calls. *api.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Refresh(ctx context.Context) (api.AuthResponse, error)
	Logout(ctx context.Context) error
}

// Session holds credentials. It is safe for concurrent use.
type Session struct {
	clock  clockwork.Clock
	logger logger.Logger

	mu     sync.RWMutex
	auth   Authenticator
	user   model.User
	token  string
	expiry time.Time
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithClock sets the clock used for expiry checks.
func WithClock(c clockwork.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an anonymous session.
func New(opts ...Option) *Session {
	s := &Session{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("session")
	}
	return s
}

// Bind attaches the backend used by Init, Login and Teardown.
func (s *Session) Bind(a Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = a
}

func (s *Session) authenticator() (Authenticator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth == nil {
		return nil, ErrNoAuthenticator
	}
	return s.auth, nil
}

// Init restores a previous session through the refresh cookie. Failing to
// restore is normal for a first visit and leaves the session anonymous.
func (s *Session) Init(ctx context.Context) error {
	a, err := s.authenticator()
	if err != nil {
		return err
	}
	res, err := a.Refresh(ctx)
	if err != nil {
		s.logger.Debug(ctx, "no session to restore", logger.Error(err))
		s.Clear()
		return nil
	}
	s.SetCredentials(res.User, res.AccessToken)
	s.logger.Info(ctx, "session restored", logger.String("user", res.User.ID))
	return nil
}

// Login authenticates and stores the credentials.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	a, err := s.authenticator()
	if err != nil {
		return model.User{}, err
	}
	res, err := a.Login(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	s.SetCredentials(res.User, res.AccessToken)
	return res.User, nil
}

// Teardown logs out on the server, best-effort, and clears local state.
func (s *Session) Teardown(ctx context.Context) error {
	var err error
	if a, aerr := s.authenticator(); aerr == nil && s.IsAuthenticated() {
		if err = a.Logout(ctx); err != nil {
			s.logger.Warn(ctx, "server logout failed", logger.Error(err))
		}
	}
	s.Clear()
	return err
}

// AccessToken implements api.TokenStore.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetCredentials implements api.TokenStore. The token's exp claim is read
// without verifying the signature; only the backend can verify it.
func (s *Session) SetCredentials(user model.User, token string) {
	exp := expiryOf(token)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.expiry = exp
}

// Clear implements api.TokenStore.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = model.User{}
	s.token = ""
	s.expiry = time.Time{}
}

// User returns the signed-in user and whether there is one.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// IsAuthenticated reports whether an access token is held.
func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// Expiry returns the token's exp claim, zero when absent or unparsable.
func (s *Session) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// Expired reports whether the held token's exp claim has passed.
func (s *Session) Expired() bool {
	exp := s.Expiry()
	return !exp.IsZero() && !s.clock.Now().Before(exp)
}

func expiryOf(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
