// Package session holds the signed-in state: the bearer token, which is
// persisted, and the user profile, which is refetched after a restart.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// State is the coarse session state
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// Session owns the credential and the current user.
// user is only ever non-nil while token is non-empty.
type Session struct {
	repo   domain.AuthRepository
	store  domain.TokenStore
	logger *slog.Logger

	mu    sync.RWMutex
	token string
	user  *domain.User
}

// New rehydrates a session from store. The user starts nil until CheckAuth.
func New(repo domain.AuthRepository, store domain.TokenStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{repo: repo, store: store, logger: logger}

	token, err := store.Token()
	if err != nil {
		logger.Warn("failed to read stored token", "error", err)
	}
	s.token = token
	return s
}

// Token returns the current bearer token, "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current profile, nil when unknown
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports token presence. It does not validate the token.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// State returns LoggedIn while a token is held
func (s *Session) State() State {
	if s.IsAuthenticated() {
		return LoggedIn
	}
	return LoggedOut
}

// Login authenticates against the backend. On failure nothing changes and
// the error is returned to the caller.
func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.repo.Login(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", "error", err)
		return err
	}

	user := res.User
	s.mu.Lock()
	// Persist first so a storage failure leaves memory untouched too
	if err := s.store.SaveToken(res.Token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.token = res.Token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("logged in", "user_id", user.ID)
	return nil
}

// Logout notifies the backend best-effort and always clears local state.
// It never fails: a network or storage error is logged and swallowed.
func (s *Session) Logout(ctx context.Context) {
	token := s.Token()

	if token != "" {
		if err := s.repo.Logout(ctx, token); err != nil {
			s.logger.Warn("logout API error", "error", err)
		}
	}

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
}

// clearLocked drops the token from memory and the store. Caller holds mu.
func (s *Session) clearLocked() {
	s.token = ""
	s.user = nil

	if err := s.store.ClearToken(); err != nil {
		s.logger.Error("failed to clear stored token", "error", err)
	}
	s.logger.Info("logged out")
}

// CheckAuth refreshes the user profile when a token is held. Any failure
// is treated as an invalid token and logs the session out.
func (s *Session) CheckAuth(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}

	user, err := s.repo.CurrentUser(ctx, token)
	if err != nil {
		s.expire(ctx, token, err)
		return
	}

	s.mu.Lock()
	// A logout or re-login may have landed while the request was in flight
	if s.token == token {
		s.user = user
	}
	s.mu.Unlock()
}

// expire logs out the session that held token. A session that has since
// logged out or logged in again is left alone.
func (s *Session) expire(ctx context.Context, token string, cause error) {
	if s.Token() != token {
		s.logger.Debug("ignoring failed check for a replaced token", "error", cause)
		return
	}

	s.logger.Warn("session check failed, logging out", "error", cause)
	if err := s.repo.Logout(ctx, token); err != nil {
		s.logger.Warn("logout API error", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == token {
		s.clearLocked()
	}
}
