// Package session keeps the signed-in session of the client and notifies
// subscribers whenever it changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// Backend is the authentication provider the store talks to.
type Backend interface {
	SignUp(ctx context.Context, email, password string) (model.Session, error)
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
}

// Persister remembers the refresh token between runs.
type Persister interface {
	Load() (string, error)
	Save(refreshToken string) error
	Clear() error
}

var _ model.SessionStore = (*Store)(nil)

// Store implements model.SessionStore over a Backend. Until Start has
// settled the initial session, subscribers are registered but not called.
type Store struct {
	backend Backend
	persist Persister
	logger  *logger.Logger

	// notifyMu orders session changes with their notifications.
	notifyMu sync.Mutex
	// refreshMu serializes refreshes; refresh tokens are single use.
	refreshMu sync.Mutex

	mu        sync.Mutex
	current   *model.Session
	settled   bool
	listeners map[int]func(*model.Session)
	nextID    int
}

// New creates a Store. persist may be nil to keep sessions in memory only.
func New(backend Backend, persist Persister, logger *logger.Logger) *Store {
	return &Store{
		backend:   backend,
		persist:   persist,
		logger:    logger,
		listeners: make(map[int]func(*model.Session)),
	}
}

// Start restores a remembered session, if any, and settles the initial state.
// Subscribers learn the outcome once, whether or not a session was restored.
func (s *Store) Start(ctx context.Context) {
	var restored *model.Session

	if s.persist != nil {
		refreshToken, err := s.persist.Load()
		if err != nil {
			s.logger.Warn("Session store: failed to load saved session",
				"error", err.Error())
		}
		if refreshToken != "" {
			session, err := s.backend.Refresh(ctx, refreshToken)
			if err != nil {
				s.logger.Info("Session store: saved session rejected",
					"error", err.Error())
				s.forget()
			} else {
				restored = &session
				s.remember(session)
			}
		}
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.settled {
		s.mu.Unlock()
		return
	}
	s.current = restored
	s.settled = true
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	dispatch(listeners, restored)
}

// SignIn verifies credentials with the backend and opens a session.
func (s *Store) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	session, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}

	s.logger.Debug("Session store: signed in",
		"user_id", session.UserID)

	s.remember(session)
	s.set(&session)
	return session, nil
}

// SignUp creates an account and opens its first session.
func (s *Store) SignUp(ctx context.Context, email, password string) (model.Session, error) {
	session, err := s.backend.SignUp(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}

	s.logger.Debug("Session store: signed up",
		"user_id", session.UserID)

	s.remember(session)
	s.set(&session)
	return session, nil
}

// SignOut ends the session locally and revokes it with the backend. A
// failed revocation is logged and does not keep the session open.
func (s *Store) SignOut(ctx context.Context) error {
	current := s.Current()
	if current == nil {
		return nil
	}

	if err := s.backend.SignOut(ctx, current.RefreshToken); err != nil {
		s.logger.Warn("Session store: failed to revoke session",
			"user_id", current.UserID,
			"error", err.Error())
	}

	s.forget()
	s.set(nil)
	return nil
}

// Refresh renews the tokens of the current session. If the backend rejects
// the refresh token the session ends.
func (s *Store) Refresh(ctx context.Context) (model.Session, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	return s.refresh(ctx)
}

// Renew refreshes the session unless its access token already differs from
// stale, in which case the current session is returned. Callers that saw
// stale rejected share a single refresh.
func (s *Store) Renew(ctx context.Context, stale string) (model.Session, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if current := s.Current(); current != nil && current.AccessToken != stale {
		return *current, nil
	}
	return s.refresh(ctx)
}

func (s *Store) refresh(ctx context.Context) (model.Session, error) {
	current := s.Current()
	if current == nil {
		return model.Session{}, model.ErrNoSession
	}

	session, err := s.backend.Refresh(ctx, current.RefreshToken)
	if err != nil {
		var authErr *model.AuthError
		if errors.As(err, &authErr) {
			s.logger.Info("Session store: session expired",
				"user_id", current.UserID,
				"code", authErr.Code)
			s.forget()
			s.set(nil)
		}
		return model.Session{}, fmt.Errorf("failed to refresh session: %w", err)
	}

	s.remember(session)
	s.set(&session)
	return session, nil
}

// Current returns a copy of the active session, or nil.
func (s *Store) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// AccessToken returns the bearer token of the active session.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// Subscribe registers listener for session changes. If the initial state is
// already settled, listener is called with it before Subscribe returns.
// Listeners run in order of the changes and must not sign in or out
// synchronously.
func (s *Store) Subscribe(listener func(*model.Session)) model.Unsubscribe {
	s.notifyMu.Lock()
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	settled := s.settled
	current := copySession(s.current)
	s.mu.Unlock()

	if settled {
		listener(current)
	}
	s.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) set(session *model.Session) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.current = copySession(session)
	s.settled = true
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	dispatch(listeners, session)
}

// snapshotListeners must be called with mu held.
func (s *Store) snapshotListeners() []func(*model.Session) {
	out := make([]func(*model.Session), 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) remember(session model.Session) {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(session.RefreshToken); err != nil {
		s.logger.Warn("Session store: failed to save session",
			"error", err.Error())
	}
}

func (s *Store) forget() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Clear(); err != nil {
		s.logger.Warn("Session store: failed to clear saved session",
			"error", err.Error())
	}
}

func dispatch(listeners []func(*model.Session), session *model.Session) {
	for _, l := range listeners {
		l(copySession(session))
	}
}

func copySession(session *model.Session) *model.Session {
	if session == nil {
		return nil
	}
	c := *session
	return &c
}
