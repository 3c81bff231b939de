// Package store holds the two client-side state containers the storefront
// keeps per signed-in session: the auth session and the user's collections
// (favorites, cart, search history). Both are explicit objects created and
// owned by the session registry; there is no package-level mutable state.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jdgroup-ug/storefront/clients/platform"
	"github.com/jdgroup-ug/storefront/logger"
	"github.com/jdgroup-ug/storefront/models"
)

// refreshMargin is how long before access-token expiry the auto-refresh
// fires.
const refreshMargin = 30 * time.Second

// AuthClient is the slice of the platform client the auth container needs.
type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthStore holds the current session and user for one storefront session.
// All state transitions go through handleEvent, which processes one
// session-change notification at a time.
type AuthStore struct {
	client AuthClient

	mu      sync.RWMutex
	session *models.Session
	user    *models.User
	loading bool

	onChange []func(*models.User)

	events chan platform.AuthEvent
	done   chan struct{}
	timer  *time.Timer
	once   sync.Once
}

// NewAuthStore builds the container, restoring the persisted session if one
// is given. A persisted session that cannot be restored (expired and the
// refresh grant fails) is treated as "no session", never as an error.
func NewAuthStore(ctx context.Context, client AuthClient, persisted *models.Session) *AuthStore {
	s := &AuthStore{
		client:  client,
		loading: true,
		events:  make(chan platform.AuthEvent, 8),
		done:    make(chan struct{}),
	}
	go s.run()

	if persisted != nil {
		if persisted.Expired() {
			refreshed, err := client.RefreshSession(ctx, persisted.RefreshToken)
			if err != nil {
				logger.Log.Warn("persisted session refresh failed", zap.Error(err))
			} else {
				s.handleEvent(ctx, platform.AuthEvent{Kind: platform.SignedIn, Session: refreshed})
			}
		} else if user, err := client.GetUser(ctx, persisted.AccessToken); err != nil {
			// The persisted token looked live but the platform rejected
			// it (revoked, or the clock drifted). Fall back to the
			// refresh grant before giving up on the session.
			logger.Log.Warn("persisted session rejected", zap.Error(err))
			refreshed, rerr := client.RefreshSession(ctx, persisted.RefreshToken)
			if rerr != nil {
				logger.Log.Warn("persisted session refresh failed", zap.Error(rerr))
			} else {
				s.handleEvent(ctx, platform.AuthEvent{Kind: platform.SignedIn, Session: refreshed})
			}
		} else {
			// Pick up profile changes made since the session was persisted.
			if user != nil {
				persisted.User = user
			}
			s.handleEvent(ctx, platform.AuthEvent{Kind: platform.SignedIn, Session: persisted})
		}
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	return s
}

// run consumes asynchronous session-change events (currently only the
// auto-refresh timer) for the lifetime of the store.
func (s *AuthStore) run() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(context.Background(), ev)
		case <-s.done:
			return
		}
	}
}

// Close stops the event loop and the refresh timer.
func (s *AuthStore) Close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()
	})
}

// SignIn performs the password grant and applies the resulting session.
func (s *AuthStore) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	sess, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		logger.Error(ctx, "sign in failed", err, zap.String("email", email))
		return nil, err
	}
	s.handleEvent(ctx, platform.AuthEvent{Kind: platform.SignedIn, Session: sess})
	return sess, nil
}

// SignOut revokes the session on the platform. A revocation failure is
// returned to the caller; local state is cleared by the event handler only
// on the normal path.
func (s *AuthStore) SignOut(ctx context.Context) error {
	sess := s.Session()
	if sess == nil {
		return nil
	}
	if err := s.client.SignOut(ctx, sess.AccessToken); err != nil {
		logger.Error(ctx, "sign out failed", err)
		return err
	}
	s.handleEvent(ctx, platform.AuthEvent{Kind: platform.SignedOut})
	return nil
}

// Refresh forces a refreshed-session fetch, as if the auto-refresh timer
// had fired. Returns the session that results.
func (s *AuthStore) Refresh(ctx context.Context) *models.Session {
	s.handleEvent(ctx, platform.AuthEvent{Kind: platform.TokenRefreshed})
	return s.Session()
}

// Session returns the current session, or nil when signed out.
func (s *AuthStore) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// User returns the current user, or nil when signed out.
func (s *AuthStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether initialization is still in progress.
func (s *AuthStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// OnChange registers a callback fired after every applied session change
// with the new user (nil on sign-out). Callbacks run outside the state
// lock.
func (s *AuthStore) OnChange(fn func(*models.User)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// handleEvent applies one session-change notification. The mutex ensures
// only one notification is processed at a time.
func (s *AuthStore) handleEvent(ctx context.Context, ev platform.AuthEvent) {
	var applied *models.User

	s.mu.Lock()
	switch ev.Kind {
	case platform.SignedIn, platform.UserUpdated:
		s.session = ev.Session
		s.user = nil
		if ev.Session != nil {
			s.user = ev.Session.User
		}
		s.scheduleRefreshLocked()

	case platform.SignedOut:
		s.session = nil
		s.user = nil
		if s.timer != nil {
			s.timer.Stop()
		}

	case platform.TokenRefreshed:
		// Never trust the event payload: fetch the refreshed session.
		refreshToken := ""
		if s.session != nil {
			refreshToken = s.session.RefreshToken
		}
		s.mu.Unlock()

		var refreshed *models.Session
		var err error
		if refreshToken != "" {
			refreshed, err = s.client.RefreshSession(ctx, refreshToken)
		}

		s.mu.Lock()
		if err != nil || refreshed == nil {
			if err != nil {
				logger.Error(ctx, "session refresh failed", err)
			}
			s.session = nil
			s.user = nil
			if s.timer != nil {
				s.timer.Stop()
			}
		} else {
			s.session = refreshed
			s.user = refreshed.User
			s.scheduleRefreshLocked()
		}
	}
	applied = s.user
	callbacks := append([]func(*models.User){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(applied)
	}
}

// scheduleRefreshLocked arms the auto-refresh timer for the current
// session. Caller holds s.mu.
func (s *AuthStore) scheduleRefreshLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.session == nil || s.session.ExpiresAt.IsZero() {
		return
	}

	in := time.Until(s.session.ExpiresAt) - refreshMargin
	if in < time.Second {
		in = time.Second
	}
	s.timer = time.AfterFunc(in, func() {
		select {
		case s.events <- platform.AuthEvent{Kind: platform.TokenRefreshed}:
		case <-s.done:
		}
	})
}
