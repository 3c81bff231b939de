// Package session maps browser sessions (a sid cookie) to the pair of
// state containers each signed-in user gets. Token pairs are persisted
// through a TokenStore so a session can be rebuilt after a restart, the
// same way the original storefront restored its session from local
// storage.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jdgroup-ug/storefront/logger"
	"github.com/jdgroup-ug/storefront/models"
	"github.com/jdgroup-ug/storefront/store"
)

// CookieName carries the session id in the browser.
const CookieName = "sid"

// Client is the slice of the platform client the containers need.
type Client interface {
	store.AuthClient
	store.DataClient
}

// Stores bundles the two state containers of one session.
type Stores struct {
	Auth *store.AuthStore
	Data *store.UserDataStore
}

// Registry owns all live sessions.
type Registry struct {
	client Client
	tokens TokenStore
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*Stores
}

func NewRegistry(client Client, tokens TokenStore, ttl time.Duration) *Registry {
	return &Registry{
		client:   client,
		tokens:   tokens,
		ttl:      ttl,
		sessions: make(map[string]*Stores),
	}
}

// Create builds the container pair for a fresh platform session and returns
// the new session id.
func (r *Registry) Create(ctx context.Context, sess *models.Session) (string, *Stores) {
	sid := uuid.NewString()
	stores := r.build(ctx, sid, sess)

	r.mu.Lock()
	r.sessions[sid] = stores
	r.mu.Unlock()

	return sid, stores
}

// Get returns the container pair for a session id, rebuilding it from the
// persisted token record if the process has restarted since sign-in.
// Returns nil when the session is unknown or can no longer be restored.
func (r *Registry) Get(ctx context.Context, sid string) *Stores {
	r.mu.Lock()
	if stores, ok := r.sessions[sid]; ok {
		r.mu.Unlock()
		return stores
	}
	r.mu.Unlock()

	rec, err := r.tokens.Load(ctx, sid)
	if err != nil {
		// A failed read means "no session", never an error to the caller.
		logger.Error(ctx, "failed to load persisted session", err, zap.String("sid", sid))
		return nil
	}
	if rec == nil {
		return nil
	}

	persisted := &models.Session{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		ExpiresAt:    rec.ExpiresAt,
		User:         &models.User{ID: rec.UserID, Email: rec.Email},
	}
	stores := r.build(ctx, sid, persisted)
	if stores.Auth.Session() == nil {
		// Restore failed (refresh grant rejected); drop the stale record.
		stores.Auth.Close()
		_ = r.tokens.Delete(ctx, sid)
		return nil
	}

	r.mu.Lock()
	// Another request may have rebuilt the session concurrently.
	if existing, ok := r.sessions[sid]; ok {
		r.mu.Unlock()
		stores.Auth.Close()
		return existing
	}
	r.sessions[sid] = stores
	r.mu.Unlock()
	return stores
}

// Destroy tears a session down: containers closed, collections cleared,
// persisted record removed.
func (r *Registry) Destroy(ctx context.Context, sid string) {
	r.mu.Lock()
	stores, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.mu.Unlock()

	if ok {
		stores.Data.Clear()
		stores.Auth.Close()
	}
	if err := r.tokens.Delete(ctx, sid); err != nil {
		logger.Error(ctx, "failed to delete persisted session", err, zap.String("sid", sid))
	}
}

// build wires a container pair and keeps the persisted record in sync with
// every applied session change.
func (r *Registry) build(ctx context.Context, sid string, sess *models.Session) *Stores {
	auth := store.NewAuthStore(ctx, r.client, sess)
	data := store.NewUserDataStore(ctx, r.client, auth)

	auth.OnChange(func(u *models.User) {
		if u == nil {
			_ = r.tokens.Delete(context.Background(), sid)
			return
		}
		current := auth.Session()
		if current == nil {
			return
		}
		rec := TokenRecord{
			AccessToken:  current.AccessToken,
			RefreshToken: current.RefreshToken,
			ExpiresAt:    current.ExpiresAt,
			UserID:       u.ID,
			Email:        u.Email,
		}
		if err := r.tokens.Save(context.Background(), sid, rec, r.ttl); err != nil {
			logger.Log.Error("failed to persist session", zap.Error(err), zap.String("sid", sid))
		}
	})

	// Persist the initial state too; OnChange only fires on later changes.
	if current, u := auth.Session(), auth.User(); current != nil && u != nil {
		rec := TokenRecord{
			AccessToken:  current.AccessToken,
			RefreshToken: current.RefreshToken,
			ExpiresAt:    current.ExpiresAt,
			UserID:       u.ID,
			Email:        u.Email,
		}
		if err := r.tokens.Save(ctx, sid, rec, r.ttl); err != nil {
			logger.Error(ctx, "failed to persist session", err, zap.String("sid", sid))
		}
	}

	return &Stores{Auth: auth, Data: data}
}
