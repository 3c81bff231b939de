package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdgroup-ug/storefront/models"
	"github.com/jdgroup-ug/storefront/session"
)

// ---- fake platform client ----

type fakeClient struct {
	refreshSession *models.Session
	refreshErr     error
	refreshCalls   int
}

func (f *fakeClient) SignInWithPassword(_ context.Context, _, _ string) (*models.Session, error) {
	return nil, nil
}
func (f *fakeClient) RefreshSession(_ context.Context, _ string) (*models.Session, error) {
	f.refreshCalls++
	return f.refreshSession, f.refreshErr
}
func (f *fakeClient) SignOut(_ context.Context, _ string) error { return nil }
func (f *fakeClient) GetUser(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}

func (f *fakeClient) ListFavorites(_ context.Context, _, _ string) ([]models.Product, error) {
	return nil, nil
}
func (f *fakeClient) ListCart(_ context.Context, _, _ string) ([]models.CartItem, error) {
	return nil, nil
}
func (f *fakeClient) ListSearchHistory(_ context.Context, _, _ string) ([]models.SearchEntry, error) {
	return nil, nil
}
func (f *fakeClient) GetProduct(_ context.Context, _, _ string) (*models.Product, error) {
	return nil, errors.New("not found")
}
func (f *fakeClient) InsertFavorite(_ context.Context, _, _, _ string) error        { return nil }
func (f *fakeClient) DeleteFavorite(_ context.Context, _, _, _ string) error        { return nil }
func (f *fakeClient) InsertCartItem(_ context.Context, _, _, _ string, _ int) error { return nil }
func (f *fakeClient) UpdateCartQuantity(_ context.Context, _, _, _ string, _ int) error {
	return nil
}
func (f *fakeClient) DeleteCartItem(_ context.Context, _, _, _ string) error { return nil }
func (f *fakeClient) InsertSearchEntry(_ context.Context, _, _, _ string) (*models.SearchEntry, error) {
	return nil, nil
}
func (f *fakeClient) ClearSearchHistory(_ context.Context, _, _ string) error { return nil }

func platformSession(userID string) *models.Session {
	return &models.Session{
		AccessToken:  "access-" + userID,
		RefreshToken: "refresh-" + userID,
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         &models.User{ID: userID, Email: userID + "@example.com"},
	}
}

// ---- tests ----

func TestCreate_ReturnsLiveStores(t *testing.T) {
	registry := session.NewRegistry(&fakeClient{}, session.NewMemoryTokenStore(), time.Hour)

	sid, stores := registry.Create(context.Background(), platformSession("u1"))

	assert.NotEmpty(t, sid)
	assert.Equal(t, "u1", stores.Auth.User().ID)
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	registry := session.NewRegistry(&fakeClient{}, session.NewMemoryTokenStore(), time.Hour)
	sid, created := registry.Create(context.Background(), platformSession("u1"))

	got := registry.Get(context.Background(), sid)

	assert.Same(t, created, got)
}

func TestGet_UnknownSIDIsNil(t *testing.T) {
	registry := session.NewRegistry(&fakeClient{}, session.NewMemoryTokenStore(), time.Hour)

	assert.Nil(t, registry.Get(context.Background(), "never-issued"))
}

func TestGet_RebuildsFromPersistedTokensAfterRestart(t *testing.T) {
	tokens := session.NewMemoryTokenStore()
	first := session.NewRegistry(&fakeClient{}, tokens, time.Hour)
	sid, _ := first.Create(context.Background(), platformSession("u1"))

	// A fresh registry over the same token store stands in for a process
	// restart.
	second := session.NewRegistry(&fakeClient{}, tokens, time.Hour)
	stores := second.Get(context.Background(), sid)

	if assert.NotNil(t, stores) {
		assert.Equal(t, "u1", stores.Auth.User().ID)
	}
}

func TestGet_ExpiredPersistedSessionIsRefreshed(t *testing.T) {
	tokens := session.NewMemoryTokenStore()
	client := &fakeClient{refreshSession: platformSession("u1")}

	expired := platformSession("u1")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	first := session.NewRegistry(client, tokens, time.Hour)
	// Creating with an expired session forces the refresh grant.
	_, stores := first.Create(context.Background(), expired)

	assert.Equal(t, 1, client.refreshCalls)
	assert.Equal(t, "access-u1", stores.Auth.Session().AccessToken)
}

func TestGet_RejectedRefreshDropsStaleRecord(t *testing.T) {
	tokens := session.NewMemoryTokenStore()
	client := &fakeClient{refreshErr: errors.New("refresh token revoked")}

	expired := platformSession("u1")
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	working := session.NewRegistry(&fakeClient{}, tokens, time.Hour)
	sid, _ := working.Create(context.Background(), platformSession("u1"))

	// Make the persisted record expired so the rebuild needs the grant.
	rec, err := tokens.Load(context.Background(), sid)
	assert.Nil(t, err)
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	assert.Nil(t, tokens.Save(context.Background(), sid, *rec, time.Hour))

	restarted := session.NewRegistry(client, tokens, time.Hour)
	assert.Nil(t, restarted.Get(context.Background(), sid))

	// The stale record is gone, so the next lookup short-circuits.
	gone, err := tokens.Load(context.Background(), sid)
	assert.Nil(t, err)
	assert.Nil(t, gone)
}

func TestDestroy_RemovesSessionAndTokens(t *testing.T) {
	tokens := session.NewMemoryTokenStore()
	registry := session.NewRegistry(&fakeClient{}, tokens, time.Hour)
	sid, _ := registry.Create(context.Background(), platformSession("u1"))

	registry.Destroy(context.Background(), sid)

	assert.Nil(t, registry.Get(context.Background(), sid))
	rec, err := tokens.Load(context.Background(), sid)
	assert.Nil(t, err)
	assert.Nil(t, rec)
}
