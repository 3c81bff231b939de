package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdgroup-ug/storefront/models"
	"github.com/jdgroup-ug/storefront/store"
)

// ---- mock auth client ----

type mockAuthClient struct {
	signInSession *models.Session
	signInErr     error
	signInCalls   int

	refreshSession *models.Session
	refreshErr     error
	refreshCalls   int

	signOutErr   error
	signOutCalls int

	getUserUser  *models.User
	getUserErr   error
	getUserCalls int
}

func (m *mockAuthClient) SignInWithPassword(_ context.Context, _, _ string) (*models.Session, error) {
	m.signInCalls++
	return m.signInSession, m.signInErr
}

func (m *mockAuthClient) RefreshSession(_ context.Context, _ string) (*models.Session, error) {
	m.refreshCalls++
	return m.refreshSession, m.refreshErr
}

func (m *mockAuthClient) SignOut(_ context.Context, _ string) error {
	m.signOutCalls++
	return m.signOutErr
}

func (m *mockAuthClient) GetUser(_ context.Context, _ string) (*models.User, error) {
	m.getUserCalls++
	return m.getUserUser, m.getUserErr
}

// ---- helpers ----

func liveSession(userID string) *models.Session {
	return &models.Session{
		AccessToken:  "access-" + userID,
		RefreshToken: "refresh-" + userID,
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         &models.User{ID: userID, Email: userID + "@example.com"},
	}
}

func expiredSession(userID string) *models.Session {
	s := liveSession(userID)
	s.ExpiresAt = time.Now().Add(-time.Minute)
	return s
}

// ---- tests ----

func TestNewAuthStore_NoPersistedSession(t *testing.T) {
	s := store.NewAuthStore(context.Background(), &mockAuthClient{}, nil)
	defer s.Close()

	assert.Nil(t, s.Session())
	assert.Nil(t, s.User())
	assert.False(t, s.Loading())
}

func TestNewAuthStore_RestoresLiveSession(t *testing.T) {
	client := &mockAuthClient{}
	s := store.NewAuthStore(context.Background(), client, liveSession("u1"))
	defer s.Close()

	assert.NotNil(t, s.Session())
	assert.Equal(t, "u1", s.User().ID)
	assert.Equal(t, 0, client.refreshCalls)
}

func TestNewAuthStore_RestorePicksUpProfileChanges(t *testing.T) {
	client := &mockAuthClient{
		getUserUser: &models.User{ID: "u1", Email: "renamed@example.com"},
	}
	s := store.NewAuthStore(context.Background(), client, liveSession("u1"))
	defer s.Close()

	assert.Equal(t, 1, client.getUserCalls)
	assert.Equal(t, "renamed@example.com", s.User().Email)
}

func TestNewAuthStore_RejectedTokenFallsBackToRefresh(t *testing.T) {
	client := &mockAuthClient{
		getUserErr:     errors.New("invalid token"),
		refreshSession: liveSession("u2"),
	}
	s := store.NewAuthStore(context.Background(), client, liveSession("u1"))
	defer s.Close()

	assert.Equal(t, 1, client.refreshCalls)
	assert.Equal(t, "u2", s.User().ID)
}

func TestNewAuthStore_RefreshesExpiredSession(t *testing.T) {
	client := &mockAuthClient{refreshSession: liveSession("u1")}
	s := store.NewAuthStore(context.Background(), client, expiredSession("u1"))
	defer s.Close()

	assert.Equal(t, 1, client.refreshCalls)
	assert.Equal(t, "access-u1", s.Session().AccessToken)
}

func TestNewAuthStore_FailedRestoreMeansNoSession(t *testing.T) {
	client := &mockAuthClient{refreshErr: errors.New("invalid refresh token")}
	s := store.NewAuthStore(context.Background(), client, expiredSession("u1"))
	defer s.Close()

	assert.Nil(t, s.Session())
	assert.Nil(t, s.User())
	assert.False(t, s.Loading())
}

func TestSignIn_AppliesSession(t *testing.T) {
	client := &mockAuthClient{signInSession: liveSession("u1")}
	s := store.NewAuthStore(context.Background(), client, nil)
	defer s.Close()

	sess, err := s.SignIn(context.Background(), "u1@example.com", "pw")

	assert.Nil(t, err)
	assert.NotNil(t, sess)
	assert.Equal(t, "u1", s.User().ID)
}

func TestSignIn_FailureLeavesStateUntouched(t *testing.T) {
	client := &mockAuthClient{signInErr: errors.New("invalid credentials")}
	s := store.NewAuthStore(context.Background(), client, nil)
	defer s.Close()

	sess, err := s.SignIn(context.Background(), "u1@example.com", "wrong")

	assert.NotNil(t, err)
	assert.Nil(t, sess)
	assert.Nil(t, s.Session())
}

func TestSignOut_ClearsState(t *testing.T) {
	client := &mockAuthClient{}
	s := store.NewAuthStore(context.Background(), client, liveSession("u1"))
	defer s.Close()

	err := s.SignOut(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, 1, client.signOutCalls)
	assert.Nil(t, s.Session())
	assert.Nil(t, s.User())
}

func TestSignOut_FailureKeepsState(t *testing.T) {
	client := &mockAuthClient{signOutErr: errors.New("network down")}
	s := store.NewAuthStore(context.Background(), client, liveSession("u1"))
	defer s.Close()

	err := s.SignOut(context.Background())

	assert.NotNil(t, err)
	assert.NotNil(t, s.Session())
}

func TestSignOut_NoSessionIsNoop(t *testing.T) {
	client := &mockAuthClient{signOutErr: errors.New("should not be called")}
	s := store.NewAuthStore(context.Background(), client, nil)
	defer s.Close()

	assert.Nil(t, s.SignOut(context.Background()))
	assert.Equal(t, 0, client.signOutCalls)
}

func TestRefresh_FetchesNewSession(t *testing.T) {
	client := &mockAuthClient{refreshSession: liveSession("u2")}
	s := store.NewAuthStore(context.Background(), client, liveSession("u1"))
	defer s.Close()

	sess := s.Refresh(context.Background())

	assert.Equal(t, 1, client.refreshCalls)
	assert.Equal(t, "access-u2", sess.AccessToken)
	assert.Equal(t, "u2", s.User().ID)
}

func TestRefresh_FailureClearsSession(t *testing.T) {
	client := &mockAuthClient{refreshErr: errors.New("revoked")}
	s := store.NewAuthStore(context.Background(), client, liveSession("u1"))
	defer s.Close()

	sess := s.Refresh(context.Background())

	assert.Nil(t, sess)
	assert.Nil(t, s.User())
}

func TestOnChange_FiresOnEveryTransition(t *testing.T) {
	client := &mockAuthClient{signInSession: liveSession("u1")}
	s := store.NewAuthStore(context.Background(), client, nil)
	defer s.Close()

	var seen []*models.User
	s.OnChange(func(u *models.User) { seen = append(seen, u) })

	_, _ = s.SignIn(context.Background(), "u1@example.com", "pw")
	_ = s.SignOut(context.Background())

	if assert.Len(t, seen, 2) {
		assert.Equal(t, "u1", seen[0].ID)
		assert.Nil(t, seen[1])
	}
}
