package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRecord is the persisted slice of a session: enough to rebuild the
// auth container after a process restart.
type TokenRecord struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

// TokenStore persists session token records keyed by session id. Load
// returns (nil, nil) when no record exists.
type TokenStore interface {
	Save(ctx context.Context, sid string, rec TokenRecord, ttl time.Duration) error
	Load(ctx context.Context, sid string) (*TokenRecord, error)
	Delete(ctx context.Context, sid string) error
}

type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore persists token records in redis so sessions survive
// process restarts.
func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (r *redisTokenStore) key(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

func (r *redisTokenStore) Save(ctx context.Context, sid string, rec TokenRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(sid), data, ttl).Err()
}

func (r *redisTokenStore) Load(ctx context.Context, sid string) (*TokenRecord, error) {
	data, err := r.client.Get(ctx, r.key(sid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec TokenRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *redisTokenStore) Delete(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid)).Err()
}

type memoryTokenStore struct {
	mu      sync.Mutex
	records map[string]TokenRecord
}

// NewMemoryTokenStore keeps token records in memory. Used when redis is not
// configured; sessions then die with the process.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{records: make(map[string]TokenRecord)}
}

func (m *memoryTokenStore) Save(ctx context.Context, sid string, rec TokenRecord, ttl time.Duration) error {
	m.mu.Lock()
	m.records[sid] = rec
	m.mu.Unlock()
	return nil
}

func (m *memoryTokenStore) Load(ctx context.Context, sid string) (*TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[sid]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memoryTokenStore) Delete(ctx context.Context, sid string) error {
	m.mu.Lock()
	delete(m.records, sid)
	m.mu.Unlock()
	return nil
}
