package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(sessionID string) string {
	return fmt.Sprintf("sess:%s", sessionID)
}

func TestManagerLifecycle(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	ctx := context.Background()
	userID := uuid.New()
	if err := manager.Start(ctx, "jti-1", userID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if ttl := store.ttls["sess:jti-1"]; ttl != time.Hour {
		t.Fatalf("expected ttl 1h, got %v", ttl)
	}

	got, err := manager.Lookup(ctx, "jti-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != userID {
		t.Fatalf("expected user %s, got %s", userID, got)
	}

	if err := manager.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := manager.Lookup(ctx, "jti-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after revoke, got %v", err)
	}
}

func TestManagerRejectsBlankInput(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	if err := manager.Start(context.Background(), " ", uuid.New()); err == nil {
		t.Fatal("expected error for blank session id")
	}
	if err := manager.Start(context.Background(), "jti", uuid.Nil); err == nil {
		t.Fatal("expected error for nil user")
	}
	if _, err := manager.Lookup(context.Background(), ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for blank id, got %v", err)
	}
}

func TestManagerLookupCorruptValue(t *testing.T) {
	store := newMockStore()
	store.data["sess:bad"] = "not-a-uuid"
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	if _, err := manager.Lookup(context.Background(), "bad"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected corrupt session error, got %v", err)
	}
}
