package cron

import (
	"context"
	"testing"
	"time"
)

type memoryStore struct {
	values map[string]string
	ttl    time.Duration
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	m.ttl = ttl
	return true, nil
}

func (m *memoryStore) DelIfValue(_ context.Context, key, value string) (bool, error) {
	if m.values[key] != value {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func TestRedisLockIsExclusive(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	a, err := NewRedisLock(store, "st:lock:"+LockName, 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	b, _ := NewRedisLock(store, "st:lock:"+LockName, time.Minute)
	ctx := context.Background()

	if ok, err := a.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire to win, got %v %v", ok, err)
	}
	if store.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl %v, got %v", defaultLockTTL, store.ttl)
	}
	if ok, _ := b.Acquire(ctx); ok {
		t.Fatal("expected second acquire to lose")
	}
	if err := b.Release(ctx); err != nil {
		t.Fatalf("release by non-owner: %v", err)
	}
	if _, held := store.values["st:lock:"+LockName]; !held {
		t.Fatal("non-owner release must keep the lock")
	}
	if err := a.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := b.Acquire(ctx); !ok {
		t.Fatal("expected lock to be free after owner release")
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "st:lock:"+LockName, time.Minute); err == nil {
		t.Fatal("expected nil store to fail")
	}
	if _, err := NewRedisLock(&memoryStore{}, "", time.Minute); err == nil {
		t.Fatal("expected empty key to fail")
	}
}
