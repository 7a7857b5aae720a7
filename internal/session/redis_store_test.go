package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"civicfund/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), s
}

func TestRedisStoreSaveLookupRevoke(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	rec := Record{Identity: domain.Identity{ID: "g-1", Email: "a@example.com"}, CreatedAt: time.Now().UTC()}
	if err := store.Save(ctx, "sid-1", rec, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Lookup(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Identity.Email != "a@example.com" {
		t.Errorf("expected email a@example.com, got %s", got.Identity.Email)
	}

	if err := store.Revoke(ctx, "sid-1"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := store.Lookup(ctx, "sid-1"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after revoke, got %v", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, "sid-2", Record{}, time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	s.FastForward(2 * time.Minute)
	if _, err := store.Lookup(ctx, "sid-2"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after expiry, got %v", err)
	}
}

func TestManagerWithRedisStore(t *testing.T) {
	store, _ := setupTestRedis(t)
	m := newTestManager(store)
	ctx := context.Background()

	token, _, err := m.SignIn(ctx, domain.Identity{Email: "b@example.com"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	sc, err := m.Resolve(ctx, token)
	if err != nil || sc.CurrentIdentity() == nil {
		t.Fatalf("Resolve = %v, %v", sc, err)
	}
	if err := m.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	sc, err = m.Resolve(ctx, token)
	if err != nil || sc.CurrentIdentity() != nil {
		t.Fatalf("expected anonymous after sign out, got %v, %v", sc, err)
	}
}
