package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hpnchanel/todoapi/internal/model"
	"github.com/hpnchanel/todoapi/internal/testutil"
)

func TestCache_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewFromClient(testutil.NewRedisClient(t))

	user := &model.User{
		ID:        model.NewID(),
		Email:     "userone@mail.com",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	got, err := c.GetSession(ctx, "hash-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}

	if err := c.SetSession(ctx, "hash-1", user); err != nil {
		t.Fatalf("set session: %v", err)
	}

	got, err = c.GetSession(ctx, "hash-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil || got.ID != user.ID || got.Email != user.Email {
		t.Fatalf("unexpected session: %+v", got)
	}
	if len(got.Tokens) != 0 || got.PasswordHash != "" {
		t.Fatal("cached sessions must not carry secrets")
	}

	if err := c.RevokeSession(ctx, "hash-1"); err != nil {
		t.Fatalf("revoke session: %v", err)
	}
	if err := c.RevokeSession(ctx, "hash-1"); err != nil {
		t.Fatalf("second revoke should be a no-op: %v", err)
	}

	if _, err := c.GetSession(ctx, "hash-1"); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}

	if err := c.SetSession(ctx, "hash-1", user); err != nil {
		t.Fatalf("set session after revoke: %v", err)
	}
	if _, err := c.GetSession(ctx, "hash-1"); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("set must not overwrite a revocation, got %v", err)
	}

	ttl, err := c.Client().TTL(ctx, sessionPrefix+"hash-1").Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > sessionTTL {
		t.Errorf("revocation marker ttl = %v, want within (0, %v]", ttl, sessionTTL)
	}
}

func TestCache_SetSessionKeepsFirstEntry(t *testing.T) {
	ctx := context.Background()
	c := NewFromClient(testutil.NewRedisClient(t))

	first := &model.User{ID: model.NewID(), Email: "first@mail.com"}
	second := &model.User{ID: model.NewID(), Email: "second@mail.com"}

	if err := c.SetSession(ctx, "hash-2", first); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := c.SetSession(ctx, "hash-2", second); err != nil {
		t.Fatalf("set session: %v", err)
	}

	got, err := c.GetSession(ctx, "hash-2")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("expected first entry to survive, got %+v", got)
	}
}

func TestCache_CheckIPRateLimit(t *testing.T) {
	ctx := context.Background()
	c := NewFromClient(testutil.NewRedisClient(t))

	for i := 0; i < 3; i++ {
		res, err := c.CheckIPRateLimit(ctx, "203.0.113.7", 1, 3)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be within burst", i)
		}
	}

	res, err := c.CheckIPRateLimit(ctx, "203.0.113.7", 1, 3)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Allowed {
		t.Fatal("expected request beyond burst to be limited")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %v", res.RetryAfter)
	}
}

func TestCache_CheckUserRateLimit_Disabled(t *testing.T) {
	c := &Cache{}

	res, err := c.CheckUserRateLimit(context.Background(), "user-1", 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed || res.Remaining != 5 {
		t.Errorf("disabled limit should always allow, got %+v", res)
	}
}
