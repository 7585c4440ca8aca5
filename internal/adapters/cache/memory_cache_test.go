package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/core"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func makeEntry(id string, ttl time.Duration) *core.CacheEntry {
	now := time.Now()
	return &core.CacheEntry{
		MessageID: id,
		Result:    core.TriageResult{Intent: core.IntentBooking, Urgency: core.UrgencyToday},
		LastSeen:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, makeEntry("m1", time.Hour)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := c.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Result.Intent != core.IntentBooking {
		t.Errorf("cached intent = %q, want booking", entry.Result.Intent)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache(t)

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCacheExpiredEntryIsMiss(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, makeEntry("m1", -time.Minute)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := c.Get(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound for expired entry", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, makeEntry("m1", time.Hour)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, makeEntry("live", time.Hour)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(ctx, makeEntry("dead", -time.Minute)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if _, err := c.Get(ctx, "live"); err != nil {
		t.Errorf("live entry lost during cleanup: %v", err)
	}

	c.mu.RLock()
	_, stillThere := c.entries["dead"]
	c.mu.RUnlock()
	if stillThere {
		t.Error("expired entry survived cleanup")
	}
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, makeEntry("m1", time.Hour)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	first, err := c.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	first.Result.Intent = core.IntentSpam

	second, err := c.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if second.Result.Intent != core.IntentBooking {
		t.Error("mutating a returned entry leaked into the cache")
	}
}
