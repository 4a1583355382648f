package dedupe

import (
	"context"
	"testing"
	"time"
)

func TestMemory_Claim(t *testing.T) {
	ctx := context.Background()
	g := NewMemory(time.Hour)
	now := time.Date(2025, 11, 9, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	if ok, _ := g.Claim(ctx, "a"); !ok {
		t.Fatal("first claim should succeed")
	}
	if ok, _ := g.Claim(ctx, "a"); ok {
		t.Fatal("second claim within ttl should fail")
	}
	if ok, _ := g.Claim(ctx, "b"); !ok {
		t.Fatal("other key should succeed")
	}

	now = now.Add(time.Hour)
	if ok, _ := g.Claim(ctx, "a"); !ok {
		t.Fatal("claim after ttl should succeed")
	}
}

func TestMemory_Evicts(t *testing.T) {
	ctx := context.Background()
	g := NewMemory(time.Minute)
	now := time.Date(2025, 11, 9, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	_, _ = g.Claim(ctx, "old")
	now = now.Add(2 * time.Minute)
	g.mu.Lock()
	g.evictLocked(now)
	_, stillThere := g.seen["old"]
	g.mu.Unlock()
	if stillThere {
		t.Error("expired key not evicted")
	}
}
