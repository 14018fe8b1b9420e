package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "p1", "2026-09-07", []byte(`["09:00"]`), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(ctx, "p1", "2026-09-07")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(got) != `["09:00"]` {
		t.Errorf("unexpected payload: %s", got)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemory()
	_, ok, err := c.Get(context.Background(), "p1", "2026-09-07")
	if err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	if err := c.Set(ctx, "p1", "2026-09-07", []byte("x"), -time.Second); err != nil {
		t.Fatal(err)
	}
	_, ok, _ := c.Get(ctx, "p1", "2026-09-07")
	if ok {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryCache_InvalidateIsPerProvider(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	_ = c.Set(ctx, "p1", "2026-09-07", []byte("a"), time.Minute)
	_ = c.Set(ctx, "p1", "2026-09-08", []byte("b"), time.Minute)
	_ = c.Set(ctx, "p2", "2026-09-07", []byte("c"), time.Minute)

	if err := c.Invalidate(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "p1", "2026-09-07"); ok {
		t.Error("p1 day 1 should be gone")
	}
	if _, ok, _ := c.Get(ctx, "p1", "2026-09-08"); ok {
		t.Error("p1 day 2 should be gone")
	}
	if _, ok, _ := c.Get(ctx, "p2", "2026-09-07"); !ok {
		t.Error("p2 entry should survive")
	}
}

func TestNoopCache(t *testing.T) {
	var c DayCache = NoopCache{}
	if err := c.Set(context.Background(), "p", "d", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	_, ok, err := c.Get(context.Background(), "p", "d")
	if err != nil || ok {
		t.Fatalf("noop cache must always miss, ok=%v err=%v", ok, err)
	}
}
