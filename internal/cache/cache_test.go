package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "a", 1, time.Minute)

	got, ok := c.Get(ctx, "a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[string, string](time.Minute)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k", "v", 10*time.Millisecond)

	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "b", 2, time.Minute)

	c.Delete(ctx, "a")

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("expected miss after delete")
	}
	if c.Len() != 1 {
		t.Fatalf("got len %d, want 1", c.Len())
	}
}

func TestCache_CleanupEvictsExpired(t *testing.T) {
	c := New[string, int](5 * time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "short", 1, time.Millisecond)
	c.Set(ctx, "long", 2, time.Minute)

	deadline := time.Now().Add(time.Second)
	for c.Len() > 1 {
		if time.Now().After(deadline) {
			t.Fatalf("cleanup did not evict expired entry, len=%d", c.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, ok := c.Get(ctx, "long"); !ok {
		t.Fatal("unexpired entry evicted")
	}
}

func TestCache_CloseIdempotent(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Close()
	c.Close()
}
