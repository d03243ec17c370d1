package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "key", []byte("value"), time.Minute)

	got, ok := store.Get(ctx, "key")
	if !ok {
		t.Fatal("expected hit for freshly written key")
	}
	if string(got) != "value" {
		t.Fatalf("expected %q, got %q", "value", string(got))
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get(context.Background(), "absent"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "key", []byte("value"), -time.Second)

	if _, ok := store.Get(ctx, "key"); ok {
		t.Fatal("expected miss for expired key")
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "key", []byte("first"), time.Minute)
	store.Set(ctx, "key", []byte("second"), time.Minute)

	got, _ := store.Get(ctx, "key")
	if string(got) != "second" {
		t.Fatalf("expected overwrite to win, got %q", string(got))
	}
}
