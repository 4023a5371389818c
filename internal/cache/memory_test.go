package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	defer c.Close()

	if _, err := c.Get(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatal(err)
	}
	v, err := c.Get(ctx, "k")
	if err != nil || v != "v" {
		t.Fatalf("Get = %q, %v", v, err)
	}

	ok, err := c.Exists(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}

	// delete de key inexistente no es error
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}

func TestMemory_TTLExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	defer c.Close()

	if err := c.Set(ctx, "k", "v", 20*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("want expired key to be not found, got %v", err)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "memcached"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	var ud errUnknownDriver
	if !errors.As(err, &ud) {
		t.Fatalf("unexpected error type: %v", err)
	}
}
