package memory

import (
	"testing"
	"time"

	"github.com/zeroends/skinhub/internal/cache"
)

func TestSetGetDelete(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set("k", []byte("v"), time.Minute)
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Delete")
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)

	c.Set("k", []byte("v"), 20*time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(50 * time.Millisecond)
	// Expiry is enforced at read time, no janitor run needed.
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
}

func TestAddIsFirstWriterWins(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)

	if err := c.Add("k", []byte("a"), time.Minute); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := c.Add("k", []byte("b"), time.Minute); err != cache.ErrExists {
		t.Fatalf("second Add = %v; want ErrExists", err)
	}

	got, _ := c.Get("k")
	if string(got) != "a" {
		t.Fatalf("value overwritten by losing Add: %q", got)
	}
}

func TestAddAfterExpiry(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)

	if err := c.Add("k", []byte("a"), 20*time.Millisecond); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := c.Add("k", []byte("b"), time.Minute); err != nil {
		t.Fatalf("Add after expiry = %v; want nil", err)
	}
}
