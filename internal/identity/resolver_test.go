package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zeroends/skinhub/internal/cache/memory"
)

func newResolver(ttl time.Duration) *CachedResolver {
	return NewCachedResolver(memory.New(ttl), ttl)
}

func TestResolveLiteralUUID(t *testing.T) {
	t.Parallel()
	r := newResolver(time.Minute)

	id := uuid.New()
	got, ok := r.Resolve(id.String())
	if !ok || got != id {
		t.Fatalf("Resolve(%s) = %v, %v", id, got, ok)
	}
}

func TestResolveRegisteredHandle(t *testing.T) {
	t.Parallel()
	r := newResolver(time.Minute)

	id := uuid.New()
	r.Register(id, "Alice")

	for _, handle := range []string{"Alice", "alice", "ALICE", "  Alice  "} {
		got, ok := r.Resolve(handle)
		if !ok || got != id {
			t.Fatalf("Resolve(%q) = %v, %v; want %v, true", handle, got, ok, id)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	t.Parallel()
	r := newResolver(time.Minute)

	if _, ok := r.Resolve("Nobody"); ok {
		t.Fatal("unknown handle resolved")
	}
	if _, ok := r.Resolve(""); ok {
		t.Fatal("empty handle resolved")
	}
}

func TestRegisterRebindsRenamedHandle(t *testing.T) {
	t.Parallel()
	r := newResolver(time.Minute)

	a, b := uuid.New(), uuid.New()
	r.Register(a, "Steve")
	r.Register(b, "Steve")

	got, ok := r.Resolve("steve")
	if !ok || got != b {
		t.Fatalf("Resolve after rebind = %v, %v; want %v", got, ok, b)
	}
}

func TestResolveExpires(t *testing.T) {
	t.Parallel()
	r := newResolver(20 * time.Millisecond)

	r.Register(uuid.New(), "Alice")
	time.Sleep(50 * time.Millisecond)
	if _, ok := r.Resolve("Alice"); ok {
		t.Fatal("expired registration resolved")
	}
}
