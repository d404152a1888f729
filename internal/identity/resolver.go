package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeroends/skinhub/internal/cache"
)

// CachedResolver resolves handles from a TTL-cached registry fed by the host.
// The game side registers the identity/handle pair whenever a PIN is issued,
// so any handle that can present a valid PIN is resolvable here.
//
// Handles compare case-insensitively. A handle that parses as a UUID is
// resolved literally without consulting the registry.
type CachedResolver struct {
	entries cache.Cache
	ttl     time.Duration
}

// NewCachedResolver creates a resolver backed by the given cache.
// ttl bounds how long a registered handle stays resolvable without renewal.
func NewCachedResolver(entries cache.Cache, ttl time.Duration) *CachedResolver {
	return &CachedResolver{entries: entries, ttl: ttl}
}

// Register binds handle to id for the resolver's TTL. Re-registering
// refreshes the entry and rebinds a renamed handle.
func (r *CachedResolver) Register(id ID, handle string) {
	key := resolverKey(handle)
	if key == "" {
		return
	}
	r.entries.Set(key, []byte(id.String()), r.ttl)
}

// Resolve implements Resolver.
func (r *CachedResolver) Resolve(handle string) (ID, bool) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return uuid.Nil, false
	}
	if id, err := uuid.Parse(handle); err == nil {
		return id, true
	}
	b, ok := r.entries.Get(resolverKey(handle))
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(string(b))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func resolverKey(handle string) string {
	handle = strings.TrimSpace(strings.ToLower(handle))
	if handle == "" {
		return ""
	}
	return "handle:" + handle
}
