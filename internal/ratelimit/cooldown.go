// Package ratelimit tracks per-identity upload cooldowns.
package ratelimit

import (
	"strconv"
	"time"

	"github.com/zeroends/skinhub/internal/cache"
	"github.com/zeroends/skinhub/internal/identity"
)

const markKeyPrefix = "cooldown:"

// Cooldown blocks repeated expensive operations per identity.
// The mark is set eagerly by CheckAndMark, before any external cost is
// incurred, so a slow upstream call cannot be raced to bypass the window.
type Cooldown struct {
	marks cache.Cache
	ttl   time.Duration
}

// New creates a Cooldown with the given window.
func New(marks cache.Cache, ttl time.Duration) *Cooldown {
	return &Cooldown{marks: marks, ttl: ttl}
}

// CheckAndMark returns true and records a mark when the identity has no live
// mark. Exactly one of any set of concurrent callers wins.
func (c *Cooldown) CheckAndMark(id identity.ID) bool {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return c.marks.Add(markKeyPrefix+id.String(), []byte(now), c.ttl) == nil
}

// Blocked reports whether a live mark exists without setting one.
func (c *Cooldown) Blocked(id identity.ID) bool {
	_, ok := c.marks.Get(markKeyPrefix + id.String())
	return ok
}

// Remaining returns the time left in the identity's cooldown window,
// zero when no live mark exists.
func (c *Cooldown) Remaining(id identity.ID) time.Duration {
	b, ok := c.marks.Get(markKeyPrefix + id.String())
	if !ok {
		return 0
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return c.ttl
	}
	elapsed := time.Since(time.UnixMilli(ms))
	if elapsed >= c.ttl {
		return 0
	}
	return c.ttl - elapsed
}

// Clear removes the identity's mark. Used by the admin surface and by tests.
func (c *Cooldown) Clear(id identity.ID) {
	c.marks.Delete(markKeyPrefix + id.String())
}
