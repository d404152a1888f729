// Package cache provides the expiring key/value primitive used for PINs,
// sessions, upload cooldowns and resolver entries.
//
// Entries become unobservable once their TTL elapses; expiry is checked on
// every read, so no background sweep is required for correctness. The memory
// backend runs a janitor anyway to bound memory.
package cache

import (
	"errors"
	"time"
)

// ErrExists is returned by Add when a live entry already holds the key.
var ErrExists = errors.New("cache: key already exists")

// Cache is an expiring key -> value map safe for concurrent use.
type Cache interface {
	// Get returns the value for key, or false if absent or expired.
	Get(key string) ([]byte, bool)

	// Set stores the value under key with the given TTL.
	// A ttl of 0 uses the backend's default TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Add stores the value only if no live entry exists for key.
	// Returns ErrExists otherwise. The check-and-insert is atomic.
	Add(key string, value []byte, ttl time.Duration) error

	// Delete removes the entry for key. No-op when absent.
	Delete(key string)
}
