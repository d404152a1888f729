// Package identity defines the stable player identity and handle resolution.
package identity

import "github.com/google/uuid"

// ID is the stable unique identifier of a player. The display handle is not
// part of identity equality; it may change over time.
type ID = uuid.UUID

// UserInfo pairs an identity with the handle observed at credential issuance.
type UserInfo struct {
	ID     ID     `json:"id"`
	Handle string `json:"handle"`
}

// Resolver maps a display handle to an identity.
// Implementations must be side-effect free from the caller's perspective.
type Resolver interface {
	// Resolve returns the identity bound to handle, or false if unknown.
	// A handle that is itself a literal UUID resolves to that UUID.
	Resolve(handle string) (ID, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(handle string) (ID, bool)

func (f ResolverFunc) Resolve(handle string) (ID, bool) { return f(handle) }
