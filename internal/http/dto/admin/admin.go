// Package admin contains request/response types for the internal API the
// game host calls.
package admin

// PinRequest asks for a login PIN for a player currently online in-game.
type PinRequest struct {
	Identity string `json:"identity"` // player UUID
	Handle   string `json:"handle"`
}

// PinResponse returns the PIN to show to the player verbatim.
type PinResponse struct {
	Success          bool   `json:"success"`
	Pin              string `json:"pin"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// RevokeRequest revokes the live web session of a player, if any.
type RevokeRequest struct {
	Identity string `json:"identity"`
}

// RevokeResponse reports whether a session was actually removed.
type RevokeResponse struct {
	Success bool `json:"success"`
	Revoked bool `json:"revoked"`
}
