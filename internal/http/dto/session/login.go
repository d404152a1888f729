// Package session contains request/response types for login and logout.
package session

import "time"

// LoginRequest is the body of POST /api/login. The frontend sends handle and
// code; username and pin are accepted as aliases.
type LoginRequest struct {
	Handle   string `json:"handle"`
	Code     string `json:"code"`
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

// LoginResponse is the envelope returned on login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LogoutResponse is the envelope returned on logout.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginConfig controls the session cookie.
type LoginConfig struct {
	CookieName   string
	CookieDomain string
	TTL          time.Duration
	Secure       bool
	SameSite     string // Lax | Strict | None
}
