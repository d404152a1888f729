// Package bridge owns the identity-bridging credentials: short-lived one-time
// PINs shown in game and the longer-lived web session tokens minted from them.
package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeroends/skinhub/internal/cache"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/observability/logger"
	tokens "github.com/zeroends/skinhub/internal/security/token"
)

const (
	pinKeyPrefix     = "pin:"    // code value -> bound user info
	pinRefKeyPrefix  = "pinref:" // identity -> live code value
	sessionKeyPrefix = "sess:"   // token -> bound user info
)

// Manager errors.
var (
	ErrInvalidCredential = fmt.Errorf("invalid or expired credential")
	ErrTokenGeneration   = fmt.Errorf("failed to generate credential")
)

// Config holds the credential lifetimes.
type Config struct {
	PinTTL     time.Duration
	SessionTTL time.Duration
}

// Deps holds the stores the manager operates on. Pins and Sessions must be
// distinct cache instances; their default TTLs are not used (every write
// passes an explicit TTL).
type Deps struct {
	Pins     cache.Cache
	Sessions cache.Cache

	// PinSource overrides the PIN generator. Tests use a fixed source.
	PinSource func() (string, error)
}

// Manager issues and validates PINs and sessions.
//
// Invariants:
//   - a code value maps to at most one identity among live PINs
//   - at most one live PIN per identity (reissue returns the live one)
//   - at most one live session per identity (new login supersedes the old)
type Manager struct {
	cfg       Config
	pins      cache.Cache
	sessions  cache.Cache
	pinSource func() (string, error)
	log       *zap.Logger

	// mu guards active and serializes PIN issuance. Session creation
	// reads and writes both the token store and this index, and PIN
	// issuance reads the identity's live-pin ref before inserting a new
	// code; each pair of steps must be atomic, and a single lock is fine
	// at this contention level.
	mu     sync.Mutex
	active map[identity.ID]string
}

// New creates a Manager.
func New(cfg Config, deps Deps) *Manager {
	src := deps.PinSource
	if src == nil {
		src = tokens.GeneratePinCode
	}
	return &Manager{
		cfg:       cfg,
		pins:      deps.Pins,
		sessions:  deps.Sessions,
		pinSource: src,
		log:       logger.Named("bridge"),
		active:    make(map[identity.ID]string),
	}
}

// IssuePin returns the live PIN for the identity, minting a new one only when
// none is live. New codes are regenerated until they collide with no live
// code of any identity.
func (m *Manager) IssuePin(id identity.ID, handle string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if code, ok := m.livePin(id); ok {
		m.log.Debug("reissued live pin", logger.Identity(id.String()), logger.Handle(handle))
		return code, nil
	}

	info, err := json.Marshal(identity.UserInfo{ID: id, Handle: handle})
	if err != nil {
		return "", err
	}

	for {
		code, err := m.pinSource()
		if err != nil {
			return "", ErrTokenGeneration
		}
		if err := m.pins.Add(pinKeyPrefix+code, info, m.cfg.PinTTL); err != nil {
			// Live collision with another identity's code, try again.
			continue
		}
		m.pins.Set(pinRefKeyPrefix+id.String(), []byte(code), m.cfg.PinTTL)
		m.log.Debug("generated pin", logger.Identity(id.String()), logger.Handle(handle))
		return code, nil
	}
}

// livePin returns the identity's current non-expired PIN, if any.
func (m *Manager) livePin(id identity.ID) (string, bool) {
	b, ok := m.pins.Get(pinRefKeyPrefix + id.String())
	if !ok {
		return "", false
	}
	code := string(b)
	info, ok := m.pinInfo(code)
	if !ok || info.ID != id {
		// The code was consumed or reassigned; the stale ref must not
		// satisfy a reissue.
		return "", false
	}
	return code, true
}

// ValidatePin checks that code is live and bound to the claimed identity and
// handle (handle compared case-insensitively), consuming it on success.
// Rejection changes no state. All failure causes look identical to callers.
func (m *Manager) ValidatePin(id identity.ID, handle, code string) bool {
	_, ok := m.consumePin(id, handle, code)
	return ok
}

func (m *Manager) consumePin(id identity.ID, handle, code string) (identity.UserInfo, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return identity.UserInfo{}, false
	}
	info, ok := m.pinInfo(code)
	if !ok || info.ID != id || !strings.EqualFold(info.Handle, strings.TrimSpace(handle)) {
		m.log.Debug("pin validation failed", logger.Identity(id.String()), logger.Handle(handle))
		return identity.UserInfo{}, false
	}

	// Single use: gone before the session is minted.
	m.pins.Delete(pinKeyPrefix + code)
	m.pins.Delete(pinRefKeyPrefix + info.ID.String())
	m.log.Debug("pin validated", logger.Identity(id.String()), logger.Handle(info.Handle))
	return info, true
}

func (m *Manager) pinInfo(code string) (identity.UserInfo, bool) {
	b, ok := m.pins.Get(pinKeyPrefix + code)
	if !ok {
		return identity.UserInfo{}, false
	}
	var info identity.UserInfo
	if err := json.Unmarshal(b, &info); err != nil {
		return identity.UserInfo{}, false
	}
	return info, true
}

// Login is the fused variant: it consumes the PIN and mints a session in one
// step, returning the session token. The session is bound to the handle that
// was registered at PIN issuance, not the (case-variant) one presented.
func (m *Manager) Login(id identity.ID, handle, code string) (string, error) {
	info, ok := m.consumePin(id, handle, code)
	if !ok {
		return "", ErrInvalidCredential
	}
	return m.CreateSession(info.ID, info.Handle)
}

// CreateSession mints a new session token for the identity, invalidating any
// prior session. Expiry is fixed at now+TTL; validation never extends it.
func (m *Manager) CreateSession(id identity.ID, handle string) (string, error) {
	token, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		return "", ErrTokenGeneration
	}
	info, err := json.Marshal(identity.UserInfo{ID: id, Handle: handle})
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	if old, ok := m.active[id]; ok {
		m.sessions.Delete(sessionKeyPrefix + old)
	}
	m.sessions.Set(sessionKeyPrefix+token, info, m.cfg.SessionTTL)
	m.active[id] = token
	m.mu.Unlock()

	m.log.Debug("session created", logger.Identity(id.String()), logger.Handle(handle))
	return token, nil
}

// ValidateSession resolves a session token to its bound user info.
// Nil-equivalent, unknown and expired tokens all return false.
func (m *Manager) ValidateSession(token string) (identity.UserInfo, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.UserInfo{}, false
	}
	b, ok := m.sessions.Get(sessionKeyPrefix + token)
	if !ok {
		return identity.UserInfo{}, false
	}
	var info identity.UserInfo
	if err := json.Unmarshal(b, &info); err != nil {
		return identity.UserInfo{}, false
	}
	return info, true
}

// InvalidateSession removes the session (logout). No-op for unknown tokens.
func (m *Manager) InvalidateSession(token string) {
	info, ok := m.ValidateSession(token)
	if !ok {
		return
	}
	m.mu.Lock()
	if m.active[info.ID] == token {
		delete(m.active, info.ID)
	}
	m.sessions.Delete(sessionKeyPrefix + token)
	m.mu.Unlock()
	m.log.Debug("session invalidated", logger.Identity(info.ID.String()), logger.Handle(info.Handle))
}

// InvalidateIdentity revokes the identity's live session, if any.
// Returns whether a session was revoked.
func (m *Manager) InvalidateIdentity(id identity.ID) bool {
	m.mu.Lock()
	token, ok := m.active[id]
	if ok {
		m.sessions.Delete(sessionKeyPrefix + token)
		delete(m.active, id)
	}
	m.mu.Unlock()
	if ok {
		m.log.Debug("session revoked", logger.Identity(id.String()))
	}
	return ok
}

// ActiveSessions returns how many identities currently hold a session. The
// count follows the bookkeeping index, so very recently expired tokens may
// still be included until their identity logs in again or is revoked.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	n := len(m.active)
	m.mu.Unlock()
	return n
}

// Flush drops all live sessions. Called at service stop.
func (m *Manager) Flush() {
	m.mu.Lock()
	for id, token := range m.active {
		m.sessions.Delete(sessionKeyPrefix + token)
		delete(m.active, id)
	}
	m.mu.Unlock()
}
