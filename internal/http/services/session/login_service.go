package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zeroends/skinhub/internal/bridge"
	dto "github.com/zeroends/skinhub/internal/http/dto/session"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// LoginService exchanges {handle, PIN} for a web session.
type LoginService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, error)
	BuildSessionCookie(token string) *http.Cookie
	BuildDeletionCookie() *http.Cookie
}

// LoginResult contains the result of a successful login.
type LoginResult struct {
	Token     string
	Handle    string
	ExpiresAt time.Time
}

// LoginDeps contains dependencies for the login service.
type LoginDeps struct {
	Bridge   *bridge.Manager
	Resolver identity.Resolver
	Config   dto.LoginConfig
}

type loginService struct {
	bridge   *bridge.Manager
	resolver identity.Resolver
	config   dto.LoginConfig
}

// NewLoginService creates a new LoginService.
func NewLoginService(deps LoginDeps) LoginService {
	cfg := deps.Config
	if cfg.CookieName == "" {
		cfg.CookieName = "skinhub_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	return &loginService{
		bridge:   deps.Bridge,
		resolver: deps.Resolver,
		config:   cfg,
	}
}

// Service errors
var (
	ErrLoginMissingHandle      = fmt.Errorf("handle is required")
	ErrLoginMissingCode        = fmt.Errorf("code is required")
	ErrLoginInvalidCredentials = fmt.Errorf("invalid handle or code")
	ErrLoginSessionFailed      = fmt.Errorf("failed to create session")
)

// Login validates the PIN and mints a session token. An unknown handle and an
// invalid PIN return the same error so nothing can be probed from the login
// form.
func (s *loginService) Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("session.login"),
		logger.Op("Login"),
	)

	handle := strings.TrimSpace(req.Handle)
	if handle == "" {
		handle = strings.TrimSpace(req.Username)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = strings.TrimSpace(req.Pin)
	}

	if handle == "" {
		return nil, ErrLoginMissingHandle
	}
	if code == "" {
		return nil, ErrLoginMissingCode
	}

	id, ok := s.resolver.Resolve(handle)
	if !ok {
		log.Debug("handle not resolvable", logger.Handle(handle))
		return nil, ErrLoginInvalidCredentials
	}

	token, err := s.bridge.Login(id, handle, code)
	if err != nil {
		if errors.Is(err, bridge.ErrInvalidCredential) {
			log.Debug("pin rejected", logger.Handle(handle))
			return nil, ErrLoginInvalidCredentials
		}
		log.Error("session creation failed", logger.Err(err))
		return nil, ErrLoginSessionFailed
	}

	log.Debug("session created",
		logger.Identity(id.String()),
		logger.Handle(handle),
	)

	return &LoginResult{
		Token:     token,
		Handle:    handle,
		ExpiresAt: time.Now().Add(s.config.TTL),
	}, nil
}

// BuildSessionCookie creates the session cookie.
func (s *loginService) BuildSessionCookie(token string) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	switch s.config.SameSite {
	case "Strict":
		sameSite = http.SameSiteStrictMode
	case "None":
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     s.config.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   s.config.CookieDomain,
		MaxAge:   int(s.config.TTL.Seconds()),
		Expires:  time.Now().Add(s.config.TTL),
		HttpOnly: true,
		Secure:   s.config.Secure,
		SameSite: sameSite,
	}
}

// BuildDeletionCookie creates a cookie that clears the session in the browser.
func (s *loginService) BuildDeletionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.config.CookieDomain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
