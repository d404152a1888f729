package session

import (
	"context"

	"github.com/zeroends/skinhub/internal/bridge"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// LogoutService removes a web session.
type LogoutService interface {
	Logout(ctx context.Context, token string) error
}

type logoutService struct {
	bridge *bridge.Manager
}

// NewLogoutService creates a new LogoutService.
func NewLogoutService(b *bridge.Manager) LogoutService {
	return &logoutService{bridge: b}
}

// Logout invalidates the session token. Unknown tokens are a no-op.
func (s *logoutService) Logout(ctx context.Context, token string) error {
	logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("session.logout"),
		logger.Op("Logout"),
	).Debug("session invalidated")

	s.bridge.InvalidateSession(token)
	return nil
}
