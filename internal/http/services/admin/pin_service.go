// Package admin implements the internal API the game host calls with its
// shared key.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeroends/skinhub/internal/bridge"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// Service issues PINs and revokes sessions on behalf of the game host.
type Service interface {
	IssuePin(ctx context.Context, identityStr, handle string) (*PinResult, error)
	RevokeSession(ctx context.Context, identityStr string) (bool, error)
}

// PinResult is a freshly issued (or re-displayed) PIN.
type PinResult struct {
	Pin       string
	ExpiresIn time.Duration
}

// Service errors
var (
	ErrInvalidIdentity = fmt.Errorf("identity must be a UUID")
	ErrMissingHandle   = fmt.Errorf("handle is required")
	ErrPinFailed       = fmt.Errorf("failed to issue pin")
)

// Deps contains dependencies for the admin service.
type Deps struct {
	Bridge   *bridge.Manager
	Resolver *identity.CachedResolver
	PinTTL   time.Duration
}

type service struct {
	bridge   *bridge.Manager
	resolver *identity.CachedResolver
	pinTTL   time.Duration
}

// New creates the admin service.
func New(deps Deps) Service {
	return &service{
		bridge:   deps.Bridge,
		resolver: deps.Resolver,
		pinTTL:   deps.PinTTL,
	}
}

// IssuePin mints a PIN for the player and registers the handle binding so the
// web login can resolve it later.
func (s *service) IssuePin(ctx context.Context, identityStr, handle string) (*PinResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.pin"),
		logger.Op("IssuePin"),
	)

	id, err := uuid.Parse(strings.TrimSpace(identityStr))
	if err != nil {
		return nil, ErrInvalidIdentity
	}
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, ErrMissingHandle
	}

	s.resolver.Register(id, handle)

	pin, err := s.bridge.IssuePin(id, handle)
	if err != nil {
		log.Error("pin issuance failed", logger.Err(err))
		return nil, ErrPinFailed
	}

	log.Info("pin issued",
		logger.Identity(id.String()),
		logger.Handle(handle),
	)

	return &PinResult{Pin: pin, ExpiresIn: s.pinTTL}, nil
}

// RevokeSession drops the player's live web session, if present.
func (s *service) RevokeSession(ctx context.Context, identityStr string) (bool, error) {
	id, err := uuid.Parse(strings.TrimSpace(identityStr))
	if err != nil {
		return false, ErrInvalidIdentity
	}

	revoked := s.bridge.InvalidateIdentity(id)
	if revoked {
		logger.From(ctx).Info("session revoked by host",
			logger.Identity(id.String()),
		)
	}
	return revoked, nil
}
