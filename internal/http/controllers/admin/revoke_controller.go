package admin

import (
	"net/http"

	dto "github.com/zeroends/skinhub/internal/http/dto/admin"
	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	svc "github.com/zeroends/skinhub/internal/http/services/admin"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// RevokeController handles POST /api/internal/logout.
type RevokeController struct {
	service svc.Service
}

// NewRevokeController creates a new revoke controller.
func NewRevokeController(service svc.Service) *RevokeController {
	return &RevokeController{service: service}
}

// Revoke drops the web session of a player, typically when they leave the
// game server.
func (c *RevokeController) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RevokeController.Revoke"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.RevokeRequest
	if !httperrors.ReadJSON(w, r, &req) {
		return
	}

	revoked, err := c.service.RevokeSession(ctx, req.Identity)
	if err != nil {
		switch err {
		case svc.ErrInvalidIdentity:
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("identity must be a UUID"))
		default:
			log.Error("revoke error", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, dto.RevokeResponse{
		Success: true,
		Revoked: revoked,
	})
}
