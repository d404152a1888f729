// Package admin contains the controllers for the internal API reserved to
// the game host.
package admin

import (
	"net/http"

	dto "github.com/zeroends/skinhub/internal/http/dto/admin"
	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	svc "github.com/zeroends/skinhub/internal/http/services/admin"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// PinController handles POST /api/internal/pin.
type PinController struct {
	service svc.Service
}

// NewPinController creates a new pin controller.
func NewPinController(service svc.Service) *PinController {
	return &PinController{service: service}
}

// IssuePin mints (or re-displays) the login PIN for an online player.
func (c *PinController) IssuePin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PinController.IssuePin"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.PinRequest
	if !httperrors.ReadJSON(w, r, &req) {
		return
	}

	result, err := c.service.IssuePin(ctx, req.Identity, req.Handle)
	if err != nil {
		switch err {
		case svc.ErrInvalidIdentity:
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("identity must be a UUID"))
		case svc.ErrMissingHandle:
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("handle is required"))
		default:
			log.Error("pin issuance error", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	httperrors.WriteJSON(w, http.StatusOK, dto.PinResponse{
		Success:          true,
		Pin:              result.Pin,
		ExpiresInSeconds: int(result.ExpiresIn.Seconds()),
	})
}
