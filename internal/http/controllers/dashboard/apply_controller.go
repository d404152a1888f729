package dashboard

import (
	"net/http"

	dto "github.com/zeroends/skinhub/internal/http/dto/dashboard"
	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	mw "github.com/zeroends/skinhub/internal/http/middlewares"
	svc "github.com/zeroends/skinhub/internal/http/services/dashboard"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// ApplyController handles POST /api/dashboard/apply.
type ApplyController struct {
	service svc.Service
}

// NewApplyController creates a new apply controller.
func NewApplyController(service svc.Service) *ApplyController {
	return &ApplyController{service: service}
}

// Apply marks an asset as the player's active skin.
func (c *ApplyController) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ApplyController.Apply"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.ApplyRequest
	if !httperrors.ReadJSON(w, r, &req) {
		return
	}
	if req.AssetID == 0 {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("assetId is required"))
		return
	}

	player := mw.MustGetPlayer(ctx)
	if err := c.service.Apply(ctx, player, req.AssetID); err != nil {
		switch err {
		case svc.ErrAssetNotFound:
			httperrors.WriteError(w, httperrors.ErrSkinNotFound)
		case svc.ErrApplyFailed:
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("could not apply the skin right now"))
		default:
			log.Error("apply error", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, dto.ActionResponse{
		Success: true,
		Message: "Skin applied.",
	})
	log.Debug("skin applied", logger.AssetID(req.AssetID))
}
