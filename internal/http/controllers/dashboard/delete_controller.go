package dashboard

import (
	"net/http"

	dto "github.com/zeroends/skinhub/internal/http/dto/dashboard"
	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	mw "github.com/zeroends/skinhub/internal/http/middlewares"
	svc "github.com/zeroends/skinhub/internal/http/services/dashboard"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// DeleteController handles POST /api/dashboard/delete.
type DeleteController struct {
	service svc.Service
}

// NewDeleteController creates a new delete controller.
func NewDeleteController(service svc.Service) *DeleteController {
	return &DeleteController{service: service}
}

// Delete removes an asset from the player's collection.
func (c *DeleteController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DeleteController.Delete"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.DeleteRequest
	if !httperrors.ReadJSON(w, r, &req) {
		return
	}
	if req.AssetID == 0 {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("assetId is required"))
		return
	}

	player := mw.MustGetPlayer(ctx)
	if err := c.service.Delete(ctx, player, req.AssetID); err != nil {
		switch err {
		case svc.ErrAssetNotFound:
			httperrors.WriteError(w, httperrors.ErrSkinNotFound)
		default:
			log.Error("delete error", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, dto.ActionResponse{
		Success: true,
		Message: "Skin deleted.",
	})
	log.Debug("skin deleted", logger.AssetID(req.AssetID))
}
