// Package dashboard contains the controllers behind the authenticated
// dashboard API.
package dashboard

import (
	"net/http"

	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	mw "github.com/zeroends/skinhub/internal/http/middlewares"
	svc "github.com/zeroends/skinhub/internal/http/services/dashboard"
)

// DataController handles GET /api/dashboard/data.
type DataController struct {
	service svc.Service
}

// NewDataController creates a new data controller.
func NewDataController(service svc.Service) *DataController {
	return &DataController{service: service}
}

// Data returns the player's collection.
func (c *DataController) Data(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	player := mw.MustGetPlayer(r.Context())
	resp := c.service.Data(r.Context(), player)

	w.Header().Set("Cache-Control", "no-store")
	httperrors.WriteJSON(w, http.StatusOK, resp)
}
