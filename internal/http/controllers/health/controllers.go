// Package health contains the health check controller.
package health

import (
	"net/http"

	httperrors "github.com/zeroends/skinhub/internal/http/errors"
)

// Controller handles GET /healthz.
type Controller struct{}

// NewController creates the health controller.
func NewController() *Controller {
	return &Controller{}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports liveness. The service has no external hard dependencies at
// runtime, so up means healthy.
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
