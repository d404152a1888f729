package session

import (
	"net/http"
	"strings"

	dto "github.com/zeroends/skinhub/internal/http/dto/session"
	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	mw "github.com/zeroends/skinhub/internal/http/middlewares"
	svc "github.com/zeroends/skinhub/internal/http/services/session"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// LogoutController handles POST /api/logout.
type LogoutController struct {
	login  svc.LoginService
	logout svc.LogoutService
}

// NewLogoutController creates a new logout controller. The login service is
// only used to build the deletion cookie with matching attributes.
func NewLogoutController(login svc.LoginService, logout svc.LogoutService) *LogoutController {
	return &LogoutController{login: login, logout: logout}
}

// Logout clears the session from the bridge and sets a deletion cookie.
// Logging out without a session is not an error.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	ck, err := r.Cookie(mw.SessionCookieName)
	if err == nil && strings.TrimSpace(ck.Value) != "" {
		if err := c.logout.Logout(ctx, ck.Value); err != nil {
			log.Debug("logout service error", logger.Err(err))
		}
	}
	http.SetCookie(w, c.login.BuildDeletionCookie())

	httperrors.WriteJSON(w, http.StatusOK, dto.LogoutResponse{
		Success: true,
		Message: "Logged out.",
	})
	log.Debug("logout completed")
}
