package session

import (
	"net/http"
	"strings"

	dto "github.com/zeroends/skinhub/internal/http/dto/session"
	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	svc "github.com/zeroends/skinhub/internal/http/services/session"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// LoginController handles POST /api/login.
type LoginController struct {
	service       svc.LoginService
	recordAttempt func(ok bool)
}

// NewLoginController creates a new login controller. recordAttempt may be nil.
func NewLoginController(service svc.LoginService, recordAttempt func(ok bool)) *LoginController {
	if recordAttempt == nil {
		recordAttempt = func(bool) {}
	}
	return &LoginController{service: service, recordAttempt: recordAttempt}
}

// Login handles the login request. On success the session token is delivered
// as an HttpOnly cookie, never in the body.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if !readLoginRequest(w, r, &req) {
		return
	}

	result, err := c.service.Login(ctx, req)
	c.recordAttempt(err == nil)
	if err != nil {
		switch err {
		case svc.ErrLoginMissingHandle:
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("handle is required"))
		case svc.ErrLoginMissingCode:
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code is required"))
		case svc.ErrLoginInvalidCredentials:
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
		default:
			log.Error("login error", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	http.SetCookie(w, c.service.BuildSessionCookie(result.Token))

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	httperrors.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Logged in.",
	})

	log.Debug("login successful", logger.Handle(result.Handle))
}

// readLoginRequest accepts both JSON and form-encoded bodies.
func readLoginRequest(w http.ResponseWriter, r *http.Request, req *dto.LoginRequest) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "application/json") {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := r.ParseForm(); err != nil {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid form body"))
			return false
		}
		req.Handle = r.PostFormValue("handle")
		req.Code = r.PostFormValue("code")
		req.Username = r.PostFormValue("username")
		req.Pin = r.PostFormValue("pin")
		return true
	}
	return httperrors.ReadJSON(w, r, req)
}
