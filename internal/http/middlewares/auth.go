package middlewares

import (
	"net/http"
	"strings"

	"github.com/zeroends/skinhub/internal/bridge"
	"github.com/zeroends/skinhub/internal/http/errors"
)

// SessionCookieName is the cookie carrying the dashboard session token.
const SessionCookieName = "skinhub_session"

// RequireSession validates the session cookie against the bridge and stores
// the resolved player in the context. Requests without a valid session get
// a 401 with an expired-session envelope so the frontend can redirect to
// the login page.
func RequireSession(sessions *bridge.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(SessionCookieName)
			if err != nil || strings.TrimSpace(ck.Value) == "" {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}

			info, ok := sessions.ValidateSession(ck.Value)
			if !ok {
				errors.WriteError(w, errors.ErrSessionExpired)
				return
			}

			ctx := WithPlayer(r.Context(), info)
			ctx = withSessionToken(ctx, ck.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
