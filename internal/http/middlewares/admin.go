package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/zeroends/skinhub/internal/http/errors"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// AdminKeyHeader is the header the game host sends on internal API calls.
const AdminKeyHeader = "X-Admin-API-Key"

// RequireAdminKey guards the internal endpoints (PIN issuance, session
// revocation) with a shared API key. When no key is configured the internal
// API is disabled entirely.
func RequireAdminKey(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				errors.WriteError(w, errors.ErrServiceUnavailable.WithDetail("internal API is not configured"))
				return
			}

			got := strings.TrimSpace(r.Header.Get(AdminKeyHeader))
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				logger.From(r.Context()).Warn("internal API key rejected",
					logger.ClientIP(clientIP(r)),
				)
				errors.WriteError(w, errors.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
