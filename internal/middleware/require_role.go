package middleware

import (
	"net/http"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// RequireRole gates a route on the session's role classification. This is a
// convenience guard for routing, not a security boundary; row-level
// enforcement belongs to the backend's policy configuration.
func RequireRole(role model.Role, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				http.Error(w, "Unauthorized: no session", http.StatusUnauthorized)
				return
			}
			if sess.Role != role {
				logger.Warn().Str("user_id", sess.UserID).Str("required_role", string(role)).Msg("Role check failed")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
