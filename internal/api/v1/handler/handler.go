package handler

import (
	"net/http"

	"app/internal/middleware"
)

// requireAdmin writes 401/403 and returns false unless the request carries
// an admin session.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, "Unauthorized: no session", http.StatusUnauthorized)
		return false
	}
	if !sess.IsAdmin() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}
