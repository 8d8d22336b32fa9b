package middleware

import (
	"net/http"

	"app/internal/store"
)

// RequireProfile blocks student-only routes until the user's student record
// exists. Admins bypass the check entirely. A user without a record gets 403
// with a hint to complete enrollment, the redirect the web client acts on.
func RequireProfile(gates *store.ProfileGates) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				http.Error(w, "Unauthorized: no session", http.StatusUnauthorized)
				return
			}
			if sess.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			// Re-check until the profile shows up. A settled "present" is
			// cached for a bounded window, absence is not, so completing
			// enrollment takes effect on the next request and a removed
			// record re-locks the gate once the cache expires.
			gate := gates.ForUser(sess.UserID)
			state := gate.State()
			if state != store.ProfilePresent {
				state = gate.Check(r.Context())
			}
			if state != store.ProfilePresent {
				http.Error(w, "Profile required: complete enrollment first", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
