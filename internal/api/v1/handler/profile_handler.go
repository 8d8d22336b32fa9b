package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/store"

	"github.com/rs/zerolog"
)

// ProfileHandler answers the student profile gate question for the signed-in
// user, so the client can decide between the protected pages and the
// enrollment-completion flow.
type ProfileHandler struct {
	gates  *store.ProfileGates
	logger zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(gates *store.ProfileGates, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{gates: gates, logger: logger}
}

// RegisterRoutes mounts the profile status route
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/profile/status", authMw(http.HandlerFunc(h.profileStatus)))
}

// profileStatus godoc
// @Summary Check student profile
// @Description Reports whether a student record exists for the signed-in user. Admins always pass.
// @Tags profile
// @Produce json
// @Success 200 {object} dto.ProfileStatusResponseDTO
// @Router /profile/status [get]
func (h *ProfileHandler) profileStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, "Unauthorized: no session", http.StatusUnauthorized)
		return
	}

	hasProfile := true
	if !sess.IsAdmin() {
		gate := h.gates.ForUser(sess.UserID)
		state := gate.State()
		if state != store.ProfilePresent {
			state = gate.Check(r.Context())
		}
		hasProfile = state == store.ProfilePresent
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.ProfileStatusResponseDTO{HasProfile: hasProfile})
}
