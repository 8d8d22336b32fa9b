package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// EnrollmentHandler handles the student-facing enrollment endpoints. Each
// authenticated user works against their own enrollment store.
type EnrollmentHandler struct {
	enrollments *store.EnrollmentStores
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollments *store.EnrollmentStores, validate *validator.Validate, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, validate: validate, logger: logger}
}

// RegisterRoutes mounts enrollment routes behind the profile gate
func (h *EnrollmentHandler) RegisterRoutes(mux *http.ServeMux, gateMw func(http.Handler) http.Handler) {
	mux.Handle("/enrollments", gateMw(http.HandlerFunc(h.handleEnrollments)))
	mux.Handle("/enrollments/", gateMw(http.HandlerFunc(h.handleEnrollment)))
}

func (h *EnrollmentHandler) handleEnrollments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listEnrollments(w, r)
	case http.MethodPost:
		h.enroll(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EnrollmentHandler) handleEnrollment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	h.unenroll(w, r)
}

// listEnrollments godoc
// @Summary List my enrollments
// @Description Returns the authenticated student's enrollments with the joined course, refreshed from the backend.
// @Tags enrollments
// @Produce json
// @Success 200 {array} dto.EnrollmentResponseDTO
// @Failure 500 {string} string "Failed to fetch enrollments"
// @Router /enrollments [get]
func (h *EnrollmentHandler) listEnrollments(w http.ResponseWriter, r *http.Request) {
	s, err := h.enrollments.ForUser(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		http.Error(w, "Failed to fetch enrollments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Refresh on every list so admin-side assignments show up here. A failed
	// refresh serves the cached list; the store already reported the error.
	if err := s.Refetch(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Serving cached enrollments")
	}

	enrollments := s.Enrollments()
	resp := make([]dto.EnrollmentResponseDTO, 0, len(enrollments))
	for _, e := range enrollments {
		resp = append(resp, enrollmentResponse(e))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// enroll godoc
// @Summary Enroll in a course
// @Description Joins the authenticated student to a course. Enrolling twice in the same course returns 409.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body dto.EnrollDTO true "Enrollment request"
// @Success 201 {object} dto.EnrollmentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 409 {string} string "Already enrolled in this course"
// @Router /enrollments [post]
func (h *EnrollmentHandler) enroll(w http.ResponseWriter, r *http.Request) {
	var req dto.EnrollDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	s, err := h.enrollments.ForUser(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		http.Error(w, "Failed to fetch enrollments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	created, err := s.Enroll(r.Context(), req.CourseID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyEnrolled) {
			http.Error(w, "Already enrolled in this course", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to enroll: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(enrollmentResponse(*created))
}

// unenroll godoc
// @Summary Unenroll from a course
// @Description Removes one of the authenticated student's enrollments by its id.
// @Tags enrollments
// @Param enrollmentId path string true "Enrollment ID"
// @Success 204 {string} string "No Content"
// @Failure 500 {string} string "Failed to unenroll"
// @Router /enrollments/{enrollmentId} [delete]
func (h *EnrollmentHandler) unenroll(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/enrollments/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	s, err := h.enrollments.ForUser(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		http.Error(w, "Failed to fetch enrollments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.Unenroll(r.Context(), id); err != nil {
		http.Error(w, "Failed to unenroll: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func enrollmentResponse(e model.Enrollment) dto.EnrollmentResponseDTO {
	resp := dto.EnrollmentResponseDTO{
		ID:         e.ID,
		UserID:     e.UserID,
		CourseID:   e.CourseID,
		EnrolledAt: e.EnrolledAt,
	}
	if e.Course != nil {
		course := courseResponse(*e.Course)
		resp.Course = &course
	}
	return resp
}
