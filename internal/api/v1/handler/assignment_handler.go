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

// AssignmentHandler handles the admin-side view of the enrollments join
// table: listing assignments, assigning a course on a student's behalf, and
// listing the student-role profiles the assignment modal offers.
type AssignmentHandler struct {
	assignments *store.AssignmentStore
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(assignments *store.AssignmentStore, validate *validator.Validate, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, validate: validate, logger: logger}
}

// RegisterRoutes mounts assignment routes behind the admin gate
func (h *AssignmentHandler) RegisterRoutes(mux *http.ServeMux, adminMw func(http.Handler) http.Handler) {
	mux.Handle("/assignments", adminMw(http.HandlerFunc(h.handleAssignments)))
	mux.Handle("/assignments/", adminMw(http.HandlerFunc(h.handleAssignment)))
}

func (h *AssignmentHandler) handleAssignments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listAssignments(w, r)
	case http.MethodPost:
		h.assignCourse(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AssignmentHandler) handleAssignment(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/assignments/")
	if rest == "students" && r.Method == http.MethodGet {
		h.listStudentProfiles(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	h.unassignCourse(w, r, rest)
}

// listAssignments godoc
// @Summary List assignments
// @Description Returns every course assignment, newest first, refreshed from the backend.
// @Tags assignments
// @Produce json
// @Success 200 {array} dto.AssignmentResponseDTO
// @Router /assignments [get]
func (h *AssignmentHandler) listAssignments(w http.ResponseWriter, r *http.Request) {
	// Refresh on every list so student self-enrollments show up here. A
	// failed refresh serves the cached list; the store already reported the
	// error.
	if err := h.assignments.Refetch(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Serving cached assignments")
	}

	assignments := h.assignments.Assignments()
	resp := make([]dto.AssignmentResponseDTO, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, assignmentResponse(a))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// listStudentProfiles godoc
// @Summary List student profiles
// @Description Returns the profile of every user holding the student role.
// @Tags assignments
// @Produce json
// @Success 200 {array} dto.StudentProfileResponseDTO
// @Router /assignments/students [get]
func (h *AssignmentHandler) listStudentProfiles(w http.ResponseWriter, r *http.Request) {
	// New sign-ups land in this list from outside the process; refresh and
	// fall back to the cache on failure.
	if err := h.assignments.RefetchStudentProfiles(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Serving cached student profiles")
	}

	profiles := h.assignments.StudentProfiles()
	resp := make([]dto.StudentProfileResponseDTO, 0, len(profiles))
	for _, p := range profiles {
		item := dto.StudentProfileResponseDTO{ID: p.ID, Email: p.Email}
		if p.Name.Valid {
			item.Name = p.Name.String
		}
		resp = append(resp, item)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// assignCourse godoc
// @Summary Assign a course to a student
// @Description Creates a join row on the student's behalf, recording the acting admin.
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignment body dto.AssignCourseDTO true "Assignment request"
// @Success 201 {object} dto.AssignmentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 409 {string} string "Student is already assigned to this course"
// @Router /assignments [post]
func (h *AssignmentHandler) assignCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignCourseDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	created, err := h.assignments.Assign(r.Context(), sess, req.StudentUserID, req.CourseID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyAssigned) {
			http.Error(w, "Student is already assigned to this course", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to assign course: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(assignmentResponse(*created))
}

// unassignCourse godoc
// @Summary Remove an assignment
// @Description Deletes a course assignment by its id.
// @Tags assignments
// @Param assignmentId path string true "Assignment ID"
// @Success 204 {string} string "No Content"
// @Failure 500 {string} string "Failed to remove assignment"
// @Router /assignments/{assignmentId} [delete]
func (h *AssignmentHandler) unassignCourse(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if err := h.assignments.Unassign(r.Context(), id); err != nil {
		http.Error(w, "Failed to remove assignment: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func assignmentResponse(a model.StudentAssignment) dto.AssignmentResponseDTO {
	resp := dto.AssignmentResponseDTO{
		ID:            a.ID,
		StudentUserID: a.StudentUserID,
		CourseID:      a.CourseID,
		AssignedAt:    a.AssignedAt,
	}
	if a.AssignedBy.Valid {
		resp.AssignedBy = a.AssignedBy.String
	}
	return resp
}
