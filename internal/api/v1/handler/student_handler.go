package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// StudentHandler handles the admin-side student record endpoints
type StudentHandler struct {
	students *store.StudentStore
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(students *store.StudentStore, validate *validator.Validate, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{students: students, validate: validate, logger: logger}
}

// RegisterRoutes mounts student routes behind the admin gate
func (h *StudentHandler) RegisterRoutes(mux *http.ServeMux, adminMw func(http.Handler) http.Handler) {
	mux.Handle("/students", adminMw(http.HandlerFunc(h.handleStudents)))
	mux.Handle("/students/", adminMw(http.HandlerFunc(h.handleStudent)))
}

func (h *StudentHandler) handleStudents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listStudents(w, r)
	case http.MethodPost:
		h.createStudent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *StudentHandler) handleStudent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		h.updateStudent(w, r)
	case http.MethodDelete:
		h.deleteStudent(w, r)
	default:
		http.NotFound(w, r)
	}
}

// listStudents godoc
// @Summary List students
// @Description Returns the cached student list, refetching it when empty.
// @Tags students
// @Produce json
// @Success 200 {array} dto.StudentResponseDTO
// @Failure 500 {string} string "Failed to fetch students"
// @Router /students [get]
func (h *StudentHandler) listStudents(w http.ResponseWriter, r *http.Request) {
	students := h.students.Students()
	resp := make([]dto.StudentResponseDTO, 0, len(students))
	for _, s := range students {
		resp = append(resp, studentResponse(s))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// createStudent godoc
// @Summary Create a student
// @Description Creates a student record and prepends it to the cached list.
// @Tags students
// @Accept json
// @Produce json
// @Param student body dto.StudentCreateDTO true "Student creation request"
// @Success 201 {object} dto.StudentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 500 {string} string "Failed to create student"
// @Router /students [post]
func (h *StudentHandler) createStudent(w http.ResponseWriter, r *http.Request) {
	var req dto.StudentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.students.Create(r.Context(), model.Student{
		Name: req.Name,
		Age:  req.Age,
		City: req.City,
	})
	if err != nil {
		http.Error(w, "Failed to create student: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(studentResponse(*created))
}

// updateStudent godoc
// @Summary Update a student
// @Description Applies partial fields to a student record.
// @Tags students
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param student body dto.StudentUpdateDTO true "Student update request"
// @Success 200 {object} dto.StudentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "Student not found"
// @Router /students/{studentId} [put]
func (h *StudentHandler) updateStudent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/students/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	var req dto.StudentUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.students.Update(r.Context(), id, repository.StudentUpdate{
		Name: req.Name,
		Age:  req.Age,
		City: req.City,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			http.Error(w, "Student not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update student: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(studentResponse(*updated))
}

// deleteStudent godoc
// @Summary Delete a student
// @Description Removes a student record.
// @Tags students
// @Param studentId path string true "Student ID"
// @Success 204 {string} string "No Content"
// @Failure 500 {string} string "Failed to delete student"
// @Router /students/{studentId} [delete]
func (h *StudentHandler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/students/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if err := h.students.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete student: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func studentResponse(s model.Student) dto.StudentResponseDTO {
	resp := dto.StudentResponseDTO{
		ID:        s.ID,
		Name:      s.Name,
		Age:       s.Age,
		City:      s.City,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.UserID.Valid {
		resp.UserID = s.UserID.String
	}
	return resp
}
