package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Uploads are course materials, not bulk media ingest; cap the form parse.
const maxUploadMemory = 32 << 20 // 32 MiB

// ContentHandler handles course content endpoints. Listing is open to any
// authenticated (and profile-gated) user; upload and delete are admin-only.
type ContentHandler struct {
	contents *store.ContentStores
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contents *store.ContentStores, validate *validator.Validate, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{contents: contents, validate: validate, logger: logger}
}

// RegisterRoutes mounts content routes
func (h *ContentHandler) RegisterRoutes(mux *http.ServeMux, gateMw func(http.Handler) http.Handler) {
	mux.Handle("/contents", gateMw(http.HandlerFunc(h.handleContents)))
	mux.Handle("/contents/", gateMw(http.HandlerFunc(h.handleContent)))
}

func (h *ContentHandler) handleContents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listContents(w, r)
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		h.uploadContent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ContentHandler) handleContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, r) {
		return
	}
	h.deleteContent(w, r)
}

// listContents godoc
// @Summary List course contents
// @Description Returns a course's contents, newest first.
// @Tags contents
// @Produce json
// @Param course_id query string true "Course ID"
// @Success 200 {array} dto.ContentResponseDTO
// @Failure 400 {string} string "course_id is required"
// @Router /contents [get]
func (h *ContentHandler) listContents(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		http.Error(w, "course_id is required", http.StatusBadRequest)
		return
	}

	s, err := h.contents.ForCourse(r.Context(), courseID)
	if err != nil {
		http.Error(w, "Failed to fetch course contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	contents := s.Contents()
	resp := make([]dto.ContentResponseDTO, 0, len(contents))
	for _, c := range contents {
		resp = append(resp, contentResponse(c))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// uploadContent godoc
// @Summary Upload course content
// @Description Stores the file in the bucket for its content type, then creates the content row.
// @Tags contents
// @Accept mpfd
// @Produce json
// @Param course_id formData string true "Course ID"
// @Param content_type formData string true "video or notes"
// @Param title formData string true "Display title"
// @Param file formData file true "File to upload"
// @Success 201 {object} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid multipart payload or validation failed"
// @Failure 500 {string} string "Failed to upload content"
// @Router /contents [post]
func (h *ContentHandler) uploadContent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Invalid multipart payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	courseID := r.FormValue("course_id")
	if courseID == "" {
		http.Error(w, "course_id is required", http.StatusBadRequest)
		return
	}

	req := dto.ContentUploadDTO{
		ContentType: r.FormValue("content_type"),
		Title:       strings.TrimSpace(r.FormValue("title")),
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	s, err := h.contents.ForCourse(r.Context(), courseID)
	if err != nil {
		http.Error(w, "Failed to fetch course contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	created, err := s.Upload(
		r.Context(),
		file,
		header.Filename,
		header.Header.Get("Content-Type"),
		model.ContentType(req.ContentType),
		req.Title,
	)
	if err != nil {
		http.Error(w, "Failed to upload content: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(contentResponse(*created))
}

// deleteContent godoc
// @Summary Delete course content
// @Description Removes the stored file best-effort, then the content row.
// @Tags contents
// @Param contentId path string true "Content ID"
// @Param course_id query string true "Course ID"
// @Success 204 {string} string "No Content"
// @Failure 404 {string} string "Content not found"
// @Router /contents/{contentId} [delete]
func (h *ContentHandler) deleteContent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/contents/")
	courseID := r.URL.Query().Get("course_id")
	if id == "" || courseID == "" {
		http.Error(w, "content id and course_id are required", http.StatusBadRequest)
		return
	}

	s, err := h.contents.ForCourse(r.Context(), courseID)
	if err != nil {
		http.Error(w, "Failed to fetch course contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	content, ok := s.Get(id)
	if !ok {
		http.Error(w, "Content not found", http.StatusNotFound)
		return
	}

	if err := s.Delete(r.Context(), content); err != nil {
		http.Error(w, "Failed to delete content: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func contentResponse(c model.CourseContent) dto.ContentResponseDTO {
	return dto.ContentResponseDTO{
		ID:          c.ID,
		CourseID:    c.CourseID,
		ContentType: string(c.ContentType),
		Title:       c.Title,
		FileURL:     c.FileURL,
		FileName:    c.FileName,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
