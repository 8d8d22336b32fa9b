package dto

import "time"

// ContentUploadDTO carries the non-file fields of a multipart content upload
type ContentUploadDTO struct {
	ContentType string `json:"content_type" validate:"required,oneof=video notes"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
}

// ContentResponseDTO is returned in API responses for course contents
type ContentResponseDTO struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	ContentType string    `json:"content_type"`
	Title       string    `json:"title"`
	FileURL     string    `json:"file_url"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileStatusResponseDTO is the student profile gate's answer
type ProfileStatusResponseDTO struct {
	HasProfile bool `json:"has_profile"`
}
