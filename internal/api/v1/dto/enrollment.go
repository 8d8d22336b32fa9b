package dto

import "time"

// EnrollDTO is used for incoming self-service enrollment requests
type EnrollDTO struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// EnrollmentResponseDTO is returned in API responses for a student's
// enrollments, with the joined course when the list query carried it
type EnrollmentResponseDTO struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	CourseID   string             `json:"course_id"`
	EnrolledAt time.Time          `json:"enrolled_at"`
	Course     *CourseResponseDTO `json:"course,omitempty"`
}

// AssignCourseDTO is used for incoming admin-side assignment requests
type AssignCourseDTO struct {
	StudentUserID string `json:"student_user_id" validate:"required,uuid"`
	CourseID      string `json:"course_id" validate:"required,uuid"`
}

// AssignmentResponseDTO is the admin-facing shape of a join row
type AssignmentResponseDTO struct {
	ID            string    `json:"id"`
	StudentUserID string    `json:"student_user_id"`
	CourseID      string    `json:"course_id"`
	AssignedAt    time.Time `json:"assigned_at"`
	AssignedBy    string    `json:"assigned_by,omitempty"`
}

// StudentProfileResponseDTO lists a student-role user in the assignment view
type StudentProfileResponseDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
