package model

import (
	"database/sql"
	"time"
)

// Enrollment is a join row linking an authenticated user to a course.
// AssignedBy is set when an admin created the row on the student's behalf
// and null when the student enrolled themselves.
type Enrollment struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"user_id"`
	CourseID   string         `db:"course_id" json:"course_id"`
	EnrolledAt time.Time      `db:"enrolled_at" json:"enrolled_at"`
	AssignedBy sql.NullString `db:"assigned_by" json:"assigned_by"`

	// Course is the joined course row, populated by list queries for the
	// student-facing view.
	Course *Course `db:"-" json:"course,omitempty"`
}

// StudentAssignment is the admin-facing relabel of an Enrollment row.
type StudentAssignment struct {
	ID            string         `json:"id"`
	StudentUserID string         `json:"student_user_id"`
	CourseID      string         `json:"course_id"`
	AssignedAt    time.Time      `json:"assigned_at"`
	AssignedBy    sql.NullString `json:"assigned_by"`
}

// AssignmentFromEnrollment relabels a join row for the admin view.
func AssignmentFromEnrollment(e Enrollment) StudentAssignment {
	return StudentAssignment{
		ID:            e.ID,
		StudentUserID: e.UserID,
		CourseID:      e.CourseID,
		AssignedAt:    e.EnrolledAt,
		AssignedBy:    e.AssignedBy,
	}
}
