package model

import "time"

// ContentType classifies what kind of file a course content points to.
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeNotes ContentType = "notes"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	return t == ContentTypeVideo || t == ContentTypeNotes
}

// CourseContent is a course-owned pointer to a file in object storage.
// The row stores only the public URL and display metadata; the bytes live
// in the bucket selected by ContentType.
type CourseContent struct {
	ID          string      `db:"id" json:"id"`
	CourseID    string      `db:"course_id" json:"course_id"`
	ContentType ContentType `db:"content_type" json:"content_type"`
	Title       string      `db:"title" json:"title"`
	FileURL     string      `db:"file_url" json:"file_url"`
	FileName    string      `db:"file_name" json:"file_name"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
