package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// ContentRepository defines the interface for course content rows
type ContentRepository interface {
	// ListByCourse retrieves a course's contents, newest first.
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error)
	CreateContent(ctx context.Context, c *model.CourseContent) error
	DeleteContent(ctx context.Context, id string) error
	// DeleteByCourse removes every content row owned by a course, returning
	// the removed rows so callers can clean up their stored objects.
	DeleteByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error)
}

type contentRepo struct {
	db *sql.DB
}

// NewContentRepo creates a new ContentRepository
func NewContentRepo(db *sql.DB) ContentRepository {
	return &contentRepo{db: db}
}

// ListByCourse retrieves a course's contents, newest first
func (r *contentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error) {
	query := `
		SELECT id, course_id, content_type, title, file_url, file_name, created_at, updated_at
		FROM course_contents
		WHERE course_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contents, err := scanContents(rows)
	if err != nil {
		return nil, err
	}
	return contents, nil
}

// CreateContent inserts a content row and fills in the server-assigned fields
func (r *contentRepo) CreateContent(ctx context.Context, c *model.CourseContent) error {
	query := `
		INSERT INTO course_contents (course_id, content_type, title, file_url, file_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, course_id, content_type, title, file_url, file_name, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.CourseID, c.ContentType, c.Title, c.FileURL, c.FileName).
		Scan(&c.ID, &c.CourseID, &c.ContentType, &c.Title, &c.FileURL, &c.FileName, &c.CreatedAt, &c.UpdatedAt)
}

// DeleteContent deletes a content row by its ID
func (r *contentRepo) DeleteContent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM course_contents WHERE id = $1`, id)
	return err
}

// DeleteByCourse removes every content row owned by a course
func (r *contentRepo) DeleteByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error) {
	query := `
		DELETE FROM course_contents
		WHERE course_id = $1
		RETURNING id, course_id, content_type, title, file_url, file_name, created_at, updated_at
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contents, err := scanContents(rows)
	if err != nil {
		return nil, err
	}
	return contents, nil
}

func scanContents(rows *sql.Rows) ([]model.CourseContent, error) {
	var contents []model.CourseContent
	for rows.Next() {
		var c model.CourseContent
		if err := rows.Scan(
			&c.ID,
			&c.CourseID,
			&c.ContentType,
			&c.Title,
			&c.FileURL,
			&c.FileName,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(contents) == 0 {
		return []model.CourseContent{}, nil
	}

	return contents, nil
}
