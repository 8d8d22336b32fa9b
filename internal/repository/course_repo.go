package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"
)

// CourseUpdate carries the partial fields of a course update. Nil fields
// are left unchanged.
type CourseUpdate struct {
	Title       *string
	Description *string
}

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID retrieves a course by its ID, or nil if none exists
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	UpdateCourse(ctx context.Context, courseID string, upd CourseUpdate) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

// ListCourses retrieves the full course catalog, newest first
func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	query := `
		SELECT id, title, COALESCE(description, ''), created_at, updated_at
		FROM courses
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	// If no courses found, return an empty slice, not nil
	if len(courses) == 0 {
		return []model.Course{}, nil
	}

	return courses, nil
}

// CreateCourse inserts a new course and fills in the server-assigned fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (title, description)
		VALUES ($1, NULLIF($2, ''))
		RETURNING id, title, COALESCE(description, ''), created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.Title, c.Description).
		Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `
		SELECT id, title, COALESCE(description, ''), created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var c model.Course
	err := r.db.QueryRowContext(ctx, query, courseID).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// UpdateCourse applies the non-nil fields of upd and returns the canonical row
func (r *courseRepo) UpdateCourse(ctx context.Context, courseID string, upd CourseUpdate) (*model.Course, error) {
	query := `
		UPDATE courses
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, title, COALESCE(description, ''), created_at, updated_at
	`
	var c model.Course
	err := r.db.QueryRowContext(ctx, query, upd.Title, upd.Description, courseID).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// DeleteCourse deletes a course by its ID
func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	return err
}
