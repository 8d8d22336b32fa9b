package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// EnrollmentRepository defines the interface for the enrollments join table.
// The student-facing view and the admin-facing assignment view both go
// through this repository.
type EnrollmentRepository interface {
	// ListByUser retrieves one user's enrollments with the joined course,
	// newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error)
	// ListAll retrieves every enrollment row, newest first.
	ListAll(ctx context.Context) ([]model.Enrollment, error)
	// CreateEnrollment inserts a join row. assignedBy is nil for
	// self-service enrollment. The remote uniqueness constraint on
	// (user_id, course_id) surfaces through IsUniqueViolation.
	CreateEnrollment(ctx context.Context, e *model.Enrollment) error
	DeleteEnrollment(ctx context.Context, id string) error
	// DeleteEnrollmentForUser deletes a join row only when it belongs to
	// userID, so self-service unenroll cannot touch another user's rows.
	DeleteEnrollmentForUser(ctx context.Context, id, userID string) error
}

type enrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo creates a new EnrollmentRepository
func NewEnrollmentRepo(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

// ListByUser retrieves one user's enrollments with the joined course
func (r *enrollmentRepo) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	query := `
		SELECT e.id, e.user_id, e.course_id, e.enrolled_at, e.assigned_by,
		       c.id, c.title, COALESCE(c.description, ''), c.created_at, c.updated_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		var c model.Course
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.CourseID,
			&e.EnrolledAt,
			&e.AssignedBy,
			&c.ID,
			&c.Title,
			&c.Description,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Course = &c
		enrollments = append(enrollments, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(enrollments) == 0 {
		return []model.Enrollment{}, nil
	}

	return enrollments, nil
}

// ListAll retrieves every enrollment row for the admin assignment view
func (r *enrollmentRepo) ListAll(ctx context.Context) ([]model.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrolled_at, assigned_by
		FROM enrollments
		ORDER BY enrolled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.CourseID,
			&e.EnrolledAt,
			&e.AssignedBy,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(enrollments) == 0 {
		return []model.Enrollment{}, nil
	}

	return enrollments, nil
}

// CreateEnrollment inserts a join row and fills in the server-assigned fields
func (r *enrollmentRepo) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (user_id, course_id, assigned_by)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, course_id, enrolled_at, assigned_by
	`
	return r.db.QueryRowContext(ctx, query, e.UserID, e.CourseID, e.AssignedBy).
		Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt, &e.AssignedBy)
}

// DeleteEnrollment deletes a join row by its ID
func (r *enrollmentRepo) DeleteEnrollment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	return err
}

// DeleteEnrollmentForUser deletes a join row by its ID, scoped to its owner.
// Deleting a row that is absent or owned by someone else is a no-op.
func (r *enrollmentRepo) DeleteEnrollmentForUser(ctx context.Context, id, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
