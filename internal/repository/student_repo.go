package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"
)

// StudentUpdate carries the partial fields of a student update. Nil fields
// are left unchanged.
type StudentUpdate struct {
	Name *string
	Age  *int
	City *string
}

// StudentRepository defines the interface for interacting with student records
type StudentRepository interface {
	ListStudents(ctx context.Context) ([]model.Student, error)
	CreateStudent(ctx context.Context, s *model.Student) error
	UpdateStudent(ctx context.Context, id string, upd StudentUpdate) (*model.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	// GetStudentByUserID retrieves the student row linked to an auth user,
	// or nil if none exists.
	GetStudentByUserID(ctx context.Context, userID string) (*model.Student, error)
}

type studentRepo struct {
	db *sql.DB
}

// NewStudentRepo creates a new StudentRepository
func NewStudentRepo(db *sql.DB) StudentRepository {
	return &studentRepo{db: db}
}

// ListStudents retrieves all student records, newest first
func (r *studentRepo) ListStudents(ctx context.Context) ([]model.Student, error) {
	query := `
		SELECT id, user_id, name, age, city, created_at, updated_at
		FROM students
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Age,
			&s.City,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	// If no students found, return an empty slice, not nil
	if len(students) == 0 {
		return []model.Student{}, nil
	}

	return students, nil
}

// CreateStudent inserts a new student and fills in the server-assigned fields
func (r *studentRepo) CreateStudent(ctx context.Context, s *model.Student) error {
	query := `
		INSERT INTO students (user_id, name, age, city)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, age, city, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, s.UserID, s.Name, s.Age, s.City).
		Scan(&s.ID, &s.UserID, &s.Name, &s.Age, &s.City, &s.CreatedAt, &s.UpdatedAt)
}

// UpdateStudent applies the non-nil fields of upd and returns the canonical row
func (r *studentRepo) UpdateStudent(ctx context.Context, id string, upd StudentUpdate) (*model.Student, error) {
	query := `
		UPDATE students
		SET name = COALESCE($1, name),
		    age = COALESCE($2, age),
		    city = COALESCE($3, city),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING id, user_id, name, age, city, created_at, updated_at
	`
	var s model.Student
	err := r.db.QueryRowContext(ctx, query, upd.Name, upd.Age, upd.City, id).Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Age,
		&s.City,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DeleteStudent deletes a student record by its ID
func (r *studentRepo) DeleteStudent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// GetStudentByUserID retrieves the student row linked to an auth user
func (r *studentRepo) GetStudentByUserID(ctx context.Context, userID string) (*model.Student, error) {
	query := `
		SELECT id, user_id, name, age, city, created_at, updated_at
		FROM students
		WHERE user_id = $1
	`
	var s model.Student
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Age,
		&s.City,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
