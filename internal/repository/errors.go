package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrStudentNotFound is returned when an update targets a missing student.
	ErrStudentNotFound = errors.New("student not found")
	// ErrCourseNotFound is returned when an update targets a missing course.
	ErrCourseNotFound = errors.New("course not found")
)

// Postgres error code for a unique constraint violation.
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, such as a duplicate (user, course) enrollment.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
