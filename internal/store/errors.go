package store

import "errors"

var (
	// ErrAlreadyEnrolled is returned when the (user, course) pair already
	// has a join row. Surfaced to the user as its own message instead of a
	// generic failure.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")

	// ErrAlreadyAssigned is the admin-side flavor of the same conflict.
	ErrAlreadyAssigned = errors.New("student is already assigned to this course")

	// ErrNotAuthenticated is returned by session-bound stores used without
	// a signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
)
