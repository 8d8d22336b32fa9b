package store

import (
	"context"
	"database/sql"
	"sync"

	"app/internal/model"
	"app/internal/notify"
	"app/internal/repository"
	"app/internal/session"

	"github.com/rs/zerolog"
)

// AssignmentStore is the admin-facing view of the enrollments join table. It
// relabels the same rows as student assignments and also caches the student
// profiles the assignment modal lists.
type AssignmentStore struct {
	enrollments repository.EnrollmentRepository
	profiles    repository.ProfileRepository
	notifier    notify.Notifier
	logger      zerolog.Logger

	mu              sync.RWMutex
	assignments     []model.StudentAssignment
	studentProfiles []model.Profile
	loading         bool
}

// NewAssignmentStore creates a new AssignmentStore
func NewAssignmentStore(
	enrollments repository.EnrollmentRepository,
	profiles repository.ProfileRepository,
	notifier notify.Notifier,
	logger zerolog.Logger,
) *AssignmentStore {
	return &AssignmentStore{
		enrollments: enrollments,
		profiles:    profiles,
		notifier:    notifier,
		logger:      logger.With().Str("store", "AssignmentStore").Logger(),
	}
}

// Assignments returns a snapshot of the cached list.
func (s *AssignmentStore) Assignments() []model.StudentAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StudentAssignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// StudentProfiles returns a snapshot of the cached student profile list.
func (s *AssignmentStore) StudentProfiles() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Profile, len(s.studentProfiles))
	copy(out, s.studentProfiles)
	return out
}

// Loading reports whether a refetch is in flight.
func (s *AssignmentStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Refetch replaces the cached assignment list with every current join row.
func (s *AssignmentStore) Refetch(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.enrollments.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch assignments")
		s.notifier.Error("Error fetching assignments", err.Error())
		return err
	}

	assignments := make([]model.StudentAssignment, 0, len(rows))
	for _, e := range rows {
		assignments = append(assignments, model.AssignmentFromEnrollment(e))
	}

	s.mu.Lock()
	s.assignments = assignments
	s.mu.Unlock()
	return nil
}

// RefetchStudentProfiles refreshes the cached student profile list. Failures
// are logged only; the assignment list stays usable without profiles.
func (s *AssignmentStore) RefetchStudentProfiles(ctx context.Context) error {
	profiles, err := s.profiles.ListStudentProfiles(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch student profiles")
		return err
	}

	s.mu.Lock()
	s.studentProfiles = profiles
	s.mu.Unlock()
	return nil
}

// Assign inserts a join row on the student's behalf, recording the acting
// admin in assigned_by. Duplicate pairs surface as ErrAlreadyAssigned.
func (s *AssignmentStore) Assign(ctx context.Context, sess *session.Session, studentUserID, courseID string) (*model.StudentAssignment, error) {
	if sess == nil || sess.UserID == "" {
		return nil, ErrNotAuthenticated
	}

	enrollment := model.Enrollment{
		UserID:     studentUserID,
		CourseID:   courseID,
		AssignedBy: sql.NullString{String: sess.UserID, Valid: true},
	}
	if err := s.enrollments.CreateEnrollment(ctx, &enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			s.notifier.Error("Already assigned", "This student is already assigned to the course.")
			return nil, ErrAlreadyAssigned
		}
		s.logger.Error().Err(err).Str("course_id", courseID).Str("student_user_id", studentUserID).Msg("Failed to assign course")
		s.notifier.Error("Error assigning course", err.Error())
		return nil, err
	}

	assignment := model.AssignmentFromEnrollment(enrollment)

	s.mu.Lock()
	s.assignments = prependItem(s.assignments, assignment)
	s.mu.Unlock()

	s.notifier.Success("Course assigned", "Course has been assigned to the student.")
	return &assignment, nil
}

// Unassign deletes a join row by its id, then filters it out of the list.
func (s *AssignmentStore) Unassign(ctx context.Context, assignmentID string) error {
	if err := s.enrollments.DeleteEnrollment(ctx, assignmentID); err != nil {
		s.logger.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to remove assignment")
		s.notifier.Error("Error removing assignment", err.Error())
		return err
	}

	s.mu.Lock()
	s.assignments = removeWhere(s.assignments, func(a model.StudentAssignment) bool { return a.ID == assignmentID })
	s.mu.Unlock()

	s.notifier.Success("Assignment removed", "Course assignment has been removed.")
	return nil
}

// IsAssigned is a pure scan over the cached list; no remote call.
func (s *AssignmentStore) IsAssigned(studentUserID, courseID string) bool {
	_, ok := s.AssignmentID(studentUserID, courseID)
	return ok
}

// AssignmentID looks up the join-row id for a (student, course) pair in the
// cached list.
func (s *AssignmentStore) AssignmentID(studentUserID, courseID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.StudentUserID == studentUserID && a.CourseID == courseID {
			return a.ID, true
		}
	}
	return "", false
}

func (s *AssignmentStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
