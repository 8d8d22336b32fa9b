package store

import (
	"context"
	"fmt"
	"sync"

	"app/internal/model"
	"app/internal/notify"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// StudentStore owns the cached list of student records the admin views work
// against.
type StudentStore struct {
	repo     repository.StudentRepository
	notifier notify.Notifier
	logger   zerolog.Logger

	mu       sync.RWMutex
	students []model.Student
	loading  bool
}

// NewStudentStore creates a new StudentStore
func NewStudentStore(repo repository.StudentRepository, notifier notify.Notifier, logger zerolog.Logger) *StudentStore {
	return &StudentStore{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With().Str("store", "StudentStore").Logger(),
	}
}

// Students returns a snapshot of the cached list.
func (s *StudentStore) Students() []model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Student, len(s.students))
	copy(out, s.students)
	return out
}

// Loading reports whether a refetch is in flight.
func (s *StudentStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Refetch replaces the cached list with the current remote state. On failure
// the list is left untouched.
func (s *StudentStore) Refetch(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch students")
		s.notifier.Error("Error fetching students", err.Error())
		return err
	}

	s.mu.Lock()
	s.students = students
	s.mu.Unlock()
	return nil
}

// Create inserts a student record and prepends the canonical returned row.
func (s *StudentStore) Create(ctx context.Context, student model.Student) (*model.Student, error) {
	if err := s.repo.CreateStudent(ctx, &student); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create student")
		s.notifier.Error("Error creating student", err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.students = prependItem(s.students, student)
	s.mu.Unlock()

	s.notifier.Success("Student created", fmt.Sprintf("%s has been added successfully.", student.Name))
	return &student, nil
}

// Update applies partial fields and replaces the matching cached item with
// the canonical returned row.
func (s *StudentStore) Update(ctx context.Context, id string, upd repository.StudentUpdate) (*model.Student, error) {
	updated, err := s.repo.UpdateStudent(ctx, id, upd)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", id).Msg("Failed to update student")
		s.notifier.Error("Error updating student", err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.students = replaceWhere(s.students, func(st model.Student) bool { return st.ID == id }, *updated)
	s.mu.Unlock()

	s.notifier.Success("Student updated", "Student information has been updated successfully.")
	return updated, nil
}

// Delete removes a student remotely, then filters it out of the cached list.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("student_id", id).Msg("Failed to delete student")
		s.notifier.Error("Error deleting student", err.Error())
		return err
	}

	s.mu.Lock()
	s.students = removeWhere(s.students, func(st model.Student) bool { return st.ID == id })
	s.mu.Unlock()

	s.notifier.Success("Student deleted", "Student has been removed successfully.")
	return nil
}

func (s *StudentStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
